package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

type convertRequest struct {
	Amount     *float64 `json:"amount" validate:"required"`
	Unit       string   `json:"unit" validate:"required"`
	System     string   `json:"system" validate:"required"`
	Ingredient string   `json:"ingredient"`
}

type convertResponse struct {
	domain.ConversionResult
	Text string `json:"text"`
}

type formatRequest struct {
	Amount    *float64 `json:"amount" validate:"required"`
	Precision *int     `json:"precision" validate:"omitempty,gte=0,lte=6"`
}

type displayRequest struct {
	Ingredients []domain.Ingredient `json:"ingredients" validate:"dive"`
	Lines       []string            `json:"lines"`
	System      string              `json:"system"`
	Multiplier  *float64            `json:"multiplier"`
}

type displayLine struct {
	domain.DisplayLine
	Text string `json:"text"`
}

type shoppingRequest struct {
	Recipes []engine.Portion `json:"recipes" validate:"required,min=1,dive"`
	System  string           `json:"system"`
}

type unitView struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	System   string   `json:"system"`
	ToBase   float64  `json:"to_base,omitempty"`
	BaseUnit string   `json:"base_unit,omitempty"`
	Aliases  []string `json:"aliases"`
}

// Health reports liveness and the engine's display defaults.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.respondOK(w, r, map[string]any{
		"status":         "ok",
		"default_system": s.engine.DefaultTarget().String(),
		"units":          len(units.Definitions()),
	})
}

// Units lists the unit registry.
func (s *Server) Units(w http.ResponseWriter, r *http.Request) {
	defs := units.Definitions()
	out := make([]unitView, 0, len(defs))
	for _, d := range defs {
		v := unitView{
			Name:     d.Name,
			Category: d.Category.String(),
			System:   d.System.String(),
			Aliases:  d.Aliases,
		}
		switch d.Category {
		case domain.CategoryVolume:
			v.ToBase, v.BaseUnit = d.ToBase, units.BaseVolume
		case domain.CategoryWeight:
			v.ToBase, v.BaseUnit = d.ToBase, units.BaseWeight
		}
		out = append(out, v)
	}
	s.respondOK(w, r, out)
}

// Convert converts one amount into a measurement system. With an
// ingredient name, dry goods measured by volume may come back in grams.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	target, err := domain.ParseTarget(req.System)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	system, ok := target.System()
	if !ok {
		s.badRequest(w, r, "system must be metric or imperial")
		return
	}

	conv := s.engine.Converter()
	var res domain.ConversionResult
	if strings.TrimSpace(req.Ingredient) != "" {
		res = conv.ConvertWithIngredient(*req.Amount, req.Unit, system, req.Ingredient)
	} else {
		res = conv.Convert(*req.Amount, req.Unit, system)
	}
	s.respondOK(w, r, convertResponse{
		ConversionResult: res,
		Text:             strings.TrimSpace(quantity.Format(res.Amount, s.engine.Precision()) + " " + res.Unit),
	})
}

// Format renders an amount as a cook would read it.
func (s *Server) Format(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	precision := s.engine.Precision()
	if req.Precision != nil {
		precision = *req.Precision
	}
	s.respondOK(w, r, map[string]string{"text": quantity.Format(*req.Amount, precision)})
}

// Display composes display lines for an ad-hoc ingredient list, given as
// structured ingredients, free-text lines, or both.
func (s *Server) Display(w http.ResponseWriter, r *http.Request) {
	var req displayRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if len(req.Ingredients) == 0 && len(req.Lines) == 0 {
		s.badRequest(w, r, "ingredients or lines are required")
		return
	}
	target, err := s.target(req.System)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	ings := req.Ingredients
	if len(req.Lines) > 0 {
		if s.parser == nil {
			s.badRequest(w, r, "free-text lines are not supported")
			return
		}
		for i, line := range req.Lines {
			ing, err := s.parser.ParseLine(line)
			if err != nil {
				s.badRequest(w, r, fmt.Sprintf("lines[%d]: %v", i, err))
				return
			}
			ings = append(ings, ing)
		}
	}

	mult := 1.0
	if req.Multiplier != nil {
		mult = *req.Multiplier
	}
	lines := s.engine.Composer().DisplayAll(ings, target, mult)
	out := make([]displayLine, len(lines))
	for i, l := range lines {
		out[i] = displayLine{DisplayLine: l, Text: l.Text()}
	}
	s.respondOK(w, r, out)
}

// Recipes lists recipes, filtered by the q query parameter when present.
func (s *Server) Recipes(w http.ResponseWriter, r *http.Request) {
	var (
		list []domain.RecipeSummary
		err  error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		list, err = s.engine.SearchRecipes(r.Context(), q)
	} else {
		list, err = s.engine.ListRecipes(r.Context())
	}
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.RecipeSummary{}
	}
	s.respondOK(w, r, list)
}

// Recipe renders one recipe at ?servings= in ?system=.
func (s *Server) Recipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target, err := s.target(r.URL.Query().Get("system"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	servings, err := intParam(r, "servings", 0)
	if err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	view, err := s.engine.DisplayRecipe(r.Context(), id, servings, target)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

// ShoppingList merges the ingredients of several recipe portions.
func (s *Server) ShoppingList(w http.ResponseWriter, r *http.Request) {
	var req shoppingRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	target, err := s.target(req.System)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	items, err := s.engine.ShoppingList(r.Context(), req.Recipes, target)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondOK(w, r, items)
}

// target parses a system name; empty means the engine default.
func (s *Server) target(name string) (domain.Target, error) {
	if strings.TrimSpace(name) == "" {
		return s.engine.DefaultTarget(), nil
	}
	return domain.ParseTarget(name)
}
