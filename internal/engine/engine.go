// Package engine serves recipes for display: it scales ingredient lists to
// a serving count, converts them to the requested measurement system and
// builds shopping lists across recipes.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/ottomeasure/internal/compose"
	"github.com/hammamikhairi/ottomeasure/internal/convert"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/shopping"
)

// ErrUpdatesUnsupported is returned when the recipe source is read-only.
var ErrUpdatesUnsupported = errors.New("recipe source does not support updates")

// Option configures the engine.
type Option func(*Engine)

// WithDefaultTarget sets the system used when a caller passes
// TargetOriginal through DisplayDefault.
func WithDefaultTarget(t domain.Target) Option {
	return func(e *Engine) {
		e.defaultTarget = t
	}
}

// WithPrecision sets the decimals used for amounts below 0.1.
func WithPrecision(p int) Option {
	return func(e *Engine) {
		e.precision = p
	}
}

// Engine renders recipes. It depends only on interfaces and is fully
// testable with in-memory sources.
type Engine struct {
	recipes       domain.RecipeSource
	conv          *convert.Converter
	composer      *compose.Composer
	log           *logger.Logger
	defaultTarget domain.Target
	precision     int
}

// RecipeUpdater is an optional interface that RecipeSource implementations
// can satisfy to support in-place recipe mutations.
type RecipeUpdater interface {
	Update(ctx context.Context, recipe *domain.Recipe) error
}

// RecipeView is a recipe ready for display at a serving count.
type RecipeView struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Servings     int                  `json:"servings"`
	BaseServings int                  `json:"base_servings"`
	Multiplier   float64              `json:"multiplier"`
	Target       string               `json:"system"`
	Ingredients  []domain.DisplayLine `json:"ingredients"`
	Steps        []domain.Step        `json:"steps,omitempty"`
}

// Portion asks for a recipe at a serving count. Zero servings means the
// recipe's own count.
type Portion struct {
	RecipeID string `json:"id" validate:"required"`
	Servings int    `json:"servings" validate:"gte=0"`
}

// New creates an engine over recipes. resolver may be nil, in which case
// volumes are never shown as weights.
func New(recipes domain.RecipeSource, resolver domain.DensityResolver, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		recipes:       recipes,
		conv:          convert.New(resolver),
		log:           log,
		defaultTarget: domain.TargetOriginal,
		precision:     quantity.DefaultPrecision,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.composer = compose.New(e.conv, compose.WithPrecision(e.precision))
	return e
}

// Converter returns the ingredient-aware converter the engine uses.
func (e *Engine) Converter() *convert.Converter {
	return e.conv
}

// Composer returns the display composer the engine uses.
func (e *Engine) Composer() *compose.Composer {
	return e.composer
}

// DefaultTarget returns the configured display system.
func (e *Engine) DefaultTarget() domain.Target {
	return e.defaultTarget
}

// Precision returns the decimals used for amounts below 0.1.
func (e *Engine) Precision() int {
	return e.precision
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// SearchRecipes returns recipes matching query.
func (e *Engine) SearchRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	return e.recipes.Search(ctx, query)
}

// UpdateRecipe persists a mutated recipe. Returns ErrUpdatesUnsupported if
// the underlying RecipeSource does not support updates.
func (e *Engine) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	updater, ok := e.recipes.(RecipeUpdater)
	if !ok {
		return ErrUpdatesUnsupported
	}
	return updater.Update(ctx, recipe)
}

// DisplayRecipe renders a recipe for servings people in target. Servings
// at or below zero use the recipe's own count. Stored quantities are not
// touched.
func (e *Engine) DisplayRecipe(ctx context.Context, id string, servings int, target domain.Target) (*RecipeView, error) {
	recipe, err := e.recipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	mult := multiplier(recipe, servings)
	if servings <= 0 {
		servings = recipe.Servings
	}

	view := &RecipeView{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Description:  recipe.Description,
		Servings:     servings,
		BaseServings: recipe.Servings,
		Multiplier:   mult,
		Target:       target.String(),
		Ingredients:  e.composer.DisplayAll(recipe.Ingredients, target, mult),
		Steps:        recipe.Steps,
	}
	e.log.Debug("displaying %s for %d servings (x%g, %s)", recipe.ID, servings, mult, target)
	return view, nil
}

// DisplayDefault is DisplayRecipe in the engine's default target.
func (e *Engine) DisplayDefault(ctx context.Context, id string, servings int) (*RecipeView, error) {
	return e.DisplayRecipe(ctx, id, servings, e.defaultTarget)
}

// ScaleRecipe rewrites the stored quantities of a recipe for a new serving
// count. Name-only ingredients stay name-only.
func (e *Engine) ScaleRecipe(ctx context.Context, id string, servings int) (*domain.Recipe, error) {
	if servings <= 0 {
		return nil, fmt.Errorf("invalid servings: %d", servings)
	}
	recipe, err := e.recipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	if recipe.Servings > 0 {
		scale := float64(servings) / float64(recipe.Servings)
		for i := range recipe.Ingredients {
			if q := recipe.Ingredients[i].Quantity; q != nil {
				recipe.Ingredients[i].Quantity = domain.Qty(*q * scale)
			}
		}
	}
	recipe.Servings = servings

	if err := e.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("saving scaled recipe: %w", err)
	}
	e.log.Info("scaled recipe %s to %d servings", recipe.ID, servings)
	return recipe, nil
}

// ShoppingList merges the ingredients of several recipes.
func (e *Engine) ShoppingList(ctx context.Context, portions []Portion, target domain.Target) ([]shopping.Item, error) {
	sources := make([]shopping.Source, 0, len(portions))
	for _, p := range portions {
		recipe, err := e.recipes.Get(ctx, p.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("getting recipe %q: %w", p.RecipeID, err)
		}
		sources = append(sources, shopping.Source{
			RecipeID:    recipe.ID,
			Ingredients: recipe.Ingredients,
			Multiplier:  multiplier(recipe, p.Servings),
		})
	}
	items := shopping.Aggregate(sources, target, e.conv)
	e.log.Debug("shopping list for %d recipes has %d items", len(portions), len(items))
	return items, nil
}

func multiplier(r *domain.Recipe, servings int) float64 {
	if servings <= 0 || r.Servings <= 0 {
		return 1
	}
	return float64(servings) / float64(r.Servings)
}
