// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
// Recipes are copied on the way in and on the way out.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptySource(log)
	src.seed()
	return src
}

// NewEmptySource creates a recipe source with no recipes.
func NewEmptySource(log *logger.Logger) *MemorySource {
	if log == nil {
		log = logger.Nop()
	}
	return &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// Add inserts a new recipe. The ID must not be taken.
func (s *MemorySource) Add(ctx context.Context, recipe *domain.Recipe) error {
	if recipe == nil || strings.TrimSpace(recipe.ID) == "" {
		return fmt.Errorf("add recipe: missing id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return fmt.Errorf("add recipe %q: %w", recipe.ID, domain.ErrAlreadyExists)
	}
	stored := recipe.Clone()
	if stored.Version == 0 {
		stored.Version = 1
	}
	s.recipes[stored.ID] = stored
	s.log.Debug("added recipe %s", stored.ID)
	return nil
}

// List returns summaries of all available recipes.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a copy of the recipe with the given ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

// Update replaces a recipe in the source. The recipe ID must already exist.
// The stored version is bumped and written back to recipe.
func (s *MemorySource) Update(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recipes[recipe.ID]
	if !ok {
		return domain.ErrNotFound
	}
	recipe.Version = prev.Version + 1
	s.recipes[recipe.ID] = recipe.Clone()
	s.log.Info("recipe updated: %s (v%d)", recipe.Name, recipe.Version)
	return nil
}

// Search returns recipes whose name, description, tags or ingredient names
// contain the query string.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			out = append(out, r.Summary())
		}
	}
	sortSummaries(out)
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}
	return false
}

func sortSummaries(out []domain.RecipeSummary) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.Recipe{
		buttermilkPancakes(),
		chickenAlfredo(),
		vegetableStirFry(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

var qty = domain.Qty

func buttermilkPancakes() *domain.Recipe {
	return &domain.Recipe{
		ID:          "buttermilk-pancakes",
		Name:        "Buttermilk Pancakes",
		Description: "Tall, fluffy pancakes. Mix the batter just until combined; lumps are fine.",
		Servings:    4,
		Tags:        []string{"breakfast", "baking", "vegetarian"},
		Ingredients: []domain.Ingredient{
			{Name: "all-purpose flour", Quantity: qty(2), Unit: "cups", Note: "sifted"},
			{Name: "sugar", Quantity: qty(2), Unit: "T"},
			{Name: "baking powder", Quantity: qty(2), Unit: "t"},
			{Name: "baking soda", Quantity: qty(0.5), Unit: "t"},
			{Name: "salt", Quantity: qty(0.5), Unit: "tsp"},
			{Name: "buttermilk", Quantity: qty(2), Unit: "cups"},
			{Name: "eggs", Quantity: qty(2), Unit: "pieces", SizeDescriptor: "large"},
			{Name: "unsalted butter", Quantity: qty(4), Unit: "tablespoons", Note: "melted"},
			{Name: "maple syrup", Note: "to serve", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Whisk the flour, sugar, baking powder, baking soda and salt in a large bowl."},
			{Order: 2, Instruction: "Whisk the buttermilk, eggs and melted butter in a second bowl, then pour into the dry ingredients and fold until just combined."},
			{Order: 3, Instruction: "Rest the batter while the griddle heats to 375°F.", Duration: 5 * time.Minute},
			{Order: 4, Instruction: "Pour 1/4 cup of batter per pancake. Flip when bubbles form on top and the edges look set.", Duration: 4 * time.Minute},
		},
		Version: 1,
	}
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		Name:        "Chicken Alfredo",
		Description: "Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.",
		Servings:    2,
		Tags:        []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients: []domain.Ingredient{
			{Name: "spaghetti", Quantity: qty(250), Unit: "grams"},
			{Name: "chicken breast", Quantity: qty(2), Unit: "pieces", SizeDescriptor: "medium"},
			{Name: "creme fraiche", Quantity: qty(1), Unit: "cup"},
			{Name: "gruyere cheese", Quantity: qty(1), Unit: "cup", Note: "grated"},
			{Name: "margarine", Quantity: qty(3), Unit: "tablespoons"},
			{Name: "garlic", Quantity: qty(4), Unit: "cloves", SizeDescriptor: "medium"},
			{Name: "olive oil", Quantity: qty(1), Unit: "tablespoon"},
			{Name: "salt", Note: "to taste"},
			{Name: "black pepper", Note: "to taste"},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Bring a large pot of salted water to a boil for the pasta.", Duration: 8 * time.Minute},
			{Order: 2, Instruction: "Season the chicken breasts with salt and pepper on both sides and pound them to even thickness."},
			{Order: 3, Instruction: "Sear the chicken in olive oil over medium-high heat until the inside reaches 165°F. Set aside to rest.", Duration: 12 * time.Minute},
			{Order: 4, Instruction: "Cook the spaghetti until al dente. Reserve a cup of pasta water before draining.", Duration: 10 * time.Minute},
			{Order: 5, Instruction: "Melt the margarine in the same skillet and cook the garlic until fragrant.", Duration: time.Minute},
			{Order: 6, Instruction: "Stir in the creme fraiche and simmer until it coats the back of a spoon.", Duration: 3 * time.Minute},
			{Order: 7, Instruction: "Off the heat, stir in the gruyere. Loosen with pasta water, toss with the pasta and top with sliced chicken."},
		},
		Version: 1,
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:          "vegetable-stir-fry",
		Name:        "Vegetable Stir Fry",
		Description: "Fast, crunchy, and customizable. The key is a screaming hot pan and not overcrowding it.",
		Servings:    2,
		Tags:        []string{"asian", "vegetables", "quick", "vegan", "healthy"},
		Ingredients: []domain.Ingredient{
			{Name: "bell pepper", Quantity: qty(1), Unit: "pieces", SizeDescriptor: "large"},
			{Name: "broccoli florets", Quantity: qty(2), Unit: "cups"},
			{Name: "carrot", Quantity: qty(1), Unit: "pieces", SizeDescriptor: "medium"},
			{Name: "snap peas", Quantity: qty(1), Unit: "cup"},
			{Name: "garlic", Quantity: qty(3), Unit: "cloves", SizeDescriptor: "medium"},
			{Name: "fresh ginger", Quantity: qty(1), Unit: "tablespoon", Note: "grated"},
			{Name: "soy sauce", Quantity: qty(2), Unit: "tablespoons"},
			{Name: "sesame oil", Quantity: qty(1), Unit: "tablespoon"},
			{Name: "vegetable oil", Quantity: qty(2), Unit: "tablespoons"},
			{Name: "cornstarch", Quantity: qty(1), Unit: "teaspoon", Optional: true},
			{Name: "rice", Quantity: qty(1), Unit: "cup", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "If serving with rice, start the rice first."},
			{Order: 2, Instruction: "Prep all vegetables, mince the garlic and grate the ginger before the pan goes on."},
			{Order: 3, Instruction: "Mix the soy sauce, sesame oil and cornstarch with 2 tablespoons of water."},
			{Order: 4, Instruction: "Heat the wok on high until it just smokes, then add the vegetable oil."},
			{Order: 5, Instruction: "Stir-fry broccoli and carrot for 2 minutes, then the pepper and snap peas for 2 more.", Duration: 4 * time.Minute},
			{Order: 6, Instruction: "Push the vegetables aside, fry the garlic and ginger for 30 seconds, then toss everything with the sauce.", Duration: 30 * time.Second},
		},
		Version: 1,
	}
}
