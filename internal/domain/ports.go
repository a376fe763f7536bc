package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory (hardcoded),
// file-based, or backed by the application's recipe database.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// DensityResolver classifies an ingredient as dry (volume may be shown as
// weight) or wet, with a grams-per-cup factor for dry goods. How names are
// matched is up to the implementation. Resolve must be safe for concurrent
// use and must not block.
type DensityResolver interface {
	Resolve(ingredientName string) DensityInfo
}

// DensityStore persists the ingredient density catalog. Implementations can
// be in-memory or SQLite.
type DensityStore interface {
	Upsert(ctx context.Context, entry DensityEntry) error
	Get(ctx context.Context, name string) (*DensityEntry, error)
	List(ctx context.Context) ([]DensityEntry, error)
	Delete(ctx context.Context, name string) error
}

// IngredientParser turns a free-text ingredient line ("1 1/2 cups flour")
// into a structured ingredient.
type IngredientParser interface {
	ParseLine(line string) (Ingredient, error)
}
