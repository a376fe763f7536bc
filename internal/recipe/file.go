package recipe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// recipeFile is the on-disk YAML layout.
type recipeFile struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Servings    int              `yaml:"servings"`
	Tags        []string         `yaml:"tags"`
	Ingredients []ingredientFile `yaml:"ingredients"`
	Steps       []stepFile       `yaml:"steps"`
}

// ingredientFile is either a free-text line or a structured ingredient.
type ingredientFile struct {
	Line              string `yaml:"line"`
	domain.Ingredient `yaml:",inline"`
}

// stepFile accepts a bare string or a mapping with a duration.
type stepFile struct {
	Instruction string        `yaml:"instruction"`
	Duration    time.Duration `yaml:"duration"`
}

func (s *stepFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Instruction = node.Value
		return nil
	}
	type plain stepFile
	return node.Decode((*plain)(s))
}

// ParseFile decodes one YAML recipe. Ingredient lines go through parser.
// A recipe without an id takes fallbackID.
func ParseFile(r io.Reader, parser domain.IngredientParser, fallbackID string) (*domain.Recipe, error) {
	var f recipeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}

	rec := &domain.Recipe{
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Servings:    f.Servings,
		Tags:        f.Tags,
		Version:     1,
	}
	if rec.ID == "" {
		rec.ID = fallbackID
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("recipe %q: missing name", rec.ID)
	}
	if rec.Servings <= 0 {
		rec.Servings = 1
	}

	for i, in := range f.Ingredients {
		if in.Line != "" {
			if in.Name != "" || in.Quantity != nil || in.Unit != "" {
				return nil, fmt.Errorf("recipe %q ingredient %d: use either line or name/quantity/unit", rec.ID, i+1)
			}
			ing, err := parser.ParseLine(in.Line)
			if err != nil {
				return nil, fmt.Errorf("recipe %q ingredient %d: %w", rec.ID, i+1, err)
			}
			if in.Optional {
				ing.Optional = true
			}
			rec.Ingredients = append(rec.Ingredients, ing)
			continue
		}
		ing := in.Ingredient
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			return nil, fmt.Errorf("recipe %q ingredient %d: missing name", rec.ID, i+1)
		}
		if ing.Quantity != nil && *ing.Quantity < 0 {
			return nil, fmt.Errorf("recipe %q ingredient %d: %w", rec.ID, i+1, domain.ErrInvalidQuantity)
		}
		rec.Ingredients = append(rec.Ingredients, ing)
	}

	for i, s := range f.Steps {
		rec.Steps = append(rec.Steps, domain.Step{
			Order:       i + 1,
			Instruction: strings.TrimSpace(s.Instruction),
			Duration:    s.Duration,
		})
	}
	return rec, nil
}

// LoadDir reads every *.yaml and *.yml file in dir into a new source.
// Files are read in name order; a duplicate id is an error.
func LoadDir(ctx context.Context, dir string, parser domain.IngredientParser, log *logger.Logger) (*MemorySource, error) {
	src := NewEmptySource(log)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read recipe dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := loadFile(filepath.Join(dir, name), parser)
		if err != nil {
			return nil, err
		}
		if err := src.Add(ctx, rec); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	src.log.Info("loaded %d recipes from %s", len(names), dir)
	return src, nil
}

func loadFile(path string, parser domain.IngredientParser) (*domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe: %w", err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rec, err := ParseFile(f, parser, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rec, nil
}
