package density

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

//go:embed catalog.toml
var defaultCatalog string

var (
	defaultEntries = mustParse(defaultCatalog)
	defaultTable   = sync.OnceValue(func() *Table { return MustTable(defaultEntries) })
)

type catalogFile struct {
	Ingredients []domain.DensityEntry `toml:"ingredient"`
}

func mustParse(src string) []domain.DensityEntry {
	entries, err := ParseCatalog(strings.NewReader(src))
	if err != nil {
		panic(fmt.Sprintf("embedded density catalog: %v", err))
	}
	return entries
}

// DefaultCatalog returns a copy of the built-in catalog.
func DefaultCatalog() []domain.DensityEntry {
	out := make([]domain.DensityEntry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// Default returns the shared resolver over the built-in catalog.
func Default() *Table {
	return defaultTable()
}

// ParseCatalog decodes a TOML catalog made of [[ingredient]] tables.
func ParseCatalog(r io.Reader) ([]domain.DensityEntry, error) {
	var file catalogFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse density catalog: %w", err)
	}
	for i := range file.Ingredients {
		e := &file.Ingredients[i]
		e.Name = strings.TrimSpace(e.Name)
		if err := Validate(*e); err != nil {
			return nil, err
		}
	}
	return file.Ingredients, nil
}

// LoadCatalogFile reads a TOML catalog from disk.
func LoadCatalogFile(path string) ([]domain.DensityEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open density catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// EncodeCatalog writes entries in the same TOML layout ParseCatalog reads.
func EncodeCatalog(w io.Writer, entries []domain.DensityEntry) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(catalogFile{Ingredients: entries}); err != nil {
		return fmt.Errorf("encode density catalog: %w", err)
	}
	return nil
}

// FromStore builds a resolver over everything in store.
func FromStore(ctx context.Context, store domain.DensityStore) (*Table, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load densities: %w", err)
	}
	return NewTable(entries)
}
