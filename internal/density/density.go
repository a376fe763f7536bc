// Package density resolves ingredient names to densities so volumes of dry
// goods can be shown by weight.
//
// A Table is built once from catalog entries and is read-only afterwards.
// Matching is exact first (name or alias), then the longest catalog name
// that appears as whole words inside the ingredient text, so
// "all-purpose flour, sifted" and "2 cups of flour" both find flour.
package density

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.DensityResolver = (*Table)(nil)
	_ domain.DensityResolver = Declining{}
)

// Table is an immutable density resolver.
type Table struct {
	entries []domain.DensityEntry
	exact   map[string]int // match key -> entry index
	byLen   []phrase       // every key, longest first
}

type phrase struct {
	key   string
	entry int
}

// NewTable indexes entries. Names and aliases must be unique across the
// catalog and every dry entry needs a positive density.
func NewTable(entries []domain.DensityEntry) (*Table, error) {
	t := &Table{
		entries: make([]domain.DensityEntry, len(entries)),
		exact:   make(map[string]int),
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if err := Validate(e); err != nil {
			return nil, err
		}
		for _, name := range append([]string{e.Name}, e.Aliases...) {
			k := matchKey(name)
			if k == "" {
				continue
			}
			if prev, taken := t.exact[k]; taken && prev != i {
				return nil, fmt.Errorf("density catalog: %q listed under both %q and %q", name, t.entries[prev].Name, e.Name)
			}
			if _, taken := t.exact[k]; !taken {
				t.exact[k] = i
				t.byLen = append(t.byLen, phrase{key: k, entry: i})
			}
		}
	}

	sort.SliceStable(t.byLen, func(i, j int) bool {
		return len(t.byLen[i].key) > len(t.byLen[j].key)
	})
	return t, nil
}

// MustTable is NewTable for catalogs known to be valid.
func MustTable(entries []domain.DensityEntry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks a single catalog entry.
func Validate(e domain.DensityEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("density catalog: entry without a name")
	}
	if e.GramsPerCup < 0 {
		return fmt.Errorf("density catalog: %q has negative grams_per_cup", e.Name)
	}
	if e.Dry && e.GramsPerCup == 0 {
		return fmt.Errorf("density catalog: dry entry %q needs grams_per_cup", e.Name)
	}
	return nil
}

// Resolve implements domain.DensityResolver.
func (t *Table) Resolve(ingredientName string) domain.DensityInfo {
	e, ok := t.Lookup(ingredientName)
	if !ok {
		return domain.DensityInfo{}
	}
	info := domain.DensityInfo{IsDryConvertible: e.Dry}
	if e.GramsPerCup > 0 {
		g := e.GramsPerCup
		info.GramsPerCup = &g
	}
	return info
}

// Lookup returns the catalog entry matching an ingredient name.
func (t *Table) Lookup(ingredientName string) (domain.DensityEntry, bool) {
	if t == nil {
		return domain.DensityEntry{}, false
	}
	k := matchKey(ingredientName)
	if k == "" {
		return domain.DensityEntry{}, false
	}
	if i, ok := t.exact[k]; ok {
		return t.entries[i], true
	}

	padded := " " + k + " "
	for _, p := range t.byLen {
		if strings.Contains(padded, " "+p.key+" ") || strings.Contains(padded, " "+p.key+"s ") {
			return t.entries[p.entry], true
		}
	}
	return domain.DensityEntry{}, false
}

// Entries returns a copy of the catalog, sorted by name.
func (t *Table) Entries() []domain.DensityEntry {
	out := make([]domain.DensityEntry, len(t.entries))
	copy(out, t.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of catalog entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Declining never reports a dry good. Volume always stays volume.
type Declining struct{}

// Resolve implements domain.DensityResolver.
func (Declining) Resolve(string) domain.DensityInfo {
	return domain.DensityInfo{}
}

// matchKey applies NFKC, folds case and turns punctuation into spaces:
// "All-Purpose Flour," -> "all purpose flour".
// Keys returns the match keys an entry claims: its name and every alias,
// folded the way Resolve compares them. Blank keys are skipped.
func Keys(e domain.DensityEntry) []string {
	var out []string
	for _, name := range append([]string{e.Name}, e.Aliases...) {
		if k := matchKey(name); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func matchKey(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
