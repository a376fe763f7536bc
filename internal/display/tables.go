package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/shopping"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if w, ok := terminalWidth(); ok {
		tw.SetAllowedRowLength(w)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// UnitsTable lists registered units with their base factors.
func UnitsTable(defs []units.Definition) string {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		factor := "-"
		if d.Category.Convertible() {
			factor = strconv.FormatFloat(d.ToBase, 'f', -1, 64) + " " + baseUnit(d.Category)
		}
		rows = append(rows, []string{d.Name, d.Category.String(), d.System.String(), factor, strings.Join(d.Aliases, ", ")})
	}
	return renderTable(
		[]string{"Unit", "Category", "System", "Base", "Aliases"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// RecipesTable lists recipe summaries.
func RecipesTable(recipes []domain.RecipeSummary) string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{r.ID, r.Name, strconv.Itoa(r.Servings), strings.Join(r.Tags, ", ")})
	}
	return renderTable(
		[]string{"ID", "Name", "Serves", "Tags"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// DensityTable lists density catalog entries.
func DensityTable(entries []domain.DensityEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		grams := "-"
		if e.GramsPerCup > 0 {
			grams = quantity.Format(e.GramsPerCup)
		}
		kind := "wet"
		if e.Dry {
			kind = "dry"
		}
		rows = append(rows, []string{e.Name, grams, kind, strings.Join(e.Aliases, ", ")})
	}
	return renderTable(
		[]string{"Ingredient", "g/cup", "Kind", "Aliases"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	)
}

// ShoppingTable lists aggregated shopping items.
func ShoppingTable(items []shopping.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		amount := ""
		if it.Quantity != nil {
			amount = strings.TrimSpace(quantity.Format(*it.Quantity) + " " + it.Unit)
		}
		name := it.Name
		if it.Optional {
			name += " (optional)"
		}
		rows = append(rows, []string{amount, name, strings.Join(it.Recipes, ", ")})
	}
	return renderTable(
		[]string{"Amount", "Item", "For"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	)
}

// ConversionLine describes a single conversion result.
func ConversionLine(amount float64, from string, res domain.ConversionResult) string {
	src := quantity.Format(amount) + " " + from
	dst := quantity.Format(res.Amount) + " " + res.Unit
	if !res.Converted {
		return fmt.Sprintf("%s %s", quantityStyle.Render(dst), secondaryStyle.Render("(unchanged)"))
	}
	return fmt.Sprintf("%s = %s", src, quantityStyle.Render(dst))
}

func baseUnit(c domain.Category) string {
	if c == domain.CategoryWeight {
		return units.BaseWeight
	}
	return units.BaseVolume
}
