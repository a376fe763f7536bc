// Package display renders ingredient lines, recipes and tables for the
// terminal. Styling goes through lipgloss, which drops colors on its own
// when output is not a terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	quantityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text: notes, converted-from amounts, metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	optionalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)

// Line renders one ingredient line: "2 cups flour, sifted (from 250 g)".
func Line(l domain.DisplayLine) string {
	var parts []string
	if l.QuantityText != "" {
		parts = append(parts, quantityStyle.Render(l.QuantityText))
	}
	if l.Unit != "" {
		parts = append(parts, unitStyle.Render(l.Unit))
	}
	parts = append(parts, primaryStyle.Render(l.IngredientName))

	out := strings.Join(parts, " ")
	if l.Note != "" {
		out += secondaryStyle.Render(", " + l.Note)
	}
	if l.Optional {
		out += " " + optionalStyle.Render("(optional)")
	}
	if l.OriginalText != nil {
		out += " " + secondaryStyle.Render("(from "+*l.OriginalText+")")
	}
	return out
}

// Recipe writes a recipe view: title, servings, ingredients and steps.
func Recipe(w io.Writer, view *engine.RecipeView) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(view.Name))
	b.WriteByte('\n')
	if view.Description != "" {
		b.WriteString(secondaryStyle.Render(view.Description))
		b.WriteByte('\n')
	}

	meta := fmt.Sprintf("%d servings", view.Servings)
	if view.Servings != view.BaseServings {
		meta += fmt.Sprintf(" (recipe makes %d, x%s)", view.BaseServings, quantity.Format(view.Multiplier))
	}
	if view.Target != domain.TargetOriginal.String() {
		meta += ", " + view.Target
	}
	b.WriteString(secondaryStyle.Render(meta))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Ingredients"))
	b.WriteByte('\n')
	for _, l := range view.Ingredients {
		b.WriteString("  • ")
		b.WriteString(Line(l))
		b.WriteByte('\n')
	}

	if len(view.Steps) > 0 {
		b.WriteByte('\n')
		b.WriteString(titleStyle.Render("Steps"))
		b.WriteByte('\n')
		for _, s := range view.Steps {
			b.WriteString(fmt.Sprintf("  %d. %s", s.Order, primaryStyle.Render(s.Instruction)))
			if s.Duration > 0 {
				b.WriteString(" " + secondaryStyle.Render("["+s.Duration.String()+"]"))
			}
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Error formats an error message for the terminal.
func Error(err error) string {
	return urgentStyle.Render("error: " + err.Error())
}
