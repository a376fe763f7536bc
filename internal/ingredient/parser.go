// Package ingredient parses free-text ingredient lines such as
// "1 1/2 cups all-purpose flour, sifted" into structured ingredients.
package ingredient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// Compile-time interface check.
var _ domain.IngredientParser = (*LineParser)(nil)

var (
	amountPattern = `\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?|\.\d+`
	quantityRe    = regexp.MustCompile(`^(` + amountPattern + `)(?:\s*(?:-|–|to)\s*(` + amountPattern + `))?`)
	parenRe       = regexp.MustCompile(`\(([^()]*)\)`)
	optionalRe    = regexp.MustCompile(`(?i)(?:,\s*|\s+)(?:optional|if desired)\s*$`)
	bulletRe      = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

// vulgar maps unicode fraction characters to plain fractions.
var vulgar = map[rune]string{
	'½': "1/2", '⅓': "1/3", '⅔': "2/3", '¼': "1/4", '¾': "3/4",
	'⅛': "1/8", '⅜': "3/8", '⅝': "5/8", '⅞': "7/8", '⅕': "1/5",
}

var sizeWords = map[string]bool{
	"small": true, "medium": true, "large": true, "extra-large": true,
	"heaping": true, "heaped": true, "level": true, "scant": true,
	"generous": true, "rounded": true,
}

// LineParser turns ingredient lines into domain ingredients. It keeps the
// unit exactly as written so conversion can happen at display time.
type LineParser struct {
	log *logger.Logger
}

// NewLineParser creates an ingredient line parser.
func NewLineParser(log *logger.Logger) *LineParser {
	if log == nil {
		log = logger.Nop()
	}
	return &LineParser{log: log}
}

// ParseLine parses one line with a quiet logger.
func ParseLine(line string) (domain.Ingredient, error) {
	return NewLineParser(nil).ParseLine(line)
}

// ParseLine converts a line into an ingredient. Lines that do not start
// with a number get a nil quantity: "salt, to taste".
func (p *LineParser) ParseLine(line string) (domain.Ingredient, error) {
	text := bulletRe.ReplaceAllString(strings.TrimSpace(line), "")
	text = strings.TrimSpace(expandVulgar(text))
	if text == "" {
		return domain.Ingredient{}, domain.ErrEmptyLine
	}
	p.log.Debug("parsing ingredient line: %q", text)

	var ing domain.Ingredient
	var notes []string

	if optionalRe.MatchString(text) {
		ing.Optional = true
		text = optionalRe.ReplaceAllString(text, "")
	}

	for _, m := range parenRe.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		switch {
		case strings.EqualFold(inner, "optional"):
			ing.Optional = true
		case inner != "":
			notes = append(notes, inner)
		}
	}
	text = strings.Join(strings.Fields(parenRe.ReplaceAllString(text, " ")), " ")

	if m := quantityRe.FindStringSubmatch(text); m != nil {
		low, err := parseAmount(m[1])
		if err != nil {
			return domain.Ingredient{}, fmt.Errorf("parse %q: %w", line, err)
		}
		ing.Quantity = domain.Qty(low)
		if m[2] != "" {
			if _, err := parseAmount(m[2]); err != nil {
				return domain.Ingredient{}, fmt.Errorf("parse %q: %w", line, err)
			}
			notes = append([]string{m[1] + "-" + m[2]}, notes...)
		}
		text = strings.TrimSpace(text[len(m[0]):])
	} else if rest, ok := cutArticle(text); ok {
		ing.Quantity = domain.Qty(1)
		text = rest
	}

	fields := strings.Fields(text)
	if len(fields) > 0 && sizeWords[strings.ToLower(fields[0])] {
		ing.SizeDescriptor = strings.ToLower(fields[0])
		fields = fields[1:]
	}
	if ing.Quantity != nil {
		if unit, n := matchUnit(fields); n > 0 {
			ing.Unit = unit
			fields = fields[n:]
		}
	}
	if len(fields) > 0 && strings.EqualFold(fields[0], "of") && ing.Unit != "" {
		fields = fields[1:]
	}

	name := strings.Join(fields, " ")
	if before, after, found := strings.Cut(name, ","); found {
		name = before
		if n := strings.TrimSpace(after); n != "" {
			notes = append(notes, n)
		}
	}
	ing.Name = strings.TrimSpace(name)
	if ing.Name == "" {
		return domain.Ingredient{}, fmt.Errorf("%w: %q has no ingredient name", domain.ErrEmptyLine, line)
	}
	ing.Note = strings.Join(notes, ", ")
	return ing, nil
}

// ParseLines parses every non-blank line, stopping at the first error.
func (p *LineParser) ParseLines(lines []string) ([]domain.Ingredient, error) {
	out := make([]domain.Ingredient, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ing, err := p.ParseLine(l)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

// matchUnit tries a two-word unit ("fl oz") before a one-word unit. It
// returns the unit as written and how many fields it used.
func matchUnit(fields []string) (string, int) {
	for n := 2; n >= 1; n-- {
		if len(fields) < n {
			continue
		}
		raw := strings.Join(fields[:n], " ")
		raw = strings.TrimRight(raw, ",")
		if _, ok := units.Normalize(raw); ok {
			return raw, n
		}
		if trimmed := strings.TrimSuffix(raw, "."); trimmed != raw {
			if _, ok := units.Normalize(trimmed); ok {
				return trimmed, n
			}
		}
	}
	return "", 0
}

// cutArticle reads "a pinch of salt" or "an ounce of cheese" as one unit.
func cutArticle(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", false
	}
	if a := strings.ToLower(fields[0]); a != "a" && a != "an" {
		return "", false
	}
	if _, n := matchUnit(fields[1:]); n == 0 {
		return "", false
	}
	return strings.Join(fields[1:], " "), true
}

// ParseAmount reads a standalone amount: "2", "0.75", "1/2", "1 1/2" or "1½".
func ParseAmount(s string) (float64, error) {
	return parseAmount(expandVulgar(s))
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	var whole float64
	if head, frac, found := strings.Cut(s, " "); found {
		w, err := strconv.ParseFloat(head, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, s)
		}
		whole = w
		s = strings.TrimSpace(frac)
	}
	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, s)
		}
		return whole + n/d, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, s)
	}
	return whole + v, nil
}

// expandVulgar rewrites "1½" as "1 1/2" and "½" as "1/2".
func expandVulgar(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if frac, ok := vulgar[r]; ok {
			if prev >= '0' && prev <= '9' {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
