package display

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

//go:embed banner.txt
var bannerRaw string

// Banner returns the banner art with a status line naming the display
// system and density source, centred in width columns. A width of zero or
// less uses the terminal width. To change the art just replace banner.txt.
func Banner(width int, target domain.Target, densitySource string) string {
	if width <= 0 {
		width = termWidth()
	}

	art := BannerStyle.Render(strings.TrimRight(bannerRaw, "\n"))
	status := secondaryStyle.Render(fmt.Sprintf("units: %s   densities: %s", target, densitySource))
	block := lipgloss.JoinVertical(lipgloss.Center, art, "", status)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block) + "\n"
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, ok := terminalWidth(); ok {
		return w
	}
	return 80
}

// terminalWidth reports the width of stdout when it is a terminal.
func terminalWidth() (int, bool) {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w, true
	}
	return 0, false
}
