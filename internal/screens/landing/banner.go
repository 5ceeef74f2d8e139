package landing

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/ui/theme"
)

// glyphs holds the six-row block letters of the banner.
var glyphs = map[rune][6]string{
	'S': {"███████╗", "██╔════╝", "███████╗", "╚════██║", "███████║", "╚══════╝"},
	'E': {"███████╗", "██╔════╝", "█████╗  ", "██╔══╝  ", "███████╗", "╚══════╝"},
	'C': {" ██████╗", "██╔════╝", "██║     ", "██║     ", "╚██████╗", " ╚═════╝"},
	'A': {" █████╗ ", "██╔══██╗", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'N': {"███╗   ██╗", "████╗  ██║", "██╔██╗ ██║", "██║╚██╗██║", "██║ ╚████║", "╚═╝  ╚═══╝"},
	'D': {"██████╗ ", "██╔══██╗", "██║  ██║", "██║  ██║", "██████╔╝", "╚═════╝ "},
	'O': {" ██████╗ ", "██╔═══██╗", "██║   ██║", "██║   ██║", "╚██████╔╝", " ╚═════╝ "},
}

var bannerArt = buildBanner("SECANDO")

const bannerCompact = "S E C A N D O   A   L E I"

// bannerMinWidth is the narrowest terminal that fits the block banner.
const bannerMinWidth = 64

func buildBanner(word string) string {
	var rows [6]strings.Builder
	for _, r := range word {
		g := glyphs[r]
		for i := range rows {
			rows[i].WriteString(g[i])
		}
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// RenderBanner returns the app banner in the primary color, with a
// compact fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	sub := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("A   L E I")
	return lipgloss.JoinVertical(lipgloss.Center, style.Render(bannerArt), sub)
}
