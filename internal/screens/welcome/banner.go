package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ████████╗███████╗███╗   ██╗ █████╗ ██╗   ██╗
 ██╔══██╗╚══██╔══╝██╔════╝████╗  ██║██╔══██╗██║   ██║
 ██████╔╝   ██║   █████╗  ██╔██╗ ██║███████║██║   ██║
 ██╔═══╝    ██║   ██╔══╝  ██║╚██╗██║██╔══██║╚██╗ ██╔╝
 ██║        ██║   ███████╗██║ ╚████║██║  ██║ ╚████╔╝
 ╚═╝        ╚═╝   ╚══════╝╚═╝  ╚═══╝╚═╝  ╚═╝  ╚═══╝`

const bannerCompact = "P T E N A V"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 53

// RenderBanner returns the banner styled in the primary color, or a compact
// fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
