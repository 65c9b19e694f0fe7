package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type appearanceProfileID string

const (
	appearanceDefault   appearanceProfileID = "default"
	appearanceAlabaster appearanceProfileID = "alabaster"
	appearanceDracula   appearanceProfileID = "dracula"
	appearanceMono      appearanceProfileID = "mono"
)

type palette struct {
	muted        lipgloss.AdaptiveColor
	chromeMuted  lipgloss.AdaptiveColor
	selectedBg   lipgloss.AdaptiveColor
	selectedFg   lipgloss.AdaptiveColor
	surfaceFg    lipgloss.AdaptiveColor
	controlBg    lipgloss.AdaptiveColor
	inputBg      lipgloss.AdaptiveColor
	accent       lipgloss.AdaptiveColor
	accentFg     lipgloss.AdaptiveColor
	active       lipgloss.AdaptiveColor
	featured     lipgloss.AdaptiveColor
	err          lipgloss.AdaptiveColor
	modalBorder  lipgloss.AdaptiveColor
	draftMark    lipgloss.AdaptiveColor
	modalSurface lipgloss.AdaptiveColor
}

var defaultPalette = palette{
	muted:        ac("240", "243"),
	chromeMuted:  ac("240", "245"),
	selectedBg:   ac("#e9e9e9", "#262626"),
	selectedFg:   ac("235", "255"),
	surfaceFg:    ac("235", "252"),
	controlBg:    ac("252", "235"),
	inputBg:      ac("254", "234"),
	accent:       ac("27", "62"),
	accentFg:     ac("255", "235"),
	active:       ac("28", "78"),
	featured:     ac("136", "220"),
	err:          ac("160", "203"),
	modalBorder:  ac("250", "240"),
	draftMark:    ac("130", "214"),
	modalSurface: ac("255", "235"),
}

var appearancePalettes = map[appearanceProfileID]func() palette{
	appearanceDefault: func() palette { return defaultPalette },
	appearanceAlabaster: func() palette {
		p := defaultPalette
		p.selectedBg = ac("#dfe7f0", "#2b3440")
		p.accent = ac("#325cc0", "#7aa2f7")
		p.active = ac("#448c27", "#9ece6a")
		p.featured = ac("#aa3731", "#e0af68")
		return p
	},
	appearanceDracula: func() palette {
		p := defaultPalette
		p.selectedBg = ac("#e6e0f8", "#44475a")
		p.selectedFg = ac("#282a36", "#f8f8f2")
		p.accent = ac("#7c5cc4", "#bd93f9")
		p.active = ac("#2f9e4f", "#50fa7b")
		p.featured = ac("#c07c00", "#f1fa8c")
		p.err = ac("#d03c3c", "#ff5555")
		p.draftMark = ac("#b35d00", "#ffb86c")
		return p
	},
	// mono keeps to the terminal's default foreground; selection is reverse video.
	appearanceMono: func() palette {
		fg := ac("0", "15")
		gray := ac("8", "7")
		return palette{
			muted: gray, chromeMuted: gray,
			selectedBg: fg, selectedFg: ac("15", "0"),
			surfaceFg: fg, controlBg: ac("15", "0"), inputBg: ac("15", "0"),
			accent: fg, accentFg: ac("15", "0"),
			active: fg, featured: fg, err: fg,
			modalBorder: gray, draftMark: fg, modalSurface: ac("15", "0"),
		}
	},
}

var (
	appearanceMu      sync.RWMutex
	currentAppearance = appearanceDefault
)

func knownAppearances() []string {
	out := make([]string, 0, len(appearancePalettes))
	for id := range appearancePalettes {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}

// setAppearanceProfile switches the palette. An empty name selects the default.
func setAppearanceProfile(name string) error {
	id := appearanceProfileID(strings.ToLower(strings.TrimSpace(name)))
	if id == "" {
		id = appearanceDefault
	}
	mk, ok := appearancePalettes[id]
	if !ok {
		return fmt.Errorf("unknown appearance profile %q (expected %s)", name, strings.Join(knownAppearances(), "|"))
	}
	p := mk()

	appearanceMu.Lock()
	defer appearanceMu.Unlock()
	currentAppearance = id
	colorMuted = p.muted
	colorChromeMuted = p.chromeMuted
	colorSelectedBg = p.selectedBg
	colorSelectedFg = p.selectedFg
	colorSurfaceFg = p.surfaceFg
	colorControlBg = p.controlBg
	colorInputBg = p.inputBg
	colorAccent = p.accent
	colorAccentFg = p.accentFg
	colorActive = p.active
	colorFeatured = p.featured
	colorError = p.err
	colorModalBorder = p.modalBorder
	colorDraftMark = p.draftMark
	colorModalSurface = p.modalSurface
	return nil
}

func appearanceProfile() appearanceProfileID {
	appearanceMu.RLock()
	defer appearanceMu.RUnlock()
	return currentAppearance
}
