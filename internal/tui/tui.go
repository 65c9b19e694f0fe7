package tui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive admin TUI and blocks until the user quits.
//
// Setting FOLIO_DEBUG_LOG to a file path turns on debug logging; the alt screen owns
// stdout, so log lines go to that file.
func Run(opts Options, profile string) error {
	applyColorProfilePreference()
	applyThemePreference()
	if err := setAppearanceProfile(profile); err != nil {
		return err
	}

	if path := strings.TrimSpace(os.Getenv("FOLIO_DEBUG_LOG")); path != "" {
		f, err := tea.LogToFile(path, "folio")
		if err != nil {
			return err
		}
		defer f.Close()
		opts.Debug = true
	}

	m := newAppModel(opts)
	defer m.stateSaver.Flush()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context)).Run()
	return err
}
