package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState restores the last screen on relaunch. It is best effort: callers tolerate
// missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// View is one of: list|reorder
	View string `json:"view,omitempty"`
	// Tab is the entity collection: blogs|projects|certifications
	Tab string `json:"tab,omitempty"`

	// Per-tab search text and page.
	Query map[string]string `json:"query,omitempty"`
	Page  map[string]int    `json:"page,omitempty"`

	ShowPreview bool `json:"showPreview,omitempty"`
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.path(tuiStateFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "tui_state.json.*.tmp", s.path(tuiStateFileName), b, 0o644)
}
