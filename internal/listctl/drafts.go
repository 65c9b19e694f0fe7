package listctl

import (
	"errors"
	"strings"

	"folio-cli/internal/model"
)

var ErrNotEditing = errors.New("no entry is being edited")

// Drafts holds the quick-edit state. Only one row is edited at a time; starting an edit on
// another row discards the previous draft. Drafts never touch the loaded rows.
type Drafts struct {
	editingID string
	draft     model.Draft
	saving    bool
	err       error
}

func (d *Drafts) EditingID() string { return d.editingID }
func (d *Drafts) Editing() bool     { return d.editingID != "" }
func (d *Drafts) Saving() bool      { return d.saving }
func (d *Drafts) Err() error        { return d.err }

func (d *Drafts) Start(e model.Entry) {
	d.editingID = e.ID
	d.draft = model.DraftFrom(e)
	d.saving = false
	d.err = nil
}

// Draft returns a copy of the draft for id.
func (d *Drafts) Draft(id string) (model.Draft, bool) {
	if id == "" || id != d.editingID {
		return model.Draft{}, false
	}
	out := d.draft
	out.Tags = append([]string{}, d.draft.Tags...)
	return out, true
}

func (d *Drafts) Update(id string, fn func(*model.Draft)) bool {
	if id == "" || id != d.editingID || d.saving {
		return false
	}
	fn(&d.draft)
	return true
}

func (d *Drafts) Cancel() {
	*d = Drafts{}
}

// BeginSave freezes the draft and returns the body to PUT.
func (d *Drafts) BeginSave() (string, model.Draft, error) {
	if d.editingID == "" {
		return "", model.Draft{}, ErrNotEditing
	}
	if strings.TrimSpace(d.draft.Title) == "" {
		d.err = errors.New("title is required")
		return "", model.Draft{}, d.err
	}
	d.saving = true
	d.err = nil
	body, _ := d.Draft(d.editingID)
	return d.editingID, body, nil
}

// SaveDone settles a save. On success the draft is discarded and SaveDone reports true: the
// caller reloads the list. On failure the draft stays, with err recorded. Results for a row
// no longer being edited are ignored.
func (d *Drafts) SaveDone(id string, err error) bool {
	if id != d.editingID {
		return false
	}
	d.saving = false
	if err != nil {
		d.err = err
		return false
	}
	d.Cancel()
	return true
}

// Overlay shows the draft over the row it edits.
func (d *Drafts) Overlay(e model.Entry) model.Entry {
	if e.ID == "" || e.ID != d.editingID {
		return e
	}
	return d.draft.Overlay(e)
}
