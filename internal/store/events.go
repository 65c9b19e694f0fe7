package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"folio-cli/internal/model"

	"github.com/google/uuid"
)

// AppendEvent records a mutation performed by this client. ID and TS are filled when empty.
func (s Store) AppendEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	if strings.TrimSpace(ev.Type) == "" {
		return model.Event{}, errors.New("event: missing type")
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return model.Event{}, err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, ts_unixms, type, kind, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.TS.UnixMilli(), ev.Type, string(ev.Kind), ev.EntityID, string(payload))
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// ListEvents returns the most recent events, newest first. limit <= 0 means all.
func (s Store) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts_unixms, type, kind, entity_id, payload_json FROM events ORDER BY ts_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev          model.Event
			ts          int64
			kind        string
			payloadJSON string
		)
		if err := rows.Scan(&ev.ID, &ts, &ev.Type, &kind, &ev.EntityID, &payloadJSON); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ts).UTC()
		ev.Kind = model.Kind(kind)
		if payloadJSON != "" && payloadJSON != "null" {
			var p any
			if err := json.Unmarshal([]byte(payloadJSON), &p); err == nil {
				ev.Payload = p
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
