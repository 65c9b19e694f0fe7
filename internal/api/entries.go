package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"folio-cli/internal/model"
)

type ListParams struct {
	Page  int
	Limit int
	Query string
}

func collectionPath(kind model.Kind) string { return "/api/" + string(kind) }

func entryPath(kind model.Kind, id string) string {
	return collectionPath(kind) + "/" + url.PathEscape(strings.TrimSpace(id))
}

// List fetches one page of a collection. The t= parameter defeats HTTP caches.
func (c *Client) List(ctx context.Context, kind model.Kind, p ListParams) (model.ListPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	q.Set("q", p.Query)
	q.Set("t", strconv.FormatInt(c.now().UnixNano(), 10))

	resp, body, err := c.doJSON(ctx, http.MethodGet, collectionPath(kind), q, nil)
	if err != nil {
		return model.ListPage{}, err
	}
	data, err := decodeEnvelope(resp, body, true)
	if err != nil {
		return model.ListPage{}, err
	}
	var raw struct {
		Items *[]model.Entry `json:"items"`
		Total *int           `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.ListPage{}, malformed("list data", err)
	}
	if raw.Items == nil || raw.Total == nil {
		return model.ListPage{}, malformed("list data: items and total are required", nil)
	}
	if *raw.Total < 0 {
		return model.ListPage{}, malformed("list data: negative total", nil)
	}
	return model.ListPage{Items: *raw.Items, Total: *raw.Total}, nil
}

// Get fetches one entry. Concurrent calls for the same entry share one request.
func (c *Client) Get(ctx context.Context, kind model.Kind, id string) (model.Entry, error) {
	if strings.TrimSpace(id) == "" {
		return model.Entry{}, errors.New("missing id")
	}
	// The shared request must outlive any one caller; each caller still stops waiting when
	// its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := c.gets.DoChan(string(kind)+"/"+id, func() (any, error) {
		resp, body, err := c.doJSON(shared, http.MethodGet, entryPath(kind, id), nil, nil)
		if err != nil {
			return model.Entry{}, err
		}
		data, err := decodeEnvelope(resp, body, true)
		if err != nil {
			return model.Entry{}, err
		}
		var e model.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return model.Entry{}, malformed("entry", err)
		}
		return e, nil
	})
	var v any
	select {
	case <-ctx.Done():
		return model.Entry{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Entry{}, res.Err
		}
		v = res.Val
	}
	return v.(model.Entry).Clone(), nil
}

// Create posts a new entry and returns the server copy.
func (c *Client) Create(ctx context.Context, kind model.Kind, in any) (model.Entry, error) {
	resp, body, err := c.doJSON(ctx, http.MethodPost, collectionPath(kind), nil, in)
	if err != nil {
		return model.Entry{}, err
	}
	data, err := decodeEnvelope(resp, body, true)
	if err != nil {
		return model.Entry{}, err
	}
	var e model.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.Entry{}, malformed("entry", err)
	}
	return e, nil
}

// Update sends body (partial or full) as a PUT. Success requires a 2xx and success=true.
func (c *Client) Update(ctx context.Context, kind model.Kind, id string, body any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("missing id")
	}
	resp, b, err := c.doJSON(ctx, http.MethodPut, entryPath(kind, id), nil, body)
	if err != nil {
		return err
	}
	_, err = decodeEnvelope(resp, b, false)
	return err
}

// SetFlag updates one boolean field, sending only that field.
func (c *Client) SetFlag(ctx context.Context, kind model.Kind, id, field string, value bool) error {
	return c.Update(ctx, kind, id, map[string]bool{field: value})
}

// Delete removes an entry. The HTTP status is the outcome.
func (c *Client) Delete(ctx context.Context, kind model.Kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("missing id")
	}
	resp, body, err := c.doJSON(ctx, http.MethodDelete, entryPath(kind, id), nil, nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return statusError(resp, body)
	}
	return nil
}

// UpdatePriorities commits a full project ordering in one request.
func (c *Client) UpdatePriorities(ctx context.Context, updates []model.PriorityUpdate) error {
	if updates == nil {
		updates = []model.PriorityUpdate{}
	}
	resp, body, err := c.doJSON(ctx, http.MethodPatch, "/api/projects/priority", nil, map[string]any{"updates": updates})
	if err != nil {
		return err
	}
	_, err = decodeEnvelope(resp, body, false)
	return err
}
