package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"folio-cli/internal/api"
	"folio-cli/internal/apitest"
	"folio-cli/internal/model"
)

func intp(v int) *int { return &v }

func TestListParsesEnvelopeAndSendsParams(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Seed(model.KindBlogs,
		model.Entry{Title: "Go generics", Slug: "go-generics", Tags: []string{"go"}},
		model.Entry{Title: "Rust notes", Slug: "rust-notes"},
		model.Entry{Title: "Go channels", Slug: "go-channels"},
	)
	c := srv.LoggedInClient(t)

	page, err := c.List(t.Context(), model.KindBlogs, api.ListParams{Page: 1, Limit: 10, Query: "go"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 matches; got total=%d items=%d", page.Total, len(page.Items))
	}

	req, ok := srv.LastRequest(http.MethodGet, "/api/blogs")
	if !ok {
		t.Fatalf("expected a list request to be recorded")
	}
	q, _ := url.ParseQuery(req.Query)
	if q.Get("page") != "1" || q.Get("limit") != "10" || q.Get("q") != "go" {
		t.Fatalf("unexpected query: %s", req.Query)
	}
	if q.Get("t") == "" {
		t.Fatalf("expected cache-busting t= parameter; got %s", req.Query)
	}
}

func TestListRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "missing success", body: `{"data":{"items":[],"total":0}}`},
		{name: "missing data", body: `{"success":true}`},
		{name: "missing items", body: `{"success":true,"data":{"total":3}}`},
		{name: "missing total", body: `{"success":true,"data":{"items":[]}}`},
		{name: "items wrong type", body: `{"success":true,"data":{"items":"x","total":1}}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer hs.Close()
			c, err := api.New(api.Options{BaseURL: hs.URL})
			if err != nil {
				t.Fatalf("api.New: %v", err)
			}
			_, err = c.List(t.Context(), model.KindBlogs, api.ListParams{Page: 1, Limit: 10})
			if !errors.Is(err, api.ErrMalformed) {
				t.Fatalf("expected ErrMalformed; got %v", err)
			}
		})
	}
}

func TestGetSurvivesAnotherCallersCancel(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"b1","title":"Hello"}}`))
	}))
	defer hs.Close()
	c, err := api.New(api.Options{BaseURL: hs.URL})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, model.KindBlogs, "b1")
		firstErr <- err
	}()
	<-arrived

	type result struct {
		e   model.Entry
		err error
	}
	second := make(chan result, 1)
	go func() {
		e, err := c.Get(t.Context(), model.KindBlogs, "b1")
		second <- result{e, err}
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancelled caller to stop with context.Canceled; got %v", err)
	}
	close(release)

	res := <-second
	if res.err != nil {
		t.Fatalf("expected the other caller to get the entry; got %v", res.err)
	}
	if res.e.Title != "Hello" {
		t.Fatalf("expected title Hello; got %q", res.e.Title)
	}
}

func TestSuccessFalseCarriesServerMessage(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Fail("GET /api/projects", http.StatusOK, "database offline")
	c := srv.LoggedInClient(t)

	_, err := c.List(t.Context(), model.KindProjects, api.ListParams{Page: 1})
	var ae *api.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *APIError; got %T %v", err, err)
	}
	if got := api.Message(err, "fallback"); got != "database offline" {
		t.Fatalf("expected server message; got %q", got)
	}
	if got := api.Message(errors.New("boom"), "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for foreign errors; got %q", got)
	}
}

func TestMeWithoutSessionIsUnauthorized(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	c := srv.NewClient(t)
	if _, err := c.Me(t.Context()); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized; got %v", err)
	}
	if err := c.Login(t.Context(), apitest.Email, "wrong"); err == nil {
		t.Fatalf("expected login with a bad password to fail")
	}
	if err := c.Login(t.Context(), apitest.Email, apitest.Password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	u, err := c.Me(t.Context())
	if err != nil {
		t.Fatalf("Me after login: %v", err)
	}
	if u.Email != apitest.Email {
		t.Fatalf("expected user email %q; got %q", apitest.Email, u.Email)
	}
	_ = c.Logout(t.Context())
	if _, err := c.Me(t.Context()); err == nil {
		t.Fatalf("expected session to be gone after logout")
	}
}

func TestSetFlagSendsOnlyTheField(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Seed(model.KindBlogs, model.Entry{ID: "b1", Title: "Hello", Active: false})
	c := srv.LoggedInClient(t)

	if err := c.SetFlag(t.Context(), model.KindBlogs, "b1", "active", true); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}
	req, _ := srv.LastRequest(http.MethodPut, "/api/blogs/b1")
	var body map[string]any
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 || body["active"] != true {
		t.Fatalf("expected body {active:true}; got %v", body)
	}
	e, _ := srv.Entry(model.KindBlogs, "b1")
	if !e.Active || e.Title != "Hello" {
		t.Fatalf("expected server copy active with title kept; got %+v", e)
	}
}

func TestDeleteUsesStatusAndMessage(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Seed(model.KindCertifications, model.Entry{ID: "c1", Title: "CKA"})
	c := srv.LoggedInClient(t)

	if err := c.Delete(t.Context(), model.KindCertifications, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err := c.Delete(t.Context(), model.KindCertifications, "c1")
	var ae *api.APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound {
		t.Fatalf("expected 404 APIError on second delete; got %v", err)
	}
	if !strings.Contains(api.Message(err, ""), "not found") {
		t.Fatalf("expected not found message; got %q", api.Message(err, ""))
	}
}

func TestUpdatePrioritiesSendsBulkBody(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Seed(model.KindProjects,
		model.Entry{ID: "p1", Title: "A", Priority: intp(1)},
		model.Entry{ID: "p2", Title: "B", Priority: intp(2)},
	)
	c := srv.LoggedInClient(t)

	err := c.UpdatePriorities(t.Context(), []model.PriorityUpdate{{ID: "p2", Priority: 1}, {ID: "p1", Priority: 2}})
	if err != nil {
		t.Fatalf("UpdatePriorities: %v", err)
	}
	req, _ := srv.LastRequest(http.MethodPatch, "/api/projects/priority")
	if !strings.Contains(req.Body, `"updates"`) {
		t.Fatalf("expected updates key in body; got %s", req.Body)
	}
	p2, _ := srv.Entry(model.KindProjects, "p2")
	if p2.PriorityOr(0) != 1 {
		t.Fatalf("expected p2 priority 1; got %d", p2.PriorityOr(0))
	}
}

func TestUploadReturnsURL(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	c := srv.LoggedInClient(t)
	u, err := c.UploadReader(t.Context(), "cover.png", bytes.NewReader([]byte("png")))
	if err != nil {
		t.Fatalf("UploadReader: %v", err)
	}
	if u != "https://cdn.example.com/cover.png" {
		t.Fatalf("unexpected url %q", u)
	}
	if got := srv.Uploads(); len(got) != 1 || got[0] != "cover.png" {
		t.Fatalf("expected one recorded upload; got %v", got)
	}
}

func TestNewValidatesBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://example.com", "://bad"} {
		if _, err := api.New(api.Options{BaseURL: raw}); err == nil {
			t.Fatalf("expected error for base url %q", raw)
		}
	}
	c, err := api.New(api.Options{BaseURL: "https://example.com/"})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	if c.BaseURL() != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed; got %q", c.BaseURL())
	}
}
