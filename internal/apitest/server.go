// Package apitest runs an in-memory portfolio API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"folio-cli/internal/api"
	"folio-cli/internal/model"

	"github.com/google/uuid"
)

const (
	Email    = "admin@example.com"
	Password = "hunter2"

	sessionCookie = "session"
)

type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type failure struct {
	status  int
	message string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	entries  map[model.Kind][]model.Entry
	sessions map[string]bool
	failures map[string]failure
	requests []Request
	uploads  []string
	now      time.Time
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		entries:  map[model.Kind][]model.Entry{},
		sessions: map[string]bool{},
		failures: map[string]failure{},
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.requireSession(s.handleMe))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/upload", s.requireSession(s.handleUpload))
	mux.HandleFunc("PATCH /api/projects/priority", s.requireSession(s.handlePriority))
	mux.HandleFunc("GET /api/{kind}", s.requireSession(s.handleList))
	mux.HandleFunc("POST /api/{kind}", s.requireSession(s.handleCreate))
	mux.HandleFunc("GET /api/{kind}/{id}", s.requireSession(s.handleGet))
	mux.HandleFunc("PUT /api/{kind}/{id}", s.requireSession(s.handleUpdate))
	mux.HandleFunc("DELETE /api/{kind}/{id}", s.requireSession(s.handleDelete))
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// NewClient returns a client with a fresh cookie jar and no session.
func (s *Server) NewClient(t testing.TB) *api.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	c, err := api.New(api.Options{BaseURL: s.URL, Jar: jar})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

// LoggedInClient returns a client holding a valid session cookie.
func (s *Server) LoggedInClient(t testing.TB) *api.Client {
	t.Helper()
	c := s.NewClient(t)
	if err := c.Login(t.Context(), Email, Password); err != nil {
		t.Fatalf("login: %v", err)
	}
	return c
}

// Seed appends entries to a collection, filling ids and timestamps when missing.
func (s *Server) Seed(kind model.Kind, entries ...model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			s.now = s.now.Add(time.Minute)
			e.CreatedAt = s.now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}
		s.entries[kind] = append(s.entries[kind], e.Clone())
	}
}

// Entries returns a copy of the server-side collection in storage order.
func (s *Server) Entries(kind model.Kind) []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, 0, len(s.entries[kind]))
	for _, e := range s.entries[kind] {
		out = append(out, e.Clone())
	}
	return out
}

func (s *Server) Entry(kind model.Kind, id string) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries[kind] {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return model.Entry{}, false
}

// Fail makes every request matching "METHOD /path" answer with status and message.
// A 200 status yields {success:false, message}.
func (s *Server) Fail(methodPath string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[methodPath] = failure{status: status, message: message}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request{}, s.requests...)
}

// LastRequest returns the most recent request with the given method and path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

func (s *Server) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.uploads...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if failing {
			writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		s.mu.Lock()
		valid := err == nil && s.sessions[c.Value]
		s.mu.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "authorization required"})
			return
		}
		h(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid json"})
		return
	}
	if in.Email != Email || in.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid credentials"})
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = true
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": model.User{ID: "u-1", Email: Email, Name: "Admin"}})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "missing image"})
		return
	}
	defer f.Close()
	_, _ = io.Copy(io.Discard, f)
	s.mu.Lock()
	s.uploads = append(s.uploads, hdr.Filename)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"url": "https://cdn.example.com/" + hdr.Filename})
}

func kindOf(r *http.Request) (model.Kind, bool) {
	k, err := model.ParseKind(r.PathValue("kind"))
	if err != nil || string(k) != r.PathValue("kind") {
		return "", false
	}
	return k, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	s.mu.Lock()
	var matched []model.Entry
	for _, e := range s.entries[kind] {
		if q == "" || matches(e, q) {
			matched = append(matched, e.Clone())
		}
	}
	s.mu.Unlock()

	if kind == model.KindProjects {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].PriorityOr(999) < matched[j].PriorityOr(999)
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	items := matched[start:end]
	if items == nil {
		items = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"items": items, "total": total}})
}

func matches(e model.Entry, q string) bool {
	if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Slug), q) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		return
	}
	e, found := s.Entry(kind, r.PathValue("id"))
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": kind.Singular() + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": e})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		return
	}
	var e model.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid json"})
		return
	}
	if strings.TrimSpace(e.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "title is required"})
		return
	}
	e.ID = ""
	e.CreatedAt = time.Time{}
	s.Seed(kind, e)
	all := s.Entries(kind)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": all[len(all)-1]})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		return
	}
	id := r.PathValue("id")
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries[kind] {
		if e.ID != id {
			continue
		}
		merged, err := mergeEntry(e, patch)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
			return
		}
		merged.ID = e.ID
		merged.UpdatedAt = e.UpdatedAt.Add(time.Second)
		s.entries[kind][i] = merged
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": kind.Singular() + " not found"})
}

func mergeEntry(e model.Entry, patch map[string]json.RawMessage) (model.Entry, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	var cur map[string]json.RawMessage
	if err := json.Unmarshal(b, &cur); err != nil {
		return e, err
	}
	for k, v := range patch {
		cur[k] = v
	}
	b, err = json.Marshal(cur)
	if err != nil {
		return e, err
	}
	var out model.Entry
	if err := json.Unmarshal(b, &out); err != nil {
		return e, fmt.Errorf("invalid field: %w", err)
	}
	return out, nil
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		return
	}
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries[kind] {
		if e.ID == id {
			s.entries[kind] = append(s.entries[kind][:i], s.entries[kind][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": kind.Singular() + " not found"})
}

func (s *Server) handlePriority(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Updates []model.PriorityUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := map[string]int{}
	for _, u := range in.Updates {
		byID[u.ID] = u.Priority
	}
	for i, e := range s.entries[model.KindProjects] {
		if p, ok := byID[e.ID]; ok {
			p := p
			s.entries[model.KindProjects][i].Priority = &p
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
