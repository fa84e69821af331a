// Package testutil provides an in-memory wiki GraphQL server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wikictl/internal/models"
)

// Token is the bearer credential accepted by FakeWiki.
const Token = "test-token"

// Call is one GraphQL operation received by FakeWiki.
type Call struct {
	Op        string
	Query     string
	Variables map[string]any
}

// FakeWiki emulates the pages API of a Wiki.js server.
type FakeWiki struct {
	mu     sync.Mutex
	pages  map[string]models.Page
	nextID int
	calls  []Call

	// CreateStatus, when non-zero, makes create mutations fail with that
	// HTTP status.
	CreateStatus int
	// RejectCreate makes create mutations answer succeeded=false.
	RejectCreate bool
	// NotFoundAsError reports missing pages through the GraphQL errors array
	// instead of a null result.
	NotFoundAsError bool

	server *httptest.Server
}

// NewFakeWiki starts a fake wiki that is shut down when the test ends.
func NewFakeWiki(t *testing.T) *FakeWiki {
	t.Helper()
	f := &FakeWiki{pages: make(map[string]models.Page), nextID: 1}

	r := chi.NewRouter()
	r.Use(bearerAuth(Token))
	r.Post("/graphql", f.handle)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the GraphQL endpoint.
func (f *FakeWiki) URL() string {
	return f.server.URL + "/graphql"
}

// AddPage stores p, assigning an id when p.ID is zero.
func (f *FakeWiki) AddPage(p models.Page) models.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.nextID
	}
	if p.ID >= f.nextID {
		f.nextID = p.ID + 1
	}
	f.pages[p.Path] = p
	return p
}

// Page returns the stored page at path.
func (f *FakeWiki) Page(path string) (models.Page, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pages[path]
	return p, ok
}

// Calls returns the operations received so far, optionally filtered by name.
func (f *FakeWiki) Calls(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (f *FakeWiki) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	op := operationName(req.Query)
	f.calls = append(f.calls, Call{Op: op, Query: req.Query, Variables: req.Variables})

	switch op {
	case "SingleByPath":
		f.singleByPath(w, req.Variables)
	case "CreatePage":
		f.create(w, req.Variables)
	case "DeletePage":
		f.delete(w, req.Variables)
	default:
		writeJSON(w, map[string]any{"errors": []map[string]string{{"message": "unknown operation"}}})
	}
}

func (f *FakeWiki) singleByPath(w http.ResponseWriter, vars map[string]any) {
	path, _ := vars["path"].(string)
	p, ok := f.pages[path]
	if !ok {
		if f.NotFoundAsError {
			writeJSON(w, map[string]any{"errors": []map[string]string{{"message": "This page does not exist."}}})
			return
		}
		writeJSON(w, data(map[string]any{"singleByPath": nil}))
		return
	}
	tags := make([]map[string]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = map[string]string{"tag": t}
	}
	writeJSON(w, data(map[string]any{"singleByPath": map[string]any{
		"id":          p.ID,
		"path":        p.Path,
		"locale":      vars["locale"],
		"title":       p.Title,
		"description": p.Description,
		"content":     p.Content,
		"tags":        tags,
	}}))
}

func (f *FakeWiki) create(w http.ResponseWriter, vars map[string]any) {
	if f.CreateStatus != 0 {
		http.Error(w, "create failed", f.CreateStatus)
		return
	}
	path, _ := vars["path"].(string)
	if _, exists := f.pages[path]; exists || f.RejectCreate {
		writeJSON(w, data(map[string]any{"create": responseResult(models.ResponseResult{
			ErrorCode: 6002,
			Slug:      "PageDuplicateCreate",
			Message:   "Cannot create this page because an entry already exists at the same path.",
		})}))
		return
	}

	p := models.Page{ID: f.nextID, Path: path}
	f.nextID++
	p.Title, _ = vars["title"].(string)
	p.Description, _ = vars["description"].(string)
	p.Content, _ = vars["content"].(string)
	p.Locale, _ = vars["locale"].(string)
	if raw, ok := vars["tags"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				p.Tags = append(p.Tags, s)
			}
		}
	}
	f.pages[path] = p

	writeJSON(w, data(map[string]any{"create": responseResult(models.ResponseResult{
		Succeeded: true,
		Slug:      "ok",
		Message:   "Page created successfully.",
	})}))
}

func (f *FakeWiki) delete(w http.ResponseWriter, vars map[string]any) {
	id, _ := vars["id"].(float64)
	for path, p := range f.pages {
		if p.ID == int(id) {
			delete(f.pages, path)
			writeJSON(w, data(map[string]any{"delete": responseResult(models.ResponseResult{
				Succeeded: true,
				Slug:      "ok",
				Message:   "Page has been deleted.",
			})}))
			return
		}
	}
	writeJSON(w, data(map[string]any{"delete": responseResult(models.ResponseResult{
		ErrorCode: 6003,
		Slug:      "PageNotFound",
		Message:   "This page does not exist.",
	})}))
}

func operationName(query string) string {
	for _, name := range []string{"SingleByPath", "CreatePage", "DeletePage"} {
		if strings.Contains(query, name) {
			return name
		}
	}
	return ""
}

func data(pages map[string]any) map[string]any {
	return map[string]any{"data": map[string]any{"pages": pages}}
}

func responseResult(r models.ResponseResult) map[string]any {
	return map[string]any{"responseResult": r}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
