package document

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m3rciful/carta/internal/catalog"
)

// fakeGitHub serves one file through the contents API.
type fakeGitHub struct {
	mu       sync.Mutex
	content  []byte
	sha      string
	messages []string
	branches []string
	failPut  int
}

func newFakeGitHub(t *testing.T, content []byte) (*fakeGitHub, *httptest.Server) {
	t.Helper()
	f := &fakeGitHub{}
	f.set(content)
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/menu/contents/data/menu.json", f.serve)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeGitHub) set(content []byte) {
	sum := sha1.Sum(content)
	f.content = content
	f.sha = hex.EncodeToString(sum[:])
}

func (f *fakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("ref") != "main" {
			http.Error(w, `{"message":"No commit found for the ref"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     "data/menu.json",
			"sha":      f.sha,
			"content":  base64.StdEncoding.EncodeToString(f.content),
		})
	case http.MethodPut:
		if f.failPut != 0 {
			w.WriteHeader(f.failPut)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		var body struct {
			Message string `json:"message"`
			Content []byte `json:"content"`
			SHA     string `json:"sha"`
			Branch  string `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.SHA != f.sha {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"data/menu.json does not match ` + body.SHA + `"}`))
			return
		}
		f.set(body.Content)
		f.messages = append(f.messages, body.Message)
		f.branches = append(f.branches, body.Branch)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{"sha": f.sha, "path": "data/menu.json"},
			"commit":  map[string]any{"sha": "c0ffee", "message": body.Message},
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestGitHubStore(t *testing.T, srv *httptest.Server) *GitHubStore {
	t.Helper()
	s, err := NewGitHubStore(GitHubOptions{
		Repo:    "acme/menu",
		Path:    "data/menu.json",
		Token:   "test-token",
		BaseURL: srv.URL,
		Client:  srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewGitHubStore: %v", err)
	}
	return s
}

func TestGitHubStoreFetchAndReplace(t *testing.T) {
	fake, srv := newFakeGitHub(t, []byte(`{"a":1}`))
	s := newTestGitHubStore(t, srv)
	ctx := context.Background()

	data, rev, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != `{"a":1}` || rev != fake.sha {
		t.Fatalf("fetch = %q rev %q", data, rev)
	}
	if err := s.Replace(ctx, []byte(`{"a":2}`), rev, "Renombrado: a -> b"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if string(fake.content) != `{"a":2}` {
		t.Fatalf("content = %q", fake.content)
	}
	if len(fake.messages) != 1 || fake.messages[0] != "Renombrado: a -> b" || fake.branches[0] != "main" {
		t.Fatalf("commit = %v on %v", fake.messages, fake.branches)
	}

	if err := s.Replace(ctx, []byte(`{"a":3}`), rev, "stale"); !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("stale replace err = %v, want ErrConflict", err)
	}
}

func TestGitHubStoreFailsLoudly(t *testing.T) {
	fake, srv := newFakeGitHub(t, []byte(`{}`))
	fake.failPut = http.StatusUnauthorized
	s := newTestGitHubStore(t, srv)
	_, rev, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	err = s.Replace(context.Background(), []byte(`{}`), rev, "x")
	if err == nil || errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("err = %v, want non-conflict failure", err)
	}
}

func TestNewGitHubStoreValidatesRepo(t *testing.T) {
	for _, repo := range []string{"", "acme", "/menu", "acme/", "a/b/c"} {
		if _, err := NewGitHubStore(GitHubOptions{Repo: repo, Path: "data/menu.json"}); err == nil {
			t.Fatalf("repo %q accepted", repo)
		}
	}
}
