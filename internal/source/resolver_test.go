package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// corpusServer simulates a mirror: a manifest and per-book files under an
// optional sub-path, with an optional count of transient failures per URL.
func corpusServer(t *testing.T, subPath string, books map[string]string, failuresPerURL int) (*httptest.Server, map[string]int) {
	t.Helper()
	hits := make(map[string]int)
	names := make([]string, 0, len(books))
	for name := range books {
		names = append(names, name)
	}

	prefix := "/"
	if subPath != "" {
		prefix = "/" + subPath + "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		hits[req.URL.Path]++
		if hits[req.URL.Path] <= failuresPerURL {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		if !strings.HasPrefix(req.URL.Path, prefix) {
			http.NotFound(w, req)
			return
		}
		file := strings.TrimPrefix(req.URL.Path, prefix)
		if file == "books.json" {
			json.NewEncoder(w).Encode(names) // nolint: errcheck
			return
		}
		for name, body := range books {
			if file == (&Location{}).bookFile(name) {
				w.Write([]byte(body)) // nolint: errcheck
				return
			}
		}
		http.NotFound(w, req)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hits
}

// bookFile exposes the book naming rule to the test server.
func (l *Location) bookFile(name string) string {
	url := l.BookURL(name)
	return url[strings.LastIndex(url, "/")+1:]
}

func TestLocateFirstCandidate(t *testing.T) {
	srv, _ := corpusServer(t, "", map[string]string{"Genesis": `{}`}, 0)

	r := NewResolver([]string{srv.URL}, []string{""}, nil)
	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if loc.Base != srv.URL || loc.SubPath != "" {
		t.Errorf("unexpected location: %+v", loc)
	}
	if !reflect.DeepEqual(loc.Books, []string{"Genesis"}) {
		t.Errorf("unexpected book list: %v", loc.Books)
	}
}

func TestLocateFallsBackToSubPath(t *testing.T) {
	srv, hits := corpusServer(t, "data/books", map[string]string{"Genesis": `{}`}, 0)

	r := NewResolver([]string{srv.URL}, []string{"", "data/books"}, nil)
	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if loc.SubPath != "data/books" {
		t.Errorf("expected the nested sub-path, got %q", loc.SubPath)
	}
	if hits["/books.json"] == 0 {
		t.Error("the root candidate should have been tried first")
	}
}

func TestLocateFallsBackAcrossBases(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}))
	t.Cleanup(dead.Close)
	live, _ := corpusServer(t, "", map[string]string{"Exodus": `{}`}, 0)

	r := NewResolver([]string{dead.URL, live.URL}, []string{""}, nil)
	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if loc.Base != live.URL {
		t.Errorf("expected the second base, got %q", loc.Base)
	}
}

func TestLocateRejectsNonListManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"books": ["Genesis"]}`)) // nolint: errcheck
	}))
	t.Cleanup(srv.Close)

	r := NewResolver([]string{srv.URL}, []string{""}, nil)
	_, err := r.Locate(context.Background())
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	var resErr *ResolveError
	if !errors.As(err, &resErr) || !strings.Contains(resErr.LastDiag, "not a JSON list") {
		t.Errorf("diagnostic should explain the shape failure: %v", err)
	}
}

func TestLocateRejectsEmptyManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`)) // nolint: errcheck
	}))
	t.Cleanup(srv.Close)

	r := NewResolver([]string{srv.URL}, []string{""}, nil)
	_, err := r.Locate(context.Background())
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if !strings.Contains(err.Error(), "lists no books") {
		t.Errorf("diagnostic should mention the empty list: %v", err)
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	srv, hits := corpusServer(t, "", map[string]string{"Genesis": `{"chapters": []}`}, 2)

	r := NewResolver([]string{srv.URL}, []string{""}, nil)
	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if hits["/books.json"] != 3 {
		t.Errorf("manifest fetch attempts = %d, want 3", hits["/books.json"])
	}
	body, err := r.FetchBook(context.Background(), loc, "Genesis")
	if err != nil {
		t.Fatalf("fetch failed after retries: %v", err)
	}
	if string(body) != `{"chapters": []}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	r := NewResolver([]string{srv.URL}, []string{""}, nil)
	loc := &Location{Base: srv.URL}
	if _, err := r.FetchBook(context.Background(), loc, "Genesis"); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != maxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxAttempts)
	}
}

func TestBookURLNaming(t *testing.T) {
	loc := &Location{Base: "https://example.org", SubPath: "data/books"}
	tests := []struct {
		name string
		want string
	}{
		{"Genesis", "https://example.org/data/books/Genesis.json"},
		{"1 Kings", "https://example.org/data/books/1Kings.json"},
		{"Song of Solomon", "https://example.org/data/books/SongofSolomon.json"},
	}
	for _, tc := range tests {
		if got := loc.BookURL(tc.name); got != tc.want {
			t.Errorf("BookURL(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := (&Location{Base: "https://example.org/"}).ManifestURL(); got != "https://example.org/books.json" {
		t.Errorf("ManifestURL = %q", got)
	}
}

func TestFetchUsesCache(t *testing.T) {
	cache, err := OpenCache(t.TempDir() + "/cache.db")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() }) // nolint: errcheck

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Write([]byte(`["Genesis"]`)) // nolint: errcheck
	}))
	t.Cleanup(srv.Close)

	r := NewResolver([]string{srv.URL}, []string{""}, cache)
	for i := 0; i < 3; i++ {
		if _, err := r.Locate(context.Background()); err != nil {
			t.Fatalf("locate %d failed: %v", i, err)
		}
	}
	if requests != 1 {
		t.Errorf("network requests = %d, want 1 (cache should absorb repeats)", requests)
	}
}
