// Package source locates and fetches the remote corpus: a root manifest
// listing book names in canonical order, and one JSON file per book. Several
// candidate locations are tried in a fixed priority order, with bounded
// retries per candidate. All fetching is sequential; discovery is read-only.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	manifestFile = "books.json"
	maxAttempts  = 3
	backoffStep  = 250 * time.Millisecond
)

// DefaultBases are the candidate source roots, primary first.
var DefaultBases = []string{
	"https://corpus.versepages.org",
	"https://raw.githubusercontent.com/julianstephens/verse-corpus/main",
	"https://cdn.jsdelivr.net/gh/julianstephens/verse-corpus@main",
}

// DefaultSubPaths are tried under each base: the root, then the legacy
// nesting older mirror snapshots still use.
var DefaultSubPaths = []string{"", "data/books"}

// Location is a successfully resolved source: a base, the sub-path the
// manifest was found under, and the ordered book names it lists.
type Location struct {
	Base    string
	SubPath string
	Books   []string
}

// ManifestURL is the URL the manifest was loaded from.
func (l *Location) ManifestURL() string {
	return joinURL(l.Base, l.SubPath, manifestFile)
}

// BookURL names a book's resource by stripping every non-alphanumeric
// character from its name and appending .json.
func (l *Location) BookURL(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return joinURL(l.Base, l.SubPath, b.String()+".json")
}

// Resolver discovers the corpus location and fetches its resources.
type Resolver struct {
	client   *http.Client
	cache    *Cache
	bases    []string
	subPaths []string
}

// NewResolver builds a resolver over the given candidate bases. Empty slices
// fall back to the defaults. cache may be nil.
func NewResolver(bases, subPaths []string, cache *Cache) *Resolver {
	if len(bases) == 0 {
		bases = DefaultBases
	}
	if len(subPaths) == 0 {
		subPaths = DefaultSubPaths
	}
	return &Resolver{
		client:   http.DefaultClient,
		cache:    cache,
		bases:    bases,
		subPaths: subPaths,
	}
}

// Locate tries base × sub-path combinations in order (bases outer, sub-paths
// inner) until one serves a manifest that parses as a non-empty JSON array of
// strings. Any other body shape is a soft failure and the next candidate is
// tried. Exhausting every candidate is a hard failure carrying the last
// diagnostic seen.
func (r *Resolver) Locate(ctx context.Context) (*Location, error) {
	var lastDiag string
	for _, base := range r.bases {
		for _, sub := range r.subPaths {
			url := joinURL(base, sub, manifestFile)
			body, err := r.fetch(ctx, url)
			if err != nil {
				lastDiag = err.Error()
				continue
			}
			var books []string
			if err := json.Unmarshal(body, &books); err != nil {
				lastDiag = fmt.Sprintf("%s: manifest is not a JSON list of book names: %v", url, err)
				continue
			}
			if len(books) == 0 {
				lastDiag = fmt.Sprintf("%s: manifest lists no books", url)
				continue
			}
			return &Location{Base: base, SubPath: sub, Books: books}, nil
		}
	}
	return nil, &ResolveError{LastDiag: lastDiag, Err: ErrNoSource}
}

// FetchBook fetches one book's raw JSON from the resolved location. Failure
// after retries is fatal for the build: a skipped book would corrupt the
// corpus order.
func (r *Resolver) FetchBook(ctx context.Context, loc *Location, name string) ([]byte, error) {
	body, err := r.fetch(ctx, loc.BookURL(name))
	if err != nil {
		return nil, fmt.Errorf("fetching book %q: %w", name, err)
	}
	return body, nil
}

// fetch retrieves one URL with up to maxAttempts tries, sleeping a linearly
// increasing backoff between them. The cache, when present, short-circuits
// the network entirely.
func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	if r.cache != nil {
		if body, hit := r.cache.Get(url); hit {
			return body, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffStep * time.Duration(attempt-1)):
			}
		}
		body, err := r.fetchOnce(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if r.cache != nil {
			// Best effort: a failed cache write never fails the fetch.
			_ = r.cache.Put(url, body)
		}
		return body, nil
	}
	return nil, lastErr
}

func (r *Resolver) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) // nolint: errcheck
		return nil, fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading body: %w", url, err)
	}
	return body, nil
}

func joinURL(base, sub, file string) string {
	parts := []string{strings.TrimRight(base, "/")}
	if sub != "" {
		parts = append(parts, strings.Trim(sub, "/"))
	}
	parts = append(parts, file)
	return strings.Join(parts, "/")
}
