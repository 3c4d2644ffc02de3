package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"
	"golang.org/x/net/html"

	"github.com/julianstephens/verse-pages/pkg/scripture"
)

func testCorpus(t *testing.T) *scripture.Corpus {
	t.Helper()
	c, err := scripture.NewCorpus([]*scripture.Book{
		{
			Name: "Genesis",
			Slug: "genesis",
			Chapters: []scripture.Chapter{
				{Number: 1, Verses: []scripture.Verse{{V: 1, Text: "A"}, {V: 2, Text: "B"}}},
			},
		},
		{
			Name: "Exodus",
			Slug: "exodus",
			Chapters: []scripture.Chapter{
				{Number: 1, Verses: []scripture.Verse{{V: 1, Text: "C"}}},
			},
		},
	})
	if err != nil {
		t.Fatalf("building corpus: %v", err)
	}
	return c
}

func buildSite(t *testing.T, cfg Config) (*Result, string) {
	t.Helper()
	if cfg.OutDir == "" {
		cfg.OutDir = filepath.Join(t.TempDir(), "dist")
	}
	if cfg.SiteBase == "" {
		cfg.SiteBase = "https://versepages.org"
	}
	corpus := testCorpus(t)
	b := NewBuilder(cfg, corpus, scripture.BuildCounts(corpus))
	res, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return res, cfg.OutDir
}

func readPage(t *testing.T, path string) *html.Node {
	t.Helper()
	f, err := os.Open(path) // nolint: gosec
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close() // nolint: errcheck
	doc, err := html.Parse(f)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

// findNode walks the parse tree for the first element matching the predicate.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func TestBuildEmitsEveryPage(t *testing.T) {
	res, out := buildSite(t, Config{})

	if res.VersePages != 3 || res.ChapterPages != 2 || res.BookPages != 2 {
		t.Errorf("page counts = %+v, want 3 verse / 2 chapter / 2 book", res)
	}

	for _, rel := range []string{
		"genesis/1/1/index.html",
		"genesis/1/2/index.html",
		"exodus/1/1/index.html",
		"genesis/1/index.html",
		"exodus/1/index.html",
		"genesis/index.html",
		"exodus/index.html",
		"index.html",
		"books.json",
		"robots.txt",
		"sitemap.xml",
		ChecksumManifestName,
	} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
}

func TestVersePageContentAndNavigation(t *testing.T) {
	_, out := buildSite(t, Config{})

	doc := readPage(t, filepath.Join(out, "genesis", "1", "2", "index.html"))

	text := findNode(doc, func(n *html.Node) bool { return n.Data == "p" && hasClass(n, "verse-text") })
	if text == nil || nodeText(text) != "B" {
		t.Fatalf("verse text node missing or wrong: %v", text)
	}

	prev := findNode(doc, func(n *html.Node) bool { return n.Data == "a" && attr(n, "rel") == "prev" })
	if prev == nil || attr(prev, "href") != "https://versepages.org/genesis/1/1/" {
		t.Errorf("prev link wrong: %v", prev)
	}
	next := findNode(doc, func(n *html.Node) bool { return n.Data == "a" && attr(n, "rel") == "next" })
	if next == nil || attr(next, "href") != "https://versepages.org/exodus/1/1/" {
		t.Errorf("next link should cross the book boundary: %v", next)
	}
	up := findNode(doc, func(n *html.Node) bool { return n.Data == "a" && hasClass(n, "up") })
	if up == nil || attr(up, "href") != "https://versepages.org/genesis/1/" {
		t.Errorf("up link wrong: %v", up)
	}

	canonical := findNode(doc, func(n *html.Node) bool { return n.Data == "link" && attr(n, "rel") == "canonical" })
	if canonical == nil || attr(canonical, "href") != "https://versepages.org/genesis/1/2/" {
		t.Errorf("canonical link wrong: %v", canonical)
	}
}

func TestBoundaryVersePagesOmitDeadLinks(t *testing.T) {
	_, out := buildSite(t, Config{})

	first := readPage(t, filepath.Join(out, "genesis", "1", "1", "index.html"))
	if n := findNode(first, func(n *html.Node) bool { return n.Data == "a" && attr(n, "rel") == "prev" }); n != nil {
		t.Errorf("first verse should have no prev link, got href %q", attr(n, "href"))
	}

	last := readPage(t, filepath.Join(out, "exodus", "1", "1", "index.html"))
	if n := findNode(last, func(n *html.Node) bool { return n.Data == "a" && attr(n, "rel") == "next" }); n != nil {
		t.Errorf("last verse should have no next link, got href %q", attr(n, "href"))
	}
}

func TestRootRedirectTargetsFirstVerse(t *testing.T) {
	_, out := buildSite(t, Config{})

	doc := readPage(t, filepath.Join(out, "index.html"))
	anchor := findNode(doc, func(n *html.Node) bool { return n.Data == "a" && attr(n, "id") == "redirect" })
	if anchor == nil || attr(anchor, "href") != "https://versepages.org/genesis/1/1/" {
		t.Errorf("redirect anchor wrong: %v", anchor)
	}
	meta := findNode(doc, func(n *html.Node) bool { return n.Data == "meta" && strings.EqualFold(attr(n, "http-equiv"), "refresh") })
	if meta == nil || !strings.Contains(attr(meta, "content"), "https://versepages.org/genesis/1/1/") {
		t.Errorf("meta refresh wrong: %v", meta)
	}
}

func TestBooksJSONMatchesCorpus(t *testing.T) {
	_, out := buildSite(t, Config{})

	raw, err := os.ReadFile(filepath.Join(out, "books.json")) // nolint: gosec
	if err != nil {
		t.Fatalf("reading books.json: %v", err)
	}
	var m scripture.CountsManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("books.json is not valid JSON: %v", err)
	}
	if len(m.Books) != 2 || m.Books[0].Slug != "genesis" || m.Books[1].Slug != "exodus" {
		t.Errorf("unexpected manifest: %+v", m)
	}
	if m.Books[0].Chapters[0].Verses != 2 || m.Books[1].Chapters[0].Verses != 1 {
		t.Errorf("unexpected verse counts: %+v", m)
	}
}

func TestRobotsAndCNAME(t *testing.T) {
	_, out := buildSite(t, Config{Domain: "versepages.org"})

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt")) // nolint: gosec
	if err != nil {
		t.Fatalf("reading robots.txt: %v", err)
	}
	want := "User-agent: *\nAllow: /\n\nSitemap: https://versepages.org/sitemap.xml\n"
	if string(robots) != want {
		t.Errorf("robots.txt = %q, want %q", robots, want)
	}

	cname, err := os.ReadFile(filepath.Join(out, "CNAME")) // nolint: gosec
	if err != nil {
		t.Fatalf("reading CNAME: %v", err)
	}
	if string(cname) != "versepages.org\n" {
		t.Errorf("CNAME = %q", cname)
	}
}

func TestCNAMEOmittedWithoutDomain(t *testing.T) {
	_, out := buildSite(t, Config{})
	if _, err := os.Stat(filepath.Join(out, "CNAME")); !os.IsNotExist(err) {
		t.Errorf("CNAME should be absent when no domain is configured: %v", err)
	}
}

func TestChecksumManifestCoversEveryFile(t *testing.T) {
	_, out := buildSite(t, Config{})

	raw, err := os.ReadFile(filepath.Join(out, ChecksumManifestName)) // nolint: gosec
	if err != nil {
		t.Fatalf("reading checksum manifest: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	covered := make(map[string]bool, len(lines))
	for _, line := range lines {
		sum, rel, found := strings.Cut(line, "  ")
		if !found {
			t.Fatalf("malformed manifest line %q", line)
		}
		body, err := os.ReadFile(filepath.Join(out, rel)) // nolint: gosec
		if err != nil {
			t.Fatalf("manifest names unreadable file %s: %v", rel, err)
		}
		if got := fmt.Sprintf("%x", blake3.Sum256(body)); got != sum {
			t.Errorf("checksum mismatch for %s", rel)
		}
		covered[rel] = true
	}

	for _, rel := range []string{"genesis/1/1/index.html", "books.json", "sitemap.xml", "robots.txt"} {
		if !covered[rel] {
			t.Errorf("manifest does not cover %s", rel)
		}
	}
}

func TestPlaceholderForMissingVerseText(t *testing.T) {
	c, err := scripture.NewCorpus([]*scripture.Book{
		{
			Name: "Genesis",
			Slug: "genesis",
			Chapters: []scripture.Chapter{
				{Number: 1, Verses: []scripture.Verse{{V: 1, Text: ""}}},
			},
		},
	})
	if err != nil {
		t.Fatalf("building corpus: %v", err)
	}
	out := filepath.Join(t.TempDir(), "dist")
	b := NewBuilder(Config{OutDir: out, SiteBase: "https://versepages.org"}, c, scripture.BuildCounts(c))
	if _, err := b.Build(); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	doc := readPage(t, filepath.Join(out, "genesis", "1", "1", "index.html"))
	text := findNode(doc, func(n *html.Node) bool { return n.Data == "p" && hasClass(n, "verse-text") })
	if text == nil || nodeText(text) != verseTextPlaceholder {
		t.Errorf("expected the placeholder text, got %q", nodeText(text))
	}
}
