package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/julianstephens/verse-pages/pkg/scripture"
)

// Run walks every verse page the counts manifest promises, parses it, and
// checks it carries verse text and that its navigation links resolve to
// pages that exist on disk. The root redirect target is checked too.
func (c *PagesCmd) Run(stop chan bool) error {
	counts, err := loadCounts(c.Site)
	if err != nil {
		close(stop)
		return err
	}

	var totalPages int
	var totalErrors int

	for _, book := range counts.Books {
		for _, ch := range book.Chapters {
			for v := 1; v <= ch.Verses; v++ {
				totalPages++
				pagePath := filepath.Join(c.Site, book.Slug, fmt.Sprint(ch.Chapter), fmt.Sprint(v), "index.html")
				doc, err := parsePage(pagePath)
				if err != nil {
					fmt.Printf("Page error: %v\n", err)
					totalErrors++
					continue
				}

				if text := classText(doc, "p", "verse-text"); strings.TrimSpace(text) == "" {
					fmt.Printf("Page error: no verse text - %s\n", pagePath)
					totalErrors++
				}

				// prev/next are legitimately absent at the corpus
				// boundaries; when present they must resolve.
				for _, class := range []string{"prev", "next", "up"} {
					href, found := anchorHref(doc, class)
					if !found {
						if class == "up" {
							fmt.Printf("Page error: missing chapter link - %s\n", pagePath)
							totalErrors++
						}
						continue
					}
					if !targetExists(c.Site, href) {
						fmt.Printf("Page error: %s link %s does not resolve - %s\n", class, href, pagePath)
						totalErrors++
					}
				}
			}
		}
	}

	rootPath := filepath.Join(c.Site, "index.html")
	if doc, err := parsePage(rootPath); err != nil {
		fmt.Printf("Page error: %v\n", err)
		totalErrors++
	} else if target, found := redirectTarget(doc); !found {
		fmt.Printf("Page error: root page has no redirect target\n")
		totalErrors++
	} else if !targetExists(c.Site, target) {
		fmt.Printf("Page error: root redirect %s does not resolve\n", target)
		totalErrors++
	}

	close(stop)

	fmt.Println("========================================")
	fmt.Printf("Total Pages Verified: %d\n", totalPages)
	fmt.Printf("Total Errors Found: %d\n", totalErrors)
	fmt.Println("========================================")

	if totalErrors > 0 {
		return fmt.Errorf("page validation failed: %d errors", totalErrors)
	}
	fmt.Println("Page validation completed successfully")
	return nil
}

// loadCounts reads the books.json counts manifest shipped with the site.
func loadCounts(siteDir string) (*scripture.CountsManifest, error) {
	data, err := os.ReadFile(filepath.Join(siteDir, "books.json")) // nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read books.json: %w", err)
	}
	var counts scripture.CountsManifest
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("failed to parse books.json: %w", err)
	}
	return &counts, nil
}

func parsePage(path string) (*html.Node, error) {
	content, err := os.ReadFile(path) // nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML in %s: %w", path, err)
	}
	return doc, nil
}

// targetExists maps a canonical URL (or root-relative path) onto the site
// directory and checks the page file exists. Only the URL path matters; the
// host is whatever site base the tree was built with.
func targetExists(siteDir, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	_, err = os.Stat(filepath.Join(siteDir, filepath.FromSlash(p)))
	return err == nil
}

// ── HTML tree helpers ──

func walkNodes(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}

func hasClass(n *html.Node, className string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == className {
					return true
				}
			}
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var text strings.Builder
	walkNodes(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
		return true
	})
	return text.String()
}

// classText returns the text of the first <tag class="..."> element.
func classText(doc *html.Node, tag, className string) string {
	var text string
	found := false
	walkNodes(doc, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, className) {
			text = textContent(n)
			found = true
			return false
		}
		return true
	})
	return text
}

// anchorHref returns the href of the first <a class="..."> element.
func anchorHref(doc *html.Node, className string) (string, bool) {
	var href string
	found := false
	walkNodes(doc, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, className) {
			href = attrVal(n, "href")
			found = true
			return false
		}
		return true
	})
	return href, found
}

// redirectTarget reads the root page's redirect destination from its canonical
// link, falling back to the visible anchor.
func redirectTarget(doc *html.Node) (string, bool) {
	var target string
	found := false
	walkNodes(doc, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "link" && attrVal(n, "rel") == "canonical" {
			target = attrVal(n, "href")
			found = true
			return false
		}
		if n.Type == html.ElementNode && n.Data == "a" && attrVal(n, "id") == "redirect" {
			target = attrVal(n, "href")
			found = true
			return false
		}
		return true
	})
	return target, found && target != ""
}
