package main

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Run loads /sitemap.xml (following an index to every chunk file), checks
// each listed URL maps to an emitted page, that no URL appears twice, and
// that the total matches the verse count promised by books.json.
func (c *SitemapCmd) Run(stop chan bool) error {
	counts, err := loadCounts(c.Site)
	if err != nil {
		close(stop)
		return err
	}
	expected := 0
	for _, book := range counts.Books {
		for _, ch := range book.Chapters {
			expected += ch.Verses
		}
	}

	doc, err := loadXML(filepath.Join(c.Site, "sitemap.xml"))
	if err != nil {
		close(stop)
		return err
	}

	var totalErrors int
	var chunkFiles int
	var locs []string

	if xmlquery.FindOne(doc, "//sitemapindex") != nil {
		for _, ref := range xmlquery.Find(doc, "//sitemap/loc") {
			chunkFiles++
			chunkPath, err := siteFilePath(c.Site, strings.TrimSpace(ref.InnerText()))
			if err != nil {
				fmt.Printf("Sitemap error: bad chunk URL %q: %v\n", ref.InnerText(), err)
				totalErrors++
				continue
			}
			chunk, err := loadXML(chunkPath)
			if err != nil {
				fmt.Printf("Sitemap error: %v\n", err)
				totalErrors++
				continue
			}
			for _, loc := range xmlquery.Find(chunk, "//url/loc") {
				locs = append(locs, strings.TrimSpace(loc.InnerText()))
			}
		}
		fmt.Printf("Found sitemap index with %d chunk file(s)\n", chunkFiles)
	} else {
		for _, loc := range xmlquery.Find(doc, "//url/loc") {
			locs = append(locs, strings.TrimSpace(loc.InnerText()))
		}
	}

	seen := make(map[string]bool, len(locs))
	for _, loc := range locs {
		if seen[loc] {
			fmt.Printf("Sitemap error: duplicate URL - %s\n", loc)
			totalErrors++
			continue
		}
		seen[loc] = true
		if !targetExists(c.Site, loc) {
			fmt.Printf("Sitemap error: URL has no page on disk - %s\n", loc)
			totalErrors++
		}
	}

	if len(locs) != expected {
		fmt.Printf("Sitemap error: URL count mismatch: expected %d, found %d\n", expected, len(locs))
		totalErrors++
	}

	close(stop)

	fmt.Println("========================================")
	fmt.Printf("Total URLs Verified: %d\n", len(locs))
	fmt.Printf("Total Errors Found: %d\n", totalErrors)
	fmt.Println("========================================")

	if totalErrors > 0 {
		return fmt.Errorf("sitemap validation failed: %d errors", totalErrors)
	}
	fmt.Println("Sitemap validation completed successfully")
	return nil
}

func loadXML(path string) (*xmlquery.Node, error) {
	data, err := os.ReadFile(path) // nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap file: %w", err)
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML in %s: %w", path, err)
	}
	return doc, nil
}

// siteFilePath maps an absolute URL onto the site directory by path alone.
func siteFilePath(siteDir, href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return filepath.Join(siteDir, filepath.FromSlash(strings.TrimPrefix(u.Path, "/"))), nil
}
