package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/verse-pages/internal/site"
	"github.com/julianstephens/verse-pages/internal/source"
	"github.com/julianstephens/verse-pages/pkg/scripture"
	"github.com/julianstephens/verse-pages/tools/util"
)

// CLI is the whole build configuration. It is parsed once here and handed to
// each component; nothing below main reads the process environment.
type CLI struct {
	Out        string   `help:"Output directory (cleared at the start of every build)" env:"OUTPUT_DIR"    default:"./dist"`
	SiteBase   string   `help:"Canonical site base URL"                                env:"SITE_BASE"     default:"https://versepages.org"`
	BrandImage string   `help:"Branding image URL stamped on verse pages"              env:"BRAND_IMAGE_URL" default:"https://versepages.org/icons/brand.svg"`
	Domain     string   `help:"Custom domain for CNAME (site base host when empty)"`
	SourceBase []string `help:"Candidate source base URLs, primary first"              env:"SOURCE_BASES"`
	CacheDB    string   `help:"Optional SQLite fetch cache path"                       env:"CACHE_DB"`
}

func main() {
	cli := &CLI{}
	kong.Parse(
		cli,
		kong.Name("verse-build"),
		kong.Description("Builds the fully pre-rendered verse site from the remote corpus"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := run(cli); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	ctx := context.Background()

	var cache *source.Cache
	if cli.CacheDB != "" {
		var err error
		cache, err = source.OpenCache(cli.CacheDB)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				fmt.Printf("Error closing cache: %v\n", err)
			}
		}()
	}

	resolver := source.NewResolver(cli.SourceBase, nil, cache)

	stop := make(chan bool)
	go util.Spinner("locating corpus source", stop)
	loc, err := resolver.Locate(ctx)
	close(stop)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	fmt.Printf("Resolved corpus at %s (%d books)\n", loc.ManifestURL(), len(loc.Books))

	// Sequential fetch-then-normalize, strictly in manifest order.
	books := make([]*scripture.Book, 0, len(loc.Books))
	for _, name := range loc.Books {
		raw, err := resolver.FetchBook(ctx, loc, name)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		book, err := scripture.Normalize(name, raw)
		if err != nil {
			return fmt.Errorf("normalize %q: %w", name, err)
		}
		books = append(books, book)
		fmt.Printf("  %s: %d chapter(s)\n", name, len(book.Chapters))
	}

	corpus, err := scripture.NewCorpus(books)
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}
	counts := scripture.BuildCounts(corpus)

	domain := cli.Domain
	if domain == "" {
		if u, err := url.Parse(cli.SiteBase); err == nil {
			domain = u.Host
		}
	}

	builder := site.NewBuilder(site.Config{
		OutDir:     cli.Out,
		SiteBase:   cli.SiteBase,
		BrandImage: cli.BrandImage,
		Domain:     domain,
	}, corpus, counts)

	result, err := builder.Build()
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Books: %d\n", len(corpus.Books))
	fmt.Printf("Verse Pages: %d\n", result.VersePages)
	fmt.Printf("Chapter Pages: %d\n", result.ChapterPages)
	fmt.Printf("Book Pages: %d\n", result.BookPages)
	fmt.Printf("Sitemap Files: %d\n", result.SitemapFiles)
	fmt.Printf("Total Files: %d\n", result.TotalFiles)
	fmt.Printf("========================================\n")
	return nil
}
