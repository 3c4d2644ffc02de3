// Package site renders a normalized corpus into the final static tree: one
// page per verse plus chapter/book indexes, the root redirect, robots policy,
// sitemaps, and the checksum manifest. Emission is sequential; any write
// failure is fatal for the whole build and nothing is retried.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/verse-pages/pkg/scripture"
)

// verseTextPlaceholder stands in for verses whose source text is absent or
// empty; the page is still emitted so navigation stays dense.
const verseTextPlaceholder = "[verse text unavailable]"

// Config is the assembler's slice of the build configuration. It is
// constructed once in main and passed down; nothing here reads the process
// environment.
type Config struct {
	OutDir     string
	SiteBase   string
	BrandImage string
	Domain     string
}

// Result tallies the emitted artifacts.
type Result struct {
	VersePages   int
	ChapterPages int
	BookPages    int
	SitemapFiles int
	TotalFiles   int
}

// Builder drives artifact emission for one corpus.
type Builder struct {
	cfg     Config
	corpus  *scripture.Corpus
	counts  scripture.CountsManifest
	written []string
}

// NewBuilder prepares a builder. Trailing slashes on the site base are
// stripped so canonical URLs join cleanly.
func NewBuilder(cfg Config, corpus *scripture.Corpus, counts scripture.CountsManifest) *Builder {
	cfg.SiteBase = strings.TrimRight(cfg.SiteBase, "/")
	return &Builder{cfg: cfg, corpus: corpus, counts: counts}
}

// Build clears the output root and emits the whole site. Books are iterated
// in corpus order, chapters ascending, verses 1..verseCount.
func (b *Builder) Build() (*Result, error) {
	if err := os.RemoveAll(b.cfg.OutDir); err != nil {
		return nil, fmt.Errorf("clearing output dir: %w", err)
	}
	if err := os.MkdirAll(b.cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	res := &Result{}
	var urls []string
	for _, book := range b.corpus.Books {
		if err := b.writeBookPage(book); err != nil {
			return nil, err
		}
		res.BookPages++
		for i := range book.Chapters {
			ch := &book.Chapters[i]
			if err := b.writeChapterPage(book, ch); err != nil {
				return nil, err
			}
			res.ChapterPages++
			for v := 1; v <= ch.VerseCount(); v++ {
				if err := b.writeVersePage(book, ch, v); err != nil {
					return nil, err
				}
				urls = append(urls, b.verseURL(book.Slug, ch.Number, v))
				res.VersePages++
			}
		}
	}

	if err := b.writeBooksJSON(); err != nil {
		return nil, err
	}
	if err := b.writeRootRedirect(); err != nil {
		return nil, err
	}
	sitemapFiles, err := b.writeSitemaps(urls)
	if err != nil {
		return nil, err
	}
	res.SitemapFiles = sitemapFiles
	if err := b.writeRobots(); err != nil {
		return nil, err
	}
	if b.cfg.Domain != "" {
		if err := b.writeFile("CNAME", []byte(b.cfg.Domain+"\n")); err != nil {
			return nil, err
		}
	}
	if err := b.writeChecksumManifest(); err != nil {
		return nil, err
	}
	res.TotalFiles = len(b.written) + 1
	return res, nil
}

// ── Canonical URLs ──

func (b *Builder) verseURL(slug string, chapter, verse int) string {
	return fmt.Sprintf("%s/%s/%d/%d/", b.cfg.SiteBase, slug, chapter, verse)
}

func (b *Builder) chapterURL(slug string, chapter int) string {
	return fmt.Sprintf("%s/%s/%d/", b.cfg.SiteBase, slug, chapter)
}

func (b *Builder) bookURL(slug string) string {
	return fmt.Sprintf("%s/%s/", b.cfg.SiteBase, slug)
}

// ── Page emission ──

type versePageData struct {
	BookName     string
	Chapter      int
	Verse        int
	Text         string
	CanonicalURL string
	ChapterURL   string
	PrevURL      string
	NextURL      string
	BrandImage   string
}

func (b *Builder) writeVersePage(book *scripture.Book, ch *scripture.Chapter, verse int) error {
	text, exists := ch.Text(verse)
	if !exists || text == "" {
		text = verseTextPlaceholder
	}

	data := versePageData{
		BookName:     book.Name,
		Chapter:      ch.Number,
		Verse:        verse,
		Text:         text,
		CanonicalURL: b.verseURL(book.Slug, ch.Number, verse),
		ChapterURL:   b.chapterURL(book.Slug, ch.Number),
		BrandImage:   b.cfg.BrandImage,
	}
	ref := scripture.VerseRef{Book: book.Slug, Chapter: ch.Number, Verse: verse}
	if prev, exists := b.corpus.Previous(ref); exists {
		data.PrevURL = b.verseURL(prev.Book, prev.Chapter, prev.Verse)
	}
	if next, exists := b.corpus.Next(ref); exists {
		data.NextURL = b.verseURL(next.Book, next.Chapter, next.Verse)
	}

	rel := filepath.Join(book.Slug, fmt.Sprint(ch.Number), fmt.Sprint(verse), "index.html")
	return b.writePage(rel, versePageTmpl, data)
}

type chapterPageData struct {
	BookName     string
	Chapter      int
	CanonicalURL string
	Verses       []chapterVerseItem
}

type chapterVerseItem struct {
	Number int
	URL    string
}

func (b *Builder) writeChapterPage(book *scripture.Book, ch *scripture.Chapter) error {
	data := chapterPageData{
		BookName:     book.Name,
		Chapter:      ch.Number,
		CanonicalURL: b.chapterURL(book.Slug, ch.Number),
	}
	for v := 1; v <= ch.VerseCount(); v++ {
		data.Verses = append(data.Verses, chapterVerseItem{
			Number: v,
			URL:    b.verseURL(book.Slug, ch.Number, v),
		})
	}
	rel := filepath.Join(book.Slug, fmt.Sprint(ch.Number), "index.html")
	return b.writePage(rel, chapterPageTmpl, data)
}

type bookPageData struct {
	BookName      string
	CanonicalURL  string
	FirstVerseURL string
	Chapters      []bookChapterItem
}

type bookChapterItem struct {
	Number int
	URL    string
}

func (b *Builder) writeBookPage(book *scripture.Book) error {
	data := bookPageData{
		BookName:      book.Name,
		CanonicalURL:  b.bookURL(book.Slug),
		FirstVerseURL: b.bookURL(book.Slug),
	}
	for i := range book.Chapters {
		ch := &book.Chapters[i]
		if ch.VerseCount() > 0 && data.FirstVerseURL == b.bookURL(book.Slug) {
			data.FirstVerseURL = b.verseURL(book.Slug, ch.Number, 1)
		}
		data.Chapters = append(data.Chapters, bookChapterItem{
			Number: ch.Number,
			URL:    b.chapterURL(book.Slug, ch.Number),
		})
	}
	return b.writePage(filepath.Join(book.Slug, "index.html"), bookPageTmpl, data)
}

// writeRootRedirect emits /index.html redirecting to the first verse of the
// first book in corpus order.
func (b *Builder) writeRootRedirect() error {
	first, exists := b.corpus.First()
	if !exists {
		return fmt.Errorf("corpus has no verses to redirect to")
	}
	target := b.verseURL(first.Book, first.Chapter, first.Verse)
	return b.writePage("index.html", rootRedirectTmpl, struct{ Target string }{target})
}

func (b *Builder) writeRobots() error {
	content := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", b.cfg.SiteBase)
	return b.writeFile("robots.txt", []byte(content))
}

func (b *Builder) writeBooksJSON() error {
	data, err := json.MarshalIndent(b.counts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling books.json: %w", err)
	}
	return b.writeFile("books.json", append(data, '\n'))
}

// ── Low-level writing ──

func (b *Builder) writePage(relPath string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", relPath, err)
	}
	return b.writeFile(relPath, buf.Bytes())
}

func (b *Builder) writeFile(relPath string, data []byte) error {
	path := filepath.Join(b.cfg.OutDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	b.written = append(b.written, relPath)
	return nil
}
