package scripture

import "fmt"

// Corpus is the ordered set of all normalized books. Book order is fixed at
// construction time (the manifest order) and is significant: cross-book
// navigation follows it, never a re-sort.
type Corpus struct {
	Books  []*Book
	bySlug map[string]*Book
}

// NewCorpus builds a corpus from books in manifest order. It assigns each
// book its 1-based Order and fails fast on a slug collision: two distinct
// names mapping to the same slug would silently overwrite each other's
// output artifacts.
func NewCorpus(books []*Book) (*Corpus, error) {
	if len(books) == 0 {
		return nil, &CorpusError{Kind: OrderError, Err: ErrEmptyCorpus}
	}

	c := &Corpus{
		Books:  books,
		bySlug: make(map[string]*Book, len(books)),
	}
	for i, b := range books {
		b.Order = i + 1
		if prev, exists := c.bySlug[b.Slug]; exists {
			msg := fmt.Sprintf("%q and %q both slugify to %q", prev.Name, b.Name, b.Slug)
			return nil, &CorpusError{Kind: OrderError, Message: &msg, Err: ErrSlugCollision}
		}
		c.bySlug[b.Slug] = b
	}
	return c, nil
}

// Book returns the book with the given slug.
func (c *Corpus) Book(slug string) (*Book, bool) {
	b, exists := c.bySlug[slug]
	return b, exists
}

// VerseCount returns the verse count for (slug, chapter), or 0 if the book or
// chapter does not exist.
func (c *Corpus) VerseCount(slug string, chapter int) int {
	b, exists := c.bySlug[slug]
	if !exists {
		return 0
	}
	ch, exists := b.Chapter(chapter)
	if !exists {
		return 0
	}
	return ch.VerseCount()
}
