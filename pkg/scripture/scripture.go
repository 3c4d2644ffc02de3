// Package scripture holds the canonical in-memory model of a scripture
// corpus: books in a fixed total order, chapters sorted ascending within a
// book, verses sorted ascending within a chapter. Books are constructed once
// by Normalize and never mutated afterwards.
package scripture

// Verse is a single numbered verse with its plain text.
type Verse struct {
	V    int    `json:"v"`
	Text string `json:"text"`
}

// Chapter is one chapter of a book. Verses are sorted ascending by V.
// Chapter numbers within a book are not assumed contiguous.
type Chapter struct {
	Number int     `json:"chapter"`
	Verses []Verse `json:"verses"`
}

// VerseCount is the number of verse entries actually present. It is always
// recomputed from the normalized data, never trusted from input.
func (c *Chapter) VerseCount() int {
	return len(c.Verses)
}

// Text returns the text of verse v, or false if the chapter has no such verse.
func (c *Chapter) Text(v int) (string, bool) {
	for i := range c.Verses {
		if c.Verses[i].V == v {
			return c.Verses[i].Text, true
		}
	}
	return "", false
}

// Book is the canonical representation of one book, independent of the JSON
// shape it was normalized from. Chapters are sorted ascending by Number.
// Order is the book's 1-based position in the source manifest and is assigned
// by NewCorpus.
type Book struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Order    int       `json:"order"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter returns the chapter with the given number, or false if absent.
func (b *Book) Chapter(number int) (*Chapter, bool) {
	for i := range b.Chapters {
		if b.Chapters[i].Number == number {
			return &b.Chapters[i], true
		}
	}
	return nil, false
}

// VerseRef locates one verse as a (book slug, chapter, verse) triple. It is a
// lightweight locator used as both input and output of navigation queries.
type VerseRef struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}
