package scripture

// Sequential navigation across the corpus. Next and Previous are pure
// functions of the corpus: ordering always follows the stored ascending
// chapter order and the manifest book order, never a numeric re-derivation.
// Chapters with zero verses are stepped over entirely so that no reference
// to verse 0 can ever be produced.

// Next returns the reference immediately following ref, or false at the
// absolute end of the corpus.
func (c *Corpus) Next(ref VerseRef) (VerseRef, bool) {
	book, bookIdx, chapterIdx, exists := c.locate(ref)
	if !exists {
		return VerseRef{}, false
	}

	if ref.Verse < book.Chapters[chapterIdx].VerseCount() {
		return VerseRef{Book: book.Slug, Chapter: ref.Chapter, Verse: ref.Verse + 1}, true
	}

	for i := chapterIdx + 1; i < len(book.Chapters); i++ {
		if book.Chapters[i].VerseCount() > 0 {
			return VerseRef{Book: book.Slug, Chapter: book.Chapters[i].Number, Verse: 1}, true
		}
	}

	for i := bookIdx + 1; i < len(c.Books); i++ {
		next := c.Books[i]
		for j := range next.Chapters {
			if next.Chapters[j].VerseCount() > 0 {
				return VerseRef{Book: next.Slug, Chapter: next.Chapters[j].Number, Verse: 1}, true
			}
		}
	}

	return VerseRef{}, false
}

// Previous returns the reference immediately preceding ref, or false at the
// absolute start of the corpus.
func (c *Corpus) Previous(ref VerseRef) (VerseRef, bool) {
	book, bookIdx, chapterIdx, exists := c.locate(ref)
	if !exists {
		return VerseRef{}, false
	}

	if ref.Verse > 1 {
		return VerseRef{Book: book.Slug, Chapter: ref.Chapter, Verse: ref.Verse - 1}, true
	}

	for i := chapterIdx - 1; i >= 0; i-- {
		if n := book.Chapters[i].VerseCount(); n > 0 {
			return VerseRef{Book: book.Slug, Chapter: book.Chapters[i].Number, Verse: n}, true
		}
	}

	for i := bookIdx - 1; i >= 0; i-- {
		prev := c.Books[i]
		for j := len(prev.Chapters) - 1; j >= 0; j-- {
			if n := prev.Chapters[j].VerseCount(); n > 0 {
				return VerseRef{Book: prev.Slug, Chapter: prev.Chapters[j].Number, Verse: n}, true
			}
		}
	}

	return VerseRef{}, false
}

// First returns the first verse of the corpus in book order, skipping any
// leading empty chapters or books.
func (c *Corpus) First() (VerseRef, bool) {
	for _, b := range c.Books {
		for i := range b.Chapters {
			if b.Chapters[i].VerseCount() > 0 {
				return VerseRef{Book: b.Slug, Chapter: b.Chapters[i].Number, Verse: 1}, true
			}
		}
	}
	return VerseRef{}, false
}

// locate resolves ref to its book and chapter indexes within the stored order.
func (c *Corpus) locate(ref VerseRef) (*Book, int, int, bool) {
	book, exists := c.bySlug[ref.Book]
	if !exists {
		return nil, 0, 0, false
	}
	for i := range book.Chapters {
		if book.Chapters[i].Number == ref.Chapter {
			return book, book.Order - 1, i, true
		}
	}
	return nil, 0, 0, false
}
