package scripture

// CountsManifest is a flattened, read-only projection of the corpus: per-book
// per-chapter verse counts in corpus order. It is derived once after all
// books are normalized and ships to the output site as books.json for the
// client-side navigator. Both this manifest and navigation derive from the
// same normalized book set, so they are consistent by construction.
type CountsManifest struct {
	Books []BookCounts `json:"books"`
}

// BookCounts carries one book's ordering metadata and chapter counts.
type BookCounts struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Order    int            `json:"order"`
	Chapters []ChapterCount `json:"chapters"`
}

// ChapterCount maps one chapter number to its verse count.
type ChapterCount struct {
	Chapter int `json:"chapter"`
	Verses  int `json:"verses"`
}

// BuildCounts derives the counts manifest from a corpus.
func BuildCounts(c *Corpus) CountsManifest {
	m := CountsManifest{Books: make([]BookCounts, 0, len(c.Books))}
	for _, b := range c.Books {
		bc := BookCounts{
			Name:     b.Name,
			Slug:     b.Slug,
			Order:    b.Order,
			Chapters: make([]ChapterCount, 0, len(b.Chapters)),
		}
		for i := range b.Chapters {
			bc.Chapters = append(bc.Chapters, ChapterCount{
				Chapter: b.Chapters[i].Number,
				Verses:  b.Chapters[i].VerseCount(),
			})
		}
		m.Books = append(m.Books, bc)
	}
	return m
}

// BookOrder returns the book slugs in corpus order.
func BookOrder(c *Corpus) []string {
	slugs := make([]string, 0, len(c.Books))
	for _, b := range c.Books {
		slugs = append(slugs, b.Slug)
	}
	return slugs
}
