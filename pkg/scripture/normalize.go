package scripture

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field name spellings accepted for verse objects. Different source mirrors
// label the same data differently.
var (
	verseNumberKeys = []string{"verse", "number", "num"}
	verseTextKeys   = []string{"text", "content"}
)

// Normalize converts raw book JSON into a canonical Book. Three top-level
// shapes are accepted, tried in priority order:
//
//  1. {"chapters": [{"chapter": N, "verses": ...}, ...]}
//  2. {"chapters": {"N": verses, ...}}
//  3. [verses, verses, ...] with chapter number = 1-based position
//
// Each chapter's verse payload may be a sequence (elements are verse objects
// or bare scalars) or a mapping from verse number to text. Anything matching
// none of the shapes fails with a normalize-kind CorpusError naming the book.
// Normalization is idempotent: chapters and verses come out sorted and counts
// are recomputed from the entries actually produced.
func Normalize(name string, raw []byte) (*Book, error) {
	chapters, err := decodeChapters(raw)
	if err != nil {
		msg := fmt.Sprintf("book %q", name)
		return nil, &CorpusError{Kind: NormalizeError, Message: &msg, Err: ErrUnknownShape, Cause: err}
	}

	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return &Book{
		Name:     name,
		Slug:     Slugify(name),
		Chapters: chapters,
	}, nil
}

func decodeChapters(raw []byte) ([]Chapter, error) {
	var wrapper struct {
		Chapters json.RawMessage `json:"chapters"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Chapters) > 0 {
		// Shape 1: sequence of chapter objects.
		var objs []struct {
			Chapter int             `json:"chapter"`
			Verses  json.RawMessage `json:"verses"`
		}
		if err := json.Unmarshal(wrapper.Chapters, &objs); err == nil {
			chapters := make([]Chapter, 0, len(objs))
			for i, obj := range objs {
				number := obj.Chapter
				if number == 0 {
					number = i + 1
				}
				verses, err := decodeVerses(obj.Verses)
				if err != nil {
					return nil, fmt.Errorf("chapter %d: %w", number, err)
				}
				chapters = append(chapters, Chapter{Number: number, Verses: verses})
			}
			return chapters, nil
		}

		// Shape 2: mapping keyed by chapter number.
		var byNumber map[string]json.RawMessage
		if err := json.Unmarshal(wrapper.Chapters, &byNumber); err == nil {
			chapters := make([]Chapter, 0, len(byNumber))
			for key, payload := range byNumber {
				number, err := strconv.Atoi(strings.TrimSpace(key))
				if err != nil {
					return nil, fmt.Errorf("non-numeric chapter key %q", key)
				}
				verses, err := decodeVerses(payload)
				if err != nil {
					return nil, fmt.Errorf("chapter %d: %w", number, err)
				}
				chapters = append(chapters, Chapter{Number: number, Verses: verses})
			}
			return chapters, nil
		}

		return nil, fmt.Errorf("chapters field is neither a sequence nor a mapping")
	}

	// Shape 3: bare sequence of verse payloads, one per chapter.
	var bare []json.RawMessage
	if err := json.Unmarshal(raw, &bare); err == nil {
		chapters := make([]Chapter, 0, len(bare))
		for i, payload := range bare {
			verses, err := decodeVerses(payload)
			if err != nil {
				return nil, fmt.Errorf("chapter %d: %w", i+1, err)
			}
			chapters = append(chapters, Chapter{Number: i + 1, Verses: verses})
		}
		return chapters, nil
	}

	return nil, fmt.Errorf("top-level JSON is neither a chapters object nor a sequence")
}

func decodeVerses(raw json.RawMessage) ([]Verse, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing verses")
	}

	// Sequence shape: verse objects or bare scalars.
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err == nil {
		verses := make([]Verse, 0, len(seq))
		for i, el := range seq {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(el, &obj); err == nil && obj != nil {
				v, err := decodeVerseObject(i+1, obj)
				if err != nil {
					return nil, err
				}
				verses = append(verses, v)
				continue
			}
			text, ok := scalarText(el)
			if !ok {
				return nil, fmt.Errorf("verse %d is neither an object nor a scalar", i+1)
			}
			verses = append(verses, Verse{V: i + 1, Text: text})
		}
		sortVerses(verses)
		return verses, nil
	}

	// Mapping shape: verse number key to text value.
	var byNumber map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byNumber); err == nil {
		verses := make([]Verse, 0, len(byNumber))
		for key, payload := range byNumber {
			number, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				return nil, fmt.Errorf("non-numeric verse key %q", key)
			}
			text, ok := scalarText(payload)
			if !ok {
				// Values may themselves be objects carrying a text field.
				var obj map[string]json.RawMessage
				if err := json.Unmarshal(payload, &obj); err != nil {
					return nil, fmt.Errorf("verse %d has no usable text", number)
				}
				text = lookupText(obj)
			}
			verses = append(verses, Verse{V: number, Text: text})
		}
		sortVerses(verses)
		return verses, nil
	}

	return nil, fmt.Errorf("verses are neither a sequence nor a mapping")
}

// decodeVerseObject reads one verse object, accepting the alternate field
// spellings. A missing verse number falls back to the 1-based position.
func decodeVerseObject(position int, obj map[string]json.RawMessage) (Verse, error) {
	number := position
	for _, key := range verseNumberKeys {
		if payload, exists := obj[key]; exists {
			if n, ok := intValue(payload); ok && n > 0 {
				number = n
				break
			}
		}
	}
	return Verse{V: number, Text: lookupText(obj)}, nil
}

func lookupText(obj map[string]json.RawMessage) string {
	for _, key := range verseTextKeys {
		if payload, exists := obj[key]; exists {
			if s, ok := scalarText(payload); ok {
				return s
			}
		}
	}
	return ""
}

// intValue reads a JSON number or a numeric string.
func intValue(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// scalarText reads a JSON string, or renders a bare JSON number as text.
func scalarText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func sortVerses(verses []Verse) {
	sort.Slice(verses, func(i, j int) bool { return verses[i].V < verses[j].V })
}
