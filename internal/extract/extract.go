package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extractor turns the bytes of one PDF into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

const (
	EnginePlain = "plain"
	EngineGlyph = "glyph"
)

// DefaultPreviewChars is how much of a document is shown back to the user.
const DefaultPreviewChars = 5000

// New returns the extractor for the named engine. An empty name selects EnginePlain.
func New(engine string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EnginePlain:
		return Plain{}, nil
	case EngineGlyph:
		return Glyph{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor engine %q (want %s|%s)", engine, EnginePlain, EngineGlyph)
	}
}

// ExtractionError means the input could not be read as a PDF.
type ExtractionError struct {
	Page int // 0 when the document itself failed to open
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract text: page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("extract text: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Preview returns at most n runes of text, with "..." appended when it was cut.
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewChars
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos] + "..."
		}
		i++
	}
	return text
}
