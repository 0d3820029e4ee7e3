package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	rpdf "rsc.io/pdf"
)

// Plain extracts text with ledongthuc/pdf, page by page.
type Plain struct{}

func (Plain) Extract(data []byte) (text string, err error) {
	defer recoverInto(&err)

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	var b strings.Builder
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Page: i, Err: err}
		}
		b.WriteString(t)
	}
	log.Debug().Str("engine", EnginePlain).Int("pages", n).Int("chars", b.Len()).Msg("extracted pdf text")
	return b.String(), nil
}

// Glyph extracts text with rsc.io/pdf by joining the glyph runs of each page.
type Glyph struct{}

func (Glyph) Extract(data []byte) (text string, err error) {
	defer recoverInto(&err)

	r, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	var b strings.Builder
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		b.WriteString(joinGlyphs(p.Content().Text))
	}
	log.Debug().Str("engine", EngineGlyph).Int("pages", n).Int("chars", b.Len()).Msg("extracted pdf text")
	return b.String(), nil
}

// rsc.io/pdf drops space glyphs, so word and line breaks are recovered from
// glyph positions: a baseline change is a newline, and a horizontal gap wider
// than wordGap of the font size is a space.
const wordGap = 0.15

func joinGlyphs(glyphs []rpdf.Text) string {
	var b strings.Builder
	for i, t := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			size := math.Max(prev.FontSize, 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > size*wordGap:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return b.String()
}

// Both PDF libraries panic on some malformed inputs.
func recoverInto(err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		e = fmt.Errorf("%v", r)
	}
	var ee *ExtractionError
	if errors.As(e, &ee) {
		*err = ee
		return
	}
	*err = &ExtractionError{Err: e}
}
