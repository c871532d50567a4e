package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-profiler/internal/types"
)

const (
	// wordSpaceMultiplier is the fraction of the font size above which a
	// horizontal gap between glyphs starts a new run
	wordSpaceMultiplier = 0.3
	// baselineTolerance is the vertical distance under which two glyphs share a baseline
	baselineTolerance = 0.5
)

// PDFSource reads positioned glyphs from a PDF and groups them into text runs
type PDFSource struct {
	name string
	data []byte
}

// NewPDFSource creates a source over raw PDF bytes
func NewPDFSource(name string, data []byte) *PDFSource {
	return &PDFSource{name: name, data: data}
}

// Name returns the document name
func (s *PDFSource) Name() string {
	return s.name
}

// Pages extracts text runs from every page in order. Pages that cannot be
// decoded contribute no runs; the reader library panics on some malformed
// streams, which is reported as a DocumentError.
func (s *PDFSource) Pages(ctx context.Context) (pages []types.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &DocumentError{Source: s.name, Message: fmt.Sprintf("panic while reading PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(s.data), int64(len(s.data)))
	if err != nil {
		return nil, &DocumentError{Source: s.name, Message: "failed to open PDF", Cause: err}
	}

	total := reader.NumPage()
	pages = make([]types.Page, 0, total)
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, types.Page{})
			continue
		}
		pages = append(pages, mergeGlyphs(page.Content().Text))
	}
	return pages, nil
}

// mergeGlyphs joins consecutive glyphs that sit on the same baseline and are
// closer than a word space into a single run. Whitespace glyphs end a run.
func mergeGlyphs(glyphs []pdf.Text) types.Page {
	var (
		runs    types.Page
		current strings.Builder
		startX  float64
		baseY   float64
		endX    float64
		open    bool
	)

	flush := func() {
		if open && strings.TrimSpace(current.String()) != "" {
			runs = append(runs, types.TextRun{Text: current.String(), BaselineY: baseY, X: startX})
		}
		current.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}

		gap := wordSpaceMultiplier * g.FontSize
		if gap <= 0 {
			gap = wordSpaceMultiplier
		}
		sameLine := math.Abs(g.Y-baseY) < baselineTolerance
		adjacent := g.X-endX < gap && g.X >= startX

		if !open || !sameLine || !adjacent {
			flush()
			startX = g.X
			baseY = g.Y
			open = true
		}

		current.WriteString(g.S)
		endX = g.X + g.W
	}
	flush()

	return runs
}
