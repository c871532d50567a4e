// Package ingestion turns documents into normalized reading-order text lines.
package ingestion

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-profiler/internal/types"
)

// MinTextLength is the minimum number of characters a document must yield
// before extraction is attempted.
const MinTextLength = 50

// ReconstructLines converts per-page text runs into ordered lines that
// approximate visual reading order. Runs sharing a rounded baseline form one
// line, sorted left to right; lines are ordered top of page first, since
// document coordinates increase upward. Pages keep their source order.
func ReconstructLines(pages []types.Page) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, pageLines(page)...)
	}
	return lines
}

// pageLines reconstructs the lines of a single page
func pageLines(page types.Page) []string {
	if len(page) == 0 {
		return nil
	}

	rows := make(map[float64][]types.TextRun)
	for _, run := range page {
		y := math.Round(run.BaselineY)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = 0
		}
		rows[y] = append(rows[y], run)
	}

	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	lines := make([]string, 0, len(ys))
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		texts := make([]string, 0, len(row))
		for _, run := range row {
			texts = append(texts, run.Text)
		}

		line := strings.Join(texts, " ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
