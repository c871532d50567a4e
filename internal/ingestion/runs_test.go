package ingestion

import (
	"testing"

	"github.com/jonathan/resume-profiler/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestReconstructLines_OrdersTopToBottomLeftToRight(t *testing.T) {
	page := types.Page{
		{Text: "Doe", BaselineY: 700.2, X: 120},
		{Text: "Education", BaselineY: 650, X: 50},
		{Text: "Jane", BaselineY: 699.8, X: 50},
		{Text: "jane@example.com", BaselineY: 680, X: 50},
	}

	lines := ReconstructLines([]types.Page{page})

	assert.Equal(t, []string{"Jane Doe", "jane@example.com", "Education"}, lines)
}

func TestReconstructLines_PagesKeepSourceOrder(t *testing.T) {
	first := types.Page{{Text: "Page one bottom", BaselineY: 10, X: 0}}
	second := types.Page{{Text: "Page two top", BaselineY: 800, X: 0}}

	lines := ReconstructLines([]types.Page{first, second})

	assert.Equal(t, []string{"Page one bottom", "Page two top"}, lines)
}

func TestReconstructLines_DropsBlankLines(t *testing.T) {
	page := types.Page{
		{Text: "  ", BaselineY: 100, X: 0},
		{Text: "", BaselineY: 100, X: 10},
		{Text: "Skills", BaselineY: 90, X: 0},
	}

	assert.Equal(t, []string{"Skills"}, ReconstructLines([]types.Page{page}))
}

func TestReconstructLines_EmptyInput(t *testing.T) {
	assert.Empty(t, ReconstructLines(nil))
	assert.Empty(t, ReconstructLines([]types.Page{{}, {}}))
}

func TestReconstructLines_StableForEqualX(t *testing.T) {
	page := types.Page{
		{Text: "first", BaselineY: 10, X: 5},
		{Text: "second", BaselineY: 10, X: 5},
	}

	assert.Equal(t, []string{"first second"}, ReconstructLines([]types.Page{page}))
}
