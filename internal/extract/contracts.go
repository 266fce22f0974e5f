package extract

import (
	"context"
)

// Table is a raw grid as returned by the extraction primitive. A nil cell is
// an absent cell; rows may have different lengths.
type Table [][]*string

// Cell returns the cell at row r, column c, or nil when out of range.
func (t Table) Cell(r, c int) *string {
	if r < 0 || r >= len(t) || c < 0 || c >= len(t[r]) {
		return nil
	}
	return t[r][c]
}

// Page is one page of a bulletin as seen through the extraction primitive.
type Page interface {
	Number() int
	// PlainText returns the page text in reading order.
	PlainText(ctx context.Context) (string, error)
	// Table returns the raw grid. A nil settings uses the primitive's defaults.
	Table(ctx context.Context, settings *TableSettings) (Table, error)
}

// Source yields the pages of one bulletin. Page numbers start at 1.
type Source interface {
	PageCount(ctx context.Context) (int, error)
	Page(ctx context.Context, n int) (Page, error)
}

// TableSettings tunes grid detection on noisy pages.
type TableSettings struct {
	VerticalStrategy       string  `json:"vertical_strategy"`
	HorizontalStrategy     string  `json:"horizontal_strategy"`
	SnapTolerance          float64 `json:"snap_tolerance"`
	SnapXTolerance         float64 `json:"snap_x_tolerance"`
	SnapYTolerance         float64 `json:"snap_y_tolerance"`
	JoinTolerance          float64 `json:"join_tolerance"`
	JoinXTolerance         float64 `json:"join_x_tolerance"`
	JoinYTolerance         float64 `json:"join_y_tolerance"`
	EdgeMinLength          float64 `json:"edge_min_length"`
	MinWordsVertical       int     `json:"min_words_vertical"`
	MinWordsHorizontal     int     `json:"min_words_horizontal"`
	IntersectionTolerance  float64 `json:"intersection_tolerance"`
	IntersectionXTolerance float64 `json:"intersection_x_tolerance"`
	IntersectionYTolerance float64 `json:"intersection_y_tolerance"`
	TextTolerance          float64 `json:"text_tolerance"`
	TextXTolerance         float64 `json:"text_x_tolerance"`
	TextYTolerance         float64 `json:"text_y_tolerance"`
}

// ResultTableSettings returns the geometry used for result grids.
func ResultTableSettings() *TableSettings {
	return &TableSettings{
		VerticalStrategy:       "lines",
		HorizontalStrategy:     "lines",
		SnapTolerance:          3,
		SnapXTolerance:         3,
		SnapYTolerance:         8,
		JoinTolerance:          3,
		JoinXTolerance:         3,
		JoinYTolerance:         15,
		EdgeMinLength:          3,
		MinWordsVertical:       3,
		MinWordsHorizontal:     1,
		IntersectionTolerance:  3,
		IntersectionXTolerance: 3,
		IntersectionYTolerance: 3,
		TextTolerance:          3,
		TextXTolerance:         3,
		TextYTolerance:         3,
	}
}
