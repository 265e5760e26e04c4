package services

import (
	"strconv"

	"sales-dashboard/internal/models"
)

// Filter selects records by exact category and an inclusive date range.
// A zero Filter matches everything.
type Filter struct {
	// Category must equal the record's category exactly; empty means any.
	Category string
	// Dates, when set, keeps records dated within the closed range.
	Dates *models.DateRange
}

func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.Dates == nil
}

func (f Filter) Match(r models.Record) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Dates != nil && !f.Dates.Contains(r.OrderDate) {
		return false
	}
	return true
}

// Key identifies the filter for memoization. The category is quoted so
// no category value can collide with a category plus date range.
func (f Filter) Key() string {
	key := "c=" + strconv.Quote(f.Category)
	if f.Dates != nil {
		key += "|d=" + f.Dates.String()
	}
	return key
}

// Apply returns a new Dataset with the matching records. The source is
// never modified, and an empty result is not an error.
func (f Filter) Apply(ds *models.Dataset) *models.Dataset {
	out := make([]models.Record, 0, ds.Len())
	for _, r := range ds.All() {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return models.NewDataset(out)
}
