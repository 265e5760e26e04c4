package models

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one sales transaction row.
type Record struct {
	OrderDate       time.Time
	Category        string
	Region          string
	Sales           decimal.Decimal
	Profit          decimal.Decimal
	CustomerSegment string
	Discount        decimal.Decimal
	ProductName     string
}

// Dataset is an immutable, ordered set of records. It is built once and
// shared read-only; filtering produces a new Dataset.
type Dataset struct {
	records    []Record
	categories []string
	regions    []string
}

// NewDataset copies records into a new Dataset. Order dates are normalized to
// calendar days in UTC.
func NewDataset(records []Record) *Dataset {
	owned := make([]Record, len(records))
	seenCategory := make(map[string]struct{})
	seenRegion := make(map[string]struct{})

	ds := &Dataset{records: owned}
	for i, r := range records {
		r.OrderDate = Day(r.OrderDate)
		owned[i] = r

		if _, ok := seenCategory[r.Category]; !ok {
			seenCategory[r.Category] = struct{}{}
			ds.categories = append(ds.categories, r.Category)
		}
		if _, ok := seenRegion[r.Region]; !ok {
			seenRegion[r.Region] = struct{}{}
			ds.regions = append(ds.regions, r.Region)
		}
	}
	return ds
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// All iterates records in load order.
func (d *Dataset) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if d == nil {
			return
		}
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the records.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// Categories returns the distinct categories in first-appearance order.
func (d *Dataset) Categories() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.categories)
}

// Regions returns the distinct regions in first-appearance order.
func (d *Dataset) Regions() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.regions)
}

// Span returns the earliest and latest order dates.
func (d *Dataset) Span() (DateRange, bool) {
	if d.Len() == 0 {
		return DateRange{}, false
	}
	span := DateRange{Start: d.records[0].OrderDate, End: d.records[0].OrderDate}
	for _, r := range d.records[1:] {
		if r.OrderDate.Before(span.Start) {
			span.Start = r.OrderDate
		}
		if r.OrderDate.After(span.End) {
			span.End = r.OrderDate
		}
	}
	return span, true
}
