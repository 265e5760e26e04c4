package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

const (
	colOrderDate       = "Order Date"
	colCategory        = "Product Category"
	colRegion          = "Region"
	colSales           = "Sales"
	colProfit          = "Profit"
	colCustomerSegment = "Customer Segment"
	colDiscount        = "Discount"
	colProductName     = "Product Name"
)

// RequiredColumns lists the header names the input file must provide.
var RequiredColumns = []string{
	colOrderDate,
	colCategory,
	colRegion,
	colSales,
	colProfit,
	colCustomerSegment,
	colDiscount,
	colProductName,
}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoRecords     = errors.New("no records found")
	ErrEmptyFile     = errors.New("empty file")
)

// dateLayouts are tried in order for the Order Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// LoadError describes why the input file could not be turned into a Dataset.
// Line is 1-based and zero when the failure is not tied to a row.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	if e.Path != "" {
		b.WriteString(e.Path)
	} else {
		b.WriteString("dataset")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type rawRow struct {
	line   int
	fields []string
}

type columnIndex map[string]int

// LoadDataset reads the CSV file at path into an immutable Dataset.
func LoadDataset(ctx context.Context, path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	ds, err := ReadDataset(ctx, file)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

// ReadDataset parses CSV content. Any malformed row fails the whole load.
func ReadDataset(ctx context.Context, r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, &LoadError{Line: 1, Err: err}
	}

	index, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []rawRow
	for {
		if len(rows)%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			loadErr := &LoadError{Err: err}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				loadErr.Line = parseErr.Line
			}
			return nil, loadErr
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{line: line, fields: fields})
	}

	if len(rows) == 0 {
		return nil, &LoadError{Err: ErrNoRecords}
	}

	records := make([]models.Record, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(rows[i], index)
				if err != nil {
					return err
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return models.NewDataset(records), nil
}

func indexColumns(header []string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{
			Line:   1,
			Column: strings.Join(missing, ", "),
			Err:    ErrMissingColumn,
		}
	}
	return index, nil
}

func parseRecord(row rawRow, index columnIndex) (models.Record, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row.fields) {
			return ""
		}
		return strings.TrimSpace(row.fields[i])
	}
	fail := func(col string, err error) (models.Record, error) {
		return models.Record{}, &LoadError{Line: row.line, Column: col, Err: err}
	}

	orderDate, err := parseDate(field(colOrderDate))
	if err != nil {
		return fail(colOrderDate, err)
	}

	sales, err := decimal.NewFromString(field(colSales))
	if err != nil {
		return fail(colSales, err)
	}
	if sales.IsNegative() {
		return fail(colSales, fmt.Errorf("negative sales amount %s", sales))
	}

	profit, err := decimal.NewFromString(field(colProfit))
	if err != nil {
		return fail(colProfit, err)
	}

	discount, err := decimal.NewFromString(field(colDiscount))
	if err != nil {
		return fail(colDiscount, err)
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(1)) {
		return fail(colDiscount, fmt.Errorf("discount %s outside [0, 1]", discount))
	}

	return models.Record{
		OrderDate:       orderDate,
		Category:        field(colCategory),
		Region:          field(colRegion),
		Sales:           sales,
		Profit:          profit,
		CustomerSegment: field(colCustomerSegment),
		Discount:        discount,
		ProductName:     field(colProductName),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
