// Package export writes aggregation results as spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	defaultSheet = "Sheet1"
	headerRow    = 3
)

// ContentType is the MIME type of the workbook WriteXLSX produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName suggests a download name for res.
func FileName(res models.Result) string {
	return fmt.Sprintf("sales-%s.xlsx", res.Mode().Slug())
}

// WriteXLSX writes res as a single-sheet workbook: a title row, a blank row,
// then the result table starting at row 3.
func WriteXLSX(w io.Writer, res models.Result) (err error) {
	if res == nil {
		return errors.New("export: nil result")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	sheet := res.Mode().String()
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, rows := table(res)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#3B528B"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", res.Title()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	if err := writeRow(f, sheet, headerRow, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		if err := writeRow(f, sheet, headerRow+1+i, row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// table flattens res into a header and data rows. Heatmap cells without
// records are left blank rather than written as zero.
func table(res models.Result) ([]any, [][]any) {
	switch r := res.(type) {
	case models.MonthlyMeanSeries:
		rows := make([][]any, len(r.Points))
		for i, p := range r.Points {
			rows[i] = []any{p.Month.String(), p.MeanSales, p.Orders}
		}
		return []any{"Month", "Mean Sales", "Orders"}, rows
	case models.ScatterSeries:
		rows := make([][]any, len(r.Points))
		for i, p := range r.Points {
			rows[i] = []any{p.ProductName, p.CustomerSegment, p.Sales, p.Profit, p.Discount}
		}
		return []any{"Product Name", "Customer Segment", "Sales", "Profit", "Discount"}, rows
	case models.RegionTotals:
		rows := make([][]any, len(r.Totals))
		for i, t := range r.Totals {
			rows[i] = []any{t.Region, t.TotalSales}
		}
		return []any{"Region", "Total Sales"}, rows
	case models.CategoryTotals:
		rows := make([][]any, len(r.Totals))
		for i, t := range r.Totals {
			rows[i] = []any{t.Category, t.TotalSales}
		}
		return []any{"Product Category", "Total Sales"}, rows
	case models.RegionMonthPivot:
		header := make([]any, 0, len(r.Months)+1)
		header = append(header, "Region")
		for _, m := range r.Months {
			header = append(header, m.String())
		}
		rows := make([][]any, len(r.Regions))
		for i, region := range r.Regions {
			row := make([]any, 0, len(r.Months)+1)
			row = append(row, region)
			for j := range r.Months {
				if r.Counts[i][j] == 0 {
					row = append(row, nil)
					continue
				}
				row = append(row, r.Cells[i][j])
			}
			rows[i] = row
		}
		return header, rows
	}
	return []any{"Value"}, nil
}
