package services

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

type salesAccumulator struct {
	sum   decimal.Decimal
	count int
}

func (a *salesAccumulator) add(v decimal.Decimal) {
	a.sum = a.sum.Add(v)
	a.count++
}

func (a *salesAccumulator) mean() decimal.Decimal {
	return a.sum.Div(decimal.NewFromInt(int64(a.count)))
}

// Aggregate filters ds and reduces it to the table the chart mode needs.
// Pie and heatmap modes ignore the filter and summarize the whole dataset.
func Aggregate(ds *models.Dataset, mode models.ChartMode, f Filter) (models.Result, error) {
	switch mode {
	case models.LinePlot:
		return models.MonthlyMeanSeries{
			Category: f.Category,
			Points:   MonthlyMeans(f.Apply(ds)),
		}, nil
	case models.ScatterPlot:
		return models.ScatterSeries{
			Category: f.Category,
			Points:   ScatterPoints(f.Apply(ds)),
		}, nil
	case models.BarChart:
		return models.RegionTotals{
			Category: f.Category,
			Totals:   RegionSums(f.Apply(ds)),
		}, nil
	case models.PieChart:
		return models.CategoryTotals{Totals: CategorySums(ds)}, nil
	case models.Heatmap:
		return PivotRegionMonth(ds), nil
	}
	return nil, fmt.Errorf("%w: chart mode %d", models.ErrInvalidSelection, int(mode))
}

// MonthlyMeans averages sales per calendar month, ascending. Months without
// records do not appear.
func MonthlyMeans(ds *models.Dataset) []models.MonthlyMean {
	groups := make(map[models.Month]*salesAccumulator)
	for _, r := range ds.All() {
		m := models.MonthOf(r.OrderDate)
		acc, ok := groups[m]
		if !ok {
			acc = &salesAccumulator{}
			groups[m] = acc
		}
		acc.add(r.Sales)
	}

	out := make([]models.MonthlyMean, 0, len(groups))
	for m, acc := range groups {
		out = append(out, models.MonthlyMean{
			Month:     m,
			MeanSales: acc.mean().InexactFloat64(),
			Orders:    acc.count,
		})
	}
	slices.SortFunc(out, func(a, b models.MonthlyMean) int {
		return a.Month.Compare(b.Month)
	})
	return out
}

// RegionSums totals sales per region, ordered by region name.
func RegionSums(ds *models.Dataset) []models.RegionTotal {
	sums := sumBy(ds, func(r models.Record) string { return r.Region })

	out := make([]models.RegionTotal, 0, len(sums))
	for region, total := range sums {
		out = append(out, models.RegionTotal{Region: region, TotalSales: total.InexactFloat64()})
	}
	slices.SortFunc(out, func(a, b models.RegionTotal) int {
		return cmp.Compare(a.Region, b.Region)
	})
	return out
}

// CategorySums totals sales per product category, ordered by category name.
func CategorySums(ds *models.Dataset) []models.CategoryTotal {
	sums := sumBy(ds, func(r models.Record) string { return r.Category })

	out := make([]models.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		out = append(out, models.CategoryTotal{Category: category, TotalSales: total.InexactFloat64()})
	}
	slices.SortFunc(out, func(a, b models.CategoryTotal) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// ScatterPoints projects records onto the sales/profit plane.
func ScatterPoints(ds *models.Dataset) []models.ScatterPoint {
	out := make([]models.ScatterPoint, 0, ds.Len())
	for _, r := range ds.All() {
		out = append(out, models.ScatterPoint{
			Sales:           r.Sales.InexactFloat64(),
			Profit:          r.Profit.InexactFloat64(),
			CustomerSegment: r.CustomerSegment,
			Discount:        r.Discount.InexactFloat64(),
			ProductName:     r.ProductName,
		})
	}
	return out
}

type pivotKey struct {
	month  models.Month
	region string
}

// PivotRegionMonth sums sales per (month, region) and reshapes the groups
// into a dense region x month table.
func PivotRegionMonth(ds *models.Dataset) models.RegionMonthPivot {
	groups := make(map[pivotKey]*salesAccumulator)
	regionSet := make(map[string]struct{})
	monthSet := make(map[models.Month]struct{})

	for _, r := range ds.All() {
		key := pivotKey{month: models.MonthOf(r.OrderDate), region: r.Region}
		acc, ok := groups[key]
		if !ok {
			acc = &salesAccumulator{}
			groups[key] = acc
		}
		acc.add(r.Sales)
		regionSet[key.region] = struct{}{}
		monthSet[key.month] = struct{}{}
	}

	regions := make([]string, 0, len(regionSet))
	for region := range regionSet {
		regions = append(regions, region)
	}
	slices.Sort(regions)

	months := make([]models.Month, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	slices.SortFunc(months, models.Month.Compare)

	pivot := models.RegionMonthPivot{
		Regions: regions,
		Months:  months,
		Cells:   make([][]float64, len(regions)),
		Counts:  make([][]int, len(regions)),
	}
	for i, region := range regions {
		pivot.Cells[i] = make([]float64, len(months))
		pivot.Counts[i] = make([]int, len(months))
		for j, m := range months {
			if acc, ok := groups[pivotKey{month: m, region: region}]; ok {
				pivot.Cells[i][j] = acc.sum.InexactFloat64()
				pivot.Counts[i][j] = acc.count
			}
		}
	}
	return pivot
}

func sumBy(ds *models.Dataset, key func(models.Record) string) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range ds.All() {
		k := key(r)
		sums[k] = sums[k].Add(r.Sales)
	}
	return sums
}
