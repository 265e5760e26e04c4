package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func TestMonthlyMeans(t *testing.T) {
	ds := models.NewDataset([]models.Record{
		rec("2023-02-10", "Technology", "East", "30"),
		rec("2023-01-05", "Technology", "East", "10"),
		rec("2023-01-25", "Technology", "West", "20"),
	})

	got := MonthlyMeans(ds)

	require.Len(t, got, 2)
	assert.Equal(t, models.Month{Year: 2023, Month: 1}, got[0].Month)
	assert.Equal(t, 15.0, got[0].MeanSales)
	assert.Equal(t, 2, got[0].Orders)
	assert.Equal(t, models.Month{Year: 2023, Month: 2}, got[1].Month)
	assert.Equal(t, 30.0, got[1].MeanSales)
}

func TestMonthlyMeansSkipsEmptyMonths(t *testing.T) {
	ds := models.NewDataset([]models.Record{
		rec("2022-12-31", "Technology", "East", "4"),
		rec("2023-03-01", "Technology", "East", "8"),
	})

	got := MonthlyMeans(ds)

	require.Len(t, got, 2)
	assert.Equal(t, "2022-12", got[0].Month.String())
	assert.Equal(t, "2023-03", got[1].Month.String())
}

func TestRegionSums(t *testing.T) {
	records := []models.Record{
		rec("2023-01-01", "Technology", "East", "100"),
		rec("2023-01-02", "Technology", "West", "30"),
		rec("2023-01-03", "Technology", "East", "50"),
	}
	want := []models.RegionTotal{
		{Region: "East", TotalSales: 150},
		{Region: "West", TotalSales: 30},
	}

	assert.Equal(t, want, RegionSums(models.NewDataset(records)))

	// input order does not matter
	reversed := []models.Record{records[2], records[1], records[0]}
	assert.Equal(t, want, RegionSums(models.NewDataset(reversed)))
}

func TestRegionSumsAreExact(t *testing.T) {
	var records []models.Record
	for range 10 {
		records = append(records, rec("2023-01-01", "Technology", "East", "0.1"))
	}

	got := RegionSums(models.NewDataset(records))

	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].TotalSales)
}

func TestCategorySums(t *testing.T) {
	got := CategorySums(sampleDataset())

	assert.Equal(t, []models.CategoryTotal{
		{Category: "Furniture", TotalSales: 105.25},
		{Category: "Office Supplies", TotalSales: 7.75},
		{Category: "Technology", TotalSales: 60},
	}, got)
}

func TestAggregateEmptySelection(t *testing.T) {
	ds := sampleDataset()

	for _, mode := range []models.ChartMode{models.LinePlot, models.ScatterPlot, models.BarChart} {
		res, err := Aggregate(ds, mode, Filter{Category: "Toys"})
		require.NoError(t, err, mode.String())
		assert.Zero(t, res.Len(), mode.String())
		assert.Equal(t, mode, res.Mode())
	}

	res, err := Aggregate(models.NewDataset(nil), models.PieChart, Filter{})
	require.NoError(t, err)
	assert.Zero(t, res.Len())

	res, err = Aggregate(models.NewDataset(nil), models.Heatmap, Filter{})
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}

func TestAggregateIgnoresFilterForPieAndHeatmap(t *testing.T) {
	ds := sampleDataset()
	f := Filter{Category: "Technology"}

	pie, err := Aggregate(ds, models.PieChart, f)
	require.NoError(t, err)
	assert.Equal(t, 3, pie.Len())

	heat, err := Aggregate(ds, models.Heatmap, f)
	require.NoError(t, err)
	assert.Equal(t, 3, heat.Len())
}

func TestAggregateUnknownMode(t *testing.T) {
	_, err := Aggregate(sampleDataset(), models.ChartMode(42), Filter{})
	assert.ErrorIs(t, err, models.ErrInvalidSelection)
}

func TestAggregateTitles(t *testing.T) {
	ds := sampleDataset()

	line, err := Aggregate(ds, models.LinePlot, Filter{Category: "Furniture"})
	require.NoError(t, err)
	assert.Equal(t, "Monthly Average Sales Trends for Furniture", line.Title())

	bar, err := Aggregate(ds, models.BarChart, Filter{})
	require.NoError(t, err)
	assert.Equal(t, "Sales Distribution by Region for All Categories", bar.Title())
}

func TestScatterPoints(t *testing.T) {
	ds := models.NewDataset([]models.Record{
		rec("2023-01-01", "Technology", "East", "12.5"),
	})

	got := ScatterPoints(ds)

	require.Len(t, got, 1)
	assert.Equal(t, 12.5, got[0].Sales)
	assert.Equal(t, "Consumer", got[0].CustomerSegment)
}

func TestPivotRegionMonth(t *testing.T) {
	ds := models.NewDataset([]models.Record{
		rec("2023-01-04", "Technology", "A", "10"),
		rec("2023-01-20", "Technology", "A", "5"),
		rec("2023-02-02", "Technology", "A", "1"),
		rec("2023-02-11", "Technology", "B", "7"),
	})
	jan := models.Month{Year: 2023, Month: 1}
	feb := models.Month{Year: 2023, Month: 2}

	p := PivotRegionMonth(ds)

	assert.Equal(t, []string{"A", "B"}, p.Regions)
	assert.Equal(t, []models.Month{jan, feb}, p.Months)

	v, ok := p.Cell("A", jan)
	assert.True(t, ok)
	assert.Equal(t, 15.0, v)

	v, ok = p.Cell("B", jan)
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok = p.Cell("B", feb)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = p.Cell("C", jan)
	assert.False(t, ok)

	lo, hi, ok := p.Extent()
	assert.True(t, ok)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 15.0, hi)
}
