package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Order Date,Product Category,Region,Sales,Profit,Customer Segment,Discount,Product Name\n"

func TestReadDataset(t *testing.T) {
	csv := header +
		"2023-01-05,Technology,East,10.50,2.1,Consumer,0.1,Laptop\n" +
		"1/20/2023,Furniture,West,20,-4,Corporate,0,\"Chair, Oak\"\n" +
		"2023-02-03 14:30:00,Technology,East,30,3,Home Office,0.25,Mouse\n"

	ds, err := ReadDataset(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	first := ds.At(0)
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), first.OrderDate)
	assert.Equal(t, "Technology", first.Category)
	assert.Equal(t, "10.5", first.Sales.String())
	assert.Equal(t, "0.1", first.Discount.String())

	second := ds.At(1)
	assert.Equal(t, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC), second.OrderDate)
	assert.Equal(t, "Chair, Oak", second.ProductName)
	assert.True(t, second.Profit.IsNegative())

	third := ds.At(2)
	assert.Equal(t, time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC), third.OrderDate)

	assert.Equal(t, []string{"Technology", "Furniture"}, ds.Categories())
	assert.Equal(t, []string{"East", "West"}, ds.Regions())
}

func TestReadDatasetExtraColumnsAndBOM(t *testing.T) {
	csv := "\ufeffRow ID,Order Date,Product Category,Region,Sales,Profit,Customer Segment,Discount,Product Name,Ship Mode\n" +
		"1,2023-01-05,Technology,East,10,2,Consumer,0.1,Laptop,Air\n"

	ds, err := ReadDataset(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "Laptop", ds.At(0).ProductName)
}

func TestReadDatasetErrors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		want   error
		line   int
		column string
	}{
		{
			name: "empty file",
			csv:  "",
			want: ErrEmptyFile,
		},
		{
			name: "header only",
			csv:  header,
			want: ErrNoRecords,
		},
		{
			name:   "missing columns",
			csv:    "Order Date,Product Category,Sales\n2023-01-01,Technology,10\n",
			want:   ErrMissingColumn,
			line:   1,
			column: "Region, Profit, Customer Segment, Discount, Product Name",
		},
		{
			name:   "bad date",
			csv:    header + "2023-01-05,Technology,East,10,2,Consumer,0.1,Laptop\nnot-a-date,Technology,East,10,2,Consumer,0.1,Laptop\n",
			line:   3,
			column: "Order Date",
		},
		{
			name:   "negative sales",
			csv:    header + "2023-01-05,Technology,East,-10,2,Consumer,0.1,Laptop\n",
			line:   2,
			column: "Sales",
		},
		{
			name:   "non numeric profit",
			csv:    header + "2023-01-05,Technology,East,10,lots,Consumer,0.1,Laptop\n",
			line:   2,
			column: "Profit",
		},
		{
			name:   "discount above one",
			csv:    header + "2023-01-05,Technology,East,10,2,Consumer,1.5,Laptop\n",
			line:   2,
			column: "Discount",
		},
		{
			name: "ragged row",
			csv:  header + "2023-01-05,Technology,East\n",
			line: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadDataset(context.Background(), strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Nil(t, ds)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Equal(t, tt.line, loadErr.Line)
			assert.Equal(t, tt.column, loadErr.Column)
		})
	}
}

func TestReadDatasetManyBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	rows := batchSize*2 + 17
	for i := range rows {
		fmt.Fprintf(&b, "2023-01-%02d,Technology,Region %d,1,0,Consumer,0,Item %d\n", i%28+1, i%5, i)
	}

	ds, err := ReadDataset(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Equal(t, rows, ds.Len())

	// rows keep file order across batches
	assert.Equal(t, "Item 0", ds.At(0).ProductName)
	assert.Equal(t, fmt.Sprintf("Item %d", rows-1), ds.At(rows-1).ProductName)
	assert.Len(t, ds.Regions(), 5)
}

func TestReadDatasetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadDataset(ctx, strings.NewReader(header+"2023-01-05,Technology,East,10,2,Consumer,0.1,Laptop\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"2023-01-05,Technology,East,10,2,Consumer,0.1,Laptop\n"), 0o600))

	ds, err := LoadDataset(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadDatasetErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"2023-01-05,Technology,East,x,2,Consumer,0.1,Laptop\n"), 0o600))

	_, err := LoadDataset(context.Background(), path)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
	assert.Equal(t, 2, loadErr.Line)
	assert.Contains(t, err.Error(), path+`: line 2: column "Sales"`)

	_, err = LoadDataset(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
