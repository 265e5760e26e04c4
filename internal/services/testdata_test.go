package services

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date, category, region, sales string) models.Record {
	return models.Record{
		OrderDate:       day(date),
		Category:        category,
		Region:          region,
		Sales:           decimal.RequireFromString(sales),
		Profit:          decimal.Zero,
		CustomerSegment: "Consumer",
		Discount:        decimal.Zero,
		ProductName:     "Item",
	}
}

// sampleDataset spans three categories, three regions and three months.
func sampleDataset() *models.Dataset {
	return models.NewDataset([]models.Record{
		rec("2023-01-03", "Technology", "East", "10"),
		rec("2023-01-17", "Technology", "West", "20"),
		rec("2023-01-31", "Furniture", "East", "5.25"),
		rec("2023-02-01", "Technology", "East", "30"),
		rec("2023-02-14", "Office Supplies", "Central", "7.75"),
		rec("2023-03-09", "Furniture", "West", "100"),
		rec("2023-03-10", "Technology", "Central", "0"),
	})
}
