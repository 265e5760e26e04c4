// Package templates renders the dashboard page.
package templates

import (
	"encoding/json"
	"fmt"

	"sales-dashboard/internal/models"
)

const defaultTitle = "Sales Dashboard"

// DashboardProps carries the selector options for the page.
type DashboardProps struct {
	Title      string
	Categories []string
	// Span bounds the date pickers, which are only shown when HasSpan is set.
	Span    models.DateRange
	HasSpan bool
}

func (p DashboardProps) pageTitle() string {
	if p.Title == "" {
		return defaultTitle
	}
	return p.Title
}

// initialSignals seeds the datastar store. The first category is selected
// by default; dates start empty so the whole dataset is shown.
func (p DashboardProps) initialSignals() (string, error) {
	category := ""
	if len(p.Categories) > 0 {
		category = p.Categories[0]
	}
	signals := map[string]any{
		"mode":       models.LinePlot.Slug(),
		"category":   category,
		"start":      "",
		"end":        "",
		"colorMap":   string(models.Viridis),
		"resolution": models.DefaultResolution,
		"_chartData": nil,
	}
	b, err := json.Marshal(signals)
	if err != nil {
		return "", fmt.Errorf("encode signals: %w", err)
	}
	return string(b), nil
}
