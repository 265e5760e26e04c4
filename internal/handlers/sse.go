package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const maxSummaryRows = 50

var chartPanelTemplate = template.Must(template.New("chartPanel").Parse(`
<div id="chart-panel">
{{if .Notice}}<div class="notice warning">{{.Notice}}</div>
{{else if .Empty}}<div class="notice">No records match this selection.</div>
{{else}}<h2>{{.Title}}</h2>
<img class="chart-image" src="{{.ImageURL}}" alt="{{.Title}}">
<p class="chart-actions"><a href="{{.ExportURL}}" download>Download spreadsheet</a></p>
{{with .Heatmap}}<table class="modern-table heatmap">
<thead><tr><th>Region</th>{{range .Months}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><th>{{.Region}}</th>{{range .Cells}}<td style="{{.Style}}" title="{{.Value}}">{{.Value}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
{{with .Summary}}<table class="modern-table">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
{{end}}</div>`))

type panelData struct {
	Notice    string
	Empty     bool
	Title     string
	ImageURL  string
	ExportURL string
	Heatmap   *heatmapTable
	Summary   *summaryTable
}

type heatmapTable struct {
	Months []string
	Rows   []heatmapRow
}

type heatmapRow struct {
	Region string
	Cells  []heatmapCell
}

type heatmapCell struct {
	Value string
	Style template.CSS
}

type summaryTable struct {
	Header []string
	Rows   [][]string
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleChart reads the dashboard signals, recomputes the selected chart and
// patches both the _chartData signal and the chart panel.
func (h *SSEHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)
	logger := observability.LoggerFrom(ctx, h.logger)

	var signals chartSignals
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		logger.Warn("read chart signals", "error", readErr, "request_id", requestID)
		h.patchNotice(sse, logger, "The chart selection could not be read.")
		return
	}

	q, err := signals.query()
	if err != nil {
		logger.Warn("invalid chart selection", "error", err, "request_id", requestID)
		h.patchNotice(sse, logger, errors.FromDomain(err).Message)
		return
	}

	res, err := h.analytics.Chart(ctx, q.Selection)
	if err != nil {
		logger.Warn("chart failed", "error", err, "request_id", requestID)
		h.patchNotice(sse, logger, errors.FromDomain(err).Message)
		return
	}

	jsonData, err := json.Marshal(map[string]any{
		"_chartData": newChartResponse(res),
	})
	if err != nil {
		logger.Error("marshal chart data", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		logger.Debug("patch chart signals", "error", err)
		return
	}

	html, err := renderChartPanel(q, res)
	if err != nil {
		logger.Error("render chart panel", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		logger.Debug("patch chart panel", "error", err)
	}
}

func (h *SSEHandlers) patchNotice(sse *datastar.ServerSentEventGenerator, logger *slog.Logger, notice string) {
	html, err := executePanel(panelData{Notice: notice})
	if err != nil {
		logger.Error("render notice", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		logger.Debug("patch notice", "error", err)
	}
}

func renderChartPanel(q chartQuery, res models.Result) (string, error) {
	if res.Len() == 0 {
		return executePanel(panelData{Empty: true})
	}

	query := q.values().Encode()
	if query != "" {
		query = "?" + query
	}
	slug := res.Mode().Slug()

	data := panelData{
		Title:     res.Title(),
		ImageURL:  fmt.Sprintf("/charts/%s.svg%s", slug, query),
		ExportURL: fmt.Sprintf("/export/%s.xlsx%s", slug, query),
	}

	switch r := res.(type) {
	case models.RegionMonthPivot:
		data.Heatmap = newHeatmapTable(r, q.ColorMap)
	case models.RegionTotals:
		data.Summary = &summaryTable{Header: []string{"Region", "Total Sales"}}
		for _, t := range r.Totals {
			data.Summary.Rows = append(data.Summary.Rows, []string{t.Region, money(t.TotalSales)})
		}
	case models.CategoryTotals:
		data.Summary = &summaryTable{Header: []string{"Product Category", "Total Sales"}}
		for _, t := range r.Totals {
			data.Summary.Rows = append(data.Summary.Rows, []string{t.Category, money(t.TotalSales)})
		}
	case models.MonthlyMeanSeries:
		data.Summary = &summaryTable{Header: []string{"Month", "Mean Sales", "Orders"}}
		for _, p := range r.Points {
			data.Summary.Rows = append(data.Summary.Rows, []string{p.Month.String(), money(p.MeanSales), fmt.Sprint(p.Orders)})
		}
	}
	if data.Summary != nil && len(data.Summary.Rows) > maxSummaryRows {
		data.Summary.Rows = data.Summary.Rows[:maxSummaryRows]
	}

	return executePanel(data)
}

func newHeatmapTable(p models.RegionMonthPivot, cm models.ColorMap) *heatmapTable {
	table := &heatmapTable{Months: make([]string, len(p.Months))}
	for j, m := range p.Months {
		table.Months[j] = m.String()
	}

	lo, hi, _ := p.Extent()
	scale := charts.NewColorScale(cm, lo, hi)
	for i, region := range p.Regions {
		row := heatmapRow{Region: region, Cells: make([]heatmapCell, len(p.Months))}
		for j := range p.Months {
			if p.Counts[i][j] == 0 {
				row.Cells[j] = heatmapCell{Style: "background-color:#eeeeee"}
				continue
			}
			v := p.Cells[i][j]
			row.Cells[j] = heatmapCell{
				Value: money(v),
				Style: template.CSS("background-color:" + charts.Hex(scale.At(v))),
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func executePanel(data panelData) (string, error) {
	var buf strings.Builder
	err := chartPanelTemplate.Execute(&buf, data)
	return buf.String(), err
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
