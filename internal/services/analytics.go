package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// Selection is one user interaction: a chart mode plus its filter options.
type Selection struct {
	Mode   models.ChartMode
	Filter Filter
}

// normalized drops filter options the mode does not use so equivalent
// selections share a memo entry.
func (s Selection) normalized() Selection {
	if !s.Mode.Filterable() {
		s.Filter = Filter{}
	}
	return s
}

func (s Selection) key() string {
	return s.Mode.Slug() + "|" + s.Filter.Key()
}

// Analytics answers chart selections against one immutable dataset. It is
// safe for concurrent use; every caller receives its own copy of the result.
type Analytics struct {
	dataset  *models.Dataset
	memo     *cache.Cache
	logger   *slog.Logger
	loadedAt time.Time

	computed atomic.Int64
	memoHits atomic.Int64
}

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) {
		a.logger = logger
	}
}

// WithResultCache memoizes aggregation results for ttl.
func WithResultCache(ttl, cleanupInterval time.Duration) Option {
	return func(a *Analytics) {
		a.memo = cache.New(ttl, cleanupInterval)
	}
}

func NewAnalytics(dataset *models.Dataset, opts ...Option) *Analytics {
	if dataset == nil {
		dataset = models.NewDataset(nil)
	}
	a := &Analytics{
		dataset:  dataset,
		logger:   slog.Default(),
		loadedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analytics) Dataset() *models.Dataset {
	return a.dataset
}

// Chart runs the filter and aggregation for sel. An empty result is returned
// without error and logged as a warning.
func (a *Analytics) Chart(ctx context.Context, sel Selection) (models.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel = sel.normalized()
	key := sel.key()

	if a.memo != nil {
		if cached, found := a.memo.Get(key); found {
			a.memoHits.Add(1)
			return cached.(models.Result).Clone(), nil
		}
	}

	_, span := observability.StartSpan(ctx, "analytics.chart")
	span.SetTag("chart.mode", sel.Mode.Slug())
	defer func() {
		span.Finish()
		a.logger.Debug("chart computed", "span", span)
	}()

	result, err := Aggregate(a.dataset, sel.Mode, sel.Filter)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	a.computed.Add(1)

	if result.Len() == 0 {
		a.logger.Warn("empty chart result",
			"mode", sel.Mode.Slug(),
			"filter", sel.Filter.Key(),
			"request_id", observability.GetRequestID(ctx),
		)
	}

	if a.memo != nil {
		a.memo.SetDefault(key, result.Clone())
	}
	return result, nil
}

// Categories returns the selector options in first-appearance order.
func (a *Analytics) Categories() []string {
	return a.dataset.Categories()
}

func (a *Analytics) Regions() []string {
	return a.dataset.Regions()
}

// Stats is used for monitoring.
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"record_count":    a.dataset.Len(),
		"categories":      len(a.dataset.Categories()),
		"regions":         len(a.dataset.Regions()),
		"loaded_at":       a.loadedAt,
		"charts_computed": a.computed.Load(),
		"memo_hits":       a.memoHits.Load(),
		"memo_enabled":    a.memo != nil,
	}
	if span, ok := a.dataset.Span(); ok {
		stats["first_order"] = span.Start.Format(models.DateLayout)
		stats["last_order"] = span.End.Format(models.DateLayout)
		stats["months"] = monthsBetween(span)
	}
	return stats
}

func monthsBetween(span models.DateRange) int {
	first, last := models.MonthOf(span.Start), models.MonthOf(span.End)
	return (last.Year-first.Year)*12 + int(last.Month-first.Month) + 1
}
