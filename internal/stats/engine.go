package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/core/storage"
)

const (
	dateLayout           = "2006-01-02"
	defaultTopPathsLimit = 10
)

// Options configures an Engine.
type Options struct {
	// DateFilter restricts results to the UTC day named by the query's date.
	// When false the date is only echoed back.
	DateFilter bool

	TopPathsLimit int
	QueryTimeout  time.Duration
}

// Engine answers per-site statistics by scanning the event store.
type Engine struct {
	store storage.EventStore
	opts  Options
}

// NewEngine creates an aggregation engine over store.
func NewEngine(store storage.EventStore, opts Options) *Engine {
	if store == nil {
		panic("stats: store must not be nil")
	}
	if opts.TopPathsLimit <= 0 {
		opts.TopPathsLimit = defaultTopPathsLimit
	}
	return &Engine{store: store, opts: opts}
}

// Compute returns the statistics of one site.
func (e *Engine) Compute(ctx context.Context, q v1.StatsQuery) (*v1.StatsResult, error) {
	siteID := strings.TrimSpace(q.SiteID)
	if siteID == "" {
		return nil, fmt.Errorf("%w: site_id is required", coreerrors.ErrValidation)
	}

	pred, err := e.predicate(siteID, q.Date)
	if err != nil {
		return nil, err
	}

	if e.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.QueryTimeout)
		defer cancel()
	}

	it, err := e.store.Query(ctx, pred)
	if err != nil {
		slog.Error("[Stats] Event query failed", "site_id", siteID, "error", err)
		return nil, fmt.Errorf("%w: %w", coreerrors.ErrAggregation, err)
	}
	defer it.Close()

	t := newTally()
	for it.Next(ctx) {
		t.add(it.Event())
	}
	if err := it.Err(); err != nil {
		slog.Error("[Stats] Event scan failed", "site_id", siteID, "error", err)
		return nil, fmt.Errorf("%w: %w", coreerrors.ErrAggregation, err)
	}

	date := q.Date
	if date == "" {
		date = v1.AllTime
	}

	return &v1.StatsResult{
		SiteID:       siteID,
		Date:         date,
		TotalViews:   t.total,
		UniqueUsers:  t.uniqueUsers(),
		ViewsPerUser: t.viewsPerUser(),
		TopPaths:     t.topPaths(e.opts.TopPathsLimit),
	}, nil
}

func (e *Engine) predicate(siteID, date string) (storage.Predicate, error) {
	pred := storage.Predicate{SiteID: siteID}
	if !e.opts.DateFilter || date == "" {
		return pred, nil
	}

	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return pred, fmt.Errorf("%w: date %q must be YYYY-MM-DD", coreerrors.ErrValidation, date)
	}
	pred.From = day
	pred.To = day.AddDate(0, 0, 1)
	return pred, nil
}
