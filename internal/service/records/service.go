package records

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/gateway"
	"github.com/astrasoul/records-api/internal/model"
	recordscore "github.com/astrasoul/records-api/internal/records"
	"github.com/astrasoul/records-api/pkg/logger"
)

// Service owns the current in-memory batch per funnel and runs the view
// pipeline over it. The batch is the only state: views are recomputed from
// (batch, spec) on every request.
type Service struct {
	fetcher gateway.OrderFetcher
	batches *gocache.Cache
	cfg     config.RecordsConfig
	log     *logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	initiated map[string]uint64
	applied   map[string]uint64
}

func NewService(fetcher gateway.OrderFetcher, backendCfg config.BackendConfig, cfg config.RecordsConfig, log *logger.Logger) *Service {
	ttl := backendCfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		fetcher:   fetcher,
		batches:   gocache.New(ttl, 2*ttl),
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		initiated: make(map[string]uint64),
		applied:   make(map[string]uint64),
	}
}

// Refresh fetches the order list and installs it as the current batch.
// Fetches are sequence-numbered per funnel: a response is installed only if
// no newer refresh was initiated meanwhile, so overlapping refreshes can
// never leave a stale list on display. On error the previous batch stays.
func (s *Service) Refresh(ctx context.Context, funnel string) ([]model.OrderRecord, error) {
	s.mu.Lock()
	s.initiated[funnel]++
	seq := s.initiated[funnel]
	s.mu.Unlock()

	recs, err := s.fetcher.FetchOrders(ctx, funnel)
	if err != nil {
		s.log.Error(err, "order fetch failed")
		return nil, fmt.Errorf("refresh orders for %q: %w", funnel, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.initiated[funnel] || seq <= s.applied[funnel] {
		s.log.WithFields(map[string]interface{}{
			"funnel": funnel, "seq": seq, "latest": s.initiated[funnel],
		}).Debug("dropping stale refresh result")
		return recs, nil
	}
	s.applied[funnel] = seq
	s.batches.SetDefault(funnel, recs)
	return recs, nil
}

// Records returns the current batch, fetching it when the cache is empty
// or expired.
func (s *Service) Records(ctx context.Context, funnel string) ([]model.OrderRecord, error) {
	if cached, ok := s.batches.Get(funnel); ok {
		return cached.([]model.OrderRecord), nil
	}
	return s.Refresh(ctx, funnel)
}

// View runs the full pipeline: resolve the date range, filter, sort,
// summarize, and mark the most recent orders for highlighting.
func (s *Service) View(ctx context.Context, funnel string, spec model.FilterSpec) (*model.RecordView, error) {
	batch, err := s.Records(ctx, funnel)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dateRange := recordscore.ResolveDateRange(spec.DateMode, now, spec.CustomFrom, spec.CustomTo)
	filtered := recordscore.Filter(batch, spec, now)
	sorted := recordscore.Sort(filtered, spec.SortField, spec.SortDir)

	return &model.RecordView{
		Records:   sorted,
		Summary:   recordscore.Summarize(sorted),
		From:      dateRange.From,
		To:        dateRange.To,
		LatestIDs: s.latestIDs(batch),
	}, nil
}

// Export serializes the current filtered, sorted view to CSV and returns
// the text with its date-stamped filename. An empty view exports a
// header-only document.
func (s *Service) Export(ctx context.Context, funnel string, spec model.FilterSpec) (string, string, error) {
	view, err := s.View(ctx, funnel, spec)
	if err != nil {
		return "", "", err
	}
	csvText, err := recordscore.ToCSV(view.Records, recordscore.ExportColumns())
	if err != nil {
		return "", "", fmt.Errorf("export orders for %q: %w", funnel, err)
	}
	return csvText, recordscore.ExportFilename(spec.DateMode, s.now()), nil
}

// latestIDs picks the N newest orders of the whole batch, regardless of the
// active filter, so the highlight survives filtering.
func (s *Service) latestIDs(batch []model.OrderRecord) []string {
	n := s.cfg.HighlightLatest
	if n <= 0 || len(batch) == 0 {
		return nil
	}
	newest := recordscore.Sort(batch, model.SortByOrderDate, model.SortDesc)
	if len(newest) < n {
		n = len(newest)
	}
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if id := newest[i].InternalID; id != "" {
			ids = append(ids, id)
		} else if newest[i].OrderID != "" {
			ids = append(ids, newest[i].OrderID)
		}
	}
	return ids
}
