package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/config"
	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

// DrawCache persists the last good history between runs.
type DrawCache interface {
	SaveDraws(draws []model.Draw) error
	LoadDraws() ([]model.Draw, error)
}

// Collector orchestrates fetching, fallback and cleaning of the draw history,
// and holds the latest result for concurrent readers.
type Collector struct {
	Fetcher Fetcher
	Cache   DrawCache
	Bundled Fetcher

	mu    sync.RWMutex
	draws []model.Draw
	stats model.DatasetStats
}

// NewCollector creates a new Collector. cache may be nil.
func NewCollector(fetcher Fetcher, cache DrawCache) *Collector {
	return &Collector{Fetcher: fetcher, Cache: cache, Bundled: &FileFetcher{}}
}

// NewFetcher builds the primary fetcher selected by configuration.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Kind {
	case "http":
		return NewHTTPFetcher(ds.BaseURL, ds.PageSize, ds.MaxPages, cfg.Proxy), nil
	case "feed":
		return NewFeedFetcher(ds.FeedURL, cfg.Proxy), nil
	case "file":
		return &FileFetcher{Path: ds.FilePath}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", ds.Kind)
	}
}

// Collect fetches draws from the primary source, falling back to the cache
// and then to the bundled dataset. The cleaned history replaces the held one.
func (c *Collector) Collect(ctx context.Context) ([]model.Draw, model.DatasetStats, error) {
	source := c.Fetcher.Name()
	draws, err := c.Fetcher.FetchDraws(ctx)
	draws = Clean(draws)
	if err != nil || len(draws) == 0 {
		if err == nil {
			err = ErrNoDraws
		}
		logging.Warnf("%s source failed: %v", source, err)
		source, draws = c.fallback(ctx)
	} else if c.Cache != nil {
		if err := c.Cache.SaveDraws(draws); err != nil {
			logging.Warnf("failed to cache draws: %v", err)
		}
	}
	if len(draws) == 0 {
		return nil, model.DatasetStats{}, fmt.Errorf("%w (%s: %v)", ErrNoDraws, c.Fetcher.Name(), err)
	}

	stats, err := calculator.Summarize(draws)
	if err != nil {
		return nil, model.DatasetStats{}, fmt.Errorf("summarize: %w", err)
	}
	stats.Source = source
	stats.FetchedAt = time.Now()

	c.mu.Lock()
	c.draws = draws
	c.stats = stats
	c.mu.Unlock()

	logging.Infof("loaded %d draws from %s (%s to %s)", stats.Count, source,
		stats.FirstDate.Format("2006-01-02"), stats.LastDate.Format("2006-01-02"))
	return draws, stats, nil
}

func (c *Collector) fallback(ctx context.Context) (string, []model.Draw) {
	if c.Cache != nil {
		cached, err := c.Cache.LoadDraws()
		if err != nil {
			logging.Warnf("draw cache unavailable: %v", err)
		} else if cached = Clean(cached); len(cached) > 0 {
			logging.Warnf("using %d cached draws", len(cached))
			return "cache", cached
		}
	}
	if c.Bundled != nil {
		bundled, err := c.Bundled.FetchDraws(ctx)
		if err != nil {
			logging.Warnf("bundled dataset unavailable: %v", err)
		} else if bundled = Clean(bundled); len(bundled) > 0 {
			logging.Warnf("using %d bundled draws", len(bundled))
			return c.Bundled.Name(), bundled
		}
	}
	return "", nil
}

// Latest returns the held history and its summary. The slice must not be modified.
func (c *Collector) Latest() ([]model.Draw, model.DatasetStats) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draws, c.stats
}

// Clean drops invalid draws, normalizes the rest, keeps the last draw seen
// for each date and sorts oldest first.
func Clean(draws []model.Draw) []model.Draw {
	byDate := make(map[string]model.Draw, len(draws))
	for _, d := range draws {
		if err := d.Validate(); err != nil {
			logging.Debugf("dropping draw %s: %v", d.Date.Format("2006-01-02"), err)
			continue
		}
		byDate[d.Date.Format("2006-01-02")] = d.Normalize()
	}
	out := make([]model.Draw, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
