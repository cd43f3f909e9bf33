package banner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Feed supplies raw banner records. Implementations own fetching; callers
// only filter what comes back.
type Feed interface {
	FetchBanners(ctx context.Context) ([]Record, error)
}

// FetchError wraps a feed failure.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch banners from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Named feeds report a source name for errors and logs.
type Named interface {
	Name() string
}

func feedName(f Feed) string {
	if n, ok := f.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}

// FetchActiveBanners fetches from feed and keeps the banners active at now.
func FetchActiveBanners(ctx context.Context, feed Feed, now time.Time) ([]Banner, error) {
	records, err := feed.FetchBanners(ctx)
	if err != nil {
		return nil, &FetchError{Source: feedName(feed), Err: err}
	}
	return FilterActive(records, now), nil
}

// Snapshot holds the last successful fetch so readers never wait on the
// feed. Refresh replaces it; a failed refresh keeps the previous banners.
type Snapshot struct {
	feed    Feed
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration

	mu        sync.RWMutex
	banners   []Banner
	fetchedAt time.Time
	lastErr   error
}

// NewSnapshot creates an empty snapshot over feed.
func NewSnapshot(feed Feed, log zerolog.Logger) *Snapshot {
	return &Snapshot{
		feed:    feed,
		log:     log.With().Str("component", "banner_snapshot").Str("feed", feedName(feed)).Logger(),
		now:     time.Now,
		timeout: 30 * time.Second,
	}
}

// Name identifies the refresh job.
func (s *Snapshot) Name() string { return "banner_refresh" }

// Refresh fetches the feed and stores the active banners.
func (s *Snapshot) Refresh(ctx context.Context) error {
	records, err := s.feed.FetchBanners(ctx)
	if err != nil {
		ferr := &FetchError{Source: feedName(s.feed), Err: err}
		s.mu.Lock()
		s.lastErr = ferr
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("Banner refresh failed, keeping previous snapshot")
		return ferr
	}

	now := s.now()
	active, dropped := FilterActiveReport(records, now)
	for _, d := range dropped {
		s.log.Debug().Err(d).Msg("Dropped banner record")
	}

	s.mu.Lock()
	s.banners = active
	s.fetchedAt = now
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Info().
		Int("records", len(records)).
		Int("active", len(active)).
		Int("dropped", len(dropped)).
		Msg("Banner snapshot refreshed")
	return nil
}

// Banners returns the banners still active now and when they were fetched.
func (s *Snapshot) Banners() ([]Banner, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make([]Banner, 0, len(s.banners))
	for _, b := range s.banners {
		if b.EndDate.After(now) {
			out = append(out, b)
		}
	}
	return out, s.fetchedAt
}

// LastError is the error of the most recent refresh, nil after a success.
func (s *Snapshot) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Schedule registers Refresh on c with a cron spec such as "@every 10m".
func (s *Snapshot) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.log.Debug().Str("job", s.Name()).Msg("Running job")
		_ = s.Refresh(ctx)
	})
}
