package events

import (
	"context"
	"sync"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
)

// Service answers result-day and expiry-day lookups. Result days come from
// the scraped exchange calendar and are cached; lookups degrade to false
// when the upstream is unreachable so a scrape failure never blocks a scan
// cycle.
type Service struct {
	scraper *Scraper
	cache   *calendarCache
	cfg     *ServiceConfig
}

// ServiceConfig configures the event calendar service
type ServiceConfig struct {
	CalendarURL    string        // Results calendar page to scrape
	CacheDuration  time.Duration // How long one scrape stays valid
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether result-day lookups are enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		CalendarURL:    "https://www.nseindia.com/companies-listing/corporate-filings-event-calendar",
		CacheDuration:  2 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// calendarCache stores the scraped calendar keyed by "SYMBOL|2006-01-02".
type calendarCache struct {
	mu        sync.RWMutex
	days      map[string]bool
	fetchedAt time.Time
	ttl       time.Duration
}

func newCalendarCache(ttl time.Duration) *calendarCache {
	return &calendarCache{
		days: make(map[string]bool),
		ttl:  ttl,
	}
}

func (c *calendarCache) stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.fetchedAt) > c.ttl
}

func (c *calendarCache) lookup(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.days[key]
}

// replace swaps in a fresh scrape result.
func (c *calendarCache) replace(events []resultEvent) {
	days := make(map[string]bool, len(events))
	for _, ev := range events {
		days[cacheKey(ev.Symbol, ev.Day)] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = days
	c.fetchedAt = time.Now()
}

// touch pushes the fetch timestamp forward after a failed scrape so the
// upstream is not hammered every lookup.
func (c *calendarCache) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Now().Add(-c.ttl + 5*time.Minute)
}

func cacheKey(symbol string, day time.Time) string {
	return symbol + "|" + day.Format("2006-01-02")
}

var _ interfaces.EventCalendar = (*Service)(nil)

// NewService creates a new event calendar service
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		scraper: NewScraper(cfg.CalendarURL, cfg.ScraperTimeout),
		cache:   newCalendarCache(cfg.CacheDuration),
		cfg:     cfg,
	}
}

// IsResultDay reports whether the symbol has a results announcement
// scheduled on the given day.
func (s *Service) IsResultDay(ctx context.Context, symbol string, day time.Time) bool {
	if !s.cfg.Enabled {
		return false
	}

	if s.cache.stale() {
		s.refresh(ctx)
	}

	return s.cache.lookup(cacheKey(symbol, day))
}

// IsExpiryDay reports whether the day is the monthly F&O expiry, the last
// Thursday of its month.
//
// TODO: shift to the previous session when the exchange is closed on
// expiry Thursday.
func (s *Service) IsExpiryDay(day time.Time) bool {
	if day.Weekday() != time.Thursday {
		return false
	}
	return day.AddDate(0, 0, 7).Month() != day.Month()
}

func (s *Service) refresh(ctx context.Context) {
	events, err := s.scraper.ScrapeResultCalendar(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to refresh results calendar", err)
		s.cache.touch()
		return
	}

	s.cache.replace(events)
}

// RefreshCalendar forces a refresh of the results calendar (bypasses cache)
func (s *Service) RefreshCalendar(ctx context.Context) error {
	events, err := s.scraper.ScrapeResultCalendar(ctx)
	if err != nil {
		return err
	}

	s.cache.replace(events)
	return nil
}
