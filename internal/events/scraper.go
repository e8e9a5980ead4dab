package events

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"signal-scanner/internal/logger"
)

// resultEvent is one scheduled earnings announcement.
type resultEvent struct {
	Symbol string
	Day    time.Time
}

// Scraper pulls the corporate results calendar from the exchange website.
type Scraper struct {
	calendarURL string
	timeout     time.Duration
}

var dateLayouts = []string{
	"02-Jan-2006",
	"02 Jan 2006",
	"02/01/2006",
	"2006-01-02",
}

func NewScraper(calendarURL string, timeout time.Duration) *Scraper {
	return &Scraper{calendarURL: calendarURL, timeout: timeout}
}

// ScrapeResultCalendar fetches the upcoming results table. Row layout on
// the calendar page is symbol in the first cell, announcement date in the
// second.
func (s *Scraper) ScrapeResultCalendar(ctx context.Context) ([]resultEvent, error) {
	events := []resultEvent{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.calendarURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)

	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("table tbody tr", func(e *colly.HTMLElement) {
		cells := e.DOM.Find("td")
		if cells.Length() < 2 {
			return
		}

		symbol := strings.ToUpper(strings.TrimSpace(cells.First().Text()))
		if symbol == "" {
			return
		}

		day, ok := parseCellDate(cells)
		if !ok {
			return
		}

		events = append(events, resultEvent{Symbol: symbol, Day: day})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Calendar scraping error", err, "url", r.Request.URL.String())
	})

	if err := c.Visit(s.calendarURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.calendarURL, err)
	}

	c.Wait()

	logger.Info(ctx, "Results calendar scraped", "events", len(events))
	return events, nil
}

// parseCellDate tries each non-symbol cell against the known date layouts.
func parseCellDate(cells *goquery.Selection) (time.Time, bool) {
	var day time.Time
	found := false

	cells.Slice(1, cells.Length()).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				day = t
				found = true
				return false
			}
		}
		return true
	})

	return day, found
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
