package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/relscope/relscope/internal/domain"
)

// StatusPage scrapes a statuspage-style incident history page
type StatusPage struct {
	company domain.Company
	fetcher *Fetcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatusPage creates a scraper for one company's status page
func NewStatusPage(company domain.Company, fetcher *Fetcher, logger *zap.Logger) *StatusPage {
	return &StatusPage{
		company: company,
		fetcher: fetcher,
		logger:  logger.With(zap.String("company", company.Name)),
		now:     time.Now,
	}
}

// FetchIncidents retrieves and parses incidents inside the timeframe
func (s *StatusPage) FetchIncidents(ctx context.Context, tf domain.Timeframe) ([]domain.Incident, error) {
	s.logger.Info("fetching incidents",
		zap.Time("start", tf.Start),
		zap.Time("end", tf.End))

	content, err := s.fetcher.FetchPage(ctx, s.company.StatusURL)
	if err != nil {
		return nil, err
	}

	incidents, err := s.Parse(content)
	if err != nil {
		return nil, err
	}

	filtered := incidents[:0]
	for _, inc := range incidents {
		if tf.Contains(inc.Date) {
			filtered = append(filtered, inc)
		}
	}

	s.logger.Info("parsed incidents", zap.Int("count", len(filtered)))
	return filtered, nil
}

// Parse extracts incidents from rendered status-page HTML. Elements
// that cannot be parsed are skipped.
func (s *StatusPage) Parse(content string) ([]domain.Incident, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing status page HTML: %w", err)
	}

	var incidents []domain.Incident
	doc.Find(".incident-container").Each(func(i int, sel *goquery.Selection) {
		inc, ok := s.parseIncident(sel)
		if !ok {
			s.logger.Warn("skipping unparseable incident element", zap.Int("index", i))
			return
		}
		incidents = append(incidents, inc)
	})

	s.logger.Debug("found incident elements", zap.Int("count", len(incidents)))
	return incidents, nil
}

func (s *StatusPage) parseIncident(sel *goquery.Selection) (domain.Incident, bool) {
	title := strings.TrimSpace(sel.Find(".incident-title").First().Text())
	description := strings.TrimSpace(sel.Find(".incident-description").First().Text())
	dateText := strings.TrimSpace(sel.Find(".incident-time").First().Text())

	// An element with none of the expected children is not an incident.
	if title == "" && description == "" && dateText == "" {
		return domain.Incident{}, false
	}

	if title == "" {
		title = "No title"
	}

	status := strings.TrimSpace(sel.Find(".incident-status").First().Text())
	if status == "" {
		status = "Unknown"
	}

	return domain.Incident{
		Company:     s.company.Name,
		Date:        s.parseDate(dateText),
		Title:       title,
		Description: description,
		Status:      status,
		Duration:    ExtractDuration(description),
		Category:    "Uncategorized",
	}, true
}

// parseDate handles the ISO timestamps statuspage emits; anything else
// falls back to the current time so the incident is still counted.
func (s *StatusPage) parseDate(text string) time.Time {
	if text == "" {
		s.logger.Warn("incident has no timestamp")
		return s.now()
	}

	t, err := time.Parse(time.RFC3339, text)
	if err == nil {
		return t
	}
	if t, err2 := time.Parse("2006-01-02T15:04:05", text); err2 == nil {
		return t
	}
	if t, err2 := time.Parse("2006-01-02", text); err2 == nil {
		return t
	}

	s.logger.Warn("could not parse incident timestamp", zap.String("value", text), zap.Error(err))
	return s.now()
}

var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lasted (\d+\s+(?:minute|hour|day)s?)`),
	regexp.MustCompile(`(?i)duration[:\s]+(\d+\s+(?:minute|hour|day)s?)`),
	regexp.MustCompile(`(?i)(\d+\s+(?:minute|hour|day)s?)\s+of\s+(?:downtime|disruption)`),
}

// ExtractDuration pulls a duration phrase out of the description text
func ExtractDuration(description string) string {
	for _, pattern := range durationPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return m[1]
		}
	}
	return domain.DurationUnknown
}
