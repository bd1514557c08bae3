package analyzer

import (
	"sort"
	"strings"

	"github.com/relscope/relscope/internal/domain"
)

// categoryRule pairs a category name with its trigger keywords.
// Order matters: the first matching rule wins.
type categoryRule struct {
	name     string
	keywords []string
}

// Rule table for topic classification. Keywords are matched as
// substrings of the lowercased title+description.
var categoryRules = []categoryRule{
	{"API", []string{"api", "endpoint", "request", "response", "latency"}},
	{"Database", []string{"database", "db", "mysql", "postgres", "mongodb", "redis", "cache"}},
	{"Network", []string{"network", "connectivity", "dns", "routing", "traffic"}},
	{"Infrastructure", []string{"server", "hardware", "datacenter", "infrastructure", "capacity"}},
	{"Security", []string{"security", "authentication", "authorization", "ssl", "certificate"}},
	{"Performance", []string{"performance", "slow", "latency", "timeout", "degraded"}},
	{"Storage", []string{"storage", "disk", "s3", "blob", "volume"}},
	{"UI/Frontend", []string{"ui", "frontend", "web", "interface", "dashboard"}},
	{"Scheduled Maintenance", []string{"maintenance", "upgrade", "scheduled", "planned"}},
	{"Third-party", []string{"third-party", "vendor", "dependency", "external"}},
}

// CategoryOther is assigned when no rule matches
const CategoryOther = "Other"

// severityBuckets are checked in order; the first bucket whose any
// keyword appears in title+description+status wins.
var severityBuckets = []struct {
	severity domain.Severity
	keywords []string
}{
	{domain.SeverityCritical, []string{"critical", "severe", "outage", "down"}},
	{domain.SeverityMajor, []string{"major", "degraded", "significant"}},
	{domain.SeverityMinor, []string{"minor", "partial", "limited"}},
}

// Analyzer categorizes incidents and computes aggregate statistics
type Analyzer struct{}

// New creates a rule-based incident analyzer
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the full aggregation over one incident list
func (a *Analyzer) Analyze(incidents []domain.Incident) *domain.Analysis {
	return &domain.Analysis{
		TotalIncidents:       len(incidents),
		Categories:           a.categoryStats(incidents),
		SeverityDistribution: a.severityDistribution(incidents),
		Trend:                a.trend(incidents),
		MTTRHours:            a.MTTR(incidents),
		KeyIssues:            a.KeyIssues(incidents),
	}
}

// Categorize assigns a topic category from the rule table. The result
// depends only on the incident itself, never on the rest of the list.
func (a *Analyzer) Categorize(inc domain.Incident) string {
	text := strings.ToLower(inc.Title + " " + inc.Description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.name
			}
		}
	}
	return CategoryOther
}

// DetectSeverity infers impact from title, description and status text
func (a *Analyzer) DetectSeverity(inc domain.Incident) domain.Severity {
	text := strings.ToLower(inc.Title + " " + inc.Description + " " + inc.Status)
	for _, bucket := range severityBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				return bucket.severity
			}
		}
	}
	return domain.SeverityLow
}

func (a *Analyzer) categoryStats(incidents []domain.Incident) map[string]domain.CategoryStat {
	stats := make(map[string]domain.CategoryStat)
	for _, inc := range incidents {
		cat := a.Categorize(inc)
		s := stats[cat]
		s.Count++
		s.Incidents = append(s.Incidents, inc)
		stats[cat] = s
	}

	total := len(incidents)
	for cat, s := range stats {
		if total > 0 {
			s.Percentage = float64(s.Count) / float64(total) * 100
		}
		stats[cat] = s
	}
	return stats
}

func (a *Analyzer) severityDistribution(incidents []domain.Incident) map[domain.Severity]int {
	dist := make(map[domain.Severity]int)
	for _, inc := range incidents {
		dist[a.DetectSeverity(inc)]++
	}
	return dist
}

// trend buckets incidents by month and compares the last bucket against
// the first. A single month of data reads as stable.
func (a *Analyzer) trend(incidents []domain.Incident) domain.Trend {
	if len(incidents) == 0 {
		return domain.Trend{Direction: domain.TrendNoData}
	}

	sorted := make([]domain.Incident, len(incidents))
	copy(sorted, incidents)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	monthly := make(map[string]int)
	var order []string
	for _, inc := range sorted {
		key := inc.Date.Format("2006-01")
		if _, seen := monthly[key]; !seen {
			order = append(order, key)
		}
		monthly[key]++
	}

	direction := domain.TrendStable
	if len(order) > 1 {
		if monthly[order[len(order)-1]] > monthly[order[0]] {
			direction = domain.TrendIncreasing
		} else {
			direction = domain.TrendDecreasing
		}
	}

	return domain.Trend{Direction: direction, MonthlyCounts: monthly}
}
