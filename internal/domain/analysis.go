package domain

import "time"

// CategoryStat holds per-category aggregation results
type CategoryStat struct {
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
	Incidents  []Incident `json:"incidents,omitempty"`
}

// Trend describes incident frequency over time
type Trend struct {
	Direction     string         `json:"direction"` // increasing, decreasing, stable, no data
	MonthlyCounts map[string]int `json:"monthly_counts,omitempty"`
}

// Trend directions produced by the analyzer
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
	TrendNoData     = "no data"
)

// KeyIssue is a recurring problem surfaced by title similarity grouping
type KeyIssue struct {
	Title          string    `json:"title"`
	Frequency      int       `json:"frequency"`
	Category       string    `json:"category"`
	Severity       Severity  `json:"severity"`
	LastOccurrence time.Time `json:"last_occurrence"`
}

// Analysis is the transient aggregate computed from one incident list
type Analysis struct {
	TotalIncidents       int                     `json:"total_incidents"`
	Categories           map[string]CategoryStat `json:"categories"`
	SeverityDistribution map[Severity]int        `json:"severity_distribution"`
	Trend                Trend                   `json:"trend"`
	MTTRHours            float64                 `json:"mttr_hours"`
	KeyIssues            []KeyIssue              `json:"key_issues"`
}
