package domain

import "time"

// Severity classifies incident impact
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityMajor    Severity = "Major"
	SeverityMinor    Severity = "Minor"
	SeverityLow      Severity = "Low"
	SeverityUnknown  Severity = "Unknown"
)

// Rank returns the severity rank (higher = more severe)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 3
	case SeverityMinor:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a string to Severity
func ParseSeverity(s string) Severity {
	switch s {
	case "Critical", "critical":
		return SeverityCritical
	case "Major", "major":
		return SeverityMajor
	case "Minor", "minor":
		return SeverityMinor
	case "Low", "low":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// DurationUnknown is the sentinel for incidents whose duration could not
// be extracted from the status page text.
const DurationUnknown = "Unknown"

// Incident represents one observed status-page event.
//
// There is no identity beyond position in a fetched list; incidents live
// for a single pipeline run.
type Incident struct {
	Company     string    `json:"company"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Duration    string    `json:"duration"`
	Category    string    `json:"category"`
	Severity    Severity  `json:"severity,omitempty"`
	RootCause   string    `json:"root_cause,omitempty"`
}

// Company identifies a scraped status page
type Company struct {
	Name      string `json:"name" yaml:"name"`
	StatusURL string `json:"status_url" yaml:"status_url"`
}

// Timeframe bounds the incident history to collect
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the timeframe (inclusive).
func (tf Timeframe) Contains(t time.Time) bool {
	if tf.Start.IsZero() && tf.End.IsZero() {
		return true
	}
	if !tf.Start.IsZero() && t.Before(tf.Start) {
		return false
	}
	// End is a date; anything on that day counts.
	if !tf.End.IsZero() && t.After(tf.End.Add(24*time.Hour)) {
		return false
	}
	return true
}
