package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/relscope/relscope/internal/domain"
)

var firstNumber = regexp.MustCompile(`\d+`)

// MTTR averages the resolvable incident durations in hours. Durations
// that cannot be converted (including the "Unknown" sentinel) are
// skipped; with nothing convertible the result is 0.
func (a *Analyzer) MTTR(incidents []domain.Incident) float64 {
	var total float64
	var n int
	for _, inc := range incidents {
		hours, ok := durationHours(inc.Duration)
		if !ok {
			continue
		}
		total += hours
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// durationHours converts free-text durations like "3 hours" or
// "45 minutes" to hours.
func durationHours(duration string) (float64, bool) {
	if duration == "" || duration == domain.DurationUnknown {
		return 0, false
	}

	match := firstNumber.FindString(duration)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.Contains(duration, "day"):
		return value * 24, true
	case strings.Contains(duration, "hour"):
		return value, true
	case strings.Contains(duration, "minute"):
		return value / 60, true
	}
	return 0, false
}
