package ai

import (
	"fmt"
	"sort"

	"github.com/relscope/relscope/internal/domain"
)

// ApplyToIncidents merges model enrichment back into the incident list
// by positional index. Out-of-range indices are ignored. The duration
// is only replaced when the scraped value was unknown.
func ApplyToIncidents(incidents []domain.Incident, enriched []domain.AIIncident) {
	for _, e := range enriched {
		if e.IncidentID < 0 || e.IncidentID >= len(incidents) {
			continue
		}
		inc := &incidents[e.IncidentID]

		if e.Category != "" {
			inc.Category = e.Category
		}
		if e.Severity != domain.SeverityUnknown {
			inc.Severity = e.Severity
		}
		if e.RootCause != "" {
			inc.RootCause = e.RootCause
		}
		if inc.Duration == domain.DurationUnknown && e.DurationHours > 0 {
			inc.Duration = FormatDurationHours(e.DurationHours)
		}
	}
}

// FormatDurationHours renders an hour estimate the way status pages
// phrase durations, so MTTR extraction can read it back.
func FormatDurationHours(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%d minutes", int(hours*60))
	}
	return fmt.Sprintf("%g hours", hours)
}

// Compare derives the comparative section from the two reports:
// category overlap plus a trend-comparison sentence.
func Compare(target, peer domain.AIReport) domain.Comparative {
	targetNames := categoryNames(target)
	peerNames := categoryNames(peer)

	comparative := domain.Comparative{
		CommonCategories: intersect(targetNames, peerNames),
		TargetUnique:     subtract(targetNames, peerNames),
		PeerUnique:       subtract(peerNames, targetNames),
		Summary:          "Comparative analysis between target and peer companies",
	}

	targetTrend := target.Trends.Overall
	peerTrend := peer.Trends.Overall
	if targetTrend != "" && peerTrend != "" && targetTrend != "Unknown" && peerTrend != "Unknown" {
		if targetTrend == peerTrend {
			comparative.TrendComparison = fmt.Sprintf(
				"Both target and peer companies show %s incident trends.", targetTrend)
		} else {
			comparative.TrendComparison = fmt.Sprintf(
				"Target company shows %s incident trends, while peer companies show %s trends.",
				targetTrend, peerTrend)
		}
	}

	return comparative
}

func categoryNames(report domain.AIReport) map[string]struct{} {
	names := make(map[string]struct{}, len(report.Categories))
	for _, cat := range report.Categories {
		names[cat.Name] = struct{}{}
	}
	return names
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func subtract(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
