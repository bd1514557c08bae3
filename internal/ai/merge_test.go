package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relscope/relscope/internal/domain"
)

func TestApplyToIncidents(t *testing.T) {
	t.Run("updates by index", func(t *testing.T) {
		incidents := []domain.Incident{
			{Title: "one", Duration: domain.DurationUnknown},
			{Title: "two", Duration: "2 hours"},
		}
		enriched := []domain.AIIncident{
			{IncidentID: 0, Category: "API", Severity: domain.SeverityCritical, DurationHours: 1.5, RootCause: "bug"},
			{IncidentID: 1, Category: "Storage", Severity: domain.SeverityLow, DurationHours: 3},
		}

		ApplyToIncidents(incidents, enriched)

		assert.Equal(t, "API", incidents[0].Category)
		assert.Equal(t, domain.SeverityCritical, incidents[0].Severity)
		assert.Equal(t, "bug", incidents[0].RootCause)
		assert.Equal(t, "1.5 hours", incidents[0].Duration)

		// Known duration untouched even with an estimate present.
		assert.Equal(t, "2 hours", incidents[1].Duration)
		assert.Equal(t, "Storage", incidents[1].Category)
	})

	t.Run("out of range indices ignored", func(t *testing.T) {
		incidents := []domain.Incident{{Title: "only"}}
		enriched := []domain.AIIncident{
			{IncidentID: -1, Category: "API"},
			{IncidentID: 5, Category: "API"},
		}

		ApplyToIncidents(incidents, enriched)
		assert.Empty(t, incidents[0].Category)
	})

	t.Run("empty enrichment values leave fields alone", func(t *testing.T) {
		incidents := []domain.Incident{
			{Title: "x", Category: "Network", Severity: domain.SeverityMajor, RootCause: "fiber cut"},
		}
		ApplyToIncidents(incidents, []domain.AIIncident{{IncidentID: 0, Severity: domain.SeverityUnknown}})

		assert.Equal(t, "Network", incidents[0].Category)
		assert.Equal(t, domain.SeverityMajor, incidents[0].Severity)
		assert.Equal(t, "fiber cut", incidents[0].RootCause)
	})
}

func TestFormatDurationHours(t *testing.T) {
	tests := []struct {
		hours    float64
		expected string
	}{
		{0.5, "30 minutes"},
		{0.25, "15 minutes"},
		{1, "1 hours"},
		{2.5, "2.5 hours"},
		{24, "24 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDurationHours(tt.hours))
		})
	}
}

func TestCompare(t *testing.T) {
	target := domain.AIReport{
		Categories: []domain.AICategory{{Name: "API"}, {Name: "Security"}},
		Trends:     domain.AITrends{Overall: "increasing"},
	}
	peer := domain.AIReport{
		Categories: []domain.AICategory{{Name: "API"}, {Name: "Network"}},
		Trends:     domain.AITrends{Overall: "stable"},
	}

	comparative := Compare(target, peer)

	assert.Equal(t, []string{"API"}, comparative.CommonCategories)
	assert.Equal(t, []string{"Security"}, comparative.TargetUnique)
	assert.Equal(t, []string{"Network"}, comparative.PeerUnique)
	assert.Equal(t,
		"Target company shows increasing incident trends, while peer companies show stable trends.",
		comparative.TrendComparison)

	t.Run("matching trends", func(t *testing.T) {
		peer.Trends.Overall = "increasing"
		c := Compare(target, peer)
		assert.Equal(t, "Both target and peer companies show increasing incident trends.", c.TrendComparison)
	})

	t.Run("unknown trend omits comparison", func(t *testing.T) {
		peer.Trends.Overall = "Unknown"
		c := Compare(target, peer)
		assert.Empty(t, c.TrendComparison)
	})
}
