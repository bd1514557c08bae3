package analyzer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/relscope/relscope/internal/domain"
)

// genIncident produces incidents with titles drawn from a small word
// pool so that keyword hits and near-duplicates both occur.
func genIncident() *rapid.Generator[domain.Incident] {
	word := rapid.SampledFrom([]string{
		"api", "latency", "outage", "database", "dns", "storage",
		"minor", "degraded", "maintenance", "widget", "spike", "elevated",
	})
	return rapid.Custom(func(t *rapid.T) domain.Incident {
		words := rapid.SliceOfN(word, 1, 5).Draw(t, "titleWords")
		title := ""
		for i, w := range words {
			if i > 0 {
				title += " "
			}
			title += w
		}
		return domain.Incident{
			Title:       title,
			Description: rapid.SampledFrom([]string{"", "details follow", "postgres issue"}).Draw(t, "description"),
			Status:      rapid.SampledFrom([]string{"", "Resolved", "Investigating"}).Draw(t, "status"),
			Duration:    rapid.SampledFrom([]string{"Unknown", "2 hours", "30 minutes", "1 day"}).Draw(t, "duration"),
		}
	})
}

func TestCategorize_IndependentOfListOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		incidents := rapid.SliceOfN(genIncident(), 2, 20).Draw(rt, "incidents")

		a := New()
		want := make([]string, len(incidents))
		for i, inc := range incidents {
			want[i] = a.Categorize(inc)
		}

		shuffled := make([]domain.Incident, len(incidents))
		copy(shuffled, incidents)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		// Categorization is a pure function of the incident, so order
		// of classification cannot change any assignment.
		byTitle := make(map[string]string)
		for _, inc := range shuffled {
			byTitle[inc.Title+"\x00"+inc.Description] = a.Categorize(inc)
		}
		for i, inc := range incidents {
			assert.Equal(rt, want[i], byTitle[inc.Title+"\x00"+inc.Description])
		}
	})
}

func TestAnalyze_PercentagesSumTo100(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		incidents := rapid.SliceOfN(genIncident(), 1, 40).Draw(rt, "incidents")

		result := New().Analyze(incidents)

		var sum float64
		for _, stat := range result.Categories {
			sum += stat.Percentage
		}
		assert.InDelta(rt, 100.0, sum, 1e-6)
	})
}

func TestKeyIssues_FrequencyNeverBelowTwo(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		incidents := rapid.SliceOfN(genIncident(), 0, 40).Draw(rt, "incidents")

		total := 0
		for _, issue := range New().KeyIssues(incidents) {
			assert.GreaterOrEqual(rt, issue.Frequency, 2)
			total += issue.Frequency
		}
		assert.LessOrEqual(rt, total, len(incidents))
	})
}

func TestMTTR_NonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		incidents := rapid.SliceOfN(genIncident(), 0, 40).Draw(rt, "incidents")
		assert.GreaterOrEqual(rt, New().MTTR(incidents), 0.0)
	})
}
