package ai

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/relscope/relscope/internal/domain"
)

// parseReport converts the model's JSON object into a typed report.
// Missing fields are tolerated; only non-JSON input is an error.
func parseReport(content string) (domain.AIReport, error) {
	if !gjson.Valid(content) {
		return domain.AIReport{}, fmt.Errorf("model returned invalid JSON")
	}
	root := gjson.Parse(content)

	report := domain.AIReport{
		Summary: root.Get("summary").String(),
		Trends: domain.AITrends{
			Overall: root.Get("trends.overall").String(),
		},
	}

	root.Get("categories").ForEach(func(_, cat gjson.Result) bool {
		report.Categories = append(report.Categories, domain.AICategory{
			Name:            cat.Get("name").String(),
			Description:     cat.Get("description").String(),
			ExampleIncident: cat.Get("example_incident").String(),
		})
		return true
	})

	root.Get("categorized_incidents").ForEach(func(_, inc gjson.Result) bool {
		id := -1
		if v := inc.Get("incident_id"); v.Exists() {
			id = int(v.Int())
		}
		report.CategorizedIncidents = append(report.CategorizedIncidents, domain.AIIncident{
			IncidentID:    id,
			Category:      inc.Get("category").String(),
			Severity:      domain.ParseSeverity(inc.Get("severity").String()),
			DurationHours: inc.Get("duration_hours").Float(),
			RootCause:     inc.Get("root_cause").String(),
		})
		return true
	})

	root.Get("key_issues").ForEach(func(_, issue gjson.Result) bool {
		report.KeyIssues = append(report.KeyIssues, domain.AIKeyIssue{
			Title:       issue.Get("title").String(),
			Description: issue.Get("description").String(),
			Impact:      issue.Get("impact").String(),
			Frequency:   issue.Get("frequency").String(),
		})
		return true
	})

	byCategory := root.Get("trends.by_category")
	if byCategory.IsObject() {
		report.Trends.ByCategory = make(map[string]string)
		byCategory.ForEach(func(key, value gjson.Result) bool {
			report.Trends.ByCategory[key.String()] = value.String()
			return true
		})
	}

	return report, nil
}
