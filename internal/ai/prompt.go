package ai

import (
	"encoding/json"
	"fmt"

	"github.com/relscope/relscope/internal/domain"
)

const responseSchema = `{
  "categories": [
    {
      "name": "Category name",
      "description": "Detailed description of this category",
      "example_incident": "Example of an incident in this category"
    }
  ],
  "categorized_incidents": [
    {
      "incident_id": 0,
      "category": "Assigned category",
      "severity": "Critical|Major|Minor|Low",
      "duration_hours": 2.5,
      "root_cause": "Identified root cause if possible"
    }
  ],
  "key_issues": [
    {
      "title": "Issue title",
      "description": "Description of the issue",
      "impact": "High|Medium|Low",
      "frequency": "Number of occurrences"
    }
  ],
  "trends": {
    "overall": "increasing|decreasing|stable",
    "by_category": {
      "Category1": "increasing|decreasing|stable"
    }
  },
  "summary": "Overall analysis summary in a paragraph"
}`

// systemPrompt builds the analyst instructions for one batch. When
// categories from the peer pass exist they constrain the target pass.
func systemPrompt(kind string, existing []domain.AICategory) string {
	subject := "peer companies"
	if kind == "target" {
		subject = "the target company"
	}

	categoriesContext := ""
	if len(existing) > 0 {
		encoded, err := json.MarshalIndent(existing, "", "  ")
		if err == nil {
			categoriesContext = fmt.Sprintf("Use these existing categories from peer analysis: %s\n\n", encoded)
		}
	}

	return fmt.Sprintf(`You are an expert reliability analyst. Your task is to analyze a set of incidents from %s and provide structured insights.

%sAnalyze the incidents to:
1. Categorize each incident (create meaningful categories based on the type of issue)
2. Identify key reliability issues and patterns
3. Detect trends in incident frequency and severity
4. Provide a summary of the reliability status

Format your response as a JSON object with the following structure:
%s

The incident_id field is the index in the original incidents array. Estimate duration_hours when the duration is unknown. Ensure all incidents are categorized, even if you need to create a new category.`,
		subject, categoriesContext, responseSchema)
}

// userMessage serializes the incident batch for the model
func userMessage(incidents []domain.Incident) string {
	encoded, err := json.MarshalIndent(incidents, "", "  ")
	if err != nil {
		// Incident contains nothing unmarshalable; this cannot happen.
		return "Here are the incidents to analyze: []"
	}
	return fmt.Sprintf("Here are the incidents to analyze: %s", encoded)
}
