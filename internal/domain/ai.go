package domain

// AICategory is a model-derived incident category
type AICategory struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ExampleIncident string `json:"example_incident,omitempty"`
}

// AIIncident carries per-incident enrichment keyed by position in the
// batch that was sent to the model.
type AIIncident struct {
	IncidentID    int      `json:"incident_id"`
	Category      string   `json:"category"`
	Severity      Severity `json:"severity"`
	DurationHours float64  `json:"duration_hours,omitempty"`
	RootCause     string   `json:"root_cause,omitempty"`
}

// AIKeyIssue is a recurring problem identified by the model
type AIKeyIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Frequency   string `json:"frequency,omitempty"`
}

// AITrends holds model trend judgements
type AITrends struct {
	Overall    string            `json:"overall"`
	ByCategory map[string]string `json:"by_category,omitempty"`
}

// AIReport is the structured result for one incident batch
type AIReport struct {
	Categories           []AICategory `json:"categories"`
	CategorizedIncidents []AIIncident `json:"categorized_incidents,omitempty"`
	KeyIssues            []AIKeyIssue `json:"key_issues"`
	Trends               AITrends     `json:"trends"`
	Summary              string       `json:"summary"`
}

// Comparative contrasts the target report against the peer report
type Comparative struct {
	CommonCategories []string `json:"common_categories"`
	TargetUnique     []string `json:"target_unique_categories"`
	PeerUnique       []string `json:"peer_unique_categories"`
	TrendComparison  string   `json:"trend_comparison,omitempty"`
	Summary          string   `json:"summary"`
}

// AIAnalysis is the combined model output for one run
type AIAnalysis struct {
	Target      AIReport    `json:"target_analysis"`
	Peer        AIReport    `json:"peer_analysis"`
	Comparative Comparative `json:"comparative_analysis"`
}
