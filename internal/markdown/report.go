package markdown

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/relscope/relscope/internal/domain"
)

// Report holds everything the narrative report draws from
type Report struct {
	TargetName     string
	PeerCount      int
	Timeframe      domain.Timeframe
	GeneratedAt    time.Time
	Target         []domain.Incident
	Peer           []domain.Incident
	TargetAnalysis *domain.Analysis
	PeerAnalysis   *domain.Analysis
	AIAnalysis     *domain.AIAnalysis
	WorkbookName   string
}

// Render produces the Markdown report. AI sections are preferred when
// an AI analysis is present; otherwise the rule-based results fill in.
func Render(r Report) string {
	var b strings.Builder

	header(&b, r)
	executiveSummary(&b, r)
	trends(&b, r)
	keyIssues(&b, r)
	categories(&b, r)
	comparative(&b, r)
	detailPointer(&b, r)
	methodology(&b, r)
	conclusion(&b, r)

	return b.String()
}

func header(b *strings.Builder, r Report) {
	fmt.Fprintf(b, "# Reliability Report for %s\n\n", r.TargetName)
	fmt.Fprintf(b, "**Time Period:** %s to %s\n\n",
		r.Timeframe.Start.Format("2006-01-02"), r.Timeframe.End.Format("2006-01-02"))
	fmt.Fprintf(b, "**Report Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
}

func executiveSummary(b *strings.Builder, r Report) {
	b.WriteString("## Executive Summary\n\n")
	if summary := aiSummary(r); summary != "" {
		fmt.Fprintf(b, "%s\n\n", summary)
		return
	}
	fmt.Fprintf(b, "During the analyzed period, %s experienced %d incidents across %d categories.\n\n",
		r.TargetName, len(r.Target), len(r.TargetAnalysis.Categories))
}

func trends(b *strings.Builder, r Report) {
	b.WriteString("## Reliability Status and Trends\n\n")

	if r.AIAnalysis != nil && r.AIAnalysis.Target.Trends.Overall != "" {
		t := r.AIAnalysis.Target.Trends
		fmt.Fprintf(b, "**Overall Trend:** %s\n\n", t.Overall)
		if len(t.ByCategory) > 0 {
			b.WriteString("**Trends by Category:**\n\n")
			for _, name := range sortedKeys(t.ByCategory) {
				fmt.Fprintf(b, "- %s: %s\n", name, t.ByCategory[name])
			}
			b.WriteString("\n")
		}
		return
	}

	b.WriteString("Based on standard analysis:\n\n")
	fmt.Fprintf(b, "**Overall Trend:** %s\n\n", r.TargetAnalysis.Trend.Direction)
	if len(r.TargetAnalysis.Trend.MonthlyCounts) > 0 {
		b.WriteString("**Monthly Incident Distribution:**\n\n")
		for _, month := range sortedKeys(r.TargetAnalysis.Trend.MonthlyCounts) {
			fmt.Fprintf(b, "- %s: %d incidents\n", month, r.TargetAnalysis.Trend.MonthlyCounts[month])
		}
		b.WriteString("\n")
	}
}

func keyIssues(b *strings.Builder, r Report) {
	b.WriteString("## Key Reliability Issues\n\n")

	if r.AIAnalysis != nil && len(r.AIAnalysis.Target.KeyIssues) > 0 {
		for i, issue := range r.AIAnalysis.Target.KeyIssues {
			fmt.Fprintf(b, "### %d. %s\n\n", i+1, issue.Title)
			fmt.Fprintf(b, "**Impact:** %s\n\n", orUnknown(issue.Impact))
			fmt.Fprintf(b, "**Description:** %s\n\n", orDefault(issue.Description, "No description available"))
			if issue.Frequency != "" {
				fmt.Fprintf(b, "**Frequency:** %s\n\n", issue.Frequency)
			}
		}
		return
	}

	if len(r.TargetAnalysis.KeyIssues) == 0 {
		b.WriteString("No recurring issues were detected in the analyzed period.\n\n")
		return
	}

	b.WriteString("| # | Issue | Frequency | Category | Severity | Last Occurrence |\n")
	b.WriteString("|---|-------|-----------|----------|----------|----------------|\n")
	for i, issue := range r.TargetAnalysis.KeyIssues {
		fmt.Fprintf(b, "| %d | %s | %d | %s | %s | %s |\n",
			i+1, issue.Title, issue.Frequency, issue.Category, issue.Severity,
			issue.LastOccurrence.Format("2006-01-02"))
	}
	b.WriteString("\n")
}

func categories(b *strings.Builder, r Report) {
	b.WriteString("## Incident Categories\n\n")

	if r.AIAnalysis != nil && len(r.AIAnalysis.Target.Categories) > 0 {
		for _, cat := range r.AIAnalysis.Target.Categories {
			fmt.Fprintf(b, "### %s\n\n", cat.Name)
			fmt.Fprintf(b, "**Description:** %s\n\n", orDefault(cat.Description, "No description available"))
			if cat.ExampleIncident != "" {
				fmt.Fprintf(b, "**Example:** %s\n\n", cat.ExampleIncident)
			}
		}
		return
	}

	if len(r.TargetAnalysis.Categories) == 0 {
		b.WriteString("No incidents were recorded in the analyzed period.\n\n")
		return
	}

	b.WriteString("| Category | Count | Percentage | Example |\n")
	b.WriteString("|----------|-------|------------|---------|\n")
	for _, name := range sortedKeys(r.TargetAnalysis.Categories) {
		stat := r.TargetAnalysis.Categories[name]
		example := ""
		if len(stat.Incidents) > 0 {
			example = stat.Incidents[0].Title
		}
		fmt.Fprintf(b, "| %s | %d | %.1f%% | %s |\n", name, stat.Count, stat.Percentage, example)
	}
	b.WriteString("\n")
}

func comparative(b *strings.Builder, r Report) {
	b.WriteString("## Comparative Analysis with Peer Companies\n\n")

	if r.AIAnalysis != nil {
		c := r.AIAnalysis.Comparative
		if c.TrendComparison != "" {
			fmt.Fprintf(b, "**Trend Comparison:** %s\n\n", c.TrendComparison)
		}
		bulletList(b, "Common Categories with Peers", c.CommonCategories)
		bulletList(b, "Categories Unique to Target Company", c.TargetUnique)
		bulletList(b, "Categories Unique to Peer Companies", c.PeerUnique)
		if c.Summary != "" {
			fmt.Fprintf(b, "**Summary:** %s\n\n", c.Summary)
		}
		return
	}

	fmt.Fprintf(b, "%s had %d incidents compared to a total of %d incidents across all peer companies.\n\n",
		r.TargetName, len(r.Target), len(r.Peer))
	if r.PeerCount > 0 {
		fmt.Fprintf(b, "**Average incidents per peer company:** %.1f\n\n",
			float64(len(r.Peer))/float64(r.PeerCount))
	}
}

func detailPointer(b *strings.Builder, r Report) {
	b.WriteString("## Detailed Incident List\n\n")
	b.WriteString("See the accompanying Excel spreadsheet for a detailed list of all incidents.\n\n")
	fmt.Fprintf(b, "**Spreadsheet Location:** %s\n\n", r.WorkbookName)
}

func methodology(b *strings.Builder, r Report) {
	b.WriteString("## Methodology\n\n")
	b.WriteString("This report was generated using a combination of automated data collection and AI-powered analysis:\n\n")
	b.WriteString("1. **Data Collection:** Incident data was collected from the public status pages of the target company and peer companies.\n")
	b.WriteString("2. **Basic Analysis:** Statistical analysis was performed to identify trends and patterns in the incident data.\n")
	if r.AIAnalysis != nil {
		b.WriteString("3. **AI Analysis:** A large-language-model service was used to provide deeper insights, categorization, and comparative analysis.\n")
		b.WriteString("4. **Report Generation:** The final report combines standard metrics with AI-enhanced insights to provide a comprehensive view of reliability status.\n\n")
		return
	}
	b.WriteString("3. **Report Generation:** The final report presents the computed metrics for the analyzed period.\n\n")
}

func conclusion(b *strings.Builder, r Report) {
	b.WriteString("## Conclusion\n\n")
	if summary := aiSummary(r); summary != "" {
		fmt.Fprintf(b, "%s\n\n", summary)
		b.WriteString("For more detailed information, please review the key issues and incident categories sections of this report.\n")
		return
	}
	fmt.Fprintf(b, "This report provides an overview of %s's reliability during the analyzed period. ", r.TargetName)
	b.WriteString("The data collected and analyzed can be used to identify areas for improvement and track reliability trends over time.\n")
}

func aiSummary(r Report) string {
	if r.AIAnalysis == nil {
		return ""
	}
	return r.AIAnalysis.Target.Summary
}

func bulletList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func orUnknown(s string) string { return orDefault(s, "Unknown") }

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
