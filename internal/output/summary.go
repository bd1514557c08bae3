package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/relscope/relscope/internal/domain"
)

// RunResult is what the pipeline hands back for display
type RunResult struct {
	TargetName     string             `json:"target"`
	TargetAnalysis *domain.Analysis   `json:"target_analysis"`
	PeerAnalysis   *domain.Analysis   `json:"peer_analysis"`
	AIAnalysis     *domain.AIAnalysis `json:"ai_analysis,omitempty"`
	WorkbookPath   string             `json:"workbook_path"`
	ReportPath     string             `json:"report_path"`
	AIDumpPath     string             `json:"ai_dump_path,omitempty"`
	FailedFetches  []string           `json:"failed_fetches,omitempty"`
}

// Emitter renders the end-of-run summary
type Emitter struct {
	w      io.Writer
	format string
	styled bool
}

// NewEmitter creates a summary emitter. Styling is dropped when w is
// not a terminal.
func NewEmitter(w io.Writer, format string) *Emitter {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd())
	}
	return &Emitter{w: w, format: format, styled: styled}
}

// Emit writes the run summary in the configured format
func (e *Emitter) Emit(result *RunResult) error {
	if e.format == "json" {
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return e.emitText(result)
}

func (e *Emitter) emitText(result *RunResult) error {
	fmt.Fprintf(e.w, "%s\n\n", e.render(Styles.Header, fmt.Sprintf("Reliability report for %s", result.TargetName)))

	analysis := result.TargetAnalysis
	e.line("Incidents", fmt.Sprintf("%d", analysis.TotalIncidents))
	e.line("MTTR", fmt.Sprintf("%.1f hours", analysis.MTTRHours))
	e.line("Trend", e.render(TrendStyle(analysis.Trend.Direction), analysis.Trend.Direction))
	e.line("Key issues", fmt.Sprintf("%d", len(analysis.KeyIssues)))
	if result.PeerAnalysis != nil {
		e.line("Peer incidents", fmt.Sprintf("%d", result.PeerAnalysis.TotalIncidents))
	}
	fmt.Fprintln(e.w)

	if len(analysis.Categories) > 0 {
		if err := e.categoryTable(analysis); err != nil {
			return err
		}
		fmt.Fprintln(e.w)
	}

	if result.AIAnalysis != nil && result.AIAnalysis.Target.Summary != "" {
		e.line("AI summary", result.AIAnalysis.Target.Summary)
		fmt.Fprintln(e.w)
	}

	for _, name := range result.FailedFetches {
		fmt.Fprintf(e.w, "%s %s\n", e.render(Styles.Warning, "fetch failed:"), name)
	}
	if len(result.FailedFetches) > 0 {
		fmt.Fprintln(e.w)
	}

	e.line("Workbook", result.WorkbookPath)
	e.line("Report", result.ReportPath)
	if result.AIDumpPath != "" {
		e.line("AI analysis", result.AIDumpPath)
	}
	return nil
}

func (e *Emitter) categoryTable(analysis *domain.Analysis) error {
	names := make([]string, 0, len(analysis.Categories))
	for name := range analysis.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := analysis.Categories[names[i]].Count, analysis.Categories[names[j]].Count
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})

	table := tablewriter.NewTable(e.w)
	table.Header("Category", "Count", "Share")
	for _, name := range names {
		stat := analysis.Categories[name]
		if err := table.Append(name, fmt.Sprintf("%d", stat.Count), fmt.Sprintf("%.1f%%", stat.Percentage)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (e *Emitter) line(label, value string) {
	fmt.Fprintf(e.w, "%s %s\n", e.render(Styles.Label, label+":"), value)
}

func (e *Emitter) render(style lipgloss.Style, s string) string {
	if !e.styled {
		return s
	}
	return style.Render(s)
}
