package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/relscope/relscope/internal/domain"
)

// Styles holds all lipgloss styles for terminal output
var Styles = struct {
	// Severity styles
	Critical lipgloss.Style
	Major    lipgloss.Style
	Minor    lipgloss.Style
	Low      lipgloss.Style

	// Summary components
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
}{
	Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold
	Major:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange bold
	Minor:    lipgloss.NewStyle().Foreground(lipgloss.Color("227")),            // Yellow
	Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),            // Gray

	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// SeverityStyle returns the style for a severity level
func SeverityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical:
		return Styles.Critical
	case domain.SeverityMajor:
		return Styles.Major
	case domain.SeverityMinor:
		return Styles.Minor
	default:
		return Styles.Low
	}
}

// TrendStyle colors a trend direction: rising incident counts are bad
func TrendStyle(direction string) lipgloss.Style {
	switch direction {
	case domain.TrendIncreasing:
		return Styles.Danger
	case domain.TrendDecreasing:
		return Styles.Success
	default:
		return Styles.Value
	}
}
