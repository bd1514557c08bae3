package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/relscope/relscope/internal/config"
	"github.com/relscope/relscope/internal/domain"
	"github.com/relscope/relscope/internal/scraper"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeScraper returns canned incidents or a canned error per company
type fakeScraper struct {
	incidents []domain.Incident
	err       error
}

func (f *fakeScraper) FetchIncidents(_ context.Context, _ domain.Timeframe) ([]domain.Incident, error) {
	return f.incidents, f.err
}

// fakeEnricher records its inputs and returns a fixed analysis
type fakeEnricher struct {
	targetSeen []domain.Incident
	peerSeen   []domain.Incident
	analysis   *domain.AIAnalysis
}

func (f *fakeEnricher) AnalyzeIncidents(_ context.Context, target, peer []domain.Incident) *domain.AIAnalysis {
	f.targetSeen = target
	f.peerSeen = peer
	return f.analysis
}

func testRunConfig() *config.RunConfig {
	return &config.RunConfig{
		TargetCompany: domain.Company{Name: "ExampleCo", StatusURL: "https://status.example.com"},
		PeerCompanies: []domain.Company{
			{Name: "PeerOne", StatusURL: "https://status.peerone.com"},
			{Name: "PeerTwo", StatusURL: "https://status.peertwo.com"},
		},
		Timeframe: config.TimeframeConfig{StartDate: "2024-01-01", EndDate: "2024-06-30"},
	}
}

func incident(company, title string, date time.Time) domain.Incident {
	return domain.Incident{
		Company:     company,
		Title:       title,
		Date:        date,
		Description: title,
		Status:      "Resolved",
		Duration:    "2 hours",
	}
}

func factoryFor(scrapers map[string]*fakeScraper) ScraperFactory {
	return func(company domain.Company) scraper.Scraper {
		if s, ok := scrapers[company.Name]; ok {
			return s
		}
		return &fakeScraper{}
	}
}

func TestGenerator_Generate(t *testing.T) {
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	scrapers := map[string]*fakeScraper{
		"ExampleCo": {incidents: []domain.Incident{
			incident("ExampleCo", "API outage", date),
			incident("ExampleCo", "Database failover", date.AddDate(0, 1, 0)),
		}},
		"PeerOne": {incidents: []domain.Incident{
			incident("PeerOne", "Network partition", date),
		}},
		"PeerTwo": {incidents: []domain.Incident{
			incident("PeerTwo", "Login errors", date),
		}},
	}

	outDir := t.TempDir()
	enricher := &fakeEnricher{analysis: &domain.AIAnalysis{
		Target: domain.AIReport{Summary: "Stable overall."},
	}}
	g := NewGenerator(testRunConfig(), outDir, enricher, factoryFor(scrapers), zaptest.NewLogger(t))

	result, err := g.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ExampleCo", result.TargetName)
	assert.Equal(t, 2, result.TargetAnalysis.TotalIncidents)
	assert.Equal(t, 2, result.PeerAnalysis.TotalIncidents)
	assert.Empty(t, result.FailedFetches)

	// The enricher sees target and peer incidents separately.
	assert.Len(t, enricher.targetSeen, 2)
	assert.Len(t, enricher.peerSeen, 2)
	assert.Equal(t, "Stable overall.", result.AIAnalysis.Target.Summary)

	assert.Equal(t, filepath.Join(outDir, "ExampleCo_reliability_report.xlsx"), result.WorkbookPath)
	assert.FileExists(t, result.WorkbookPath)
	assert.FileExists(t, result.ReportPath)
	assert.FileExists(t, result.AIDumpPath)

	report, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Reliability Report for ExampleCo")
	assert.Contains(t, string(report), "Stable overall.")
}

func TestGenerator_Generate_FailedCompanyIsolated(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	scrapers := map[string]*fakeScraper{
		"ExampleCo": {incidents: []domain.Incident{
			incident("ExampleCo", "API outage", date),
		}},
		"PeerOne": {err: errors.New("connection refused")},
		"PeerTwo": {incidents: []domain.Incident{
			incident("PeerTwo", "Slow queries", date),
		}},
	}

	g := NewGenerator(testRunConfig(), t.TempDir(), nil, factoryFor(scrapers), zaptest.NewLogger(t))

	result, err := g.Generate(context.Background())
	require.NoError(t, err)

	// The failing company contributes zero incidents; siblings survive.
	assert.Equal(t, []string{"PeerOne"}, result.FailedFetches)
	assert.Equal(t, 1, result.TargetAnalysis.TotalIncidents)
	assert.Equal(t, 1, result.PeerAnalysis.TotalIncidents)
}

func TestGenerator_Generate_NoEnricher(t *testing.T) {
	scrapers := map[string]*fakeScraper{}
	g := NewGenerator(testRunConfig(), t.TempDir(), nil, factoryFor(scrapers), zaptest.NewLogger(t))

	result, err := g.Generate(context.Background())
	require.NoError(t, err)

	assert.Nil(t, result.AIAnalysis)
	assert.Empty(t, result.AIDumpPath)
	assert.FileExists(t, result.WorkbookPath)
}

func TestGenerator_Generate_BadTimeframe(t *testing.T) {
	run := testRunConfig()
	run.Timeframe.StartDate = "not-a-date"

	g := NewGenerator(run, t.TempDir(), nil, factoryFor(nil), zaptest.NewLogger(t))

	_, err := g.Generate(context.Background())
	assert.Error(t, err)
}
