package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relscope/relscope/internal/ai"
	"github.com/relscope/relscope/internal/analyzer"
	"github.com/relscope/relscope/internal/config"
	"github.com/relscope/relscope/internal/domain"
	"github.com/relscope/relscope/internal/excel"
	"github.com/relscope/relscope/internal/markdown"
	"github.com/relscope/relscope/internal/output"
	"github.com/relscope/relscope/internal/scraper"
)

// Enricher is the AI analysis dependency; satisfied by *ai.Client
type Enricher interface {
	AnalyzeIncidents(ctx context.Context, target, peer []domain.Incident) *domain.AIAnalysis
}

var _ Enricher = (*ai.Client)(nil)

// ScraperFactory builds the scraper for one company. Tests substitute
// fakes; production wires scraper.NewStatusPage.
type ScraperFactory func(company domain.Company) scraper.Scraper

// Generator runs the full pipeline for one run config
type Generator struct {
	run        *config.RunConfig
	outDir     string
	logger     *zap.Logger
	analyzer   *analyzer.Analyzer
	enricher   Enricher
	newScraper ScraperFactory
	now        func() time.Time
}

// NewGenerator creates a pipeline generator. enricher may be nil to
// skip AI enrichment entirely.
func NewGenerator(run *config.RunConfig, outDir string, enricher Enricher, newScraper ScraperFactory, logger *zap.Logger) *Generator {
	return &Generator{
		run:        run,
		outDir:     outDir,
		logger:     logger,
		analyzer:   analyzer.New(),
		enricher:   enricher,
		newScraper: newScraper,
		now:        time.Now,
	}
}

// DefaultScraperFactory wires the production status-page scraper
func DefaultScraperFactory(cfg *config.Config, logger *zap.Logger) ScraperFactory {
	retryDelay, err := time.ParseDuration(cfg.Defaults.FetchRetryDelay)
	if err != nil {
		retryDelay = time.Second
	}
	timeout, err := time.ParseDuration(cfg.Defaults.FetchTimeout)
	if err != nil {
		timeout = 30 * time.Second
	}
	fetcher := scraper.NewFetcher(logger,
		scraper.WithRetries(cfg.Defaults.FetchRetries, retryDelay),
		scraper.WithHTTPClient(&http.Client{Timeout: timeout}))
	return func(company domain.Company) scraper.Scraper {
		return scraper.NewStatusPage(company, fetcher, logger)
	}
}

// Generate fetches, analyzes and writes all report artifacts
func (g *Generator) Generate(ctx context.Context) (*output.RunResult, error) {
	tf, err := g.run.ParseTimeframe()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	incidents, failed := g.fetchAll(ctx, tf)
	g.logger.Info("fetched incidents",
		zap.Int("total", len(incidents)),
		zap.Int("failed_companies", len(failed)))

	targetName := g.run.TargetCompany.Name
	var target, peer []domain.Incident
	for _, inc := range incidents {
		if inc.Company == targetName {
			target = append(target, inc)
		} else {
			peer = append(peer, inc)
		}
	}
	g.logger.Info("split incidents",
		zap.Int("target", len(target)),
		zap.Int("peer", len(peer)))

	targetAnalysis := g.analyzer.Analyze(target)
	peerAnalysis := g.analyzer.Analyze(peer)

	result := &output.RunResult{
		TargetName:     targetName,
		TargetAnalysis: targetAnalysis,
		PeerAnalysis:   peerAnalysis,
		FailedFetches:  failed,
	}

	var aiAnalysis *domain.AIAnalysis
	if g.enricher != nil {
		aiAnalysis = g.enricher.AnalyzeIncidents(ctx, target, peer)
		result.AIAnalysis = aiAnalysis

		dumpPath := filepath.Join(g.outDir, targetName+"_ai_analysis.json")
		if err := g.dumpAIAnalysis(dumpPath, aiAnalysis); err != nil {
			g.logger.Warn("could not write AI analysis dump", zap.Error(err))
		} else {
			result.AIDumpPath = dumpPath
		}
	}

	baseName := targetName + "_reliability_report"

	workbookPath := filepath.Join(g.outDir, baseName+".xlsx")
	if err := excel.NewWriter(g.logger).Write(workbookPath, target, targetAnalysis, aiAnalysis); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	result.WorkbookPath = workbookPath

	reportPath := filepath.Join(g.outDir, baseName+".md")
	rendered := markdown.Render(markdown.Report{
		TargetName:     targetName,
		PeerCount:      len(g.run.PeerCompanies),
		Timeframe:      tf,
		GeneratedAt:    g.now(),
		Target:         target,
		Peer:           peer,
		TargetAnalysis: targetAnalysis,
		PeerAnalysis:   peerAnalysis,
		AIAnalysis:     aiAnalysis,
		WorkbookName:   baseName + ".xlsx",
	})
	if err := os.WriteFile(reportPath, []byte(rendered), 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	result.ReportPath = reportPath

	g.logger.Info("report generated",
		zap.String("workbook", workbookPath),
		zap.String("report", reportPath))
	return result, nil
}

// fetchAll runs one fetch task per company. A failing company is
// recorded and excluded; it never aborts sibling fetches.
func (g *Generator) fetchAll(ctx context.Context, tf domain.Timeframe) ([]domain.Incident, []string) {
	companies := g.run.Companies()

	var mu sync.Mutex
	var all []domain.Incident
	var failed []string

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(4)

	for _, company := range companies {
		company := company
		grp.Go(func() error {
			s := g.newScraper(company)
			incidents, err := s.FetchIncidents(gctx, tf)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				g.logger.Error("fetch failed, excluding company",
					zap.String("company", company.Name),
					zap.Error(err))
				failed = append(failed, company.Name)
				return nil
			}
			g.logger.Info("fetched company incidents",
				zap.String("company", company.Name),
				zap.Int("count", len(incidents)))
			all = append(all, incidents...)
			return nil
		})
	}

	// Tasks swallow their own errors, so Wait only reflects ctx state.
	_ = grp.Wait()

	// Fan-out finishes in arbitrary order; keep output deterministic.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Company != all[j].Company {
			return all[i].Company < all[j].Company
		}
		return all[i].Date.Before(all[j].Date)
	})
	sort.Strings(failed)

	return all, failed
}

func (g *Generator) dumpAIAnalysis(path string, analysis *domain.AIAnalysis) error {
	encoded, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}
