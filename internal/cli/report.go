package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/relscope/relscope/internal/ai"
	"github.com/relscope/relscope/internal/config"
	"github.com/relscope/relscope/internal/output"
	"github.com/relscope/relscope/internal/report"
)

// ReportCmd runs the full pipeline: fetch, analyze, enrich, write
type ReportCmd struct {
	Config string `short:"c" required:"" type:"existingfile" help:"Run config file (target, peers, timeframe)"`
	Out    string `short:"o" help:"Reports output directory (default from config: reports)"`
	APIKey string `help:"OpenAI API key (falls back to RELSCOPE_OPENAI_API_KEY, then OPENAI_API_KEY)"`
	Model  string `help:"Chat model used for enrichment (default from config: gpt-4o)"`
	NoAI   bool   `help:"Skip AI enrichment and produce the rule-based report only"`
}

// Run executes the report command
func (r *ReportCmd) Run(globals *Globals) error {
	run, err := config.LoadRun(r.Config)
	if err != nil {
		return outputError(globals, &CLIError{
			Code:    "CONFIG_INVALID",
			Message: err.Error(),
			Hint:    "Check the run config against the example in the README",
		})
	}

	outDir := r.Out
	if outDir == "" {
		outDir = globals.Config.Defaults.ReportsDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var enricher report.Enricher
	if !r.NoAI {
		model := r.Model
		if model == "" {
			model = globals.Config.Defaults.Model
		}
		enricher = ai.NewClient(ai.ResolveAPIKey(r.APIKey), globals.Logger, ai.WithModel(model))
	}

	factory := report.DefaultScraperFactory(globals.Config, globals.Logger)
	generator := report.NewGenerator(run, outDir, enricher, factory, globals.Logger)

	result, err := generator.Generate(ctx)
	if err != nil {
		return outputError(globals, &CLIError{
			Code:    "REPORT_FAILED",
			Message: err.Error(),
		})
	}

	if globals.Quiet {
		return nil
	}
	return output.NewEmitter(globals.Stdout, globals.Format).Emit(result)
}
