package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/relscope/relscope/internal/cli"
	"github.com/relscope/relscope/internal/config"
)

const quickStart = `relscope - status-page reliability reports

START HERE (this is the command you want):
  relscope report -c run.yaml

The run config names the target company, its peers, and the date range:
  target_company:
    name: ExampleCo
    status_url: https://status.example.com
  peer_companies:
    - name: PeerOne
      status_url: https://status.peerone.com
  timeframe:
    start_date: "2024-01-01"
    end_date: "2024-06-30"

Other useful commands:
  relscope validate run.yaml        Check a run config without fetching
  relscope report -c run.yaml --no-ai   Rule-based report only
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format": cfg.Format,
	}

	ctx := kong.Parse(&c,
		kong.Name("relscope"),
		kong.Description("Collect status-page incidents, classify them, and generate a reliability report comparing a target company against its peers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	defer func() { _ = globals.Logger.Sync() }()

	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
