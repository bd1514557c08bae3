package cli

import (
	"encoding/json"
	"fmt"

	"github.com/relscope/relscope/internal/config"
)

// ValidateCmd checks a run config file and reports what it found
type ValidateCmd struct {
	Config string `arg:"" type:"existingfile" help:"Run config file to validate"`
}

// Run executes the validate command
func (v *ValidateCmd) Run(globals *Globals) error {
	run, err := config.LoadRun(v.Config)
	if err != nil {
		return outputError(globals, &CLIError{
			Code:    "CONFIG_INVALID",
			Message: err.Error(),
		})
	}

	tf, err := run.ParseTimeframe()
	if err != nil {
		return outputError(globals, &CLIError{
			Code:    "CONFIG_INVALID",
			Message: err.Error(),
		})
	}

	if globals.Format == "json" {
		payload, _ := json.Marshal(struct {
			Type   string `json:"type"`
			Target string `json:"target"`
			Peers  int    `json:"peers"`
			Start  string `json:"start"`
			End    string `json:"end"`
		}{
			Type:   "validated",
			Target: run.TargetCompany.Name,
			Peers:  len(run.PeerCompanies),
			Start:  tf.Start.Format("2006-01-02"),
			End:    tf.End.Format("2006-01-02"),
		})
		fmt.Fprintln(globals.Stdout, string(payload))
		return nil
	}

	fmt.Fprintf(globals.Stdout, "Config OK: target %s, %d peers, %s to %s\n",
		run.TargetCompany.Name, len(run.PeerCompanies),
		tf.Start.Format("2006-01-02"), tf.End.Format("2006-01-02"))
	return nil
}
