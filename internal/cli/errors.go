package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CLIError carries a stable code alongside the message so json-mode
// consumers can branch without parsing prose.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func (e *CLIError) Error() string {
	return e.Message
}

// outputError normalizes error emission across commands, respecting
// text vs json formats.
func outputError(globals *Globals, cliErr *CLIError) error {
	if globals != nil && globals.Format == "json" {
		payload, _ := json.Marshal(struct {
			Type string `json:"type"`
			*CLIError
		}{Type: "error", CLIError: cliErr})
		fmt.Fprintln(globals.Stdout, string(payload))
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
		if cliErr.Hint != "" {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", cliErr.Hint)
		}
	}
	return errors.New(cliErr.Message)
}
