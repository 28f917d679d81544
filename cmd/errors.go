package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/internal/util"
	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/store"
	"github.com/squillaiugis/todo-app/types"
)

// toCLIError classifies err into a structured error with a user friendly message.
func toCLIError(err error) *types.CLIError {
	var cliErr *types.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var malformed *store.MalformedStoreError
	switch {
	case errors.As(err, &malformed):
		details := map[string]any{"key": malformed.Key, "kind": malformed.Kind.String()}
		if malformed.Kind == store.MalformedInvalidElement {
			details["index"] = malformed.Index
			if malformed.Path != "" {
				details["path"] = malformed.Path
			}
		}
		return types.NewCLIError(types.CodeMalformedStore,
			fmt.Sprintf("stored tasks under %q are malformed (%s); fix or remove them and try again", malformed.Key, malformed.Kind),
			details)
	case errors.Is(err, store.ErrChecksumMismatch):
		return types.NewCLIError(types.CodeIntegrity,
			"stored tasks failed the integrity check; the data file was modified outside todo", nil)
	case errors.Is(err, models.ErrInvalidTask):
		return types.NewCLIError(types.CodeValidation, err.Error(), nil)
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrAmbiguousID):
		return types.NewCLIError(types.CodeNotFound, err.Error(), nil)
	default:
		return types.NewCLIError(types.CodeInternal, "something went wrong; run again with --verbose for details", nil)
	}
}

// HandleError prints err to w. With --json the structured error is printed;
// with --verbose the full technical error is printed alongside the message.
func HandleError(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := toCLIError(err)
	if isJSON() {
		out, _ := json.MarshalIndent(map[string]any{"error": cliErr}, "", "  ")
		fmt.Fprintln(w, string(out))
		return
	}
	if !isVerbose() && (cliErr.Code == types.CodeMalformedStore || cliErr.Code == types.CodeIntegrity) {
		fmt.Fprintln(w, ui.RenderErrorPanel("Stored tasks could not be read", cliErr.Message))
		return
	}
	PrintError(w, cliErr.Message, err)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(w io.Writer, userMsg string, technicalErr error) {
	if isVerbose() && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(w, "Error: %v\n", technicalErr)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", userMsg)
}
