package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/errors"
)

// apiDetails is the error detail attached to API failures in JSON output.
type apiDetails struct {
	Status int    `json:"status"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// renderError prints err in the configured format and returns the exit
// code for it.
func renderError(out *OutputFormatter, err error) int {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		if out.Format == "json" {
			_ = out.Error(CodeValidation, "Please correct the highlighted fields", []domain.FieldError(verrs))
			return ExitCommandError
		}
		fmt.Fprintf(out.Writer, "Error [%s]: Please correct the highlighted fields\n", CodeValidation)
		for _, fe := range verrs {
			fmt.Fprintf(out.Writer, "  %s: %s\n", fe.Field, fe.Message)
		}
		return ExitCommandError
	}

	code := GetExitCode(err)
	message := err.Error()
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		message = exitErr.Message
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		_ = out.Error(CodeAPI, api.UserMessage(err, message), apiDetails{
			Status: apiErr.StatusCode,
			Method: apiErr.Method,
			Path:   apiErr.Path,
		})
		out.VerboseLog("cause: %v", err)
		return code
	}

	errCode := CodeFailure
	if code == ExitCommandError {
		errCode = CodeUsage
	}
	_ = out.Error(errCode, message, nil)
	if exitErr != nil && exitErr.Err != nil {
		out.VerboseLog("cause: %v", exitErr.Err)
	}
	return code
}

func notSignedIn() error {
	return NewExitError(ExitFailure, "You are not signed in. Run `smartfarm login` first.")
}

// exactArgs is cobra.ExactArgs reporting a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// parseID parses a positive numeric identifier given on the command line.
func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s id %q", what, s))
	}
	return id, nil
}
