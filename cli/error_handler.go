package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message tailored to the error code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	mark := theme.DefaultTheme.Error.Render(theme.IconError)
	hint := func(format string, args ...interface{}) {
		fmt.Fprintln(h.Out, theme.DefaultTheme.Muted.Render(fmt.Sprintf(format, args...)))
	}

	var e *errors.Error
	errors.As(err, &e)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found.\n", mark)
		hint("Create a ratedesk.yml or pass --config.")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "%s %s\n", mark, errors.Message(err))
		hint("Run 'ratedesk config-schema' to see the accepted settings.")

	case errors.ErrCodeUnauthorized:
		fmt.Fprintf(h.Out, "%s %s\n", mark, errors.Message(err))
		hint("Set RATEDESK_TOKEN, api.token or api.token_file, or pass --token.")

	case errors.ErrCodeNetwork:
		fmt.Fprintf(h.Out, "%s Could not reach the API: %s\n", mark, errors.Message(err))
		if e != nil && e.Details["path"] != nil {
			hint("Request: %v %v", e.Details["method"], e.Details["path"])
		}
		hint("Check api.base_url or --api-url.")

	case errors.ErrCodeValidation:
		fmt.Fprintf(h.Out, "%s %s\n", mark, errors.Message(err))

	default:
		fmt.Fprintf(h.Out, "%s Error: %s\n", mark, errors.Message(err))
	}

	if h.Verbose && e != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", e.ToJSON())
	}
	return err
}
