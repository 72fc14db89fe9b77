package commands

import (
	"errors"
	"fmt"
	"io"

	"taskclient/internal/exitcode"
	"taskclient/internal/service"
)

// ReportError prints err and maps its kind to an exit code.
func ReportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)

	switch {
	case errors.Is(err, service.ErrValidation):
		return exitcode.UserError
	case errors.Is(err, service.ErrLoginFailed), errors.Is(err, service.ErrNotLoggedIn):
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}
