// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty title).
	UserError = 1

	// AuthError indicates missing credentials or a failed login.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// All lists the codes in ascending order.
var All = []int{Success, UserError, AuthError, BackendError}

// Describe returns a short description of code for help output.
func Describe(code int) string {
	switch code {
	case Success:
		return "success"
	case UserError:
		return "invalid arguments or empty title"
	case AuthError:
		return "missing credentials or login failed"
	case BackendError:
		return "backend unreachable or request rejected"
	default:
		return "unknown"
	}
}
