package errors

// Exit codes returned by commands.
const (
	ExitInvalidArguments = 1
	ExitIOFailure        = 2
	ExitInvalidReport    = 3
)

// CommandError represents a failed command together with the arguments it ran with.
type CommandError struct {
	ExitCode    int
	CommonError string
	Args        interface{}
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance, encapsulating args and the error message.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Args:        args,
		Err:         err,
	}
}
