package sarif

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned when the version field is absent or not 1.0.0/2.1.0.
	ErrUnsupportedVersion = errors.New("unsupported SARIF version")
	// ErrInvalidFormat is returned when the document is not well-formed JSON or misses a required top-level field.
	ErrInvalidFormat = errors.New("invalid SARIF document")
	// ErrMalformedElement marks a recoverable problem with a single rule, result or location.
	ErrMalformedElement = errors.New("malformed element")
)

// Warning describes an element the parser skipped or partially read.
type Warning struct {
	// Path locates the element, e.g. "runs[0].results[3].locations[1]".
	Path   string
	Reason string
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}

func (w *Warning) Unwrap() error {
	return ErrMalformedElement
}

type warnings []*Warning

func (w *warnings) add(path, format string, args ...interface{}) {
	*w = append(*w, &Warning{Path: path, Reason: fmt.Sprintf(format, args...)})
}
