package synthesize

import (
	"fmt"
	"strings"

	cmdutil "github.com/agoda-com/codecompass/internal/cmd"
)

// validate validates the RunOptions for the synthesize command.
func validate(o *RunOptions, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, ", "))
	}
	return cmdutil.RequiredFlags(map[string]string{
		"findings": o.Findings,
		"output":   o.Output,
	}, "findings", "output")
}
