package enrich

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agoda-com/codecompass/pkg/shared/files"
)

// validate validates the RunOptions for the enrich command.
func validate(o *RunOptions, args []string, suffix string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, ", "))
	}
	if len(o.Inputs) == 0 {
		return fmt.Errorf("--input is required")
	}
	for _, input := range o.Inputs {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("--input must not be empty")
		}
	}
	if o.Output != "" && o.OutputDir != "" {
		return fmt.Errorf("--output and --output-dir are mutually exclusive")
	}
	if o.Output == "" && o.OutputDir == "" {
		return fmt.Errorf("one of --output or --output-dir is required")
	}
	if o.Output != "" && len(o.Inputs) > 1 {
		return fmt.Errorf("--output accepts a single --input, use --output-dir for %d inputs", len(o.Inputs))
	}

	seen := map[string]string{}
	for _, input := range o.Inputs {
		target := input
		if o.OutputDir != "" {
			target = files.OutputPathFor(input, o.OutputDir, suffix)
		}
		if previous, ok := seen[target]; ok {
			return fmt.Errorf("inputs %q and %q would both be written to %q", previous, input, target)
		}
		seen[target] = input
		if o.Output != "" && samePath(input, o.Output) {
			return fmt.Errorf("--output must differ from --input %q", input)
		}
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// checkInputs verifies every input is a readable regular file before any
// report is enriched.
func checkInputs(inputs []string) error {
	for _, input := range inputs {
		if err := files.ValidatePath(input); err != nil {
			return fmt.Errorf("input %q: %w", input, err)
		}
	}
	return nil
}
