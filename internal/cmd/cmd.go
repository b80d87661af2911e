package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// HasFlags reports whether any flag in flags was set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	set := false
	flags.Visit(func(*pflag.Flag) {
		set = true
	})
	return set
}

// RequiredFlags returns an error naming every flag whose value is empty, in the given order.
func RequiredFlags(values map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}
