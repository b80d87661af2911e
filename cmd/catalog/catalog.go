package catalog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/techdebt"
	sharederrors "github.com/agoda-com/codecompass/pkg/shared/errors"
)

// NewCatalogCmd creates the command group that inspects the built-in tech-debt table.
func NewCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the built-in technical debt catalog",
	}
	catalogCmd.AddCommand(newListCmd(), newLookupCmd())
	return catalogCmd
}

func newListCmd() *cobra.Command {
	var category string

	listCmd := &cobra.Command{
		Use:     "list [--category CATEGORY]",
		Short:   "List built-in rules and their remediation metadata",
		Example: "  codecompass catalog list --category Performance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := techdebt.Builtin()
			w := newTableWriter(cmd.OutOrStdout())
			for _, id := range table.IDs() {
				info, _ := table.Lookup(id)
				if category != "" && !strings.EqualFold(info.Category, category) {
					continue
				}
				writeRow(w, id, info)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "Only list rules of this category (case-insensitive)")
	return listCmd
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup RULE_ID...",
		Short:   "Show the remediation metadata of specific rules",
		Example: "  codecompass catalog lookup CA1707 CS8602",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := techdebt.New(nil)
			w := newTableWriter(cmd.OutOrStdout())

			var unknown []string
			for _, id := range args {
				info := catalog.Lookup(id)
				if info == nil {
					unknown = append(unknown, id)
					continue
				}
				writeRow(w, id, *info)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(unknown) > 0 {
				err := fmt.Errorf("unknown rule id(s): %s", strings.Join(unknown, ", "))
				return sharederrors.NewCommandError(args, err, sharederrors.ExitInvalidArguments)
			}
			return nil
		},
	}
}

func newTableWriter(out io.Writer) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tMINUTES\tCATEGORY\tPRIORITY\tRECOMMENDATION")
	return w
}

func writeRow(w io.Writer, id string, info findings.TechDebtInfo) {
	fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", id, info.Minutes, info.Category, info.Priority, info.Recommendation)
}
