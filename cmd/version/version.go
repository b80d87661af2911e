package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/techdebt"
)

// Set at build time with -ldflags "-X".
var (
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds build information and the capabilities compiled into the binary.
type Versions struct {
	Version        string   `json:"version"`
	GolangVersion  string   `json:"golang_version"`
	BuildTime      string   `json:"build_time"`
	SarifVersions  []string `json:"sarif_versions"`
	CatalogEntries int      `json:"catalog_entries"`
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), currentVersions(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

func currentVersions() Versions {
	return Versions{
		Version:        CoreVersion,
		GolangVersion:  GolangVersion,
		BuildTime:      BuildTime,
		SarifVersions:  []string{string(findings.V1), string(findings.V2)},
		CatalogEntries: techdebt.Builtin().Len(),
	}
}

// printVersionInfo prints the version information for the application.
func printVersionInfo(w io.Writer, v Versions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintf(w, "Core Version: v%s\n", v.Version)
	fmt.Fprintf(w, "SARIF Versions: %s, %s\n", v.SarifVersions[0], v.SarifVersions[1])
	fmt.Fprintf(w, "Catalog Entries: %d\n", v.CatalogEntries)
	fmt.Fprintf(w, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", v.BuildTime)
	return nil
}
