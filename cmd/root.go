package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agoda-com/codecompass/cmd/catalog"
	"github.com/agoda-com/codecompass/cmd/enrich"
	"github.com/agoda-com/codecompass/cmd/synthesize"
	"github.com/agoda-com/codecompass/cmd/version"
	"github.com/agoda-com/codecompass/internal/config"
	sharederrors "github.com/agoda-com/codecompass/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "codecompass [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "CodeCompass attaches technical debt estimates to SARIF reports.",
		Long: `CodeCompass reads SARIF 1.0.0 and 2.1.0 reports, attaches remediation effort,
category and priority to every rule and result, and writes the report back in the same version.
It can also build a SARIF 2.1.0 report from a list of analyzer diagnostics.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s when present)", config.DefaultConfigPath))

	rootCmd.AddCommand(enrich.EnrichCmd)
	rootCmd.AddCommand(synthesize.SynthesizeCmd)
	rootCmd.AddCommand(catalog.NewCatalogCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)

		var cmdErr *sharederrors.CommandError
		if errors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return sharederrors.ExitInvalidArguments
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(sharederrors.ExitInvalidArguments)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(sharederrors.ExitInvalidArguments)
	}

	enrich.Init(AppConfig)
	synthesize.Init(AppConfig)
}
