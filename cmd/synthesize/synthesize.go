package synthesize

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/agoda-com/codecompass/internal/cmd"
	"github.com/agoda-com/codecompass/internal/config"
	internalenrich "github.com/agoda-com/codecompass/internal/enrich"
	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/logger"
	"github.com/agoda-com/codecompass/internal/techdebt"
	sharederrors "github.com/agoda-com/codecompass/pkg/shared/errors"
	"github.com/agoda-com/codecompass/pkg/shared/files"
)

// DefaultReportName is used when --output points at a folder.
const DefaultReportName = "codecompass.sarif"

// RunOptions holds flags for the synthesize command.
type RunOptions struct {
	Findings string `json:"findings,omitempty"`
	Output   string `json:"output,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	// Example usage for the synthesize command
	exampleSynthesizeUsage = `  # Build an enriched SARIF 2.1.0 report from analyzer diagnostics
  codecompass synthesize --findings diagnostics.json --output build.sarif

  # Write codecompass.sarif into an existing folder
  codecompass synthesize --findings diagnostics.json --output reports/`

	// SynthesizeCmd represents the command to build a SARIF report from diagnostics.
	SynthesizeCmd = &cobra.Command{
		Use:                   "synthesize --findings PATH --output PATH",
		Short:                 "Build an enriched SARIF 2.1.0 report from analyzer diagnostics",
		Example:               exampleSynthesizeUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runSynthesize,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	// 1. Check for help request
	if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	// 2. Initialize logger
	cfg := AppConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	lg := logger.NewLogger(cfg, "synthesize")

	// 3. Validate arguments and resolve the output file
	if err := validate(&opts, args); err != nil {
		lg.Error("invalid arguments", "error", err)
		return sharederrors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), sharederrors.ExitInvalidArguments)
	}
	outputPath, _, err := files.DetermineFileFullPath(opts.Output, DefaultReportName)
	if err != nil {
		lg.Error("invalid output path", "error", err)
		return sharederrors.NewCommandError(opts, err, sharederrors.ExitInvalidArguments)
	}

	// 4. Read diagnostics
	diags, err := findings.ReadDiagnostics(opts.Findings)
	if err != nil {
		lg.Error("failed to read diagnostics", "error", err)
		return sharederrors.NewCommandError(opts, fmt.Errorf("failed to read diagnostics: %w", err), sharederrors.ExitIOFailure)
	}

	// 5. Synthesize and write the report
	enricher := internalenrich.NewEnricher(techdebt.New(techdebt.NewOverlay()), lg)
	synth := internalenrich.NewSynthesizer(enricher, toolInfo(cfg))
	outcome, err := synth.SynthesizeFile(diags, outputPath)
	if err != nil {
		lg.Error("failed to synthesize report", "error", err)
		code := sharederrors.ExitIOFailure
		if errors.Is(err, internalenrich.ErrInvalidDiagnostic) {
			code = sharederrors.ExitInvalidArguments
		}
		return sharederrors.NewCommandError(opts, err, code)
	}

	// 6. Log success
	outcome.Summary.Log(lg, outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Report with %d result(s) written to %s\n", outcome.Summary.Results, outputPath)
	return nil
}

// toolInfo applies configured driver fields over the defaults.
func toolInfo(cfg *config.Config) internalenrich.ToolInfo {
	defaults := internalenrich.DefaultToolInfo()
	return internalenrich.ToolInfo{
		Name:            config.SetThen(cfg.Synthesis.ToolName, defaults.Name),
		SemanticVersion: config.SetThen(cfg.Synthesis.SemanticVersion, defaults.SemanticVersion),
		InformationURI:  config.SetThen(cfg.Synthesis.InformationURI, defaults.InformationURI),
	}
}

func init() {
	SynthesizeCmd.Flags().StringVarP(&opts.Findings, "findings", "f", "", "JSON array of analyzer diagnostics")
	SynthesizeCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Path of the synthesized report, or a folder to hold "+DefaultReportName)
	SynthesizeCmd.Flags().BoolP("help", "h", false, "Show help for synthesize command.")
}
