package enrich

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cmdutil "github.com/agoda-com/codecompass/internal/cmd"
	"github.com/agoda-com/codecompass/internal/config"
	internalenrich "github.com/agoda-com/codecompass/internal/enrich"
	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/logger"
	"github.com/agoda-com/codecompass/internal/sarif"
	"github.com/agoda-com/codecompass/internal/techdebt"
	sharederrors "github.com/agoda-com/codecompass/pkg/shared/errors"
	"github.com/agoda-com/codecompass/pkg/shared/files"
)

// RunOptions holds flags for the enrich command.
type RunOptions struct {
	Inputs    []string `json:"inputs,omitempty"`
	Output    string   `json:"output,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Findings  string   `json:"findings,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	// Example usage for the enrich command
	exampleEnrichUsage = `  # Enrich a single report
  codecompass enrich --input build.sarif --output build.enriched.sarif

  # Enrich several reports at once into a folder
  codecompass enrich --input api.sarif --input web.sarif --output-dir out/

  # Use analyzer hints for rules the built-in catalog does not know
  codecompass enrich --input build.sarif --output build.enriched.sarif --findings diagnostics.json`

	// EnrichCmd represents the command to attach tech-debt metadata to SARIF reports.
	EnrichCmd = &cobra.Command{
		Use:                   "enrich --input PATH [--input PATH...] (--output PATH | --output-dir DIR) [--findings PATH]",
		Short:                 "Attach technical debt metadata to SARIF 1.0.0 and 2.1.0 reports",
		Example:               exampleEnrichUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runEnrich,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runEnrich(cmd *cobra.Command, args []string) error {
	// 1. Check for help request
	if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	// 2. Initialize logger
	cfg := AppConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	lg := logger.NewLogger(cfg, "enrich")

	// 3. Validate arguments
	if err := validate(&opts, args, cfg.Batch.OutputSuffix); err != nil {
		lg.Error("invalid arguments", "error", err)
		return sharederrors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), sharederrors.ExitInvalidArguments)
	}

	// 4. Check inputs exist before touching any output
	if err := checkInputs(opts.Inputs); err != nil {
		lg.Error("invalid input", "error", err)
		return sharederrors.NewCommandError(opts, err, sharederrors.ExitIOFailure)
	}

	// 5. Build the catalog, registering analyzer hints when given
	catalog := techdebt.New(techdebt.NewOverlay())
	if opts.Findings != "" {
		diags, err := findings.ReadDiagnostics(opts.Findings)
		if err != nil {
			lg.Error("failed to read diagnostics", "error", err)
			return sharederrors.NewCommandError(opts, fmt.Errorf("failed to read diagnostics: %w", err), sharederrors.ExitIOFailure)
		}
		registered := catalog.RegisterFromFindingProperties(diags)
		lg.Debug("registered rule metadata from diagnostics", "diagnostics", len(diags), "rules", registered)
	}

	// 6. Enrich every report
	enricher := internalenrich.NewEnricher(catalog, lg)
	jobs := plan(&opts, cfg.Batch.OutputSuffix)
	if err := run(cmd.Context(), enricher, jobs, concurrency(cfg), lg); err != nil {
		return sharederrors.NewCommandError(opts, err, exitCodeFor(err))
	}

	// 7. Log success
	lg.Info("reports enriched", "count", len(jobs))
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d report(s)\n", len(jobs))
	return nil
}

type job struct {
	input  string
	output string
}

func plan(o *RunOptions, suffix string) []job {
	jobs := make([]job, 0, len(o.Inputs))
	for _, input := range o.Inputs {
		output := o.Output
		if o.OutputDir != "" {
			output = files.OutputPathFor(input, o.OutputDir, suffix)
		}
		jobs = append(jobs, job{input: input, output: output})
	}
	return jobs
}

// run enriches jobs concurrently. Reports that fail leave no output; the first
// failure stops jobs that have not started yet.
func run(ctx context.Context, enricher *internalenrich.Enricher, jobs []job, limit int, lg hclog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := enricher.EnrichFile(j.input, j.output)
			if err != nil {
				lg.Error("failed to enrich report", "input", j.input, "error", err)
				return err
			}
			outcome.Summary.Log(lg, j.input)
			return nil
		})
	}
	return g.Wait()
}

func concurrency(cfg *config.Config) int {
	return config.SetThen(cfg.Batch.Concurrency, runtime.NumCPU())
}

func exitCodeFor(err error) int {
	if errors.Is(err, sarif.ErrUnsupportedVersion) || errors.Is(err, sarif.ErrInvalidFormat) {
		return sharederrors.ExitInvalidReport
	}
	return sharederrors.ExitIOFailure
}

func init() {
	// --input supports multiple usages (e.g., --input a.sarif --input b.sarif) or comma-separated values
	EnrichCmd.Flags().StringSliceVarP(&opts.Inputs, "input", "i", nil, "SARIF report(s) to enrich (repeat flag or use comma-separated values)")
	EnrichCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Path of the enriched report; only valid with a single --input")
	EnrichCmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Folder for enriched reports, named after their inputs")
	EnrichCmd.Flags().StringVar(&opts.Findings, "findings", "", "Optional: JSON diagnostics whose hint properties describe rules missing from the built-in catalog")
	EnrichCmd.Flags().BoolP("help", "h", false, "Show help for enrich command.")
}
