package enrich

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/sarif"
	"github.com/agoda-com/codecompass/internal/techdebt"
	"github.com/agoda-com/codecompass/pkg/shared/files"
)

// Outcome describes one completed enrichment.
type Outcome struct {
	Version  findings.Version
	Report   *findings.Report
	Warnings []*sarif.Warning
	Summary  Summary
}

// Enricher attaches tech-debt metadata to SARIF reports.
type Enricher struct {
	catalog *techdebt.Catalog
	logger  hclog.Logger
}

// NewEnricher creates an Enricher. A nil logger discards output.
func NewEnricher(catalog *techdebt.Catalog, logger hclog.Logger) *Enricher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Enricher{catalog: catalog, logger: logger}
}

// Enrich detects the version of raw, parses it with the matching adapter,
// attaches metadata and serializes it in the same version.
// Nothing is returned but the error when the envelope is invalid or the version unsupported.
func (e *Enricher) Enrich(raw []byte) ([]byte, *Outcome, error) {
	// Step 1: detect
	version, err := sarif.Detect(raw)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := sarif.AdapterFor(version)
	if err != nil {
		return nil, nil, err
	}

	// Step 2: parse, skipping malformed elements
	report, warns, err := adapter.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warns {
		e.logger.Warn("skipping malformed element", "path", w.Path, "reason", w.Reason)
	}

	// Steps 3-4: rules, then results
	e.EnrichReport(report)

	// Step 5: serialize
	out, err := adapter.Serialize(report)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize %s report: %w", version, err)
	}

	outcome := &Outcome{
		Version:  version,
		Report:   report,
		Warnings: warns,
		Summary:  Summarize(report),
	}
	e.logger.Debug("report enriched",
		"version", version,
		"runs", len(report.Runs),
		"results", outcome.Summary.Results,
		"warnings", len(warns))
	return out, outcome, nil
}

// EnrichReport overwrites properties.techDebt on the rules of the first run and
// on every result of every run. Rule ids are never touched and elements the
// parser could not read are left as they are.
func (e *Enricher) EnrichReport(report *findings.Report) {
	if run := report.FirstRun(); run != nil && !run.Verbatim && run.Tool != nil {
		for _, rule := range run.Tool.Rules {
			if rule.Verbatim {
				continue
			}
			rule.Properties = e.catalog.Properties(rule.ID)
		}
	}

	for _, run := range report.Runs {
		for _, result := range run.Results {
			if result.Verbatim {
				continue
			}
			result.Properties = e.catalog.Properties(result.RuleID)
		}
	}
}

// EnrichFile enriches the report at inputPath and writes it to outputPath.
// The output file is only created once enrichment has fully succeeded.
func (e *Enricher) EnrichFile(inputPath, outputPath string) (*Outcome, error) {
	raw, err := files.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %q: %w", inputPath, err)
	}

	out, outcome, err := e.Enrich(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich report %q: %w", inputPath, err)
	}

	if err := files.WriteFileAtomic(outputPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report %q: %w", outputPath, err)
	}
	e.logger.Info("enriched report written", "input", inputPath, "output", outputPath, "version", outcome.Version)
	return outcome, nil
}
