package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/tidwall/sjson"

	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/pkg/shared/files"
)

const srcRootBaseID = "%SRCROOT%"

// ErrInvalidDiagnostic is returned when a diagnostic cannot be turned into a result.
var ErrInvalidDiagnostic = errors.New("invalid diagnostic")

// ToolInfo identifies the driver written into synthesized reports.
type ToolInfo struct {
	Name            string
	SemanticVersion string
	InformationURI  string
}

// DefaultToolInfo is the driver used when no configuration overrides it.
func DefaultToolInfo() ToolInfo {
	return ToolInfo{
		Name:            "Agoda.CodeCompass",
		SemanticVersion: "1.0.0",
		InformationURI:  "https://agoda.github.io/code-compass",
	}
}

// Synthesizer builds SARIF 2.1.0 reports from diagnostics.
type Synthesizer struct {
	enricher *Enricher
	tool     ToolInfo
}

// NewSynthesizer creates a Synthesizer that enriches through enricher.
func NewSynthesizer(enricher *Enricher, tool ToolInfo) *Synthesizer {
	return &Synthesizer{enricher: enricher, tool: tool}
}

// Synthesize registers the hints carried by diags, builds one run with a rule
// per distinct rule id (first-seen order) and a result per diagnostic (input
// order), then enriches both. Every diagnostic must carry a rule id.
func (s *Synthesizer) Synthesize(diags []findings.Diagnostic) ([]byte, *Outcome, error) {
	for i, d := range diags {
		if strings.TrimSpace(d.RuleID) == "" {
			return nil, nil, fmt.Errorf("%w: diagnostic #%d has no rule id", ErrInvalidDiagnostic, i)
		}
	}

	if n := s.enricher.catalog.RegisterFromFindingProperties(diags); n > 0 {
		s.enricher.logger.Debug("registered rule metadata from diagnostics", "rules", n)
	}

	report, err := gosarif.New(gosarif.Version210)
	if err != nil {
		return nil, nil, err
	}

	run := gosarif.NewRunWithInformationURI(s.tool.Name, s.tool.InformationURI)
	if s.tool.SemanticVersion != "" {
		run.Tool.Driver.WithSemanticVersion(s.tool.SemanticVersion)
	}

	ruleIndex := map[string]int{}
	var withoutLocation []int
	for i, d := range diags {
		index, seen := ruleIndex[d.RuleID]
		if !seen {
			index = len(run.Tool.Driver.Rules)
			ruleIndex[d.RuleID] = index
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, newRule(d))
		}

		result := gosarif.NewRuleResult(d.RuleID).
			WithRuleIndex(index).
			WithMessage(gosarif.NewTextMessage(d.Message))
		if level := levelFor(d.Severity); level != "" {
			result.WithLevel(level)
		}
		if loc, ok := d.ToLocation(); ok {
			result.WithLocations([]*gosarif.Location{newLocation(loc)})
		} else {
			withoutLocation = append(withoutLocation, i)
		}
		run.Results = append(run.Results, result)
	}
	report.AddRun(run)

	raw, err := json.Marshal(report)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode synthesized report: %w", err)
	}
	// go-sarif omits empty location lists; results without a span still carry one.
	for _, i := range withoutLocation {
		raw, err = sjson.SetRawBytes(raw, fmt.Sprintf("runs.0.results.%d.locations", i), []byte("[]"))
		if err != nil {
			return nil, nil, err
		}
	}

	return s.enricher.Enrich(raw)
}

// SynthesizeFile synthesizes the report and writes it to outputPath.
func (s *Synthesizer) SynthesizeFile(diags []findings.Diagnostic, outputPath string) (*Outcome, error) {
	out, outcome, err := s.Synthesize(diags)
	if err != nil {
		return nil, err
	}
	if err := files.WriteFileAtomic(outputPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report %q: %w", outputPath, err)
	}
	s.enricher.logger.Info("synthesized report written", "output", outputPath, "results", len(diags))
	return outcome, nil
}

func newRule(d findings.Diagnostic) *gosarif.ReportingDescriptor {
	title := d.Title
	if title == "" {
		title = d.RuleID
	}
	rule := gosarif.NewRule(d.RuleID).
		WithName(title).
		WithShortDescription(gosarif.NewMultiformatMessageString(title))
	if d.Description != "" {
		rule.WithFullDescription(gosarif.NewMultiformatMessageString(d.Description)).
			WithHelp(gosarif.NewMultiformatMessageString(d.Description))
	}
	if d.HelpURI != "" {
		rule.WithHelpURI(d.HelpURI)
	}
	return rule
}

func newLocation(loc findings.Location) *gosarif.Location {
	physical := gosarif.NewPhysicalLocation().
		WithArtifactLocation(gosarif.NewArtifactLocation().WithUri(loc.URI).WithUriBaseId(srcRootBaseID))

	if !loc.Region.IsZero() {
		region := gosarif.NewRegion()
		if loc.Region.StartLine > 0 {
			region.WithStartLine(loc.Region.StartLine)
		}
		if loc.Region.StartColumn > 0 {
			region.WithStartColumn(loc.Region.StartColumn)
		}
		if loc.Region.EndLine > 0 {
			region.WithEndLine(loc.Region.EndLine)
		}
		if loc.Region.EndColumn > 0 {
			region.WithEndColumn(loc.Region.EndColumn)
		}
		physical.WithRegion(region)
	}
	return gosarif.NewLocationWithPhysicalLocation(physical)
}

// levelFor maps a diagnostic severity to a SARIF result level.
func levelFor(s findings.Severity) string {
	switch findings.ParseSeverity(string(s)) {
	case findings.SeverityError:
		return "error"
	case findings.SeverityWarning:
		return "warning"
	case findings.SeverityInfo:
		return "note"
	case findings.SeverityHidden:
		return "none"
	default:
		return ""
	}
}
