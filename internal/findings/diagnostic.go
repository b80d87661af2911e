package findings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is the analyzer-reported severity of a diagnostic.
type Severity string

const (
	SeverityHidden  Severity = "Hidden"
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// ParseSeverity normalizes free-form severity text ("error", " WARNING ") to a Severity.
// Unknown values are returned title-cased and rank as informational.
func ParseSeverity(s string) Severity {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return SeverityInfo
	}
	return Severity(cases.Title(language.Und).String(normalized))
}

// Priority maps a severity to the tech-debt priority used when no explicit
// metadata exists for a rule.
func (s Severity) Priority() Priority {
	switch ParseSeverity(string(s)) {
	case SeverityError:
		return PriorityHigh
	case SeverityWarning:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Span is the source range a diagnostic points at. Coordinates are 1-based.
type Span struct {
	Path        string `json:"path"`
	StartLine   int    `json:"startLine,omitempty"`
	StartColumn int    `json:"startColumn,omitempty"`
	EndLine     int    `json:"endLine,omitempty"`
	EndColumn   int    `json:"endColumn,omitempty"`
}

// Diagnostic is one finding as handed over by a diagnostics provider.
type Diagnostic struct {
	RuleID        string            `json:"ruleId"`
	Message       string            `json:"message"`
	Severity      Severity          `json:"severity"`
	Title         string            `json:"title,omitempty"`
	Category      string            `json:"category,omitempty"`
	Description   string            `json:"description,omitempty"`
	HelpURI       string            `json:"helpUri,omitempty"`
	MessageFormat string            `json:"messageFormat,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
	Location      *Span             `json:"location,omitempty"`
}

// Property returns the named hint property, if the provider supplied it.
func (d Diagnostic) Property(name string) (string, bool) {
	if d.Properties == nil {
		return "", false
	}
	v, ok := d.Properties[name]
	return v, ok
}

// ToLocation converts the diagnostic span into a model location.
// ok is false when the diagnostic has no location.
func (d Diagnostic) ToLocation() (Location, bool) {
	if d.Location == nil || strings.TrimSpace(d.Location.Path) == "" {
		return Location{}, false
	}
	return Location{
		URI: d.Location.Path,
		Region: Region{
			StartLine:   d.Location.StartLine,
			StartColumn: d.Location.StartColumn,
			EndLine:     d.Location.EndLine,
			EndColumn:   d.Location.EndColumn,
		},
	}, true
}

// ReadDiagnostics reads a JSON array of diagnostics from path.
func ReadDiagnostics(path string) ([]Diagnostic, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read diagnostics %q: %w", path, err)
	}

	var diags []Diagnostic
	if err := json.Unmarshal(data, &diags); err != nil {
		return nil, fmt.Errorf("failed to decode diagnostics %q: %w", path, err)
	}

	for i, d := range diags {
		if strings.TrimSpace(d.RuleID) == "" {
			return nil, fmt.Errorf("diagnostic #%d in %q has no ruleId", i, path)
		}
	}
	return diags, nil
}
