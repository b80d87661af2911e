package findings

import (
	"encoding/json"
)

// Version identifies the on-disk SARIF schema a report was read from.
type Version string

const (
	// V1 is SARIF 1.0.0: results carry a level and resultFile locations, no rule catalog.
	V1 Version = "1.0.0"
	// V2 is SARIF 2.1.0: runs carry tool.driver.rules, results carry physicalLocations.
	V2 Version = "2.1.0"
)

// Report is the version-agnostic root of a parsed SARIF document.
type Report struct {
	Schema  string
	Version Version
	Runs    []*Run

	// Raw holds the document as read from disk. Serializers overlay the modeled
	// fields onto it so content this model does not know about survives a round trip.
	Raw json.RawMessage
}

// Run is one analysis session.
type Run struct {
	Tool    *Tool
	Results []*Result
	Raw     json.RawMessage
	// Verbatim elements could not be read; they are written back exactly as
	// Raw holds them and are never enriched.
	Verbatim bool
}

// Tool describes the analyzer that produced a run. Only V2 documents carry Rules.
type Tool struct {
	Name            string
	SemanticVersion string
	InformationURI  string
	Rules           []*Rule
}

// Rule is a rule definition from tool.driver.rules.
type Rule struct {
	ID               string
	Name             string
	ShortDescription string
	FullDescription  string
	Help             string
	Properties       TechDebtProperties
	Raw              json.RawMessage
	Verbatim         bool
}

// Result is one reported issue.
type Result struct {
	RuleID  string
	Message string
	// Level is only modeled for V1 results.
	Level      string
	Locations  []Location
	Properties TechDebtProperties
	Raw        json.RawMessage
	Verbatim   bool
}

// Location is a file URI plus a 1-based inclusive region.
type Location struct {
	URI      string
	Region   Region
	Raw      json.RawMessage
	Verbatim bool
}

// Region coordinates are 1-based; zero means the coordinate is not set.
type Region struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsZero reports whether no coordinate is set.
func (r Region) IsZero() bool {
	return r == Region{}
}

// FirstRun returns the first run of the report, or nil when there is none.
func (r *Report) FirstRun() *Run {
	if r == nil || len(r.Runs) == 0 {
		return nil
	}
	return r.Runs[0]
}

// ResultCount returns the number of results across all runs.
func (r *Report) ResultCount() int {
	total := 0
	for _, run := range r.Runs {
		total += len(run.Results)
	}
	return total
}
