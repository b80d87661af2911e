package findings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"error", SeverityError},
		{" WARNING ", SeverityWarning},
		{"Info", SeverityInfo},
		{"hidden", SeverityHidden},
		{"", SeverityInfo},
		{"note", Severity("Note")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.in))
		})
	}
}

func TestSeverityPriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, SeverityError.Priority())
	assert.Equal(t, PriorityHigh, Severity("error").Priority())
	assert.Equal(t, PriorityMedium, SeverityWarning.Priority())
	assert.Equal(t, PriorityLow, SeverityInfo.Priority())
	assert.Equal(t, PriorityLow, SeverityHidden.Priority())
	assert.Equal(t, PriorityLow, Severity("").Priority())
}

func TestDiagnosticToLocation(t *testing.T) {
	d := Diagnostic{RuleID: "CA1707"}
	_, ok := d.ToLocation()
	assert.False(t, ok)

	d.Location = &Span{Path: "  "}
	_, ok = d.ToLocation()
	assert.False(t, ok)

	d.Location = &Span{Path: "src/Foo.cs", StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 12}
	loc, ok := d.ToLocation()
	require.True(t, ok)
	assert.Equal(t, "src/Foo.cs", loc.URI)
	assert.Equal(t, Region{StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 12}, loc.Region)
}

func TestReadDiagnostics(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`[
  {"ruleId": "CA1707", "message": "Remove underscores", "severity": "Warning",
   "properties": {"TechDebtInMinutes": "5"},
   "location": {"path": "src/Foo.cs", "startLine": 1, "startColumn": 2}},
  {"ruleId": "CS0649", "message": "Field never assigned", "severity": "Error"}
]`), 0o644))

	diags, err := ReadDiagnostics(valid)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "CA1707", diags[0].RuleID)
	hint, ok := diags[0].Property("TechDebtInMinutes")
	assert.True(t, ok)
	assert.Equal(t, "5", hint)
	require.NotNil(t, diags[0].Location)
	assert.Equal(t, 2, diags[0].Location.StartColumn)
	assert.Nil(t, diags[1].Location)
	_, ok = diags[1].Property("TechDebtInMinutes")
	assert.False(t, ok)

	missingRule := filepath.Join(dir, "missing.json")
	require.NoError(t, os.WriteFile(missingRule, []byte(`[{"message": "x"}]`), 0o644))
	_, err = ReadDiagnostics(missingRule)
	assert.Error(t, err)

	notJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(notJSON, []byte(`{oops`), 0o644))
	_, err = ReadDiagnostics(notJSON)
	assert.Error(t, err)

	_, err = ReadDiagnostics(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTechDebtInfoValidate(t *testing.T) {
	assert.NoError(t, TechDebtInfo{Minutes: 1, Category: "Naming", Priority: PriorityLow}.Validate())
	assert.Error(t, TechDebtInfo{Minutes: 0, Category: "Naming", Priority: PriorityLow}.Validate())
	assert.Error(t, TechDebtInfo{Minutes: 1, Priority: PriorityLow}.Validate())
	assert.Error(t, TechDebtInfo{Minutes: 1, Category: "Naming", Priority: "Urgent"}.Validate())
}

func TestReportHelpers(t *testing.T) {
	var nilReport *Report
	assert.Nil(t, nilReport.FirstRun())

	report := &Report{Runs: []*Run{
		{Results: []*Result{{RuleID: "A"}, {RuleID: "B"}}},
		{Results: []*Result{{RuleID: "C"}}},
	}}
	assert.Same(t, report.Runs[0], report.FirstRun())
	assert.Equal(t, 3, report.ResultCount())
	assert.True(t, Region{}.IsZero())
	assert.False(t, Region{StartLine: 1}.IsZero())
}
