package enrich

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/agoda-com/codecompass/internal/findings"
	"github.com/agoda-com/codecompass/internal/techdebt"
)

func TestSynthesizeScenarioD(t *testing.T) {
	diags := []findings.Diagnostic{
		{
			RuleID:      "CA1707",
			Message:     "Remove the underscores from member name My_Method",
			Severity:    findings.SeverityWarning,
			Title:       "Identifiers should not contain underscores",
			Description: "By convention, identifier names do not contain the underscore character.",
			Location:    &findings.Span{Path: "src/Foo.cs", StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 14},
		},
		{
			RuleID:   "CA1707",
			Message:  "Remove the underscores from type name My_Type",
			Severity: findings.SeverityWarning,
		},
	}

	synth := NewSynthesizer(newTestEnricher(), DefaultToolInfo())
	out, outcome, err := synth.Synthesize(diags)
	require.NoError(t, err)
	assert.Equal(t, findings.V2, outcome.Version)
	assert.Equal(t, "2.1.0", gjson.GetBytes(out, "version").String())

	driver := gjson.GetBytes(out, "runs.0.tool.driver")
	assert.Equal(t, "Agoda.CodeCompass", driver.Get("name").String())
	assert.Equal(t, "1.0.0", driver.Get("semanticVersion").String())
	assert.Equal(t, "https://agoda.github.io/code-compass", driver.Get("informationUri").String())

	rules := driver.Get("rules").Array()
	require.Len(t, rules, 1)
	assert.Equal(t, "CA1707", rules[0].Get("id").String())
	assert.Equal(t, "Identifiers should not contain underscores", rules[0].Get("name").String())
	assert.Equal(t, "Identifiers should not contain underscores", rules[0].Get("shortDescription.text").String())
	assert.Equal(t, "By convention, identifier names do not contain the underscore character.", rules[0].Get("help.text").String())
	assert.Equal(t, "Naming", rules[0].Get("properties.techDebt.category").String())

	results := gjson.GetBytes(out, "runs.0.results").Array()
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "CA1707", r.Get("ruleId").String())
		assert.Equal(t, int64(0), r.Get("ruleIndex").Int())
		assert.Equal(t, "warning", r.Get("level").String())
		assert.Equal(t, int64(10), r.Get("properties.techDebt.minutes").Int())
	}

	first := results[0].Get("locations.0.physicalLocation")
	assert.Equal(t, "src/Foo.cs", first.Get("artifactLocation.uri").String())
	assert.Equal(t, "%SRCROOT%", first.Get("artifactLocation.uriBaseId").String())
	assert.Equal(t, int64(14), first.Get("region.endColumn").Int())

	second := results[1].Get("locations")
	assert.True(t, second.IsArray())
	assert.Empty(t, second.Array())
	assert.Equal(t, "Remove the underscores from type name My_Type", results[1].Get("message.text").String())
}

func TestSynthesizeRegistersHints(t *testing.T) {
	overlay := techdebt.NewOverlay()
	synth := NewSynthesizer(NewEnricher(techdebt.New(overlay), nil), DefaultToolInfo())

	diags := []findings.Diagnostic{
		{RuleID: "CUSTOM42", Message: "first", Severity: findings.SeverityError, Category: "Reliability"},
		{RuleID: "CS8602", Message: "second", Severity: findings.SeverityInfo, Properties: map[string]string{techdebt.HintCategory: "Ignored"}},
		{RuleID: "CUSTOM43", Message: "third", Severity: findings.SeverityWarning},
	}
	out, _, err := synth.Synthesize(diags)
	require.NoError(t, err)
	assert.Equal(t, 2, overlay.Len())

	rules := gjson.GetBytes(out, "runs.0.tool.driver.rules").Array()
	require.Len(t, rules, 3)
	assert.Equal(t, []string{"CUSTOM42", "CS8602", "CUSTOM43"}, []string{rules[0].Get("id").String(), rules[1].Get("id").String(), rules[2].Get("id").String()})
	assert.Equal(t, "CUSTOM42", rules[0].Get("name").String())

	results := gjson.GetBytes(out, "runs.0.results").Array()
	require.Len(t, results, 3)
	assert.Equal(t, "Reliability", results[0].Get("properties.techDebt.category").String())
	assert.Equal(t, "High", results[0].Get("properties.techDebt.priority").String())
	assert.Equal(t, "NullableReference", results[1].Get("properties.techDebt.category").String())
	assert.Equal(t, "BestPractices", results[2].Get("properties.techDebt.category").String())
	assert.Equal(t, int64(2), results[2].Get("ruleIndex").Int())
}

func TestSynthesizeRejectsMissingRuleID(t *testing.T) {
	overlay := techdebt.NewOverlay()
	synth := NewSynthesizer(NewEnricher(techdebt.New(overlay), nil), DefaultToolInfo())

	out, outcome, err := synth.Synthesize([]findings.Diagnostic{
		{RuleID: "X1", Message: "first", Severity: findings.SeverityWarning},
		{RuleID: " ", Message: "second", Severity: findings.SeverityWarning},
	})
	assert.ErrorIs(t, err, ErrInvalidDiagnostic)
	assert.ErrorContains(t, err, "diagnostic #1")
	assert.Nil(t, out)
	assert.Nil(t, outcome)
	assert.Equal(t, 0, overlay.Len())
}

func TestSynthesizeEmpty(t *testing.T) {
	synth := NewSynthesizer(newTestEnricher(), DefaultToolInfo())
	out, outcome, err := synth.Synthesize(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Summary.Results)
	assert.True(t, gjson.GetBytes(out, "runs.0.results").IsArray())
	assert.Empty(t, gjson.GetBytes(out, "runs.0.results").Array())
}

func TestSynthesizeFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "synth.sarif")

	synth := NewSynthesizer(newTestEnricher(), ToolInfo{Name: "custom-driver"})
	_, err := synth.SynthesizeFile([]findings.Diagnostic{{RuleID: "CS0649", Message: "Field is never assigned", Severity: "error"}}, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "custom-driver", gjson.GetBytes(data, "runs.0.tool.driver.name").String())
	assert.False(t, gjson.GetBytes(data, "runs.0.tool.driver.semanticVersion").Exists())
	assert.Equal(t, "Compiler", gjson.GetBytes(data, "runs.0.results.0.properties.techDebt.category").String())
	assert.Equal(t, "error", gjson.GetBytes(data, "runs.0.results.0.level").String())
}
