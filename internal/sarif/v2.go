package sarif

import (
	"encoding/json"
	"fmt"
	"strconv"

	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agoda-com/codecompass/internal/findings"
)

// v2Adapter handles SARIF 2.1.0: rules under tool.driver.rules, results with
// message.text and physicalLocation-based locations.
type v2Adapter struct{}

func (v2Adapter) Version() findings.Version { return findings.V2 }

func (a v2Adapter) Parse(raw []byte) (*findings.Report, []*Warning, error) {
	raw = trimBOM(raw)
	root, runs, err := parseEnvelope(raw, findings.V2)
	if err != nil {
		return nil, nil, err
	}

	var w warnings
	report := &findings.Report{
		Schema:  schemaOf(root),
		Version: findings.V2,
		Raw:     append(json.RawMessage(nil), raw...),
	}
	for i, runJSON := range runs {
		path := fmt.Sprintf("runs[%d]", i)
		if !runJSON.IsObject() {
			w.add(path, "run is not an object")
			report.Runs = append(report.Runs, &findings.Run{Raw: json.RawMessage(runJSON.Raw), Verbatim: true})
			continue
		}
		report.Runs = append(report.Runs, a.parseRun(runJSON, path, &w))
	}
	return report, w, nil
}

func (a v2Adapter) parseRun(runJSON gjson.Result, path string, w *warnings) *findings.Run {
	run := &findings.Run{Raw: json.RawMessage(runJSON.Raw)}

	var rulesJSON []gjson.Result
	driver := runJSON.Get("tool.driver")
	if driver.IsObject() {
		driverPath := path + ".tool.driver"
		tool := &findings.Tool{
			Name:            stringField(driver, "name", driverPath, w),
			SemanticVersion: stringField(driver, "semanticVersion", driverPath, w),
			InformationURI:  stringField(driver, "informationUri", driverPath, w),
		}
		rulesJSON = arrayField(driver, "rules", driverPath, w)
		for i, ruleJSON := range rulesJSON {
			tool.Rules = append(tool.Rules, a.parseRule(ruleJSON, elementPath(driverPath, "rules", i), w))
		}
		run.Tool = tool
	} else if driver.Exists() {
		w.add(path+".tool.driver", "expected an object, got %s", driver.Type)
	}

	for i, resultJSON := range arrayField(runJSON, "results", path, w) {
		run.Results = append(run.Results, a.parseResult(resultJSON, rulesJSON, elementPath(path, "results", i), w))
	}
	return run
}

// parseRule reads one rule. Rules that cannot be read keep their position so
// result ruleIndex references stay valid.
func (v2Adapter) parseRule(ruleJSON gjson.Result, path string, w *warnings) *findings.Rule {
	malformed := &findings.Rule{Raw: json.RawMessage(ruleJSON.Raw), Verbatim: true}
	if !ruleJSON.IsObject() {
		w.add(path, "rule is not an object")
		return malformed
	}
	id := stringField(ruleJSON, "id", path, w)
	if id == "" {
		w.add(path, "rule has no id")
		return malformed
	}

	rule := &findings.Rule{
		ID:               id,
		Name:             stringField(ruleJSON, "name", path, w),
		ShortDescription: multiformatText(ruleJSON, "shortDescription", path, w),
		FullDescription:  multiformatText(ruleJSON, "fullDescription", path, w),
		Help:             multiformatText(ruleJSON, "help", path, w),
		Raw:              json.RawMessage(ruleJSON.Raw),
	}
	var ok bool
	rule.Properties, ok = parseProperties(ruleJSON, path, w)
	rule.Verbatim = !ok
	return rule
}

func (a v2Adapter) parseResult(resultJSON gjson.Result, rulesJSON []gjson.Result, path string, w *warnings) *findings.Result {
	malformed := &findings.Result{Raw: json.RawMessage(resultJSON.Raw), Verbatim: true}
	if !resultJSON.IsObject() {
		w.add(path, "result is not an object")
		return malformed
	}
	ruleID := stringField(resultJSON, "ruleId", path, w)
	if ruleID == "" {
		ruleID = stringField(resultJSON, "rule.id", path, w)
	}
	if ruleID == "" {
		ruleID = ruleIDByIndex(resultJSON, rulesJSON)
	}
	if ruleID == "" {
		w.add(path, "result has no rule id")
		return malformed
	}

	result := &findings.Result{RuleID: ruleID, Raw: json.RawMessage(resultJSON.Raw)}

	var message gosarif.Message
	if decodeField(resultJSON, "message", path, &message, w) && message.Text != nil {
		result.Message = *message.Text
	}

	for i, locJSON := range arrayField(resultJSON, "locations", path, w) {
		result.Locations = append(result.Locations, a.parseLocation(locJSON, elementPath(path, "locations", i), w))
	}

	var ok bool
	result.Properties, ok = parseProperties(resultJSON, path, w)
	result.Verbatim = !ok
	return result
}

// ruleIDByIndex resolves a result that references its rule only through
// ruleIndex (or rule.index) against the driver's rules.
func ruleIDByIndex(resultJSON gjson.Result, rulesJSON []gjson.Result) string {
	for _, key := range []string{"ruleIndex", "rule.index"} {
		v := resultJSON.Get(key)
		if v.Type != gjson.Number {
			continue
		}
		index, err := strconv.Atoi(v.Raw)
		if err != nil || index < 0 || index >= len(rulesJSON) {
			continue
		}
		if id := rulesJSON[index].Get("id"); id.Type == gjson.String {
			return id.Str
		}
	}
	return ""
}

func (v2Adapter) parseLocation(locJSON gjson.Result, path string, w *warnings) findings.Location {
	loc := findings.Location{Raw: json.RawMessage(locJSON.Raw)}
	if !locJSON.IsObject() {
		w.add(path, "location is not an object")
		loc.Verbatim = true
		return loc
	}

	physical := locJSON.Get("physicalLocation")
	if !physical.Exists() {
		return loc
	}
	if !physical.IsObject() {
		w.add(path+".physicalLocation", "expected an object, got %s", physical.Type)
		loc.Verbatim = true
		return loc
	}
	physicalPath := path + ".physicalLocation"

	var artifact gosarif.ArtifactLocation
	if decodeField(physical, "artifactLocation", physicalPath, &artifact, w) && artifact.URI != nil {
		loc.URI = *artifact.URI
	}
	loc.Region = readRegion(physical.Get("region"), physicalPath+".region", w)
	return loc
}

func multiformatText(obj gjson.Result, key, path string, w *warnings) string {
	var msg gosarif.MultiformatMessageString
	if decodeField(obj, key, path, &msg, w) && msg.Text != nil {
		return *msg.Text
	}
	return ""
}

func (a v2Adapter) Serialize(report *findings.Report) ([]byte, error) {
	if report.Version != findings.V2 {
		return nil, fmt.Errorf("%w: %s report given to the 2.1.0 serializer", ErrUnsupportedVersion, report.Version)
	}
	runs := make([][]byte, 0, len(report.Runs))
	for i, run := range report.Runs {
		if run.Verbatim {
			runs = append(runs, verbatim(run.Raw))
			continue
		}
		out, err := a.serializeRun(run)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize runs[%d]: %w", i, err)
		}
		runs = append(runs, out)
	}
	return serializeEnvelope(report, runs)
}

func (a v2Adapter) serializeRun(run *findings.Run) ([]byte, error) {
	out := cloneObject(run.Raw)
	var err error

	if tool := run.Tool; tool != nil {
		if out, err = setString(out, "tool.driver.name", tool.Name); err != nil {
			return nil, err
		}
		if out, err = setString(out, "tool.driver.semanticVersion", tool.SemanticVersion); err != nil {
			return nil, err
		}
		if out, err = setString(out, "tool.driver.informationUri", tool.InformationURI); err != nil {
			return nil, err
		}
		if shouldWriteArray(out, "tool.driver.rules", len(tool.Rules)) {
			rules := make([][]byte, 0, len(tool.Rules))
			for _, rule := range tool.Rules {
				ruleJSON, err := a.serializeRule(rule)
				if err != nil {
					return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
				}
				rules = append(rules, ruleJSON)
			}
			if out, err = sjson.SetRawBytes(out, "tool.driver.rules", joinArray(rules)); err != nil {
				return nil, err
			}
		}
	}

	if shouldWriteArray(out, "results", len(run.Results)) {
		results := make([][]byte, 0, len(run.Results))
		for _, result := range run.Results {
			resultJSON, err := a.serializeResult(result)
			if err != nil {
				return nil, fmt.Errorf("result %s: %w", result.RuleID, err)
			}
			results = append(results, resultJSON)
		}
		if out, err = sjson.SetRawBytes(out, "results", joinArray(results)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (v2Adapter) serializeRule(rule *findings.Rule) ([]byte, error) {
	if rule.Verbatim {
		return verbatim(rule.Raw), nil
	}
	out := cloneObject(rule.Raw)
	var err error
	if out, err = sjson.SetBytes(out, "id", rule.ID); err != nil {
		return nil, err
	}
	fields := []struct {
		key   string
		value string
	}{
		{"name", rule.Name},
		{"shortDescription.text", rule.ShortDescription},
		{"fullDescription.text", rule.FullDescription},
		{"help.text", rule.Help},
	}
	for _, f := range fields {
		if out, err = setString(out, f.key, f.value); err != nil {
			return nil, err
		}
	}
	return writeProperties(out, rule.Properties)
}

func (a v2Adapter) serializeResult(result *findings.Result) ([]byte, error) {
	if result.Verbatim {
		return verbatim(result.Raw), nil
	}
	out := cloneObject(result.Raw)
	var err error

	// A result identified through rule.id or an index keeps that shape.
	if id := gjson.GetBytes(out, "ruleId"); (id.Type == gjson.String && id.Str != "") || (!id.Exists() && !hasRuleReference(out)) {
		if out, err = sjson.SetBytes(out, "ruleId", result.RuleID); err != nil {
			return nil, err
		}
	}
	if out, err = setString(out, "message.text", result.Message); err != nil {
		return nil, err
	}

	if shouldWriteArray(out, "locations", len(result.Locations)) {
		locations := make([][]byte, 0, len(result.Locations))
		for _, loc := range result.Locations {
			locJSON, err := a.serializeLocation(loc)
			if err != nil {
				return nil, err
			}
			locations = append(locations, locJSON)
		}
		if out, err = sjson.SetRawBytes(out, "locations", joinArray(locations)); err != nil {
			return nil, err
		}
	}
	return writeProperties(out, result.Properties)
}

func hasRuleReference(raw []byte) bool {
	for _, key := range []string{"rule.id", "ruleIndex", "rule.index"} {
		if gjson.GetBytes(raw, key).Exists() {
			return true
		}
	}
	return false
}

func (v2Adapter) serializeLocation(loc findings.Location) ([]byte, error) {
	if loc.Verbatim {
		return verbatim(loc.Raw), nil
	}
	out := cloneObject(loc.Raw)
	var err error
	if out, err = setString(out, "physicalLocation.artifactLocation.uri", loc.URI); err != nil {
		return nil, err
	}
	return setRegion(out, "physicalLocation.region", loc.Region)
}
