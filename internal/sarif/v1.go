package sarif

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agoda-com/codecompass/internal/findings"
)

// v1Adapter handles SARIF 1.0.0: plain-string messages, a per-result level and
// resultFile-based locations. There is no rule catalog to enrich.
type v1Adapter struct{}

func (v1Adapter) Version() findings.Version { return findings.V1 }

func (a v1Adapter) Parse(raw []byte) (*findings.Report, []*Warning, error) {
	raw = trimBOM(raw)
	root, runs, err := parseEnvelope(raw, findings.V1)
	if err != nil {
		return nil, nil, err
	}

	var w warnings
	report := &findings.Report{
		Schema:  schemaOf(root),
		Version: findings.V1,
		Raw:     append(json.RawMessage(nil), raw...),
	}
	for i, runJSON := range runs {
		path := fmt.Sprintf("runs[%d]", i)
		if !runJSON.IsObject() {
			w.add(path, "run is not an object")
			report.Runs = append(report.Runs, &findings.Run{Raw: json.RawMessage(runJSON.Raw), Verbatim: true})
			continue
		}

		run := &findings.Run{Raw: json.RawMessage(runJSON.Raw)}
		if tool := runJSON.Get("tool"); tool.IsObject() {
			run.Tool = &findings.Tool{
				Name:            stringField(tool, "name", path+".tool", &w),
				SemanticVersion: stringField(tool, "semanticVersion", path+".tool", &w),
			}
		}
		for j, resultJSON := range arrayField(runJSON, "results", path, &w) {
			run.Results = append(run.Results, a.parseResult(resultJSON, elementPath(path, "results", j), &w))
		}
		report.Runs = append(report.Runs, run)
	}
	return report, w, nil
}

// parseResult reads one result. Results that cannot be read keep their
// position and are written back unchanged.
func (v1Adapter) parseResult(resultJSON gjson.Result, path string, w *warnings) *findings.Result {
	malformed := &findings.Result{Raw: json.RawMessage(resultJSON.Raw), Verbatim: true}
	if !resultJSON.IsObject() {
		w.add(path, "result is not an object")
		return malformed
	}
	ruleID := stringField(resultJSON, "ruleId", path, w)
	if ruleID == "" {
		w.add(path, "result has no ruleId")
		return malformed
	}

	result := &findings.Result{
		RuleID:  ruleID,
		Message: stringField(resultJSON, "message", path, w),
		Level:   stringField(resultJSON, "level", path, w),
		Raw:     json.RawMessage(resultJSON.Raw),
	}

	for i, locJSON := range arrayField(resultJSON, "locations", path, w) {
		locPath := elementPath(path, "locations", i)
		loc := findings.Location{Raw: json.RawMessage(locJSON.Raw)}
		if !locJSON.IsObject() {
			w.add(locPath, "location is not an object")
			loc.Verbatim = true
		} else if file := locJSON.Get("resultFile"); file.IsObject() {
			filePath := locPath + ".resultFile"
			loc.URI = stringField(file, "uri", filePath, w)
			loc.Region = readRegion(file.Get("region"), filePath+".region", w)
		} else if file.Exists() {
			w.add(locPath+".resultFile", "expected an object, got %s", file.Type)
			loc.Verbatim = true
		}
		result.Locations = append(result.Locations, loc)
	}

	var ok bool
	result.Properties, ok = parseProperties(resultJSON, path, w)
	result.Verbatim = !ok
	return result
}

func (a v1Adapter) Serialize(report *findings.Report) ([]byte, error) {
	if report.Version != findings.V1 {
		return nil, fmt.Errorf("%w: %s report given to the 1.0.0 serializer", ErrUnsupportedVersion, report.Version)
	}

	runs := make([][]byte, 0, len(report.Runs))
	for i, run := range report.Runs {
		if run.Verbatim {
			runs = append(runs, verbatim(run.Raw))
			continue
		}
		out := cloneObject(run.Raw)
		var err error
		if run.Tool != nil {
			if out, err = setString(out, "tool.name", run.Tool.Name); err != nil {
				return nil, err
			}
			if out, err = setString(out, "tool.semanticVersion", run.Tool.SemanticVersion); err != nil {
				return nil, err
			}
		}
		if shouldWriteArray(out, "results", len(run.Results)) {
			results := make([][]byte, 0, len(run.Results))
			for _, result := range run.Results {
				resultJSON, err := a.serializeResult(result)
				if err != nil {
					return nil, fmt.Errorf("failed to serialize runs[%d] result %s: %w", i, result.RuleID, err)
				}
				results = append(results, resultJSON)
			}
			if out, err = sjson.SetRawBytes(out, "results", joinArray(results)); err != nil {
				return nil, err
			}
		}
		runs = append(runs, out)
	}
	return serializeEnvelope(report, runs)
}

func (v1Adapter) serializeResult(result *findings.Result) ([]byte, error) {
	if result.Verbatim {
		return verbatim(result.Raw), nil
	}
	out := cloneObject(result.Raw)
	var err error
	if out, err = sjson.SetBytes(out, "ruleId", result.RuleID); err != nil {
		return nil, err
	}
	if out, err = setString(out, "message", result.Message); err != nil {
		return nil, err
	}
	if out, err = setString(out, "level", result.Level); err != nil {
		return nil, err
	}

	if shouldWriteArray(out, "locations", len(result.Locations)) {
		locations := make([][]byte, 0, len(result.Locations))
		for _, loc := range result.Locations {
			if loc.Verbatim {
				locations = append(locations, verbatim(loc.Raw))
				continue
			}
			locJSON := cloneObject(loc.Raw)
			if locJSON, err = setString(locJSON, "resultFile.uri", loc.URI); err != nil {
				return nil, err
			}
			if locJSON, err = setRegion(locJSON, "resultFile.region", loc.Region); err != nil {
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
