package sarif

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/agoda-com/codecompass/internal/findings"
)

// Adapter converts between one on-disk SARIF version and the findings model.
type Adapter interface {
	Version() findings.Version
	// Parse reads raw into a report. Malformed elements are skipped and returned
	// as warnings; only envelope problems are errors.
	Parse(raw []byte) (*findings.Report, []*Warning, error)
	// Serialize writes report back in the same version, pretty-printed.
	Serialize(report *findings.Report) ([]byte, error)
}

var prettyOptions = &pretty.Options{Indent: "  "}

// Detect returns the schema version of raw by reading only its top-level version field.
func Detect(raw []byte) (findings.Version, error) {
	root, err := parseRoot(raw)
	if err != nil {
		return "", err
	}
	return versionOf(root)
}

// AdapterFor selects the adapter for v. It never guesses.
func AdapterFor(v findings.Version) (Adapter, error) {
	switch v {
	case findings.V1:
		return v1Adapter{}, nil
	case findings.V2:
		return v2Adapter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
}

// utf8BOM is written by many .NET tools at the start of report files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func trimBOM(raw []byte) []byte {
	return bytes.TrimPrefix(raw, utf8BOM)
}

func parseRoot(raw []byte) (gjson.Result, error) {
	raw = trimBOM(raw)
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%w: not well-formed JSON", ErrInvalidFormat)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: top-level value is not an object", ErrInvalidFormat)
	}
	return root, nil
}

func versionOf(root gjson.Result) (findings.Version, error) {
	version := root.Get("version")
	if !version.Exists() {
		return "", fmt.Errorf("%w: version field is missing", ErrUnsupportedVersion)
	}
	if version.Type != gjson.String {
		return "", fmt.Errorf("%w: version field is %s", ErrUnsupportedVersion, version.Raw)
	}
	switch v := findings.Version(version.Str); v {
	case findings.V1, findings.V2:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, version.Str)
	}
}

// parseEnvelope validates the parts every version shares and returns the root
// plus the runs array.
func parseEnvelope(raw []byte, want findings.Version) (gjson.Result, []gjson.Result, error) {
	root, err := parseRoot(raw)
	if err != nil {
		return gjson.Result{}, nil, err
	}
	got, err := versionOf(root)
	if err != nil {
		return gjson.Result{}, nil, err
	}
	if got != want {
		return gjson.Result{}, nil, fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedVersion, want, got)
	}
	runs := root.Get("runs")
	if !runs.IsArray() {
		return gjson.Result{}, nil, fmt.Errorf("%w: runs must be an array", ErrInvalidFormat)
	}
	return root, runs.Array(), nil
}

func schemaOf(root gjson.Result) string {
	// "$schema" is read through Map so the key is never interpreted as a path.
	if s, ok := root.Map()["$schema"]; ok && s.Type == gjson.String {
		return s.Str
	}
	return ""
}

// serializeEnvelope overlays version, schema and the serialized runs onto the
// report's raw document and pretty-prints the result.
func serializeEnvelope(report *findings.Report, runs [][]byte) ([]byte, error) {
	out := cloneObject(report.Raw)

	var err error
	if out, err = sjson.SetBytes(out, "version", string(report.Version)); err != nil {
		return nil, err
	}
	if report.Schema != "" {
		current := gjson.ParseBytes(out).Map()["$schema"]
		if current.Str != report.Schema {
			if out, err = sjson.SetBytes(out, "$schema", report.Schema); err != nil {
				return nil, err
			}
		}
	}
	if out, err = sjson.SetRawBytes(out, "runs", joinArray(runs)); err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(out, prettyOptions), nil
}
