package sarif

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agoda-com/codecompass/internal/findings"
)

func elementPath(parent, key string, index int) string {
	return fmt.Sprintf("%s.%s[%d]", parent, key, index)
}

// stringField reads an optional string. Any other type is reported and read as empty.
func stringField(obj gjson.Result, key, path string, w *warnings) string {
	v := obj.Get(key)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		w.add(path+"."+key, "expected a string, got %s", v.Type)
		return ""
	}
}

// intField reads an optional coordinate. Only plain non-negative integers that
// fit in 32 bits are accepted; anything else is reported and read as zero so the
// raw value is written back untouched.
func intField(obj gjson.Result, key, path string, w *warnings) int {
	v := obj.Get(key)
	switch v.Type {
	case gjson.Null:
		return 0
	case gjson.Number:
		if n, err := strconv.ParseInt(v.Raw, 10, 32); err == nil && n >= 0 {
			return int(n)
		}
	}
	w.add(path+"."+key, "expected a non-negative 32-bit integer, got %s", v.Raw)
	return 0
}

// arrayField returns the elements of an optional array. A present value of
// another type is reported and yields no elements.
func arrayField(obj gjson.Result, key, path string, w *warnings) []gjson.Result {
	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if !v.IsArray() {
		w.add(path+"."+key, "expected an array, got %s", v.Type)
		return nil
	}
	return v.Array()
}

// decodeField unmarshals an optional substructure into target and reports whether it did.
func decodeField(obj gjson.Result, key, path string, target interface{}, w *warnings) bool {
	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	if err := json.Unmarshal([]byte(v.Raw), target); err != nil {
		w.add(path+"."+key, "cannot decode: %v", err)
		return false
	}
	return true
}

// parseProperties reads properties.techDebt. ok is false when properties is
// present but not an object: the element cannot carry metadata and must be
// written back verbatim.
func parseProperties(obj gjson.Result, path string, w *warnings) (props findings.TechDebtProperties, ok bool) {
	bag := obj.Get("properties")
	if !bag.Exists() {
		return props, true
	}
	if !bag.IsObject() {
		w.add(path+".properties", "expected an object, got %s", bag.Type)
		return props, false
	}

	td := bag.Get("techDebt")
	if !td.Exists() || td.Type == gjson.Null {
		return props, true
	}
	var info findings.TechDebtInfo
	if !td.IsObject() {
		w.add(path+".properties.techDebt", "expected an object, got %s", td.Type)
		return props, true
	}
	if err := json.Unmarshal([]byte(td.Raw), &info); err != nil {
		w.add(path+".properties.techDebt", "cannot decode: %v", err)
		return props, true
	}
	props.TechDebt = &info
	return props, true
}

// writeProperties sets or removes properties.techDebt on raw.
func writeProperties(raw []byte, props findings.TechDebtProperties) ([]byte, error) {
	if props.TechDebt == nil {
		return sjson.DeleteBytes(raw, "properties.techDebt")
	}
	return sjson.SetBytes(raw, "properties.techDebt", props.TechDebt)
}

// setString sets key when value is non-empty; empty values leave raw untouched.
func setString(raw []byte, key, value string) ([]byte, error) {
	if value == "" {
		return raw, nil
	}
	return sjson.SetBytes(raw, key, value)
}

// setInt sets key when value is non-zero.
func setInt(raw []byte, key string, value int) ([]byte, error) {
	if value == 0 {
		return raw, nil
	}
	return sjson.SetBytes(raw, key, value)
}

// setRegion writes the non-zero coordinates of r under prefix.
func setRegion(raw []byte, prefix string, r findings.Region) ([]byte, error) {
	var err error
	coords := []struct {
		key   string
		value int
	}{
		{"startLine", r.StartLine},
		{"startColumn", r.StartColumn},
		{"endLine", r.EndLine},
		{"endColumn", r.EndColumn},
	}
	for _, c := range coords {
		if raw, err = setInt(raw, prefix+"."+c.key, c.value); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func readRegion(region gjson.Result, path string, w *warnings) findings.Region {
	if !region.Exists() || region.Type == gjson.Null {
		return findings.Region{}
	}
	if !region.IsObject() {
		w.add(path, "expected an object, got %s", region.Type)
		return findings.Region{}
	}
	return findings.Region{
		StartLine:   intField(region, "startLine", path, w),
		StartColumn: intField(region, "startColumn", path, w),
		EndLine:     intField(region, "endLine", path, w),
		EndColumn:   intField(region, "endColumn", path, w),
	}
}

// verbatim returns raw exactly as it was read.
func verbatim(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null")
	}
	return append([]byte(nil), raw...)
}

// cloneObject returns a private copy of raw, or an empty object when raw is empty.
func cloneObject(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("{}")
	}
	return append([]byte(nil), raw...)
}

func joinArray(elems [][]byte) []byte {
	return append(append([]byte("["), bytes.Join(elems, []byte(","))...), ']')
}

// shouldWriteArray reports whether key must be rewritten: either there are
// modeled elements, or raw already holds an array under key.
func shouldWriteArray(raw []byte, key string, n int) bool {
	return n > 0 || gjson.GetBytes(raw, key).IsArray()
}
