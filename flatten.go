package advisor

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const noSpecifications = "No specifications available."

// specFields are the attributes included in prompt text, in output order.
var specFields = []string{
	"display", "processor", "ram", "storage", "camera",
	"battery", "os", "dimensions", "weight", "features",
}

// FlattenSpec renders a specification as indented plain text for a prompt.
//
// Only a fixed set of attributes is emitted, each when present and non-empty.
// Nested mappings produce one indented line per scalar sub-attribute in sorted key order;
// lists are joined with ", ".
func FlattenSpec(spec DeviceSpecification) string {
	if len(spec) == 0 {
		return noSpecifications
	}

	caser := cases.Title(language.Und)
	label := func(key string) string {
		return caser.String(strings.ReplaceAll(key, "_", " "))
	}

	var b strings.Builder
	name := spec.Name()
	if name == "" {
		name = "N/A"
	}
	fmt.Fprintf(&b, "Device Name: %s\n", name)

	for _, key := range specFields {
		value, ok := spec[key]
		if !ok || !truthy(value) {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			fmt.Fprintf(&b, "- %s:\n", label(key))
			for _, subKey := range slices.Sorted(maps.Keys(v)) {
				sub := v[subKey]
				if !isScalar(sub) || sub == "" {
					continue
				}
				fmt.Fprintf(&b, "  - %s: %s\n", label(subKey), formatScalar(sub))
			}
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = formatScalar(item)
			}
			fmt.Fprintf(&b, "- %s: %s\n", label(key), strings.Join(items, ", "))
		default:
			if isScalar(v) {
				fmt.Fprintf(&b, "- %s: %s\n", label(key), formatScalar(v))
			}
		}
	}

	return strings.TrimSpace(b.String())
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, float64, float32, int, int64:
		return true
	}
	return false
}

// truthy reports whether an attribute value carries information.
// Empty strings and collections, false, zero and nil do not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
