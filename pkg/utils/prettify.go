package utils

import (
	"regexp"
	"strings"
)

// Fields containing camelCase names from the FIO API that should be
// prettified for human-readable output.
var nameFields = map[string]bool{
	"name":          true,
	"category":      true,
	"planet_name":   true,
	"material_name": true,
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// CamelToTitle converts a camelCase string to Title Case.
//
// Example: "drinkingWater" -> "Drinking Water".
func CamelToTitle(text string) string {
	spaced := camelBoundary.ReplaceAllString(text, "$1 $2")
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// PrettifyNames recursively transforms camelCase name fields (name,
// category, planet_name, material_name) to Title Case in decoded JSON
// data. Other values are returned unchanged.
func PrettifyNames(data any) any {
	switch v := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok && nameFields[k] {
				out[k] = CamelToTitle(s)
				continue
			}
			out[k] = PrettifyNames(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = PrettifyNames(item)
		}
		return out
	default:
		return data
	}
}
