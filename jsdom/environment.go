package jsdom

import (
	"strings"
	"unicode"
)

// queryKeys are the settings a page URL may override. Module locations
// only come from the page markup.
var queryKeys = map[string]bool{
	"STRATEGY":     true,
	"PIXEL_BUDGET": true,
	"LOG_LEVEL":    true,
}

// constantCase converts a dataset key (canvasId) or query key (canvas-id)
// to the CANVAS_ID form used by config.
func constantCase(key string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case r == '-' || r == '.' || r == ' ':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			prevLower = false
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

// mergeEnvironment builds the config map from the root element's dataset and
// the URL query. Query values win, but only for allow-listed keys.
func mergeEnvironment(dataset, query map[string]string) map[string]string {
	out := make(map[string]string, len(dataset)+len(query))
	for k, v := range dataset {
		out[constantCase(k)] = v
	}
	for k, v := range query {
		key := constantCase(k)
		if queryKeys[key] {
			out[key] = v
		}
	}
	return out
}
