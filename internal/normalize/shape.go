package normalize

import (
	"strconv"
	"strings"

	"stayfinder/internal/domain"
)

// textKeys is the fallback order used when a text field arrives as an object.
var textKeys = []string{"content", "name", "description", "text"}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// Text flattens a value that may be a plain string or a localized object.
// Objects are searched by the preferred keys first, then content/name/description/text.
// Lists of strings are joined with ", ".
func Text(v any, preferred ...string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		keys := append(append([]string{}, preferred...), textKeys...)
		for _, k := range keys {
			if s := Text(t[k]); s != "" {
				return s
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if s := Text(it); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// firstText returns the first non-empty flattened text among paths.
func firstText(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := Text(lookupAny(m, p)); s != "" {
			return s
		}
	}
	return ""
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseFloat: number from float64/int/string like "8,0"; nil on anything else.
func parseFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// floatAt: first parseable number among several paths.
func floatAt(m map[string]any, paths ...string) *float64 {
	for _, p := range paths {
		if f := parseFloat(lookupAny(m, p)); f != nil {
			return f
		}
	}
	return nil
}

// intAt: first parseable integer among several paths.
func intAt(m map[string]any, paths ...string) *int {
	if f := floatAt(m, paths...); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

// ratingAt keeps numbers as values and other strings as category codes.
func ratingAt(m map[string]any, paths ...string) *domain.Rating {
	for _, p := range paths {
		v := lookupAny(m, p)
		if f := parseFloat(v); f != nil {
			return &domain.Rating{Value: f}
		}
		if s := Text(v); s != "" {
			return &domain.Rating{Code: s}
		}
	}
	return nil
}

// coordAt reads a lat/lon pair; both must parse.
func coordAt(m map[string]any, latPaths, lonPaths []string) *domain.Coordinate {
	lat := floatAt(m, latPaths...)
	lon := floatAt(m, lonPaths...)
	if lat == nil || lon == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return nil
	}
	return &domain.Coordinate{Lat: *lat, Lon: *lon}
}

// stringsAt: accept []any with either strings or {url/src/name}.
func stringsAt(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := Text(t, "url", "src", "name"); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

// Records keeps only the object entries of a decoded JSON list.
func Records(items []any) []domain.Record {
	out := make([]domain.Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// List returns the first path that holds a JSON array.
func List(m map[string]any, paths ...string) []any {
	for _, p := range paths {
		if l, ok := lookupAny(m, p).([]any); ok {
			return l
		}
	}
	return nil
}
