package render

import "math"

const (
	defaultHeight = 800
	defaultWidth  = 1000

	minMarginLeft   = 120
	minMarginBottom = 120
	defaultPad      = 10
)

// DefaultLayout returns the layout used when the caller sends none.
func DefaultLayout() map[string]any {
	return map[string]any{
		"height":   float64(defaultHeight),
		"width":    float64(defaultWidth),
		"autosize": true,
		"margin": map[string]any{
			"l":   float64(minMarginLeft),
			"r":   80.0,
			"b":   float64(minMarginBottom),
			"t":   100.0,
			"pad": float64(defaultPad),
		},
	}
}

// MergeLayout overlays the caller layout on the defaults. Unknown keys pass
// through untouched. A caller margin keeps its own values but the left and
// bottom sides are raised so axis titles stay visible.
func MergeLayout(custom map[string]any) map[string]any {
	out := DefaultLayout()
	for k, v := range custom {
		if k == "margin" {
			continue
		}
		out[k] = v
	}

	m, ok := custom["margin"].(map[string]any)
	if !ok {
		return out
	}
	margin := make(map[string]any, len(m)+3)
	for k, v := range m {
		margin[k] = v
	}
	raiseTo(margin, "l", minMarginLeft)
	raiseTo(margin, "b", minMarginBottom)
	if _, ok := margin["pad"]; !ok {
		margin["pad"] = float64(defaultPad)
	}
	out["margin"] = margin
	return out
}

func raiseTo(m map[string]any, key string, floor float64) {
	if v, ok := number(m[key]); ok && v >= floor {
		return
	}
	m[key] = floor
}

// layoutInt reads a numeric layout key, falling back to def.
func layoutInt(layout map[string]any, key string, def int) int {
	if v, ok := number(layout[key]); ok && v > 0 {
		return int(math.Round(v))
	}
	return def
}

// margins reads the margin sides in pixels.
func margins(layout map[string]any) (left, right, top, bottom int) {
	m, _ := layout["margin"].(map[string]any)
	side := func(key string) int {
		if v, ok := number(m[key]); ok && v > 0 {
			return int(math.Round(v))
		}
		return 0
	}
	return side("l"), side("r"), side("t"), side("b")
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
