package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLayout(t *testing.T) {
	t.Run("no custom layout", func(t *testing.T) {
		assert.Equal(t, DefaultLayout(), MergeLayout(nil))
	})

	t.Run("custom keys override and pass through", func(t *testing.T) {
		out := MergeLayout(map[string]any{
			"height":     500.0,
			"showlegend": false,
		})
		assert.Equal(t, 500.0, out["height"])
		assert.Equal(t, false, out["showlegend"])
		assert.Equal(t, float64(defaultWidth), out["width"])
		assert.Equal(t, true, out["autosize"])
	})

	t.Run("small margins are raised", func(t *testing.T) {
		out := MergeLayout(map[string]any{
			"margin": map[string]any{"l": 10.0, "b": 20.0, "r": 5.0},
		})
		assert.Equal(t, map[string]any{
			"l":   120.0,
			"b":   120.0,
			"r":   5.0,
			"pad": 10.0,
		}, out["margin"])
	})

	t.Run("large margins are kept", func(t *testing.T) {
		out := MergeLayout(map[string]any{
			"margin": map[string]any{"l": 200.0, "b": 150.0, "t": 0.0, "pad": 2.0},
		})
		assert.Equal(t, map[string]any{
			"l":   200.0,
			"b":   150.0,
			"t":   0.0,
			"pad": 2.0,
		}, out["margin"])
	})

	t.Run("caller layout is not mutated", func(t *testing.T) {
		margin := map[string]any{"l": 10.0}
		MergeLayout(map[string]any{"margin": margin})
		assert.Equal(t, map[string]any{"l": 10.0}, margin)
	})
}

func TestLayoutHelpers(t *testing.T) {
	layout := MergeLayout(map[string]any{
		"width":  640.0,
		"height": -1.0,
		"margin": map[string]any{"r": 30.0, "t": 40.0},
	})

	assert.Equal(t, 640, layoutInt(layout, "width", defaultWidth))
	assert.Equal(t, defaultHeight, layoutInt(layout, "height", defaultHeight))

	l, r, top, b := margins(layout)
	assert.Equal(t, 120, l)
	assert.Equal(t, 30, r)
	assert.Equal(t, 40, top)
	assert.Equal(t, 120, b)
}
