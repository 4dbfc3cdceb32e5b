package regression

import (
	"encoding/json"
	"math"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
	"github.com/kdduha/regression-plot/internal/models"
)

const msg3DFeatures = "3D plot requires exactly 2 features (columns) in X"

var labelKeys = []string{"title", "x_label", "y_label", "z_label"}

// Validate checks a decoded request and builds the typed Request.
// Checks run in a fixed order and stop at the first violation:
// presence, rectangular X, len(y), plot kind, 3d feature count, finite numbers,
// then labels and layout types.
func Validate(raw *models.RegressionRequest) (*Request, error) {
	if raw == nil {
		return nil, apperrors.NewShapeError("X and y are required and must be non-empty arrays")
	}

	rows, ok := raw.X.([]any)
	if !ok || len(rows) == 0 {
		return nil, apperrors.NewShapeError("X and y are required and must be non-empty arrays")
	}
	ys, ok := raw.Y.([]any)
	if !ok || len(ys) == 0 {
		return nil, apperrors.NewShapeError("X and y are required and must be non-empty arrays")
	}

	cells := make([][]any, len(rows))
	width := -1
	for i, row := range rows {
		r, ok := row.([]any)
		if !ok {
			return nil, apperrors.NewShapeError("shape mismatch: row %d of X is not an array", i)
		}
		if width < 0 {
			if len(r) == 0 {
				return nil, apperrors.NewShapeError("shape mismatch: rows of X must have at least one column")
			}
			width = len(r)
		}
		if len(r) != width {
			return nil, apperrors.NewShapeError("shape mismatch: row %d of X has %d columns, expected %d", i, len(r), width)
		}
		cells[i] = r
	}

	if len(ys) != len(rows) {
		return nil, apperrors.NewShapeError("shape mismatch: y has %d values but X has %d rows", len(ys), len(rows))
	}

	plot, err := parsePlot(raw.Plot)
	if err != nil {
		return nil, err
	}
	if plot == Plot3D && width != 2 {
		return nil, apperrors.NewPlotConstraintError(msg3DFeatures)
	}

	x := make([][]float64, len(cells))
	for i, r := range cells {
		x[i] = make([]float64, len(r))
		for j, v := range r {
			f, ok := toFinite(v)
			if !ok {
				return nil, apperrors.NewTypeError("X[%d][%d] must be a finite number", i, j)
			}
			x[i][j] = f
		}
	}
	y := make([]float64, len(ys))
	for i, v := range ys {
		f, ok := toFinite(v)
		if !ok {
			return nil, apperrors.NewTypeError("y[%d] must be a finite number", i)
		}
		y[i] = f
	}

	labels, err := parseLabels(raw.Labels)
	if err != nil {
		return nil, err
	}
	layout, err := parseLayout(raw.Layout)
	if err != nil {
		return nil, err
	}

	return &Request{
		X:      x,
		Y:      y,
		Plot:   plot,
		Labels: labels,
		Layout: layout,
	}, nil
}

func parsePlot(v any) (PlotKind, error) {
	if v == nil {
		return Plot2D, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewPlotConstraintError(`unsupported plot kind %v: expected "2d" or "3d"`, v)
	}
	switch PlotKind(s) {
	case Plot2D, Plot3D:
		return PlotKind(s), nil
	default:
		return "", apperrors.NewPlotConstraintError(`unsupported plot kind %q: expected "2d" or "3d"`, s)
	}
}

func parseLabels(v any) (Labels, error) {
	var labels Labels
	if v == nil {
		return labels, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return labels, apperrors.NewTypeError("labels must be an object")
	}

	values := make(map[string]string, len(labelKeys))
	for _, key := range labelKeys {
		raw, present := m[key]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return labels, apperrors.NewTypeError("labels.%s must be a string", key)
		}
		values[key] = s
	}

	labels.Title = values["title"]
	labels.XLabel = values["x_label"]
	labels.YLabel = values["y_label"]
	labels.ZLabel = values["z_label"]
	return labels, nil
}

func parseLayout(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewTypeError("layout must be an object")
	}

	for _, key := range []string{"height", "width"} {
		raw, present := m[key]
		if !present {
			continue
		}
		if f, ok := toFinite(raw); !ok || f <= 0 {
			return nil, apperrors.NewTypeError("layout.%s must be a positive number", key)
		}
	}
	if raw, present := m["autosize"]; present {
		if _, ok := raw.(bool); !ok {
			return nil, apperrors.NewTypeError("layout.autosize must be a boolean")
		}
	}
	if raw, present := m["margin"]; present {
		margin, ok := raw.(map[string]any)
		if !ok {
			return nil, apperrors.NewTypeError("layout.margin must be an object")
		}
		for side, mv := range margin {
			if f, ok := toFinite(mv); !ok || f < 0 {
				return nil, apperrors.NewTypeError("layout.margin.%s must be a non-negative number", side)
			}
		}
	}

	return deepCopy(m).(map[string]any), nil
}

func toFinite(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
