package render

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
	"github.com/kdduha/regression-plot/internal/regression"
)

// DefaultGridSize is the number of samples per feature axis of the fitted plane.
const DefaultGridSize = 20

// Kind is the figure layout chosen from the plot kind and the feature count.
type Kind string

const (
	KindLine              Kind = "line"
	KindActualVsPredicted Kind = "actual_vs_predicted"
	KindSurface           Kind = "surface"
)

type Mode string

const (
	ModeMarkers Mode = "markers"
	ModeLines   Mode = "lines"
	ModeSurface Mode = "surface"
)

// Style is a backend-neutral trace appearance. Colors are CSS names.
type Style struct {
	Color      string
	Size       float64
	Width      float64
	Dash       bool
	Opacity    float64
	Colorscale string
}

// Grid is a plane sampled on a regular mesh; Z[i][j] is the height at (X[j], Y[i]).
type Grid struct {
	X []float64
	Y []float64
	Z [][]float64
}

// Trace is one drawable series. Z is only set for 3d markers, Grid only for surfaces.
type Trace struct {
	Name  string
	Mode  Mode
	X     []float64
	Y     []float64
	Z     []float64
	Grid  *Grid
	Style Style
}

// Figure is everything an encoder needs to draw the fit.
type Figure struct {
	Kind    Kind
	Title   string
	XLabel  string
	YLabel  string
	ZLabel  string
	Traces  []Trace
	Layout  map[string]any
	Caption string
}

// Build turns a validated request and its fit into a Figure.
func Build(req *regression.Request, fit *regression.FitResult, gridSize int) (*Figure, error) {
	if gridSize < 2 {
		gridSize = DefaultGridSize
	}

	var fig *Figure
	switch {
	case req.Plot == regression.Plot3D:
		fig = buildSurface(req, fit, gridSize)
	case req.Features() == 1:
		fig = buildLine(req, fit)
	default:
		fig = buildActualVsPredicted(req, fit)
	}

	applyLabels(fig, req.Labels)
	fig.Layout = MergeLayout(req.Layout)
	fig.Caption = equation(fit)

	if err := fig.validate(); err != nil {
		return nil, apperrors.NewRenderError("failed to build figure", err)
	}
	return fig, nil
}

func buildLine(req *regression.Request, fit *regression.FitResult) *Figure {
	xs := req.Column(0)

	// the prediction line must be drawn in x order or it zig-zags
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(xs[a], xs[b])
	})
	lineX := make([]float64, len(order))
	lineY := make([]float64, len(order))
	for i, idx := range order {
		lineX[i] = xs[idx]
		lineY[i] = fit.Predictions[idx]
	}

	return &Figure{
		Kind:   KindLine,
		Title:  "2D Linear Regression",
		XLabel: "X",
		YLabel: "y",
		Traces: []Trace{
			{
				Name:  "Actual",
				Mode:  ModeMarkers,
				X:     xs,
				Y:     slices.Clone(req.Y),
				Style: Style{Color: "blue", Size: 10},
			},
			{
				Name:  "Prediction",
				Mode:  ModeLines,
				X:     lineX,
				Y:     lineY,
				Style: Style{Color: "red", Width: 3},
			},
		},
	}
}

func buildActualVsPredicted(req *regression.Request, fit *regression.FitResult) *Figure {
	lo := math.Min(floats.Min(req.Y), floats.Min(fit.Predictions))
	hi := math.Max(floats.Max(req.Y), floats.Max(fit.Predictions))

	return &Figure{
		Kind:   KindActualVsPredicted,
		Title:  "Actual vs Predicted",
		XLabel: "Actual y",
		YLabel: "Predicted y",
		Traces: []Trace{
			{
				Name:  "Actual vs Predicted",
				Mode:  ModeMarkers,
				X:     slices.Clone(req.Y),
				Y:     slices.Clone(fit.Predictions),
				Style: Style{Color: "green", Size: 10},
			},
			{
				Name:  "Perfect Prediction",
				Mode:  ModeLines,
				X:     []float64{lo, hi},
				Y:     []float64{lo, hi},
				Style: Style{Color: "black", Width: 2, Dash: true},
			},
		},
	}
}

func buildSurface(req *regression.Request, fit *regression.FitResult, gridSize int) *Figure {
	x1, x2 := req.Column(0), req.Column(1)

	grid := &Grid{
		X: floats.Span(make([]float64, gridSize), floats.Min(x1), floats.Max(x1)),
		Y: floats.Span(make([]float64, gridSize), floats.Min(x2), floats.Max(x2)),
		Z: make([][]float64, gridSize),
	}
	for i, gy := range grid.Y {
		grid.Z[i] = make([]float64, gridSize)
		for j, gx := range grid.X {
			grid.Z[i][j] = fit.Predict([]float64{gx, gy})
		}
	}

	return &Figure{
		Kind:   KindSurface,
		Title:  "3D Linear Regression",
		XLabel: "Feature 1",
		YLabel: "Feature 2",
		ZLabel: "Target",
		Traces: []Trace{
			{
				Name:  "Actual Data",
				Mode:  ModeMarkers,
				X:     x1,
				Y:     x2,
				Z:     slices.Clone(req.Y),
				Style: Style{Color: "blue", Size: 8, Opacity: 0.8},
			},
			{
				Name:  "Regression Surface",
				Mode:  ModeSurface,
				Grid:  grid,
				Style: Style{Colorscale: "Reds", Opacity: 0.7},
			},
		},
	}
}

func applyLabels(fig *Figure, labels regression.Labels) {
	if labels.Title != "" {
		fig.Title = labels.Title
	}
	if labels.XLabel != "" {
		fig.XLabel = labels.XLabel
	}
	if labels.YLabel != "" {
		fig.YLabel = labels.YLabel
	}
	if labels.ZLabel != "" && fig.Kind == KindSurface {
		fig.ZLabel = labels.ZLabel
	}
}

// equation renders the fitted model as plain ASCII, e.g. "y = 1.97*x1 + 0.05  (R^2 = 0.9987)".
func equation(fit *regression.FitResult) string {
	var b strings.Builder
	b.WriteString("y = ")
	for j, c := range fit.Coefficients {
		switch {
		case j == 0 && c < 0:
			b.WriteString("-")
		case j > 0 && c < 0:
			b.WriteString(" - ")
		case j > 0:
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%.4g*x%d", math.Abs(c), j+1)
	}
	if fit.Intercept < 0 {
		fmt.Fprintf(&b, " - %.4g", -fit.Intercept)
	} else {
		fmt.Fprintf(&b, " + %.4g", fit.Intercept)
	}
	if !math.IsNaN(fit.RSquared) {
		fmt.Fprintf(&b, "  (R^2 = %.4f)", fit.RSquared)
	}
	return b.String()
}

func (f *Figure) validate() error {
	for _, tr := range f.Traces {
		for _, values := range [][]float64{tr.X, tr.Y, tr.Z} {
			if !allFinite(values) {
				return fmt.Errorf("trace %q has non-finite values", tr.Name)
			}
		}
		if tr.Grid == nil {
			continue
		}
		if len(tr.Grid.X) == 0 || len(tr.Grid.Y) == 0 {
			return fmt.Errorf("trace %q has an empty grid", tr.Name)
		}
		for _, row := range tr.Grid.Z {
			if !allFinite(row) {
				return fmt.Errorf("trace %q has non-finite surface values", tr.Name)
			}
		}
	}
	return nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
