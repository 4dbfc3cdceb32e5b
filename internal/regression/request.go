package regression

// PlotKind selects the visualisation mode.
type PlotKind string

const (
	Plot2D PlotKind = "2d"
	Plot3D PlotKind = "3d"
)

// Labels holds caller overrides for the title and axis names.
// An empty string means the renderer default is used.
type Labels struct {
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	ZLabel string `json:"z_label,omitempty"`
}

// Request is a validated regression request. It is only built by Validate,
// so X is rectangular and finite, len(Y) == len(X), and a 3d plot always has
// exactly two features.
type Request struct {
	X      [][]float64    `json:"X"`
	Y      []float64      `json:"y"`
	Plot   PlotKind       `json:"plot"`
	Labels Labels         `json:"labels"`
	Layout map[string]any `json:"layout,omitempty"`
}

func (r *Request) Samples() int {
	return len(r.X)
}

func (r *Request) Features() int {
	if len(r.X) == 0 {
		return 0
	}
	return len(r.X[0])
}

// Column returns a copy of the j-th feature column.
func (r *Request) Column(j int) []float64 {
	col := make([]float64, len(r.X))
	for i, row := range r.X {
		col[i] = row[j]
	}
	return col
}
