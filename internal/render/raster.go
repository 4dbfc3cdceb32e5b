package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
)

const (
	titleFontSize = 16
	dashLength    = 5.0
	wireAlpha     = 150
	axisLength    = 0.6
)

// PNGEncoder rasterises figures with go-chart and returns base64 encoded PNG bytes.
type PNGEncoder struct {
	cam camera
}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{cam: defaultCamera}
}

func (e *PNGEncoder) Format() Format {
	return FormatPNG
}

func (e *PNGEncoder) Encode(fig *Figure) (string, error) {
	c := e.chart(fig)

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return "", apperrors.NewRenderError("failed to render chart", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return "", apperrors.NewRenderError("failed to decode rendered chart", err)
	}
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, image.Point{}, draw.Src)
	drawCaption(canvas, fig.Caption)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return "", apperrors.NewRenderError("failed to encode png", err)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

func (e *PNGEncoder) chart(fig *Figure) chart.Chart {
	width := layoutInt(fig.Layout, "width", defaultWidth)
	height := layoutInt(fig.Layout, "height", defaultHeight)
	left, right, top, bottom := margins(fig.Layout)

	c := chart.Chart{
		Title:      fig.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      width,
		Height:     height,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    clampPad(top, height),
				Left:   clampPad(left, width),
				Right:  clampPad(right, width),
				Bottom: clampPad(bottom, height),
				IsSet:  true,
			},
		},
	}

	if fig.Kind == KindSurface {
		e.surface(&c, fig)
		return c
	}

	xb, yb := newBounds(), newBounds()
	for _, tr := range fig.Traces {
		xb.add(tr.X...)
		yb.add(tr.Y...)
		c.Series = append(c.Series, series2D(tr))
	}
	c.XAxis = chart.XAxis{Name: fig.XLabel, Range: continuousRange(xb)}
	c.YAxis = chart.YAxis{Name: fig.YLabel, Range: continuousRange(yb)}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

func series2D(tr Trace) chart.ContinuousSeries {
	s := chart.ContinuousSeries{
		Name:    tr.Name,
		XValues: tr.X,
		YValues: tr.Y,
	}
	col := parseColor(tr.Style.Color, tr.Style.Opacity)
	if tr.Mode == ModeLines {
		s.Style = chart.Style{
			StrokeColor: col,
			StrokeWidth: tr.Style.Width,
		}
		if tr.Style.Dash {
			s.Style.StrokeDashArray = []float64{dashLength, dashLength}
		}
		return s
	}
	s.Style = chart.Style{
		StrokeWidth: chart.Disabled,
		DotColor:    col,
		DotWidth:    tr.Style.Size / 2,
	}
	return s
}

// surface draws a 3d figure as a projected wireframe with the data points on top.
func (e *PNGEncoder) surface(c *chart.Chart, fig *Figure) {
	vol := volume{cam: e.cam, x: newBounds(), y: newBounds(), z: newBounds()}
	for _, tr := range fig.Traces {
		vol.x.add(tr.X...)
		vol.y.add(tr.Y...)
		vol.z.add(tr.Z...)
		if tr.Grid != nil {
			vol.x.add(tr.Grid.X...)
			vol.y.add(tr.Grid.Y...)
			for _, row := range tr.Grid.Z {
				vol.z.add(row...)
			}
		}
	}

	ub, vb := newBounds(), newBounds()
	add := func(s chart.ContinuousSeries) {
		ub.add(s.XValues...)
		vb.add(s.YValues...)
		c.Series = append(c.Series, s)
	}

	for _, s := range axes(vol) {
		add(s)
	}
	for _, tr := range fig.Traces {
		if tr.Grid != nil {
			for _, s := range wireframe(vol, tr) {
				add(s)
			}
			continue
		}
		add(points3D(vol, tr))
	}
	c.Series = append(c.Series, axisLabels(vol, fig))

	c.XAxis = chart.XAxis{Style: chart.Style{Hidden: true}, Range: continuousRange(ub)}
	c.YAxis = chart.YAxis{Style: chart.Style{Hidden: true}, Range: continuousRange(vb)}
}

func wireframe(vol volume, tr Trace) []chart.ContinuousSeries {
	g := tr.Grid
	col := drawing.ColorRed.WithAlpha(wireAlpha)
	style := chart.Style{StrokeColor: col, StrokeWidth: 1}

	out := make([]chart.ContinuousSeries, 0, len(g.X)+len(g.Y))
	for i, gy := range g.Y {
		s := chart.ContinuousSeries{Style: style}
		for j, gx := range g.X {
			u, v := vol.project(gx, gy, g.Z[i][j])
			s.XValues = append(s.XValues, u)
			s.YValues = append(s.YValues, v)
		}
		out = append(out, s)
	}
	for j, gx := range g.X {
		s := chart.ContinuousSeries{Style: style}
		for i, gy := range g.Y {
			u, v := vol.project(gx, gy, g.Z[i][j])
			s.XValues = append(s.XValues, u)
			s.YValues = append(s.YValues, v)
		}
		out = append(out, s)
	}
	return out
}

func points3D(vol volume, tr Trace) chart.ContinuousSeries {
	s := chart.ContinuousSeries{
		Name: tr.Name,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotColor:    parseColor(tr.Style.Color, tr.Style.Opacity),
			DotWidth:    tr.Style.Size / 2,
		},
	}
	for i := range tr.X {
		u, v := vol.project(tr.X[i], tr.Y[i], tr.Z[i])
		s.XValues = append(s.XValues, u)
		s.YValues = append(s.YValues, v)
	}
	return s
}

// axes draws the three feature/target axes from the back corner of the volume.
func axes(vol volume) []chart.ContinuousSeries {
	style := chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 1}
	ends := [][3]float64{
		{-0.5 + axisLength*2, -0.5, -0.5},
		{-0.5, -0.5 + axisLength*2, -0.5},
		{-0.5, -0.5, -0.5 + axisLength*2},
	}
	u0, v0 := vol.projectUnit(-0.5, -0.5, -0.5)

	out := make([]chart.ContinuousSeries, 0, len(ends))
	for _, end := range ends {
		u1, v1 := vol.projectUnit(end[0], end[1], end[2])
		out = append(out, chart.ContinuousSeries{
			Style:   style,
			XValues: []float64{u0, u1},
			YValues: []float64{v0, v1},
		})
	}
	return out
}

func axisLabels(vol volume, fig *Figure) chart.AnnotationSeries {
	tip := axisLength*2 - 0.5
	at := func(x, y, z float64, label string) chart.Value2 {
		u, v := vol.projectUnit(x, y, z)
		return chart.Value2{XValue: u, YValue: v, Label: label}
	}
	return chart.AnnotationSeries{
		Annotations: []chart.Value2{
			at(tip, -0.5, -0.5, fig.XLabel),
			at(-0.5, tip, -0.5, fig.YLabel),
			at(-0.5, -0.5, tip, fig.ZLabel),
		},
	}
}

func continuousRange(b bounds) *chart.ContinuousRange {
	lo, hi := b.padded()
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// clampPad keeps at least half of the image for the plot area.
func clampPad(pad, size int) int {
	return min(pad, size/4)
}

func parseColor(name string, opacity float64) drawing.Color {
	col := drawing.ParseColor(name)
	if col.IsZero() {
		col = chart.ColorBlue
	}
	if opacity > 0 && opacity < 1 {
		col = col.WithAlpha(uint8(math.Round(opacity * 255)))
	}
	return col
}

// drawCaption stamps the fitted equation into the bottom left corner.
func drawCaption(img *image.RGBA, caption string) {
	if caption == "" {
		return
	}
	b := img.Bounds()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(b.Min.X + 10),
			Y: fixed.I(b.Max.Y - 10),
		},
	}
	d.DrawString(caption)
}
