package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bytedance/sonic"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="{{.PlotlyURL}}" charset="utf-8"></script>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f9f9f9; }
        .container { width: 95%; max-width: 1200px; margin: 0 auto; padding: 20px; background-color: #fff; border-radius: 5px; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); }
        .plot-title { margin-bottom: 20px; text-align: center; font-size: 24px; color: #333; }
        .plot-container { width: 100%; height: 700px; }
    </style>
</head>
<body>
    <div class="container">
        <h1 class="plot-title">{{.Title}}</h1>
        <div id="plot" class="plot-container"></div>
    </div>
    <script>
        window.onload = function () {
            const data = {{.Data}};
            const layout = {{.Layout}};
            if (layout.xaxis) { layout.xaxis.automargin = true; }
            if (layout.yaxis) { layout.yaxis.automargin = true; }
            Plotly.newPlot('plot', data, layout, { responsive: true, displayModeBar: true, displaylogo: false });
            window.addEventListener('resize', function () {
                Plotly.relayout('plot', { width: document.getElementById('plot').offsetWidth });
            });
        };
    </script>
</body>
</html>
`

type page struct {
	Title     string
	PlotlyURL string
	Data      template.JS
	Layout    template.JS
}

// HTMLEncoder emits a standalone page drawing the figure with Plotly.
type HTMLEncoder struct {
	tmpl      *template.Template
	plotlyURL string
}

func NewHTMLEncoder(plotlyURL string) (*HTMLEncoder, error) {
	if plotlyURL == "" {
		plotlyURL = DefaultPlotlyURL
	}
	tmpl, err := template.New("figure").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &HTMLEncoder{
		tmpl:      tmpl,
		plotlyURL: plotlyURL,
	}, nil
}

func (e *HTMLEncoder) Format() Format {
	return FormatHTML
}

func (e *HTMLEncoder) Encode(fig *Figure) (string, error) {
	// ConfigStd sorts map keys and escapes <, > and & so the JSON is safe inside <script>
	data, err := sonic.ConfigStd.Marshal(plotlyTraces(fig))
	if err != nil {
		return "", apperrors.NewRenderError("failed to encode traces", err)
	}
	layout, err := sonic.ConfigStd.Marshal(plotlyLayout(fig))
	if err != nil {
		return "", apperrors.NewRenderError("failed to encode layout", err)
	}

	var buf bytes.Buffer
	err = e.tmpl.Execute(&buf, page{
		Title:     fig.Title,
		PlotlyURL: e.plotlyURL,
		Data:      template.JS(data),
		Layout:    template.JS(layout),
	})
	if err != nil {
		return "", apperrors.NewRenderError("failed to execute page template", err)
	}
	return buf.String(), nil
}

func plotlyTraces(fig *Figure) []map[string]any {
	traces := make([]map[string]any, 0, len(fig.Traces))
	for _, tr := range fig.Traces {
		switch {
		case tr.Mode == ModeSurface && tr.Grid != nil:
			traces = append(traces, map[string]any{
				"type":       "surface",
				"name":       tr.Name,
				"x":          tr.Grid.X,
				"y":          tr.Grid.Y,
				"z":          tr.Grid.Z,
				"opacity":    tr.Style.Opacity,
				"colorscale": tr.Style.Colorscale,
				"showscale":  false,
			})
		case tr.Z != nil:
			traces = append(traces, map[string]any{
				"type": "scatter3d",
				"name": tr.Name,
				"mode": string(tr.Mode),
				"x":    tr.X,
				"y":    tr.Y,
				"z":    tr.Z,
				"marker": map[string]any{
					"size":    tr.Style.Size,
					"color":   tr.Style.Color,
					"opacity": tr.Style.Opacity,
				},
			})
		case tr.Mode == ModeLines:
			line := map[string]any{
				"color": tr.Style.Color,
				"width": tr.Style.Width,
			}
			if tr.Style.Dash {
				line["dash"] = "dash"
			}
			traces = append(traces, map[string]any{
				"type": "scatter",
				"name": tr.Name,
				"mode": string(ModeLines),
				"x":    tr.X,
				"y":    tr.Y,
				"line": line,
			})
		default:
			traces = append(traces, map[string]any{
				"type": "scatter",
				"name": tr.Name,
				"mode": string(ModeMarkers),
				"x":    tr.X,
				"y":    tr.Y,
				"marker": map[string]any{
					"color": tr.Style.Color,
					"size":  tr.Style.Size,
				},
			})
		}
	}
	return traces
}

// plotlyLayout builds titles and axes and deep-merges the caller layout over
// them. The figure and axis title texts always come from the figure labels.
func plotlyLayout(fig *Figure) map[string]any {
	layout := map[string]any{
		"title": map[string]any{"text": fig.Title},
	}
	if fig.Kind == KindSurface {
		layout["scene"] = map[string]any{
			"xaxis": axis(fig.XLabel, 16, false),
			"yaxis": axis(fig.YLabel, 16, false),
			"zaxis": axis(fig.ZLabel, 16, false),
		}
	} else {
		layout["xaxis"] = axis(fig.XLabel, 18, true)
		layout["yaxis"] = axis(fig.YLabel, 18, true)
	}

	for k, v := range fig.Layout {
		layout[k] = merge(layout[k], v)
	}

	setText(layout, fig.Title, "title")
	if fig.Kind == KindSurface {
		setText(layout, fig.XLabel, "scene", "xaxis", "title")
		setText(layout, fig.YLabel, "scene", "yaxis", "title")
		setText(layout, fig.ZLabel, "scene", "zaxis", "title")
	} else {
		setText(layout, fig.XLabel, "xaxis", "title")
		setText(layout, fig.YLabel, "yaxis", "title")
	}
	return layout
}

// merge overlays over onto base, recursing where both sides are objects.
// The result shares no maps with base.
func merge(base, over any) any {
	b, ok := base.(map[string]any)
	if !ok {
		return over
	}
	o, ok := over.(map[string]any)
	if !ok {
		return over
	}
	out := make(map[string]any, len(b)+len(o))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range o {
		out[k] = merge(b[k], v)
	}
	return out
}

// setText sets the "text" key of the object at path, replacing any
// non-object value on the way.
func setText(m map[string]any, text string, path ...string) {
	for _, key := range path {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m["text"] = text
}

func axis(title string, fontSize int, ticks bool) map[string]any {
	a := map[string]any{
		"title": map[string]any{
			"text": title,
			"font": map[string]any{"size": fontSize},
		},
		"showgrid": true,
		"showline": true,
	}
	if ticks {
		a["tickfont"] = map[string]any{"size": 14}
	}
	return a
}
