package render

import "fmt"

// Format is the deployment-wide output encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-3.0.1.min.js"

// ParseFormat accepts "html" or "png".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatPNG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported render format %q: expected %q or %q", s, FormatHTML, FormatPNG)
	}
}

// ResponseKey is the JSON key the encoded figure is returned under.
func (f Format) ResponseKey() string {
	if f == FormatPNG {
		return "image_base64"
	}
	return "html"
}

// Encoder serialises a figure to the response payload.
type Encoder interface {
	Format() Format
	Encode(fig *Figure) (string, error)
}

type Options struct {
	Format    Format
	PlotlyURL string
}

func NewEncoder(opts Options) (Encoder, error) {
	switch opts.Format {
	case FormatHTML:
		return NewHTMLEncoder(opts.PlotlyURL)
	case FormatPNG:
		return NewPNGEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported render format %q", opts.Format)
	}
}
