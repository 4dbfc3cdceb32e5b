package models

// RegressionRequest represents request for regression endpoint.
// Fields are decoded loosely so that shape and type problems are reported
// by the validator with a descriptive message instead of a decoder error.
type RegressionRequest struct {
	X      any `json:"X" swaggertype:"array,number" example:"[[1],[2],[3]]"`
	Y      any `json:"y" swaggertype:"array,number" example:"[2,4,6]"`
	Plot   any `json:"plot,omitempty" swaggertype:"string" enums:"2d,3d" default:"2d"`
	Labels any `json:"labels,omitempty" swaggertype:"object"`
	Layout any `json:"layout,omitempty" swaggertype:"object"`
}

// RegressionResponse carries exactly one encoded figure, depending on deployment format
type RegressionResponse struct {
	HTML        string `json:"html,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type FitResponse struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Predictions  []float64 `json:"predictions"`
	RSquared     *float64  `json:"r_squared,omitempty"`
	Rank         int       `json:"rank"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Format string `json:"format"`
}
