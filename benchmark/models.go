package main

import "time"

type RegressionRequest struct {
	X    [][]float64 `json:"X"`
	Y    []float64   `json:"y"`
	Plot string      `json:"plot,omitempty"`
}

type RegressionResponse struct {
	HTML        string `json:"html,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Scenario struct {
	Name     string
	Plot     string
	Samples  int
	Features int
}

type BenchResult struct {
	Scenario string
	Duration time.Duration
	Err      error
	Size     int64
}

type Agg struct {
	Count      int
	Failed     int
	Total      time.Duration
	TotalBytes int64
}
