package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/kdduha/regression-plot/internal/config"
	"github.com/kdduha/regression-plot/internal/logger"
	"github.com/kdduha/regression-plot/internal/models"
	"github.com/kdduha/regression-plot/internal/render"
	"github.com/kdduha/regression-plot/internal/service"
)

var inputPath string
var outputPath string
var format string
var plotlyURL string
var gridSize int
var logLevel string

var inputFlag = &cli.StringFlag{
	Name:        "input",
	Usage:       "Path to a JSON request file. If omitted, the request is read from stdin",
	Aliases:     []string{"i"},
	Destination: &inputPath,
}

var logLevelFlag = &cli.StringFlag{
	Name:        "log-level",
	Usage:       "Log level, logs go to stderr",
	Destination: &logLevel,
	Value:       "warn",
}

var renderCommand = &cli.Command{
	Name:  "render",
	Usage: "Fit a regression request and draw it",
	Description: `Render reads a request in the same JSON format the server accepts, e.g.
				{"X": [[1], [2], [3]], "y": [2, 4, 6], "plot": "2d"}
				and writes the figure. With --output the page or PNG bytes are written to that file,
				otherwise the JSON response is printed to stdout.`,
	Flags: []cli.Flag{
		inputFlag,
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Path to write the .html page or .png image to",
			Aliases:     []string{"o"},
			Destination: &outputPath,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Output format: html or png",
			Aliases:     []string{"f"},
			Destination: &format,
			Value:       string(render.FormatHTML),
		},
		&cli.StringFlag{
			Name:        "plotly-url",
			Usage:       "Plotly script source for html output",
			Destination: &plotlyURL,
			Value:       render.DefaultPlotlyURL,
		},
		&cli.IntFlag{
			Name:        "grid-size",
			Usage:       "Samples per axis of the fitted surface",
			Destination: &gridSize,
			Value:       render.DefaultGridSize,
		},
		logLevelFlag,
	},
	Action: func(ctx *cli.Context) error {
		f, err := render.ParseFormat(format)
		if err != nil {
			return err
		}
		svc, err := newService(ctx, config.RenderConfig{Format: f, PlotlyURL: plotlyURL, GridSize: gridSize})
		if err != nil {
			return err
		}
		req, err := readRequest(ctx)
		if err != nil {
			return err
		}

		resp, err := svc.Render(ctx.Context, req)
		if err != nil {
			return err
		}

		if outputPath == "" {
			return writeJSON(ctx.App.Writer, resp)
		}
		payload := []byte(resp.HTML)
		if f == render.FormatPNG {
			if payload, err = base64.StdEncoding.DecodeString(resp.ImageBase64); err != nil {
				return fmt.Errorf("decode image: %w", err)
			}
		}
		if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputPath, err)
		}
		fmt.Fprintf(ctx.App.ErrWriter, "wrote %s (%d bytes)\n", outputPath, len(payload))
		return nil
	},
}

var fitCommand = &cli.Command{
	Name:  "fit",
	Usage: "Fit a regression request and print coefficients",
	Flags: []cli.Flag{
		inputFlag,
		logLevelFlag,
	},
	Action: func(ctx *cli.Context) error {
		svc, err := newService(ctx, config.RenderConfig{Format: render.FormatHTML, GridSize: render.DefaultGridSize})
		if err != nil {
			return err
		}
		req, err := readRequest(ctx)
		if err != nil {
			return err
		}

		resp, err := svc.Fit(ctx.Context, req)
		if err != nil {
			return err
		}
		return writeJSON(ctx.App.Writer, resp)
	},
}

func newService(ctx *cli.Context, cfg config.RenderConfig) (*service.RegressionService, error) {
	l := logger.New(config.LogConfig{Level: logLevel, Format: "text"})
	l.SetOutput(ctx.App.ErrWriter)
	return service.NewRegressionService(l, cfg)
}

func readRequest(ctx *cli.Context) (*models.RegressionRequest, error) {
	var r io.Reader = ctx.App.Reader
	if inputPath != "" {
		file, err := os.Open(inputPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	var req models.RegressionRequest
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &req, nil
}

func writeJSON(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "regressctl",
		Usage:    "Fit and plot linear regressions without running the server",
		Commands: []*cli.Command{renderCommand, fitCommand},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
