package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"github.com/kdduha/regression-plot/internal/config"
	apperrors "github.com/kdduha/regression-plot/internal/errors"
	"github.com/kdduha/regression-plot/internal/metrics"
	"github.com/kdduha/regression-plot/internal/models"
	"github.com/kdduha/regression-plot/internal/regression"
	"github.com/kdduha/regression-plot/internal/render"
)

const cacheKeyPrefix = "regression"

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// RegressionService runs the validate, fit, build and encode pipeline.
// It holds no per-request state and is safe for concurrent use.
type RegressionService struct {
	logger   *logrus.Logger
	encoder  render.Encoder
	gridSize int
	cache    Cache
	// variant identifies the deployment settings that shape the payload.
	variant string
}

func NewRegressionService(logger *logrus.Logger, cfg config.RenderConfig) (*RegressionService, error) {
	encoder, err := render.NewEncoder(render.Options{
		Format:    cfg.Format,
		PlotlyURL: cfg.PlotlyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	gridSize := cfg.GridSize
	if gridSize < 2 {
		gridSize = render.DefaultGridSize
	}
	plotlyURL := ""
	if cfg.Format == render.FormatHTML {
		plotlyURL = cfg.PlotlyURL
		if plotlyURL == "" {
			plotlyURL = render.DefaultPlotlyURL
		}
	}
	return &RegressionService{
		logger:   logger,
		encoder:  encoder,
		gridSize: gridSize,
		variant:  fmt.Sprintf("grid=%d;plotly=%s", gridSize, plotlyURL),
	}, nil
}

func (s *RegressionService) SetCacheClient(cache Cache) {
	s.cache = cache
}

// Format is the output encoding this deployment produces.
func (s *RegressionService) Format() render.Format {
	return s.encoder.Format()
}

func (s *RegressionService) Render(ctx context.Context, raw *models.RegressionRequest) (*models.RegressionResponse, error) {
	start := time.Now()

	req, err := regression.Validate(raw)
	if err != nil {
		return nil, err
	}
	format := s.encoder.Format()
	log := s.logger.WithFields(logrus.Fields{
		"plot":     req.Plot,
		"samples":  req.Samples(),
		"features": req.Features(),
		"format":   format,
	})

	var key string
	if s.cache != nil {
		key, err = s.cacheKey(req)
		if err != nil {
			log.WithError(err).Warn("failed to build cache key")
		} else if cached, ok := s.lookup(ctx, log, key); ok {
			log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("served from cache")
			return newResponse(format, cached), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render aborted: %w", err)
	}

	fit, err := s.fit(req)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	payload, err := s.render(req, fit)
	metrics.RenderDuration(string(req.Plot), string(format), time.Since(renderStart))
	if err != nil {
		metrics.RenderTotal(string(req.Plot), string(format), metrics.StatusError)
		log.WithError(err).Error("render failed")
		return nil, err
	}
	metrics.RenderTotal(string(req.Plot), string(format), metrics.StatusSuccess)

	if key != "" {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			log.WithError(err).Warn("failed to set cache")
		}
	}

	log.WithFields(logrus.Fields{
		"rank":        fit.Rank,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("regression rendered")
	return newResponse(format, payload), nil
}

// Fit returns the fitted model without drawing it.
func (s *RegressionService) Fit(ctx context.Context, raw *models.RegressionRequest) (*models.FitResponse, error) {
	req, err := regression.Validate(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fit aborted: %w", err)
	}

	fit, err := s.fit(req)
	if err != nil {
		return nil, err
	}

	resp := &models.FitResponse{
		Coefficients: fit.Coefficients,
		Intercept:    fit.Intercept,
		Predictions:  fit.Predictions,
		Rank:         fit.Rank,
	}
	if !math.IsNaN(fit.RSquared) {
		r2 := fit.RSquared
		resp.RSquared = &r2
	}

	s.logger.WithFields(logrus.Fields{
		"samples":  req.Samples(),
		"features": req.Features(),
		"rank":     fit.Rank,
	}).Debug("regression fitted")
	return resp, nil
}

func (s *RegressionService) fit(req *regression.Request) (*regression.FitResult, error) {
	start := time.Now()
	fit, err := regression.Fit(req.X, req.Y)
	metrics.FitDuration(req.Features(), time.Since(start))
	if err != nil {
		return nil, err
	}
	return fit, nil
}

func (s *RegressionService) render(req *regression.Request, fit *regression.FitResult) (string, error) {
	fig, err := render.Build(req, fit, s.gridSize)
	if err != nil {
		return "", err
	}
	return s.encoder.Encode(fig)
}

func (s *RegressionService) lookup(ctx context.Context, log *logrus.Entry, key string) (string, bool) {
	cached, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookup(metrics.CacheError)
		log.WithError(err).Warn("cache get error")
		return "", false
	case found:
		metrics.CacheLookup(metrics.CacheHit)
		return cached, true
	default:
		metrics.CacheLookup(metrics.CacheMiss)
		return "", false
	}
}

func newResponse(format render.Format, payload string) *models.RegressionResponse {
	if format == render.FormatPNG {
		return &models.RegressionResponse{ImageBase64: payload}
	}
	return &models.RegressionResponse{HTML: payload}
}

// cacheKey hashes the deployment variant and the canonical JSON of a
// validated request. ConfigStd sorts map keys, so layouts that differ only in
// key order share an entry.
func (s *RegressionService) cacheKey(req *regression.Request) (string, error) {
	data, err := sonic.ConfigStd.Marshal(req)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode cache key", err)
	}
	h := xxhash.New()
	_, _ = h.WriteString(s.variant)
	_, _ = h.Write(data)
	return cacheKeyPrefix + ":" + string(s.encoder.Format()) + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}
