package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
	"github.com/kdduha/regression-plot/internal/models"
	"github.com/kdduha/regression-plot/internal/render"
)

const (
	msgRenderFailed = "failed to render regression"
	msgFitFailed    = "failed to fit regression"
)

type regressionService interface {
	Render(ctx context.Context, req *models.RegressionRequest) (*models.RegressionResponse, error)
	Fit(ctx context.Context, req *models.RegressionRequest) (*models.FitResponse, error)
	Format() render.Format
}

type RegressionHandler struct {
	service regressionService
	logger  *logrus.Logger
}

func NewRegressionHandler(service regressionService, logger *logrus.Logger) *RegressionHandler {
	return &RegressionHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the regression endpoint at route together with /fit and /health.
func (h *RegressionHandler) Register(r chi.Router, route string) {
	r.Post(route, h.Regression)
	r.Post("/fit", h.Fit)
	r.Get("/health", h.Health)
}

// Regression godoc
// @Summary Fit and plot a linear regression
// @Description Fits ordinary least squares on X and y and returns the plot. Depending on the deployment the figure is an HTML page (html) or a base64 PNG (image_base64); exactly one of them is set.
// @Tags regression
// @Accept json
// @Produce json
// @Param request body models.RegressionRequest true "Regression request"
// @Success 200 {object} models.RegressionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /regression [post]
func (h *RegressionHandler) Regression(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Render(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, msgRenderFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Fit godoc
// @Summary Fit a linear regression
// @Description Returns coefficients, intercept, predictions and R^2 without drawing.
// @Tags regression
// @Accept json
// @Produce json
// @Param request body models.RegressionRequest true "Regression request"
// @Success 200 {object} models.FitResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /fit [post]
func (h *RegressionHandler) Fit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Fit(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, msgFitFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *RegressionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, &models.HealthResponse{
		Status: "ok",
		Format: string(h.service.Format()),
	})
}

func (h *RegressionHandler) decode(w http.ResponseWriter, r *http.Request) (*models.RegressionRequest, bool) {
	var req models.RegressionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return nil, false
	}
	return &req, true
}

// fail maps caller errors to 400 with their message and hides everything else behind a generic 500.
// Requests whose context ended get no body: the timeout middleware answers 504
// and a canceled client is gone.
func (h *RegressionHandler) fail(w http.ResponseWriter, r *http.Request, err error, generic string) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Warn("request aborted")
		return
	}

	code := apperrors.GetStatusCode(err)
	if code < http.StatusInternalServerError {
		h.writeError(w, code, err.Error())
		return
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	h.writeError(w, http.StatusInternalServerError, generic)
}

func (h *RegressionHandler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, &models.ErrorResponse{Error: message})
}

func (h *RegressionHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.ConfigDefault.Marshal(v)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode response")
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		h.logger.WithError(err).Debug("failed to write response")
	}
}
