package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stayRank/business/training"
	"stayRank/domain"
	"stayRank/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TrainingService interface {
	Start(ctx context.Context, params training.Params) (string, error)
}

type ModelRegistry interface {
	Get(ctx context.Context, taskID string) (domain.Model, error)
	List(ctx context.Context) ([]domain.Model, error)
}

type TrainingHandler struct {
	trainingService TrainingService
	registry        ModelRegistry
	validator       *validator.Validate
	timeout         time.Duration
}

func NewTrainingHandler(trainingService TrainingService, registry ModelRegistry) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
		registry:        registry,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

// StartTrainingRequest carries optional hyperparameter overrides; omitted
// fields fall back to the configured defaults.
type StartTrainingRequest struct {
	Epochs           int     `json:"epochs" validate:"gte=0"`
	BatchSize        int     `json:"batch_size" validate:"gte=0"`
	PositiveFraction float64 `json:"positive_fraction" validate:"gte=0,lt=1"`
	KBest            int     `json:"k_best" validate:"gte=0"`
	HeldOutSize      int     `json:"held_out_size" validate:"gte=0"`
	Seed             int64   `json:"seed" validate:"gte=0"`
}

func (h *TrainingHandler) Start(c echo.Context) error {
	var req StartTrainingRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate training request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	taskID, err := h.trainingService.Start(ctx, training.Params{
		Epochs:           req.Epochs,
		BatchSize:        req.BatchSize,
		PositiveFraction: req.PositiveFraction,
		KBest:            req.KBest,
		HeldOutSize:      req.HeldOutSize,
		Seed:             req.Seed,
	})
	if err != nil {
		logger.Error("Failed to submit training run", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK(map[string]any{
		"task_id": taskID,
		"status":  domain.ModelStatusSetup,
	}))
}

func (h *TrainingHandler) Status(c echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing task_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.registry.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get training status", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"task_id": m.TaskID,
		"status":  m.Status,
	}))
}

func (h *TrainingHandler) Models(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	models, err := h.registry.List(ctx)
	if err != nil {
		logger.Error("Failed to list models", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(models))
}
