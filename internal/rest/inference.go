package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stayRank/business/inference"
	"stayRank/domain"
	"stayRank/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type InferenceService interface {
	Submit(ctx context.Context, in inference.SubmitInput) (string, error)
	Status(ctx context.Context, taskID string) (string, error)
}

type InferenceHandler struct {
	inferenceService InferenceService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewInferenceHandler(inferenceService InferenceService) *InferenceHandler {
	return &InferenceHandler{
		inferenceService: inferenceService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type StartInferenceRequest struct {
	Name        string  `json:"name" validate:"required"`
	PeopleAge   []int   `json:"people_age" validate:"required,min=1,dive,gte=0,lte=120"`
	ChildrenNum int     `json:"children_num" validate:"gte=0"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
	Nights      int     `json:"nights" validate:"required,gt=0"`
	TimeArrival string  `json:"time_arrival" validate:"required"`
	Pool        bool    `json:"pool"`
	Spa         bool    `json:"spa"`
	PetFriendly bool    `json:"pet_friendly"`
	Lake        bool    `json:"lake"`
	Mountain    bool    `json:"mountain"`
	Sport       bool    `json:"sport"`
}

func (h *InferenceHandler) Start(c echo.Context) error {
	var req StartInferenceRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate inference request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	arrival, err := time.Parse(time.RFC3339, req.TimeArrival)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "time_arrival must be RFC3339"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	taskID, err := h.inferenceService.Submit(ctx, inference.SubmitInput{
		Name:        req.Name,
		PeopleAges:  req.PeopleAge,
		ChildrenNum: req.ChildrenNum,
		Budget:      req.Budget,
		Nights:      req.Nights,
		TimeArrival: arrival,
		Pool:        req.Pool,
		Spa:         req.Spa,
		PetFriendly: req.PetFriendly,
		Lake:        req.Lake,
		Mountain:    req.Mountain,
		Sport:       req.Sport,
	})
	if err != nil {
		logger.Error("Failed to submit inference", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK(map[string]any{
		"task_id": taskID,
		"status":  domain.JobStatusQueued,
	}))
}

func (h *InferenceHandler) Status(c echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing task_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status, err := h.inferenceService.Status(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get inference status", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"task_id": taskID,
		"status":  status,
	}))
}
