package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"stayRank/business/curation"
	"stayRank/domain"
	"stayRank/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultResultsLimit = 10

type CurationService interface {
	RankedResults(ctx context.Context, taskID string, limit int) ([]domain.RankedLocation, error)
	RecordFeedback(ctx context.Context, taskID string, locationID int) error
	Result(ctx context.Context, id uint) (domain.Result, error)
	ResultsByTask(ctx context.Context, taskID string) ([]domain.Result, error)
	Location(ctx context.Context, id uint) (domain.Location, error)
	Locations(ctx context.Context) ([]domain.Location, error)
	User(ctx context.Context, id uint) (domain.User, error)
	Users(ctx context.Context) ([]domain.User, error)
	Info(ctx context.Context) (curation.Info, error)
}

type CurationHandler struct {
	curationService CurationService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCurationHandler(curationService CurationService) *CurationHandler {
	return &CurationHandler{
		curationService: curationService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type SelectRequest struct {
	TaskID string `json:"task_id" validate:"required"`
	// LocationID -1 means the caller picked nothing.
	LocationID int `json:"location_id" validate:"required,min=-1"`
}

// Results returns a job's top scored locations and marks them as shown.
func (h *CurationHandler) Results(c echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing task_id"})
	}

	limit := defaultResultsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be a positive integer"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rows, err := h.curationService.RankedResults(ctx, taskID, limit)
	if err != nil {
		logger.Error("Failed to get ranked results", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}

// Select records which shown location the caller picked.
func (h *CurationHandler) Select(c echo.Context) error {
	var req SelectRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate selection", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.curationService.RecordFeedback(ctx, req.TaskID, req.LocationID); err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to record feedback", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Selection recorded"))
}

func (h *CurationHandler) Info(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	info, err := h.curationService.Info(ctx)
	if err != nil {
		logger.Error("Failed to get content info", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(info))
}

func (h *CurationHandler) GetLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid location id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	loc, err := h.curationService.Location(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get location", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(loc))
}

func (h *CurationHandler) GetLocations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	locs, err := h.curationService.Locations(ctx)
	if err != nil {
		logger.Error("Failed to get locations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(locs))
}

func (h *CurationHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.curationService.User(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get user", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

func (h *CurationHandler) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.curationService.Users(ctx)
	if err != nil {
		logger.Error("Failed to get users", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *CurationHandler) GetResult(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid result id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.curationService.Result(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get result", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *CurationHandler) GetResults(c echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing task_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.curationService.ResultsByTask(ctx, taskID)
	if err != nil {
		logger.Error("Failed to get results", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}
