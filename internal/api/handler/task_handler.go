package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/api/metrics"
	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service ports.TaskService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewTaskHandler(service ports.TaskService, m *metrics.Metrics, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{service: service, metrics: m, log: log}
}

// List handles GET /api/task.
//
// @Summary      List the caller's tasks
// @Description  Unfinished tasks first, then by deadline (undated last), then by id.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/task [get]
func (h *TaskHandler) List(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return err
		}
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("list tasks failed")
		return echo.NewHTTPError(http.StatusBadRequest, "could not list tasks").SetInternal(err)
	}

	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Get handles GET /api/task/:id.
//
// @Summary      Get one of the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/task/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), id, ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create handles POST /api/task.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string       false  "Repeating a key returns the task created by the first request"
// @Param        body             body      taskRequest  true   "Task fields"
// @Success      201              {object}  taskResponse
// @Success      200              {object}  taskResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /api/task [post]
func (h *TaskHandler) Create(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Fields:         toTaskFields(req),
		OwnerID:        ownerID,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		h.metrics.TasksCreatedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toTaskResponse(result.Task))
	}

	h.metrics.TasksCreatedTotal.WithLabelValues("created").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/task/%d", result.Task.ID))
	return c.JSON(http.StatusCreated, toTaskResponse(result.Task))
}

// Update handles PUT /api/task/:id. The path id is authoritative; a body id,
// when present, must match it.
//
// @Summary      Replace a task's fields
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Task id"
// @Param        body  body      taskRequest  true  "Task fields"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/task/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if req.ID != 0 && req.ID != id {
		return domain.NewValidationError("id", "id must match the task id in the path")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), id, ownerID, toTaskFields(req))
	h.record("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /api/task/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id  path  int  true  "Task id"
// @Success      204  "no content"
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/task/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), id, ownerID)
	h.record("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle handles POST /api/task/:id/toggle.
//
// @Summary      Flip a task's completion flag
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/task/{id}/toggle [post]
func (h *TaskHandler) Toggle(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.service.ToggleCompletion(c.Request().Context(), id, ownerID)
	h.record("toggle", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) record(operation string, err error) {
	h.metrics.TaskOperationsTotal.WithLabelValues(operation, metrics.Result(err)).Inc()
}
