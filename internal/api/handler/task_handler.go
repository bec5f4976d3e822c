package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/pkg/metrics"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /api/task/create.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {string}  string  "Task add"
// @Failure      400   {object}  map[string]string
// @Router       /api/task/create [post]
func (h *TaskHandler) Create(c echo.Context) error {
	req := createTaskRequest{Status: domain.StatusPending}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.CreateTask(c.Request().Context(), toCreateTaskInput(req)); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgTaskNotAdded)
		}
		return err
	}

	metrics.TaskWritesTotal.WithLabelValues("created").Inc()
	return c.String(http.StatusCreated, msgTaskAdded)
}

// List handles GET /api/task.
//
// @Summary      List tasks with their owners
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  taskResponse
// @Router       /api/task [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = toTaskResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/task/{id}. A non-positive id answers null; an unknown
// id answers an empty task.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskResponse
// @Router       /api/task/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.service.GetTask(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return c.JSON(http.StatusOK, nil)
		}
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(*task))
}

// Update handles PUT /api/task/{id}. Title, description and status are
// replaced; the owner is kept.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        id    path      int                true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Task"
// @Success      200   {string}  string  "Task update"
// @Failure      400   {string}  string  "Cannot update the task"
// @Router       /api/task/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	req := updateTaskRequest{Status: domain.StatusPending}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateTask(c.Request().Context(), id, toUpdateTaskInput(req)); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgTaskNotUpdated)
		}
		return err
	}

	metrics.TaskWritesTotal.WithLabelValues("updated").Inc()
	return c.String(http.StatusOK, msgTaskUpdated)
}

// Delete handles DELETE /api/task/{id}. Deleting an unknown id succeeds.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      plain
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {string}  string  "Task delete"
// @Failure      400  {string}  string  "Cannot delete the task"
// @Router       /api/task/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), id); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgTaskNotDeleted)
		}
		return err
	}

	metrics.TaskWritesTotal.WithLabelValues("deleted").Inc()
	return c.String(http.StatusOK, msgTaskDeleted)
}
