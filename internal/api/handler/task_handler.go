package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/api/metrics"
	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type addTaskRequest struct {
	Description string     `json:"description" validate:"required"`
	AssigneeIDs []string   `json:"assignee_ids" validate:"required,min=1"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// List handles GET /v1/clients/:id/tasks. Milestone synchronization runs
// before the list is returned, so a due review task appears on first read
// without waiting for the cron sweep.
//
// @Summary      List a client's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {array}   domain.ToDoTask
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id}/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// Add handles POST /v1/clients/:id/tasks.
//
// @Summary      Add a manual task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Client ID"
// @Param        body  body      addTaskRequest  true  "Task details"
// @Success      201   {object}  domain.ToDoTask
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/clients/{id}/tasks [post]
func (h *TaskHandler) Add(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := h.taskService.AddTask(c.Request().Context(), actor, ports.AddTaskInput{
		ClientID:    c.Param("id"),
		Description: req.Description,
		AssigneeIDs: req.AssigneeIDs,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// Toggle handles PATCH /v1/tasks/:id/toggle.
//
// @Summary      Toggle a task's done state
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.ToDoTask
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id}/toggle [patch]
func (h *TaskHandler) Toggle(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /v1/tasks/:id. System-generated tasks require a
// Super Admin; manual tasks require ManageTasks on the owning client.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      204  "no content"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			metrics.AuthzDenialsTotal.WithLabelValues("delete_task").Inc()
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
