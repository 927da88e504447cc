package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/api/metrics"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

type MessageHandler struct {
	messagingService ports.MessagingService
}

func NewMessageHandler(messagingService ports.MessagingService) *MessageHandler {
	return &MessageHandler{messagingService: messagingService}
}

type createThreadRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// ListThreads handles GET /v1/messages/threads.
//
// @Summary      List the caller's message threads
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MessageThread
// @Failure      401  {object}  map[string]string
// @Router       /v1/messages/threads [get]
func (h *MessageHandler) ListThreads(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	threads, err := h.messagingService.ListThreads(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, threads)
}

// EligibleTargets handles GET /v1/messages/eligible-targets. An empty list
// is a valid response, not an error.
//
// @Summary      List users the caller may open a new DM with
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/messages/eligible-targets [get]
func (h *MessageHandler) EligibleTargets(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	targets, err := h.messagingService.EligibleNewDMTargets(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(targets))
	for _, u := range targets {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateThread handles POST /v1/messages/threads.
//
// @Summary      Open a direct message thread
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createThreadRequest  true  "DM target"
// @Success      201   {object}  domain.MessageThread
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/messages/threads [post]
func (h *MessageHandler) CreateThread(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createThreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	thread, err := h.messagingService.CreateDirectThread(c.Request().Context(), actor, req.TargetID)
	if err != nil {
		return err
	}

	metrics.ThreadsCreatedTotal.WithLabelValues(string(thread.Type)).Inc()
	return c.JSON(http.StatusCreated, thread)
}
