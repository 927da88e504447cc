package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/api/metrics"
	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

type ImpersonationHandler struct {
	sessionService ports.SessionService
}

func NewImpersonationHandler(sessionService ports.SessionService) *ImpersonationHandler {
	return &ImpersonationHandler{sessionService: sessionService}
}

type startImpersonationRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

type sessionResponse struct {
	AnchorID       string `json:"anchor_id"`
	TargetID       string `json:"target_id,omitempty"`
	Impersonating  bool   `json:"impersonating"`
	EffectiveActor string `json:"effective_actor"`
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		AnchorID:       s.AnchorID,
		TargetID:       s.TargetID,
		Impersonating:  s.IsImpersonating(),
		EffectiveActor: s.ActorID(),
	}
}

// Start handles POST /v1/impersonation.
//
// @Summary      Start impersonating another user
// @Tags         impersonation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startImpersonationRequest  true  "Impersonation target"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/impersonation [post]
func (h *ImpersonationHandler) Start(c echo.Context) error {
	anchorID, err := ctxAnchorID(c)
	if err != nil {
		return err
	}

	var req startImpersonationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, err := h.sessionService.StartImpersonation(c.Request().Context(), anchorID, req.TargetID)
	if err != nil {
		return err
	}

	metrics.ImpersonationSessionsTotal.WithLabelValues("start").Inc()
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Stop handles DELETE /v1/impersonation. Always routed on the anchor so the
// overlay can be dropped even while it is active.
//
// @Summary      Stop impersonating
// @Tags         impersonation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/impersonation [delete]
func (h *ImpersonationHandler) Stop(c echo.Context) error {
	anchorID, err := ctxAnchorID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionService.StopImpersonation(c.Request().Context(), anchorID)
	if err != nil {
		return err
	}

	metrics.ImpersonationSessionsTotal.WithLabelValues("stop").Inc()
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Current handles GET /v1/impersonation — the caller's session state.
//
// @Summary      Get current session state
// @Tags         impersonation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/impersonation [get]
func (h *ImpersonationHandler) Current(c echo.Context) error {
	anchorID, err := ctxAnchorID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionService.Current(c.Request().Context(), anchorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}
