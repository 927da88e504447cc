package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/api/metrics"
	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

type ClientHandler struct {
	clients     ports.ClientRepository
	users       ports.UserRepository
	permissions ports.PermissionService
}

func NewClientHandler(
	clients ports.ClientRepository,
	users ports.UserRepository,
	permissions ports.PermissionService,
) *ClientHandler {
	return &ClientHandler{
		clients:     clients,
		users:       users,
		permissions: permissions,
	}
}

type clientResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DateAdded     time.Time `json:"date_added"`
	TeamMemberIDs []string  `json:"team_member_ids"`
}

type clientDetailResponse struct {
	clientResponse
	Capabilities ports.Capabilities `json:"capabilities"`
}

type updateTeamRequest struct {
	TeamMemberIDs []string `json:"team_member_ids" validate:"required"`
}

func toClientResponse(cl *domain.Client) clientResponse {
	return clientResponse{
		ID:            cl.ID,
		Name:          cl.Name,
		DateAdded:     cl.DateAdded,
		TeamMemberIDs: cl.TeamMemberIDs,
	}
}

// List handles GET /v1/clients. The result contains only the clients the
// effective actor can view: administrators see all, clinicians see the
// clients whose team they are on.
//
// @Summary      List visible clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clientResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	all, err := h.clients.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]clientResponse, 0, len(all))
	for _, cl := range all {
		if h.permissions.CapabilitiesFor(actor, cl).ViewClient {
			out = append(out, toClientResponse(cl))
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/clients/:id. Returns the record together with the
// effective actor's capability set on it, so callers never guess at what
// the actor may do.
//
// @Summary      Get a client record with capabilities
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  clientDetailResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	client, err := h.clients.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	caps := h.permissions.CapabilitiesFor(actor, client)
	if !caps.ViewClient {
		metrics.AuthzDenialsTotal.WithLabelValues("view_client").Inc()
		return domain.ErrPermissionDenied
	}

	return c.JSON(http.StatusOK, clientDetailResponse{
		clientResponse: toClientResponse(client),
		Capabilities:   caps,
	})
}

// UpdateTeam handles PUT /v1/clients/:id/team. Replaces the client's team
// membership; DateAdded and every task on the record are untouched.
//
// @Summary      Replace a client's care team
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Client ID"
// @Param        body  body      updateTeamRequest  true  "New team membership"
// @Success      200   {object}  clientResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/clients/{id}/team [put]
func (h *ClientHandler) UpdateTeam(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	client, err := h.clients.FindByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if !h.permissions.CapabilitiesFor(actor, client).ManageTeam {
		metrics.AuthzDenialsTotal.WithLabelValues("manage_team").Inc()
		return domain.ErrPermissionDenied
	}

	// Every proposed member must exist in the registry.
	for _, id := range req.TeamMemberIDs {
		if _, err := h.users.FindByID(ctx, id); err != nil {
			return err
		}
	}

	if err := h.clients.UpdateTeam(ctx, client.ID, req.TeamMemberIDs); err != nil {
		return err
	}

	client.TeamMemberIDs = req.TeamMemberIDs
	return c.JSON(http.StatusOK, toClientResponse(client))
}
