package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// ctxActor extracts the effective actor injected by the ResolveActor
// middleware. Presence proves the middleware chain ran; a missing actor
// means the route was wired without it — reject with 401.
func ctxActor(c echo.Context) (*domain.User, error) {
	actor, _ := c.Get("actor").(*domain.User)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// ctxSession extracts the impersonation session injected by ResolveActor.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get("session").(*domain.Session)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return session, nil
}

// ctxAnchorID extracts the token subject set by the Auth middleware. Unlike
// the actor, the anchor never changes while an overlay is active.
func ctxAnchorID(c echo.Context) (string, error) {
	anchorID, _ := c.Get("anchor_id").(string)
	if anchorID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return anchorID, nil
}
