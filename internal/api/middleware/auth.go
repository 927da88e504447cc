package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lifeweavers/caseflow/internal/core/ports"
)

// Auth validates the JWT and injects the anchor identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("anchor_id", claims["sub"])
			c.Set("email", claims["email"])
			c.Set("role", claims["role"])

			return next(c)
		}
	}
}

// ResolveActor loads the impersonation session for the authenticated anchor
// and injects the effective actor into context. Must run after Auth. The
// overlay is resolved fresh on every request so that authorization always
// reflects the current session state.
func ResolveActor(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			anchorID, _ := c.Get("anchor_id").(string)
			if anchorID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
			}

			actor, session, err := sessions.EffectiveActor(c.Request().Context(), anchorID)
			if err != nil {
				return err
			}

			c.Set("actor", actor)
			c.Set("session", session)

			return next(c)
		}
	}
}
