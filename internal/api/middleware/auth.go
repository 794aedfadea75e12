package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/api/metrics"
	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserIDKey  = "user_id"
	EmailKey   = "email"
	TokenIDKey = "token_id"
)

// Auth validates the bearer token and injects the principal into the context.
// Every rejection is a 401 with the same body.
func Auth(tokens ports.TokenValidator, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject(c, m, "missing_header", domain.ErrUnauthenticated)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return reject(c, m, "malformed_header", domain.ErrUnauthenticated)
			}

			principal, err := tokens.Validate(c.Request().Context(), token)
			if err != nil {
				return reject(c, m, "invalid_token", err)
			}

			c.Set(UserIDKey, principal.UserID)
			c.Set(EmailKey, principal.Email)
			c.Set(TokenIDKey, principal.TokenID)

			return next(c)
		}
	}
}

func reject(c echo.Context, m *metrics.Metrics, reason string, cause error) error {
	m.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(cause)
}
