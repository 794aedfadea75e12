package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/api/middleware"
	"github.com/taskly/taskly-api/internal/core/domain"
)

// principalID returns the caller's user id injected by the Auth middleware.
// An empty id means the middleware did not run; reject rather than query
// with an empty owner.
func principalID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

// taskIDParam parses the :id path segment.
func taskIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id").SetInternal(err)
	}
	return id, nil
}

func invalidPayload(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
}
