package handler

import (
	"github.com/taskly/taskly-api/internal/core/domain"
)

// echoValidator lets Echo call c.Validate(req). Failures come back as
// *domain.ValidationError so the error handler can render field details.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return domain.Validate(i)
}
