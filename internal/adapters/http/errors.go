package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, no_route_found, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, code, msg string) error {
	return newError(c, 422, code, msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, code, msg string) error {
	return newError(c, 502, code, msg)
}

// domainError maps the pipeline's sentinel errors onto HTTP responses. The
// distinction between generation failing and generation succeeding without a
// save is preserved: the latter is a 500 with its own code so the editor
// knows the provider result exists but is not live.
func domainError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return errBadRequest(c, ve.Error())
	case errors.Is(err, domain.ErrDocumentNotFound):
		return errNotFound(c, "route document not found")
	case errors.Is(err, domain.ErrNoRouteFound):
		return errUnprocessable(c, "no_route_found", err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		return errBadGateway(c, "provider_unavailable", "directions provider is unavailable")
	case errors.Is(err, domain.ErrGeometryNotSaved):
		return newError(c, 500, "generated_not_saved", "route was generated but could not be saved")
	}
	return errInternal(c, err.Error())
}
