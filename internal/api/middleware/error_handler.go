package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/metrics"
)

const statusError = "error"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorBody maps err to a status code and ErrorBody. Client errors carry the
// catalogue message; server errors carry the wrapped description.
func NewErrorBody(err error) (int, ErrorBody) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			code = domain.ErrImageTooLarge.Code
		}
		return fiberErr.Code, ErrorBody{Status: statusError, Code: code, Message: fiberErr.Message}
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		message := appErr.Message
		if appErr.StatusCode >= 500 {
			message = appErr.Error()
		}
		return appErr.StatusCode, ErrorBody{Status: statusError, Code: appErr.Code, Message: message}
	}

	return fiber.StatusInternalServerError, ErrorBody{
		Status:  statusError,
		Code:    domain.ErrInternal.Code,
		Message: err.Error(),
	}
}

func ErrorHandler(logger *slog.Logger, m *metrics.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := NewErrorBody(err)
		m.ObserveError(body.Code)

		if status >= 500 {
			logger.Error("request failed",
				slog.String("code", body.Code),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		return c.Status(status).JSON(body)
	}
}
