package serverutils

import (
	"portfolio-notes-be/internal/pkg/apperror"
	"portfolio-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates typed domain errors into the response
// envelope. Anything untyped is logged and surfaced as INTERNAL_ERROR
// without leaking internals.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.From(err); ok {
			return ctx.Status(apperror.HTTPStatus(appErr.Kind)).
				JSON(ErrorResponse(string(appErr.Kind), appErr.Message, appErr.Fields))
		}

		// Fiber's own errors (route misses, oversized bodies) keep their
		// status but get the uniform envelope with a matching code.
		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).
				JSON(ErrorResponse(string(kindForStatus(fiberErr.Code)), fiberErr.Message, nil))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(string(apperror.KindInternal), "internal server error", nil))
	}
}

func kindForStatus(status int) apperror.Kind {
	switch status {
	case fiber.StatusNotFound:
		return apperror.KindNotFound
	case fiber.StatusForbidden:
		return apperror.KindForbidden
	case fiber.StatusConflict:
		return apperror.KindConflict
	}
	if status >= 400 && status < 500 {
		return apperror.KindValidation
	}
	return apperror.KindInternal
}
