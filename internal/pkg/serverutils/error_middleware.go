package serverutils

import (
	"context"
	"errors"

	"ai-journaling-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func statusForCode(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidInput, apperr.CodeInvalidRequest, apperr.CodeDimensionMismatch:
		return fiber.StatusBadRequest
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeConfirmationRequired, apperr.CodeOperationInProgress, apperr.CodeEntryImmutable:
		return fiber.StatusConflict
	case apperr.CodeQuotaExceeded:
		return fiber.StatusTooManyRequests
	case apperr.CodeAuthError:
		return fiber.StatusBadGateway
	case apperr.CodeNetworkError, apperr.CodeEmbeddingUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns service errors into the envelope the client
// renders as a chat-style error bubble.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("HTTP_ERROR", fiberErr.Message))
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(ErrorResponse("TIMEOUT", "the operation was cancelled or timed out"))
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return ctx.Status(statusForCode(appErr.Code)).
				JSON(ErrorResponse(string(appErr.Code), appErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("INTERNAL_ERROR", "something went wrong"))
	}
}
