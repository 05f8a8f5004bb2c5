package http

import (
	"errors"

	"resume-builder/internal/adapter/http/middleware"
	"resume-builder/internal/identity"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the standard error body. message must be safe to show.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// ErrorHandler turns errors that escape handlers into the standard body.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// identityError reports a provider failure with its message unchanged.
func identityError(c *fiber.Ctx, err error) error {
	var ie *identity.Error
	if !errors.As(err, &ie) {
		return err
	}
	status := fiber.StatusBadRequest
	if ie.Code == identity.ErrNotAuthenticated.Code || ie.Code == identity.ErrBadCredentials.Code {
		status = fiber.StatusUnauthorized
	}
	return writeError(c, status, ie.Code, ie.Message)
}

func exportError(c *fiber.Ctx, err error) error {
	var ee *usecase.ExportError
	if !errors.As(err, &ee) {
		return err
	}
	switch ee.Kind {
	case usecase.KindBusy:
		return writeError(c, fiber.StatusConflict, "EXPORT_IN_PROGRESS", usecase.ErrExportInProgress.Error())
	case usecase.KindEncode:
		return writeError(c, fiber.StatusUnprocessableEntity, "EXPORT_ENCODE_FAILED", "the rendered page could not be encoded")
	case usecase.KindPackage:
		return writeError(c, fiber.StatusUnprocessableEntity, "EXPORT_PACKAGE_FAILED", "the PDF could not be produced")
	default:
		return writeError(c, fiber.StatusInternalServerError, "EXPORT_CAPTURE_FAILED", "the page could not be captured")
	}
}
