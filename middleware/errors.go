package middleware

import (
	"context"
	"errors"
	"log"

	"examprep/ordering"
	"examprep/repository"
	"examprep/sessions"
	"examprep/study"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse maps domain errors onto the response envelope. Anything unrecognised is
// logged and answered with 500 and the given message.
func ErrorResponse(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, study.ErrCourseNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, sessions.ErrSessionNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Study session not found!", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	case errors.Is(err, study.ErrNotSignedIn):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Sign in required!", nil)
	case errors.Is(err, repository.ErrInvalidID):
		return JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ordering.ErrUnknownType),
		errors.Is(err, repository.ErrIncompleteOrder),
		errors.Is(err, repository.ErrOrderItemMissing),
		errors.Is(err, repository.ErrDuplicateOrder):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		return JsonResponse(c, fiber.StatusGatewayTimeout, false, "Upstream request timed out!", nil)
	}

	var saveErr *ordering.SaveError
	if errors.As(err, &saveErr) {
		failed := make(map[string]string, len(saveErr.Failed))
		for t, cause := range saveErr.Failed {
			failed[string(t)] = cause.Error()
		}
		msg := "Order was not saved, please reload and try again!"
		if errors.Is(err, ordering.ErrOrderPartiallySaved) {
			msg = "Order was only partially saved, please reload to see the current order!"
		}
		return JsonResponse(c, fiber.StatusConflict, false, msg, fiber.Map{
			"saved":  saveErr.Saved,
			"failed": failed,
		})
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, message, nil)
}
