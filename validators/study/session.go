package studyValidator

import (
	"strings"

	"examprep/middleware"
	"examprep/validators"

	"github.com/gofiber/fiber/v2"
)

// OpenSessionRequest opens the study page of a course, optionally at a stored position.
type OpenSessionRequest struct {
	CourseID string `json:"courseId" validate:"required,max=64"`
	Module   int    `json:"module" validate:"gte=0"`
	Lesson   int    `json:"lesson" validate:"gte=0"`
}

func (r *OpenSessionRequest) Normalize() {
	r.CourseID = strings.TrimSpace(r.CourseID)
}

type GoToRequest struct {
	Module int `json:"module" validate:"gte=0"`
	Lesson int `json:"lesson" validate:"gte=0"`
}

// AnswerRequest selects an option. Indices outside the question's options are refused
// by the quiz itself, not here.
type AnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Choice     *int   `json:"choice" validate:"required"`
}

func OpenSession() fiber.Handler {
	return validators.Body("validatedOpenSession", func() interface{} { return new(OpenSessionRequest) })
}

func GoTo() fiber.Handler {
	return validators.Body("validatedGoTo", func() interface{} { return new(GoToRequest) })
}

func Answer() fiber.Handler {
	return validators.Body("validatedAnswer", func() interface{} { return new(AnswerRequest) })
}

// SessionID checks the :sid param is present.
func SessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("sid")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Session ID is required!", nil)
		}
		return c.Next()
	}
}
