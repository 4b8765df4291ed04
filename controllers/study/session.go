package controllers

import (
	"strconv"

	"examprep/middleware"
	"examprep/services"
	"examprep/study"
	studyValidator "examprep/validators/study"

	"github.com/gofiber/fiber/v2"
)

func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userId").(uint); ok {
		return strconv.FormatUint(uint64(id), 10)
	}
	return ""
}

// OpenSession starts a study session for a course at the requested position. Signed-out
// viewers get a session too: they can see the outline but every module is locked.
func OpenSession(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOpenSession").(*studyValidator.OpenSessionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	start := study.Position{Module: reqData.Module, Lesson: reqData.Lesson}
	snap, err := services.App.Sessions.Open(c.UserContext(), reqData.CourseID, viewerID(c), start)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to open study session!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Study session opened!", snap)
}

func GetSession(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.Get(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch study session!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Study session fetched!", snap)
}

// RetrySession re-fetches whatever failed to load
func RetrySession(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.Retry(c.UserContext(), c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to reload study session!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Study session reloaded!", snap)
}

// GoToLesson moves to a module and lesson. A locked module answers 200 with a locked event.
func GoToLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGoTo").(*studyValidator.GoToRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	snap, err := services.App.Sessions.GoTo(c.Params("sid"), viewerID(c), reqData.Module, reqData.Lesson)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to move!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved!", snap)
}

func NextLesson(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.Next(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to move!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved!", snap)
}

func PrevLesson(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.Prev(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to move!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved!", snap)
}

// EnrollFromSession enrolls the signed-in viewer and refreshes the session's access
func EnrollFromSession(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.Enroll(c.UserContext(), c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", snap)
}

// RefreshAccess re-reads enrollment and payment, e.g. after a purchase
func RefreshAccess(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.RefreshAccess(c.UserContext(), c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to refresh access!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access refreshed!", snap)
}

func StartQuiz(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.StartQuiz(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to start quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", snap)
}

func AnswerQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAnswer").(*studyValidator.AnswerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	snap, err := services.App.Sessions.Answer(c.Params("sid"), viewerID(c), reqData.QuestionID, *reqData.Choice)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record answer!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", snap)
}

func SubmitQuiz(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.SubmitQuiz(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to submit quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", snap)
}

func RestartQuiz(c *fiber.Ctx) error {
	snap, err := services.App.Sessions.RestartQuiz(c.Params("sid"), viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to restart quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", snap)
}

// CloseSession leaves the study page and cancels any running quiz clock
func CloseSession(c *fiber.Ctx) error {
	if err := services.App.Sessions.Close(c.Params("sid"), viewerID(c)); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to close study session!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Study session closed!", nil)
}
