package studyRoutes

import (
	controllers "examprep/controllers/study"
	"examprep/middleware"
	studyValidators "examprep/validators/study"

	"github.com/gofiber/fiber/v2"
)

// SetupStudyRoutes exposes study sessions. Signed-out viewers may open one; every module
// stays locked for them.
func SetupStudyRoutes(app *fiber.App) {
	studyGroup := app.Group("/study", middleware.OptionalJWTMiddleware)
	sid := studyValidators.SessionID()

	studyGroup.Post("/session", studyValidators.OpenSession(), controllers.OpenSession)
	studyGroup.Get("/session/:sid", sid, controllers.GetSession)
	studyGroup.Delete("/session/:sid", sid, controllers.CloseSession)
	studyGroup.Post("/session/:sid/retry", sid, controllers.RetrySession)

	// Navigation
	studyGroup.Post("/session/:sid/goto", sid, studyValidators.GoTo(), controllers.GoToLesson)
	studyGroup.Post("/session/:sid/next", sid, controllers.NextLesson)
	studyGroup.Post("/session/:sid/prev", sid, controllers.PrevLesson)
	studyGroup.Post("/session/:sid/enroll", sid, controllers.EnrollFromSession)
	studyGroup.Post("/session/:sid/refresh-access", sid, controllers.RefreshAccess)

	// Quiz
	studyGroup.Post("/session/:sid/quiz/start", sid, controllers.StartQuiz)
	studyGroup.Post("/session/:sid/quiz/answer", sid, studyValidators.Answer(), controllers.AnswerQuestion)
	studyGroup.Post("/session/:sid/quiz/submit", sid, controllers.SubmitQuiz)
	studyGroup.Post("/session/:sid/quiz/restart", sid, controllers.RestartQuiz)
}
