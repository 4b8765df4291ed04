package internalRoutes

import (
	courseControllers "examprep/controllers/course"
	controllers "examprep/controllers/serviceApi"
	"examprep/middleware"
	courseValidators "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInternalRoutes serves the collaborator API to other deployments. Requests must carry
// the shared service token.
func SetupInternalRoutes(app *fiber.App, serviceToken string) {
	internalGroup := app.Group("/internal", middleware.ServiceTokenMiddleware(serviceToken))

	internalGroup.Get("/course/:courseId", controllers.CourseDetail)
	internalGroup.Get("/course/:courseId/access/:userId", controllers.AccessStatus)
	internalGroup.Post("/course/:courseId/enroll/:userId", controllers.Enroll)
	internalGroup.Put("/reorder/:type", courseValidators.Reorder(), courseControllers.AdminReorder)
}
