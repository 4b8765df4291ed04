package courseRoutes

import (
	controllers "examprep/controllers/course"
	"examprep/middleware"
	validators "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Catalogue and outline are public; a token adds the caller's access decisions
	userGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	userGroup.Get("/:id/access", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseAccess)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, validators.EnrollmentList(), controllers.GetEnrollments)
}
