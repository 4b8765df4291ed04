package courseRoutes

import (
	controllers "examprep/controllers/course"
	"examprep/middleware"
	"examprep/models"
	"examprep/validators"
	courseValidators "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	manageContent := middleware.CheckPermissionMiddleware(models.PermissionManageContent)

	// Course CRUD
	adminGroup.Post("/course/create", courseValidators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/course/list", courseValidators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/course/:id", courseValidators.CourseID(), courseValidators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/course/:id", courseValidators.CourseID(), controllers.AdminDeleteCourse)

	// Module Management
	adminGroup.Post("/course/:id/module", manageContent, courseValidators.CourseID(), courseValidators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/course/:id/modules", courseValidators.CourseID(), controllers.AdminListModules)
	adminGroup.Put("/course/:id/modules/order", manageContent, courseValidators.CourseID(), courseValidators.ModuleOrder(), controllers.AdminReorderModules)
	adminGroup.Put("/course/:id/module/:moduleId", manageContent, validators.ParamIDs("id", "moduleId"), courseValidators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/course/:id/module/:moduleId", manageContent, validators.ParamIDs("id", "moduleId"), controllers.AdminDeleteModule)

	// Content Management
	adminGroup.Get("/course/:id/module/:moduleId/content", validators.ParamIDs("id", "moduleId"), controllers.AdminGetModuleContent)
	adminGroup.Post("/course/:id/module/:moduleId/content/:type", manageContent, validators.ParamIDs("id", "moduleId"), courseValidators.CreateContentAdmin(), controllers.AdminCreateContent)
	adminGroup.Delete("/course/:id/module/:moduleId/content/:type/:contentId", manageContent, validators.ParamIDs("id", "moduleId", "contentId"), controllers.AdminDeleteContent)
	adminGroup.Put("/course/:id/module/:moduleId/lessons/order", manageContent, validators.ParamIDs("id", "moduleId"), courseValidators.LessonOrder(), controllers.AdminReorderLessons)
	adminGroup.Put("/reorder/:type", manageContent, courseValidators.Reorder(), controllers.AdminReorder)

	// Enrollments & Payments
	adminGroup.Get("/course/:id/enrollments", courseValidators.CourseID(), courseValidators.EnrollmentList(), controllers.AdminGetCourseEnrollments)
	adminGroup.Post("/course/:id/payment", middleware.CheckPermissionMiddleware(models.PermissionRecordPayment), courseValidators.CourseID(), courseValidators.RecordPayment(), controllers.AdminRecordPayment)

	adminGroup.Get("/dashboard/stats", courseValidators.DashboardStats(), controllers.AdminDashboardStats)
}
