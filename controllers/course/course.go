package controllers

import (
	"strconv"

	"examprep/database"
	"examprep/middleware"
	courseModels "examprep/models/course"
	"examprep/services"
	"examprep/study"
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// viewerID is the signed-in user as the string id used by study.Source, or "".
func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userId").(uint); ok {
		return strconv.FormatUint(uint64(id), 10)
	}
	return ""
}

// GetAllCourses lists published courses
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)
	if reqData.Search != "" {
		db = db.Where("title LIKE ?", "%"+reqData.Search+"%")
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(reqData.Offset()).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

type moduleOutline struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsFree      bool   `json:"isFree"`
	Access      string `json:"access"`
	LessonCount int    `json:"lessonCount"`
}

// GetCourseDetails returns the course outline with a per-module access decision for the
// viewer. Lesson bodies are only served through study sessions.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := strconv.FormatUint(uint64(c.Locals("id").(uint)), 10)
	userID := viewerID(c)
	ctx := c.UserContext()

	course, err := services.App.Access.CourseDetail(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course!")
	}

	ac := study.LoadedAccess(false, study.AccessStatus{})
	if userID != "" {
		st, err := services.App.Access.AccessStatus(ctx, courseID, userID)
		if err != nil {
			return middleware.ErrorResponse(c, err, "Failed to fetch access status!")
		}
		ac = study.LoadedAccess(true, st)
	}

	outline := make([]moduleOutline, len(course.Modules))
	for i, m := range course.Modules {
		outline[i] = moduleOutline{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			IsFree:      m.IsFree,
			Access:      study.Decide(m, ac).String(),
			LessonCount: len(study.Merge(m)),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"id":         course.ID,
		"title":      course.Title,
		"price":      course.Price,
		"modules":    outline,
		"isEnrolled": ac.IsEnrolled,
		"hasPaid":    ac.HasPaid,
	})
}

// GetCourseAccess reports the caller's enrollment and payment status
func GetCourseAccess(c *fiber.Ctx) error {
	courseID := strconv.FormatUint(uint64(c.Locals("id").(uint)), 10)

	st, err := services.App.Access.AccessStatus(c.UserContext(), courseID, viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch access status!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access status fetched successfully!", st)
}
