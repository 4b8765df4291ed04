package controllers

import (
	"time"

	"examprep/database"
	"examprep/middleware"
	"examprep/models"
	courseModels "examprep/models/course"
	"examprep/validators"
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminGetCourseEnrollments gets all enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	reqData, ok := c.Locals("validatedEnrollmentList").(*validators.Page)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	db.Count(&total)

	type EnrollmentWithUser struct {
		courseModels.Enrollment
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	var enrollments []courseModels.Enrollment
	if err := db.Offset(reqData.Offset()).Limit(reqData.Limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		var enrolledUser models.User
		database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser)
		result[i] = EnrollmentWithUser{
			Enrollment: e,
			UserName:   enrolledUser.Name,
			UserEmail:  enrolledUser.Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// periodStart is the beginning of the current day, week or month
func periodStart(period string, t time.Time) time.Time {
	switch period {
	case "day":
		return now.With(t).BeginningOfDay()
	case "week":
		return now.With(t).BeginningOfWeek()
	}
	return now.With(t).BeginningOfMonth()
}

// AdminDashboardStats gets overall course, enrollment and revenue figures
func AdminDashboardStats(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedDashboard").(*courseValidator.DashboardQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	period := reqData.Period
	if period == "" {
		period = "month"
	}
	since := periodStart(period, time.Now())

	var totalCourses, publishedCourses, totalEnrollments, paidEnrollments, periodEnrollments int64
	var periodRevenue int64

	db := database.Database.Db
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND has_paid = ?", false, true).Count(&paidEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND created_at >= ?", false, since).Count(&periodEnrollments)
	db.Model(&models.CoursePayment{}).
		Where("is_deleted = ? AND status = ? AND paid_at >= ?", false, models.PaymentStatusCompleted, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&periodRevenue)

	type RecentEnrollment struct {
		UserName   string    `json:"user_name"`
		CourseName string    `json:"course_name"`
		HasPaid    bool      `json:"has_paid"`
		EnrolledAt time.Time `json:"enrolled_at"`
	}

	var recentEnrollments []courseModels.Enrollment
	db.Preload("Course").Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recentEnrollments)

	recent := make([]RecentEnrollment, len(recentEnrollments))
	for i, e := range recentEnrollments {
		var enrolledUser models.User
		db.Where("id = ?", e.UserID).First(&enrolledUser)
		recent[i] = RecentEnrollment{
			UserName:   enrolledUser.Name,
			HasPaid:    e.HasPaid,
			EnrolledAt: e.CreatedAt,
		}
		if e.Course != nil {
			recent[i].CourseName = e.Course.Title
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_courses":      totalCourses,
			"published_courses":  publishedCourses,
			"total_enrollments":  totalEnrollments,
			"paid_enrollments":   paidEnrollments,
			"period":             period,
			"period_start":       since,
			"period_enrollments": periodEnrollments,
			"period_revenue":     periodRevenue,
		},
		"recent_enrollments": recent,
	})
}
