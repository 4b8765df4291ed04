package controllers

import (
	"log"
	"strconv"

	"examprep/database"
	"examprep/middleware"
	"examprep/models"
	courseModels "examprep/models/course"
	"examprep/services"
	"examprep/utils"
	"examprep/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller. Enrolling twice is not an error.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := strconv.FormatUint(uint64(c.Locals("id").(uint)), 10)
	ctx := c.UserContext()

	before, err := services.App.Access.AccessStatus(ctx, courseID, viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}
	if err := services.App.Access.Enroll(ctx, courseID, viewerID(c)); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}
	st, err := services.App.Access.AccessStatus(ctx, courseID, viewerID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch access status!")
	}

	if !before.IsEnrolled {
		if course, err := services.App.Access.CourseDetail(ctx, courseID); err == nil {
			utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
		} else {
			log.Printf("[ENROLLMENT] course %s enrolled but title lookup failed: %v", courseID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", st)
}

// GetEnrollments lists the caller's enrollments with their courses
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*validators.Page)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Offset(reqData.Offset()).Limit(reqData.Limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
