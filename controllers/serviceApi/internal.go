package controllers

import (
	"examprep/middleware"
	"examprep/services"

	"github.com/gofiber/fiber/v2"
)

// Routes in this file let another deployment use this one as its remote collaborator.
// They read and write the local database directly, bypassing the access cache.

func CourseDetail(c *fiber.Ctx) error {
	course, err := services.App.Store.CourseDetail(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func AccessStatus(c *fiber.Ctx) error {
	st, err := services.App.Store.AccessStatus(c.UserContext(), c.Params("courseId"), c.Params("userId"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch access status!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access status fetched successfully!", st)
}

func Enroll(c *fiber.Ctx) error {
	courseID, userID := c.Params("courseId"), c.Params("userId")
	if err := services.App.Store.Enroll(c.UserContext(), courseID, userID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}
	services.App.Access.Invalidate(c.UserContext(), courseID, userID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", nil)
}
