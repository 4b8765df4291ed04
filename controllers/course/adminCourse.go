package controllers

import (
	"examprep/database"
	"examprep/middleware"
	courseModels "examprep/models/course"
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	status := "DRAFT"
	if reqData.IsPublished {
		status = "ACTIVE"
	}
	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Author:       reqData.Author,
		Price:        reqData.Price,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       status,
		IsPublished:  reqData.IsPublished,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Author != nil {
		course.Author = *reqData.Author
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.Status != nil {
		course.Status = *reqData.Status
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	res := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists every course including drafts
func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if reqData.Search != "" {
		db = db.Where("title LIKE ?", "%"+reqData.Search+"%")
	}

	var total int64
	db.Count(&total)

	type CourseWithCounts struct {
		courseModels.Course
		ModuleCount     int64 `json:"module_count"`
		EnrollmentCount int64 `json:"enrollment_count"`
	}

	var courses []courseModels.Course
	if err := db.Offset(reqData.Offset()).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]CourseWithCounts, len(courses))
	for i, course := range courses {
		result[i] = CourseWithCounts{Course: course}
		database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&result[i].ModuleCount)
		database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&result[i].EnrollmentCount)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
