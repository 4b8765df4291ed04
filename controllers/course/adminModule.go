package controllers

import (
	"strconv"

	"examprep/database"
	"examprep/middleware"
	courseModels "examprep/models/course"
	"examprep/ordering"
	"examprep/services"
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateModule appends a module to the end of a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	reqData, ok := c.Locals("validatedModule").(*courseValidator.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	order, err := services.App.Store.NextModuleOrder(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create module!")
	}

	module := courseModels.Module{
		CourseID:    courseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		IsFree:      reqData.IsFree,
		OrderIndex:  order,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminUpdateModule updates module details. Order changes go through the reorder endpoint.
func AdminUpdateModule(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)
	moduleID := c.Locals("moduleId").(uint)

	reqData, ok := c.Locals("validatedModuleUpdate").(*courseValidator.UpdateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if reqData.Title != nil {
		module.Title = *reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	if reqData.IsFree != nil {
		module.IsFree = *reqData.IsFree
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule soft deletes a module with all of its lessons
func AdminDeleteModule(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)
	moduleID := c.Locals("moduleId").(uint)

	if err := services.App.Store.SoftDeleteModule(c.UserContext(), courseID, moduleID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete module!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AdminListModules lists all modules in a course
func AdminListModules(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	type ModuleWithCount struct {
		courseModels.Module
		LessonCount int64 `json:"lesson_count"`
	}

	modulesWithCount := make([]ModuleWithCount, len(modules))
	for i, mod := range modules {
		modulesWithCount[i] = ModuleWithCount{Module: mod}
		for _, model := range []interface{}{&courseModels.Article{}, &courseModels.Question{}, &courseModels.Quiz{}, &courseModels.PastPaper{}} {
			var count int64
			database.Database.Db.Model(model).Where("module_id = ? AND is_deleted = ?", mod.ID, false).Count(&count)
			modulesWithCount[i].LessonCount += count
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modulesWithCount,
	})
}

// AdminReorderModules saves a new module order. The list must name every module of the course.
func AdminReorderModules(c *fiber.Ctx) error {
	courseID := strconv.FormatUint(uint64(c.Locals("id").(uint)), 10)

	reqData, ok := c.Locals("validatedModuleOrder").(*courseValidator.ModuleOrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := services.App.Orders.Persist(c.UserContext(), ordering.ModuleBuckets(courseID, reqData.ModuleIDs)); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to save module order!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module order saved successfully!", nil)
}
