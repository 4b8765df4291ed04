package controllers

import (
	"fmt"
	"strconv"

	"examprep/database"
	"examprep/middleware"
	courseModels "examprep/models/course"
	"examprep/ordering"
	"examprep/services"
	"examprep/study"
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateContent adds a lesson of the :type given in the route at the end of a module
func AdminCreateContent(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)
	moduleID := c.Locals("moduleId").(uint)
	contentType := c.Locals("contentType").(ordering.ItemType)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	order, err := services.App.Store.NextLessonOrder(c.UserContext(), moduleID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create content!")
	}

	var content interface{}
	switch reqData := c.Locals("validatedContent").(type) {
	case *courseValidator.ArticleRequest:
		content = &courseModels.Article{
			ModuleID:   moduleID,
			Title:      reqData.Title,
			BodyMarkup: reqData.BodyMarkup,
			OrderIndex: order,
		}
	case *courseValidator.QuestionRequest:
		content = &courseModels.Question{
			ModuleID:     moduleID,
			PromptMarkup: reqData.PromptMarkup,
			Options:      courseModels.EncodeOptions(reqData.Options),
			CorrectIndex: reqData.CorrectIndex,
			OrderIndex:   order,
		}
	case *courseValidator.QuizRequest:
		quiz := &courseModels.Quiz{
			ModuleID:            moduleID,
			Title:               reqData.Title,
			Kind:                reqData.Kind,
			PassingScorePercent: reqData.PassingScorePercent,
			TimeLimitMinutes:    reqData.TimeLimitMinutes,
			OrderIndex:          order,
		}
		for i, q := range reqData.Questions {
			quiz.Questions = append(quiz.Questions, courseModels.QuizQuestion{
				PromptMarkup: q.PromptMarkup,
				Options:      courseModels.EncodeOptions(q.Options),
				CorrectIndex: q.CorrectIndex,
				OrderIndex:   i,
			})
		}
		content = quiz
	case *courseValidator.PastPaperRequest:
		paper := &courseModels.PastPaper{
			ModuleID:       moduleID,
			YearLabel:      reqData.YearLabel,
			PromptMarkup:   reqData.PromptMarkup,
			SolutionMarkup: reqData.SolutionMarkup,
			Kind:           reqData.Kind,
			CorrectIndex:   reqData.CorrectIndex,
			OrderIndex:     order,
		}
		if reqData.Kind != string(study.PastPaperDescriptive) {
			paper.Options = courseModels.EncodeOptions(reqData.Options)
		}
		content = paper
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// quiz questions are created with the quiz by gorm's association save
	if err := database.Database.Db.Create(content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create "+string(contentType)+"!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminDeleteContent soft deletes one lesson
func AdminDeleteContent(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	contentID := c.Locals("contentId").(uint)

	contentType, err := ordering.ParseItemType(c.Params("type"))
	if err != nil || !contentType.IsLesson() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content type must be article, question, quiz or pastPaper!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(lessonModel(contentType)).
			Where("id = ? AND module_id = ? AND is_deleted = ?", contentID, moduleID, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if contentType == ordering.TypeQuiz {
			return tx.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", contentID).Update("is_deleted", true).Error
		}
		return nil
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete content!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

func lessonModel(t ordering.ItemType) interface{} {
	switch t {
	case ordering.TypeArticle:
		return &courseModels.Article{}
	case ordering.TypeQuestion:
		return &courseModels.Question{}
	case ordering.TypeQuiz:
		return &courseModels.Quiz{}
	}
	return &courseModels.PastPaper{}
}

type adminLesson struct {
	Type   study.Kind   `json:"type"`
	ID     string       `json:"id"`
	Order  int          `json:"order"`
	Lesson study.Lesson `json:"lesson"`
}

// AdminGetModuleContent returns a module's lessons in the merged order learners see them,
// answer keys included
func AdminGetModuleContent(c *fiber.Ctx) error {
	courseID := strconv.FormatUint(uint64(c.Locals("id").(uint)), 10)
	moduleID := strconv.FormatUint(uint64(c.Locals("moduleId").(uint)), 10)

	course, err := services.App.Store.CourseDetail(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch content!")
	}

	for _, m := range course.Modules {
		if m.ID != moduleID {
			continue
		}
		merged := study.Merge(m)
		lessons := make([]adminLesson, len(merged))
		for i, l := range merged {
			lessons[i] = adminLesson{Type: l.Kind(), ID: l.LessonID(), Order: l.SortOrder(), Lesson: l}
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
			"module": fiber.Map{
				"id":          m.ID,
				"title":       m.Title,
				"description": m.Description,
				"isFree":      m.IsFree,
			},
			"lessons":       lessons,
			"total_content": len(lessons),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
}

// AdminReorderLessons saves the order of a module's mixed lesson list. One batched update
// goes out per lesson type and the response says which of them were saved.
func AdminReorderLessons(c *fiber.Ctx) error {
	moduleID := strconv.FormatUint(uint64(c.Locals("moduleId").(uint)), 10)

	reqData, ok := c.Locals("validatedLessonOrder").(*courseValidator.LessonOrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	total, err := services.App.Store.CountLessons(c.UserContext(), c.Locals("moduleId").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to save lesson order!")
	}
	if total != len(reqData.Items) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false,
			fmt.Sprintf("Lesson order must list all %d lessons of the module!", total), nil)
	}

	buckets, err := ordering.Partition(moduleID, reqData.Items)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	if err := services.App.Orders.Persist(c.UserContext(), buckets); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to save lesson order!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson order saved successfully!", fiber.Map{
		"saved": len(buckets),
	})
}

// AdminReorder applies one batched same-type order update to the local database.
// It also serves the internal reorder route used by remote editors.
func AdminReorder(c *fiber.Ctx) error {
	itemType := c.Locals("itemType").(ordering.ItemType)

	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	bucket := ordering.Bucket{Type: itemType, Scope: reqData.Scope, Entries: reqData.Entries}
	if err := services.App.Store.UpdateOrder(c.UserContext(), bucket); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to save order!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order saved successfully!", nil)
}
