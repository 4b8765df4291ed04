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
	courseValidator "examprep/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminRecordPayment records a payment the gateway has already verified and unlocks the
// paid modules of the course for that user
func AdminRecordPayment(c *fiber.Ctx) error {
	if services.App.Remote {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payments must be recorded on the collaborator instance!", nil)
	}

	courseID := c.Locals("id").(uint)
	admin := c.Locals("user").(*models.User)

	reqData, ok := c.Locals("validatedPayment").(*courseValidator.RecordPaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var existing int64
	database.Database.Db.Model(&models.CoursePayment{}).
		Where("payment_id = ? AND payment_gateway = ? AND is_deleted = ?", reqData.PaymentID, reqData.PaymentGateway, false).
		Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already recorded!", nil)
	}

	payment := models.CoursePayment{
		UserID:         user.ID,
		CourseID:       courseID,
		Amount:         reqData.Amount,
		PaymentGateway: reqData.PaymentGateway,
		PaymentOrderID: reqData.PaymentOrderID,
		PaymentID:      reqData.PaymentID,
		PaymentMethod:  reqData.PaymentMethod,
		RecordedBy:     admin.ID,
	}

	ctx := c.UserContext()
	if err := services.App.Store.RecordPayment(ctx, &payment); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record payment!")
	}

	courseKey := strconv.FormatUint(uint64(courseID), 10)
	services.App.Access.Invalidate(ctx, courseKey, strconv.FormatUint(uint64(user.ID), 10))

	var course courseModels.Course
	if err := database.Database.Db.Select("title").Where("id = ?", courseID).First(&course).Error; err == nil {
		utils.SendPaymentRecordedEmail(user.Email, user.Name, course.Title, payment.Amount)
	} else {
		log.Printf("[PAYMENT] payment %d recorded but course lookup failed: %v", payment.ID, err)
	}

	log.Printf("[PAYMENT] admin %d recorded %s payment %s for user %d on course %d", admin.ID, payment.PaymentGateway, payment.PaymentID, user.ID, courseID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment recorded successfully!", payment)
}
