package controllers

import (
	"inevitable_academy_go/database"
	"inevitable_academy_go/middleware"
	"inevitable_academy_go/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentController struct{}

// PaymentRequest is the upsert body for one (learner, month) status
type PaymentRequest struct {
	LearnerID uint   `json:"learner_id"`
	Month     string `json:"month"`
	Paid      bool   `json:"paid"`
}

// UpsertPayment sets the paid/unpaid status for one learner and month.
// Absence of a record always reads as unpaid, so unpaid rows are still
// written explicitly to keep an audit trail of status changes.
func (pc *PaymentController) UpsertPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.LearnerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "learner_id is required"})
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be YYYY-MM"})
	}

	var learner models.Learner
	if err := database.DB.First(&learner, req.LearnerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Learner not found"})
	}

	var record models.PaymentRecord
	err := database.DB.Where("learner_id = ? AND month_key = ?", req.LearnerID, req.Month).First(&record).Error
	switch {
	case err == nil:
		if record.Paid == req.Paid {
			return c.JSON(record)
		}
		record.Paid = req.Paid
		if err := database.DB.Save(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment status"})
		}
	case err == gorm.ErrRecordNotFound:
		record = models.PaymentRecord{
			LearnerID: req.LearnerID,
			MonthKey:  req.Month,
			Paid:      req.Paid,
		}
		if err := database.DB.Create(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save payment status"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up payment status"})
	}

	middleware.LogActivity(c, "UPSERT", "payments", record.ID, record)

	return c.JSON(record)
}

// GetPayments lists payment records, optionally filtered by learner and month
func (pc *PaymentController) GetPayments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.PaymentRecord{}).Order("month_key ASC")

	if learnerID := c.QueryInt("learner_id"); learnerID > 0 {
		query = query.Where("learner_id = ?", learnerID)
	}
	if month := c.Query("month"); month != "" {
		query = query.Where("month_key = ?", month)
	}

	var records []models.PaymentRecord
	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}

	return c.JSON(records)
}
