package controllers

import (
	"inevitable_academy_go/database"
	"inevitable_academy_go/middleware"
	"inevitable_academy_go/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceController struct{}

// AttendanceRequest is the upsert body for one (learner, date) record
type AttendanceRequest struct {
	LearnerID uint   `json:"learner_id"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
}

// UpsertAttendance records presence for one learner on one date. Writing the
// same value twice is a no-op, so repeated identical toggles from the client
// are safe.
func (ac *AttendanceController) UpsertAttendance(c *fiber.Ctx) error {
	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.LearnerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "learner_id is required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	var learner models.Learner
	if err := database.DB.First(&learner, req.LearnerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Learner not found"})
	}

	var record models.AttendanceRecord
	err := database.DB.Where("learner_id = ? AND date = ?", req.LearnerID, req.Date).First(&record).Error
	switch {
	case err == nil:
		if record.Present == req.Present {
			// idempotent: nothing to write
			return c.JSON(record)
		}
		record.Present = req.Present
		if err := database.DB.Save(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance"})
		}
	case err == gorm.ErrRecordNotFound:
		record = models.AttendanceRecord{
			LearnerID: req.LearnerID,
			Date:      req.Date,
			Present:   req.Present,
		}
		if err := database.DB.Create(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save attendance"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up attendance"})
	}

	middleware.LogActivity(c, "UPSERT", "attendance", record.ID, record)

	return c.JSON(record)
}

// ClearAttendance removes the record for (learner, date), returning that day
// to the unknown state. Clearing a record that does not exist is a no-op.
func (ac *AttendanceController) ClearAttendance(c *fiber.Ctx) error {
	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.LearnerID == 0 || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "learner_id and date are required"})
	}

	if err := database.DB.Where("learner_id = ? AND date = ?", req.LearnerID, req.Date).
		Delete(&models.AttendanceRecord{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear attendance"})
	}

	return c.JSON(fiber.Map{"message": "Attendance cleared"})
}

// GetAttendance lists records, optionally filtered by learner and date range
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	query := database.DB.Model(&models.AttendanceRecord{}).Order("date ASC")

	if learnerID := c.QueryInt("learner_id"); learnerID > 0 {
		query = query.Where("learner_id = ?", learnerID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var records []models.AttendanceRecord
	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	return c.JSON(records)
}
