package controllers

import (
	"encoding/json"
	"inevitable_academy_go/database"
	"inevitable_academy_go/middleware"
	"inevitable_academy_go/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FocusController struct{}

// FocusRequest mirrors the editable fields of the dashboard focus card
type FocusRequest struct {
	Topics      []string `json:"topics"`
	LessonPlan  string   `json:"lesson_plan"`
	TutorNotes  string   `json:"tutor_notes"`
	WeeklyGoals string   `json:"weekly_goals"`
}

// GetFocus returns the current "Focus This Week" card
func (fc *FocusController) GetFocus(c *fiber.Ctx) error {
	var focus models.WeeklyFocus
	if err := database.DB.Order("updated_at DESC").First(&focus).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(models.WeeklyFocus{})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch focus"})
	}
	return c.JSON(focus)
}

// UpdateFocus overwrites the focus card in place, creating it on first save
func (fc *FocusController) UpdateFocus(c *fiber.Ctx) error {
	var req FocusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	topics, err := json.Marshal(req.Topics)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid topics"})
	}

	var focus models.WeeklyFocus
	lookupErr := database.DB.Order("updated_at DESC").First(&focus).Error
	if lookupErr != nil && lookupErr != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch focus"})
	}

	focus.Topics = models.JSON(topics)
	focus.LessonPlan = req.LessonPlan
	focus.TutorNotes = req.TutorNotes
	focus.WeeklyGoals = req.WeeklyGoals

	if err := database.DB.Save(&focus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save focus"})
	}

	middleware.LogActivity(c, "UPDATE", "focus", focus.ID, focus)

	return c.JSON(focus)
}
