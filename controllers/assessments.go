package controllers

import (
	"inevitable_academy_go/database"
	"inevitable_academy_go/middleware"
	"inevitable_academy_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssessmentController struct{}

// MarkRequest sets one learner's score on an assessment
type MarkRequest struct {
	LearnerID uint `json:"learner_id"`
	Score     *int `json:"score"`
}

// GetAssessments returns all assessments with their marks
func (ac *AssessmentController) GetAssessments(c *fiber.Ctx) error {
	var assessments []models.Assessment
	if err := database.DB.Preload("Marks").Order("created_at ASC").Find(&assessments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch assessments"})
	}
	return c.JSON(assessments)
}

// CreateAssessment appends a new assessment column with no marks yet
func (ac *AssessmentController) CreateAssessment(c *fiber.Ctx) error {
	var req struct {
		Label string `json:"label"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "label is required"})
	}

	assessment := models.Assessment{Label: req.Label}
	if err := database.DB.Create(&assessment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create assessment"})
	}

	middleware.LogActivity(c, "CREATE", "assessments", assessment.ID, assessment)

	return c.Status(fiber.StatusCreated).JSON(assessment)
}

// UpdateAssessment relabels an assessment. The row ID stays the stable
// identity for marks, so a relabel never reassigns scores.
func (ac *AssessmentController) UpdateAssessment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assessment ID"})
	}

	var assessment models.Assessment
	if err := database.DB.First(&assessment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assessment not found"})
	}

	var req struct {
		Label string `json:"label"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "label is required"})
	}

	assessment.Label = req.Label
	if err := database.DB.Save(&assessment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update assessment"})
	}

	middleware.LogActivity(c, "UPDATE", "assessments", assessment.ID, assessment)

	return c.JSON(assessment)
}

// DeleteAssessment removes an assessment and its marks
func (ac *AssessmentController) DeleteAssessment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assessment ID"})
	}

	var assessment models.Assessment
	if err := database.DB.First(&assessment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assessment not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentMark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&assessment).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete assessment"})
	}

	middleware.LogActivity(c, "DELETE", "assessments", assessment.ID, assessment)

	return c.JSON(fiber.Map{"message": "Assessment removed successfully"})
}

// SetMark records a learner's score on an assessment. Scores outside [0,100]
// are rejected and the previously stored mark, if any, stays untouched.
func (ac *AssessmentController) SetMark(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assessment ID"})
	}

	var assessment models.Assessment
	if err := database.DB.First(&assessment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assessment not found"})
	}

	var req MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.LearnerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "learner_id is required"})
	}
	if req.Score == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "score is required"})
	}
	if *req.Score < 0 || *req.Score > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "score must be between 0 and 100"})
	}

	var learner models.Learner
	if err := database.DB.First(&learner, req.LearnerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Learner not found"})
	}

	var mark models.AssessmentMark
	lookupErr := database.DB.Where("assessment_id = ? AND learner_id = ?", assessment.ID, req.LearnerID).First(&mark).Error
	switch {
	case lookupErr == nil:
		mark.Score = *req.Score
		if err := database.DB.Save(&mark).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update mark"})
		}
	case lookupErr == gorm.ErrRecordNotFound:
		mark = models.AssessmentMark{
			AssessmentID: assessment.ID,
			LearnerID:    req.LearnerID,
			Score:        *req.Score,
		}
		if err := database.DB.Create(&mark).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save mark"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up mark"})
	}

	middleware.LogActivity(c, "UPSERT", "assessments", assessment.ID, mark)

	return c.JSON(mark)
}
