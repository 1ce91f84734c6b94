package controllers

import (
	"fmt"
	"inevitable_academy_go/database"
	"inevitable_academy_go/middleware"
	"inevitable_academy_go/models"
	"inevitable_academy_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LearnerController struct{}

// CreateLearnerRequest accepts the registration form. Grade is untyped on
// purpose: the admin form submits free text ("Grade 10", " 10 ") while API
// clients send an int, and both normalize to the same canonical code.
type CreateLearnerRequest struct {
	Name        string      `json:"name"`
	Grade       interface{} `json:"grade"`
	School      string      `json:"school"`
	ParentName  string      `json:"parent_name"`
	ParentPhone string      `json:"parent_phone"`
	Strengths   string      `json:"strengths"`
	Weaknesses  string      `json:"weaknesses"`
	Career      string      `json:"career"`
}

// GetLearners returns all learners, most recently created first.
// Supports an optional exact grade filter (?grade=10); "All" or an empty
// value is the identity filter.
func (lc *LearnerController) GetLearners(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Learner{}).Order("created_at DESC")

	if grade := c.Query("grade"); grade != "" && grade != "All" {
		normalized := utils.NormalizeGrade(grade)
		if normalized == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid grade filter",
			})
		}
		g, _ := strconv.Atoi(normalized)
		query = query.Where("grade = ?", g)
	}

	var learners []models.Learner
	if err := query.Find(&learners).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch learners",
		})
	}

	return c.JSON(learners)
}

// GetLearner returns a specific learner by ID
func (lc *LearnerController) GetLearner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid learner ID",
		})
	}

	var learner models.Learner
	if err := database.DB.Preload("Marks").Preload("Attendance").Preload("Payments").
		First(&learner, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Learner not found",
		})
	}

	return c.JSON(learner)
}

// CreateLearner registers a new learner. Presence checks for name, grade and
// parent phone run before the grade range check so error messages are
// deterministic. Optional fields get documented defaults rather than
// persisting as empty strings.
func (lc *LearnerController) CreateLearner(c *fiber.Ctx) error {
	var req CreateLearnerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	name := utils.SanitizeString(req.Name)
	gradeInput := ""
	if req.Grade != nil {
		gradeInput = fmt.Sprint(req.Grade)
	}
	grade := utils.NormalizeGrade(gradeInput)
	phone := utils.SanitizeString(req.ParentPhone)

	if name == "" || grade == "" || phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please fill in Learner name, Grade, and Parent phone number.",
		})
	}
	if !utils.IsValidGrade(grade) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Grade must be 9, 10, 11, or 12.",
		})
	}

	gradeInt, _ := strconv.Atoi(grade)
	learner := models.Learner{
		Name:        name,
		Grade:       gradeInt,
		School:      utils.DefaultIfEmpty(req.School, "Not specified"),
		ParentName:  utils.DefaultIfEmpty(req.ParentName, "Not specified"),
		ParentPhone: phone,
		Strengths:   utils.DefaultIfEmpty(req.Strengths, "—"),
		Weaknesses:  utils.DefaultIfEmpty(req.Weaknesses, "—"),
		Career:      utils.DefaultIfEmpty(req.Career, "—"),
	}

	if err := database.DB.Create(&learner).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create learner",
		})
	}

	middleware.LogActivity(c, "CREATE", "learners", learner.ID, learner)

	return c.Status(fiber.StatusCreated).JSON(learner)
}

// UpdateLearner updates an existing learner record
func (lc *LearnerController) UpdateLearner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid learner ID",
		})
	}

	var learner models.Learner
	if err := database.DB.First(&learner, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Learner not found",
		})
	}

	var req CreateLearnerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Grade != nil {
		grade := utils.NormalizeGrade(fmt.Sprint(req.Grade))
		if !utils.IsValidGrade(grade) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Grade must be 9, 10, 11, or 12.",
			})
		}
		learner.Grade, _ = strconv.Atoi(grade)
	}
	if v := utils.SanitizeString(req.Name); v != "" {
		learner.Name = v
	}
	if v := utils.SanitizeString(req.ParentPhone); v != "" {
		learner.ParentPhone = v
	}
	if v := utils.SanitizeString(req.School); v != "" {
		learner.School = v
	}
	if v := utils.SanitizeString(req.ParentName); v != "" {
		learner.ParentName = v
	}
	if v := utils.SanitizeString(req.Strengths); v != "" {
		learner.Strengths = v
	}
	if v := utils.SanitizeString(req.Weaknesses); v != "" {
		learner.Weaknesses = v
	}
	if v := utils.SanitizeString(req.Career); v != "" {
		learner.Career = v
	}

	if err := database.DB.Save(&learner).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update learner",
		})
	}

	middleware.LogActivity(c, "UPDATE", "learners", learner.ID, learner)

	return c.JSON(learner)
}

// DeleteLearner removes a learner together with all dependent records so no
// dangling marks, attendance or payment rows remain selectable afterwards.
func (lc *LearnerController) DeleteLearner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid learner ID",
		})
	}

	var learner models.Learner
	if err := database.DB.First(&learner, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Learner not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("learner_id = ?", learner.ID).Delete(&models.AssessmentMark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learner_id = ?", learner.ID).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learner_id = ?", learner.ID).Delete(&models.PaymentRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&learner).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete learner",
		})
	}

	middleware.LogActivity(c, "DELETE", "learners", learner.ID, learner)

	return c.JSON(fiber.Map{
		"message": "Learner removed successfully",
	})
}
