package controllers

import (
	"fmt"
	"time"

	"inevitable_academy_go/services"
	"inevitable_academy_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReportController struct{}

// ExportPerformance streams the performance workbook for a month
// (?month=YYYY-MM, defaulting to the current month).
func (rc *ReportController) ExportPerformance(c *fiber.Ctx) error {
	monthKey := c.Query("month")
	if monthKey == "" {
		monthKey = utils.MonthKey(time.Now())
	}
	if _, err := time.Parse("2006-01", monthKey); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be YYYY-MM"})
	}

	workbook, _, err := services.BuildPerformanceWorkbook(monthKey)
	if err != nil {
		logrus.WithError(err).Error("Failed to build performance workbook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to serialize report"})
	}

	fileName := fmt.Sprintf("performance_%s.xlsx", monthKey)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(buf.Bytes())
}

// GetArchives lists previously archived monthly reports
func (rc *ReportController) GetArchives(c *fiber.Ctx) error {
	service := services.NewReportArchiveService()
	archives, err := service.GetArchives()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch archives"})
	}
	return c.JSON(archives)
}
