package services

import (
	"fmt"
	"time"

	"inevitable_academy_go/database"
	"inevitable_academy_go/engine"
	"inevitable_academy_go/models"
	"inevitable_academy_go/utils"

	"github.com/xuri/excelize/v2"
)

// BuildPerformanceWorkbook assembles the monthly performance workbook:
// marks and averages per learner, attendance for every weekday of the month
// and payment status. Returns the workbook and the learner count it covers.
func BuildPerformanceWorkbook(monthKey string) (*excelize.File, int, error) {
	monthStart, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid month key %q: %v", monthKey, err)
	}

	var learners []models.Learner
	if err := database.DB.Order("created_at DESC").Find(&learners).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch learners: %v", err)
	}

	var assessments []models.Assessment
	if err := database.DB.Preload("Marks").Order("created_at ASC").Find(&assessments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assessments: %v", err)
	}

	dateKeys := utils.WeekdayDateKeys(monthStart.Year(), monthStart.Month())

	var attendance []models.AttendanceRecord
	if len(dateKeys) > 0 {
		if err := database.DB.
			Where("date >= ? AND date <= ?", dateKeys[0], dateKeys[len(dateKeys)-1]).
			Find(&attendance).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to fetch attendance: %v", err)
		}
	}

	var payments []models.PaymentRecord
	if err := database.DB.Where("month_key = ?", monthKey).Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %v", err)
	}

	// Index lookups
	marksByLearner := make(map[uint]map[uint]int) // learner -> assessment -> score
	for _, a := range assessments {
		for _, m := range a.Marks {
			if marksByLearner[m.LearnerID] == nil {
				marksByLearner[m.LearnerID] = make(map[uint]int)
			}
			marksByLearner[m.LearnerID][m.AssessmentID] = m.Score
		}
	}
	attendanceByKey := make(map[string]bool) // "learnerID|date" -> present
	for _, r := range attendance {
		attendanceByKey[fmt.Sprintf("%d|%s", r.LearnerID, r.Date)] = r.Present
	}
	paidByLearner := make(map[uint]bool)
	for _, p := range payments {
		paidByLearner[p.LearnerID] = p.Paid
	}

	f := excelize.NewFile()
	perfSheet := "Class Performance"
	f.SetSheetName(f.GetSheetName(0), perfSheet)

	// Performance sheet
	header := []interface{}{"Learner", "Grade"}
	for _, a := range assessments {
		header = append(header, a.Label)
	}
	header = append(header, "Average", "Status")
	_ = f.SetSheetRow(perfSheet, "A1", &header)

	for i, l := range learners {
		row := []interface{}{l.Name, l.Grade}
		total, count := 0, 0
		for _, a := range assessments {
			if score, ok := marksByLearner[l.ID][a.ID]; ok {
				row = append(row, score)
				total += score
				count++
			} else {
				row = append(row, "")
			}
		}
		avg := 0.0
		if count > 0 {
			avg = float64(total) / float64(count)
		}
		row = append(row, avg, engine.BandForAverage(avg))
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(perfSheet, cell, &row)
	}

	// Attendance sheet
	attSheet := "Attendance"
	_, _ = f.NewSheet(attSheet)
	attHeader := []interface{}{"Learner"}
	for _, k := range dateKeys {
		attHeader = append(attHeader, k)
	}
	attHeader = append(attHeader, "Rate")
	_ = f.SetSheetRow(attSheet, "A1", &attHeader)

	for i, l := range learners {
		row := []interface{}{l.Name}
		present := 0
		for _, k := range dateKeys {
			v, ok := attendanceByKey[fmt.Sprintf("%d|%s", l.ID, k)]
			switch {
			case ok && v:
				row = append(row, "P")
				present++
			case ok && !v:
				row = append(row, "A")
			default:
				row = append(row, "")
			}
		}
		rate := 0.0
		if len(dateKeys) > 0 {
			rate = float64(present) / float64(len(dateKeys))
		}
		row = append(row, fmt.Sprintf("%.0f%%", rate*100))
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(attSheet, cell, &row)
	}

	// Payments sheet
	paySheet := "Payments"
	_, _ = f.NewSheet(paySheet)
	payHeader := []interface{}{"Learner", "Month", "Status"}
	_ = f.SetSheetRow(paySheet, "A1", &payHeader)
	for i, l := range learners {
		status := "Not Paid"
		if paidByLearner[l.ID] {
			status = "Paid"
		}
		row := []interface{}{l.Name, monthKey, status}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(paySheet, cell, &row)
	}

	return f, len(learners), nil
}
