package controllers

import (
	"tutortrack_go/services"

	"github.com/gofiber/fiber/v2"
)

// ReportController serves the daily and monthly rollups.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{reports: services.NewReportService()}
}

// Daily returns the merged report for one date (default today): one row per
// student, plus the total collected.
func (rc *ReportController) Daily(c *fiber.Ctx) error {
	date := c.Query("date", services.Today())
	if !services.ValidDate(date) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	rows, totalPaid, err := rc.reports.DailyReport(date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build daily report",
		})
	}

	return c.JSON(fiber.Map{
		"date":       date,
		"rows":       rows,
		"total_paid": totalPaid,
	})
}

// Monthly returns per-student stats plus the overview totals for one month.
func (rc *ReportController) Monthly(c *fiber.Ctx) error {
	month := c.Query("month", services.CurrentMonth())
	if !services.ValidMonth(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month format, expected YYYY-MM",
		})
	}

	overview, stats, err := rc.reports.Overview(month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build monthly report",
		})
	}

	return c.JSON(fiber.Map{
		"overview": overview,
		"students": stats,
	})
}
