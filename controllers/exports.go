package controllers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tutortrack_go/config"
	"tutortrack_go/middleware"
	"tutortrack_go/services"

	"github.com/gofiber/fiber/v2"
)

// ExportController serves the CSV, zip and xlsx artifacts.
type ExportController struct {
	exports *services.ExportService
	roster  *services.RosterService
}

func NewExportController() *ExportController {
	return &ExportController{
		exports: services.NewExportService(),
		roster:  services.NewRosterService(),
	}
}

func rosterFilePath() string {
	return config.AppConfig.RosterPath
}

// DailySummary writes and downloads the daily summary CSV.
func (ec *ExportController) DailySummary(c *fiber.Ctx) error {
	date := c.Query("date", services.Today())
	if !services.ValidDate(date) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	path, err := ec.exports.DailySummaryCSV(date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build daily summary",
		})
	}
	return c.Download(path, filepath.Base(path))
}

// MonthlyReport writes and downloads one student's monthly CSV.
func (ec *ExportController) MonthlyReport(c *fiber.Ctx) error {
	month := c.Query("month", services.CurrentMonth())
	if !services.ValidMonth(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month format, expected YYYY-MM",
		})
	}

	path, err := ec.exports.MonthlyReportCSV(c.Params("id"), month)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build monthly report",
		})
	}
	return c.Download(path, filepath.Base(path))
}

// MonthlyReportsZip bundles every student's monthly CSV into one zip download.
func (ec *ExportController) MonthlyReportsZip(c *fiber.Ctx) error {
	month := c.Query("month", services.CurrentMonth())
	if !services.ValidMonth(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month format, expected YYYY-MM",
		})
	}

	buf, name, err := ec.exports.AllMonthlyReportsZip(month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build report archive",
		})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Send(buf.Bytes())
}

// ExportRoster downloads the current roster as xlsx in the legacy column order.
func (ec *ExportController) ExportRoster(c *fiber.Ctx) error {
	f, err := ec.roster.ExportRoster()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export roster",
		})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to write roster file",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="students.xlsx"`)
	return c.Send(buf.Bytes())
}

// ImportRoster receives an xlsx roster upload and loads students and slots.
func (ec *ExportController) ImportRoster(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing roster file upload",
		})
	}

	tmp, err := os.CreateTemp("", "roster-*.xlsx")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to stage roster upload",
		})
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save roster upload",
		})
	}

	stats, err := ec.roster.ImportRoster(tmpPath)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	middleware.LogActivity(c, "CREATE", "roster", fileHeader.Filename)
	return c.JSON(stats)
}
