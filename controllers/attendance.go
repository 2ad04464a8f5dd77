package controllers

import (
	"errors"
	"time"

	"tutortrack_go/middleware"
	"tutortrack_go/models"
	"tutortrack_go/services"
	"tutortrack_go/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// AttendanceController handles the scan path, manual grade entry and the
// absence sweep trigger.
type AttendanceController struct {
	attendance *services.AttendanceService
	hub        *websocket.Hub
}

func NewAttendanceController(hub *websocket.Hub) *AttendanceController {
	return &AttendanceController{
		attendance: services.NewAttendanceService(),
		hub:        hub,
	}
}

type BulkGradeRow struct {
	StudentID      string `json:"student_id"`
	ExamGrade      string `json:"exam_grade"`
	HomeworkStatus string `json:"homework_status"`
}

type BulkGradesRequest struct {
	Date string         `json:"date"`
	Rows []BulkGradeRow `json:"rows"`
}

type StudentRecordRequest struct {
	ExamGrade      string `json:"exam_grade"`
	HomeworkStatus string `json:"homework_status"`
}

// Scan records a QR scan for a student and pushes the outcome to the live feed.
func (ac *AttendanceController) Scan(c *fiber.Ctx) error {
	studentID := c.Params("id")
	now := time.Now()

	result, err := ac.attendance.RecordAttendance(studentID, now)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record attendance",
		})
	}

	if ac.hub != nil {
		event := websocket.ScanEvent{
			Type:      "scan",
			StudentID: studentID,
			Outcome:   string(result.Outcome),
			Date:      now.Format(models.DateLayout),
			Record:    result.Record,
		}
		ac.hub.BroadcastScan(event)
	}

	middleware.LogActivity(c, "CREATE", "attendance", studentID)
	return c.JSON(result)
}

// BulkGrades applies the bulk grade-entry sheet: every row is upserted, new
// records become present sessions.
func (ac *AttendanceController) BulkGrades(c *fiber.Ctx) error {
	var req BulkGradesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	at := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(models.DateLayout, req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
		}
		at = parsed
	}

	applied := 0
	skipped := make([]string, 0)
	for _, row := range req.Rows {
		if row.StudentID == "" {
			continue
		}
		_, err := ac.attendance.RecordGrade(row.StudentID, at, row.ExamGrade, row.HomeworkStatus, services.GradeModeUpsert)
		if errors.Is(err, services.ErrStudentNotFound) {
			skipped = append(skipped, row.StudentID)
			continue
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save grades",
			})
		}
		applied++
	}

	middleware.LogActivity(c, "UPDATE", "attendance", "bulk")
	return c.JSON(fiber.Map{
		"applied": applied,
		"skipped": skipped,
	})
}

// RecordForStudent is the single-student grade entry. Unlike the bulk sheet it
// refuses to write on a day the student has no class.
func (ac *AttendanceController) RecordForStudent(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req StudentRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := ac.attendance.RecordGrade(studentID, time.Now(), req.ExamGrade, req.HomeworkStatus, services.GradeModeStrict)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		case errors.Is(err, services.ErrNotScheduledToday):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Student has no class today",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save record",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "attendance", studentID)
	return c.JSON(result)
}

// Sweep marks every scheduled-but-unseen student absent for today. The same
// routine runs on the daily schedule; this endpoint triggers it on demand.
func (ac *AttendanceController) Sweep(c *fiber.Ctx) error {
	marked, err := ac.attendance.SweepAbsences(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Absence sweep failed",
		})
	}

	middleware.LogActivity(c, "CREATE", "attendance", "sweep")
	return c.JSON(fiber.Map{"marked_absent": marked})
}
