package controllers

import (
	"errors"
	"strings"

	"tutortrack_go/database"
	"tutortrack_go/middleware"
	"tutortrack_go/models"
	"tutortrack_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StudentController struct{}

type CreateStudentRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"student_name"`
	ParentPhone   string   `json:"parent_number"`
	PaymentAmount float64  `json:"payment_amount"`
	ClassDays     []string `json:"class_days"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
}

// GetStudents returns all students with their class slots
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.DB.Preload("Slots", func(db *gorm.DB) *gorm.DB {
		return db.Order("class_slots.id ASC")
	}).Order("id ASC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}
	return c.JSON(fiber.Map{"students": students})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := database.DB.Preload("Slots").First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}
	return c.JSON(fiber.Map{"student": student})
}

// CreateStudent creates a student with optional class slots, renders the QR card
// and keeps the roster spreadsheet in step.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student ID and name are required",
		})
	}

	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student ID already exists",
		})
	}

	startTime, endTime := req.StartTime, req.EndTime
	if startTime == "" {
		startTime = "09:00"
	}
	if endTime == "" {
		endTime = "10:00"
	}

	days := make([]string, 0, len(req.ClassDays))
	for _, day := range req.ClassDays {
		day = strings.ToLower(strings.TrimSpace(day))
		if day == "" {
			continue
		}
		if !models.IsValidWeekday(day) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown weekday: " + day,
			})
		}
		days = append(days, day)
	}

	student := models.Student{
		ID:            req.ID,
		Name:          req.Name,
		ParentPhone:   strings.TrimSpace(req.ParentPhone),
		PaymentAmount: req.PaymentAmount,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		for _, day := range days {
			slot := models.ClassSlot{
				StudentID: student.ID,
				Weekday:   day,
				StartTime: startTime,
				EndTime:   endTime,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	// QR and roster updates are best-effort; the student row is the source of truth.
	qrPath := ""
	if path, err := services.NewQRService().Generate(student.ID); err != nil {
		logrus.WithError(err).WithField("student_id", student.ID).Warn("QR generation failed")
	} else {
		qrPath = path
	}
	if err := services.NewRosterService().AppendToRoster(
		rosterFilePath(), &student, days); err != nil {
		logrus.WithError(err).Warn("Failed to append student to roster file")
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID)
	database.DB.Preload("Slots").First(&student, "id = ?", student.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"student": student,
		"qr_path": qrPath,
	})
}

// UpdateStudent updates name, parent number and payment amount.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var req struct {
		Name          *string  `json:"student_name"`
		ParentPhone   *string  `json:"parent_number"`
		PaymentAmount *float64 `json:"payment_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.ParentPhone != nil {
		student.ParentPhone = strings.TrimSpace(*req.ParentPhone)
	}
	if req.PaymentAmount != nil {
		student.PaymentAmount = *req.PaymentAmount
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID)
	return c.JSON(fiber.Map{"student": student})
}

// DeleteStudent removes a student, their slots and history, and the QR card.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := services.NewStudentService().Delete(id); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	services.NewQRService().Remove(id)
	middleware.LogActivity(c, "DELETE", "students", id)
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// GetStudentHistory returns one student's history for a month.
func (sc *StudentController) GetStudentHistory(c *fiber.Ctx) error {
	month := c.Query("month", services.CurrentMonth())
	if !services.ValidMonth(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month format, expected YYYY-MM",
		})
	}

	student, records, err := services.NewReportService().MonthHistory(c.Params("id"), month)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch history",
		})
	}

	summary := services.ComputeMonthlySummary(records, student.PaymentAmount)
	return c.JSON(fiber.Map{
		"student": student,
		"month":   month,
		"summary": summary,
		"records": records,
	})
}
