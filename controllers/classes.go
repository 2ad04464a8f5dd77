package controllers

import (
	"strconv"
	"strings"

	"tutortrack_go/database"
	"tutortrack_go/middleware"
	"tutortrack_go/models"

	"github.com/gofiber/fiber/v2"
)

// ClassSlotController manages the weekly slots. Slots are added and removed
// whole, never edited, so history linkage stays stable.
type ClassSlotController struct{}

type AddSlotRequest struct {
	Weekday   string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GetSlots lists one student's class slots.
func (cc *ClassSlotController) GetSlots(c *fiber.Ctx) error {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var slots []models.ClassSlot
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("id ASC").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch class slots",
		})
	}
	return c.JSON(fiber.Map{"slots": slots})
}

// AddSlot appends a weekly slot for a student.
func (cc *ClassSlotController) AddSlot(c *fiber.Ctx) error {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var req AddSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	day := strings.ToLower(strings.TrimSpace(req.Weekday))
	if !models.IsValidWeekday(day) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown weekday",
		})
	}
	if req.StartTime == "" {
		req.StartTime = "09:00"
	}
	if req.EndTime == "" {
		req.EndTime = "10:00"
	}

	slot := models.ClassSlot{
		StudentID: student.ID,
		Weekday:   day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class slot",
		})
	}

	middleware.LogActivity(c, "CREATE", "class_slots", student.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slot": slot})
}

// DeleteSlot removes one slot. History records keep their slot link as a
// dangling pointer, matching how past sessions are immutable.
func (cc *ClassSlotController) DeleteSlot(c *fiber.Ctx) error {
	slotID, err := strconv.ParseUint(c.Params("slot_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot ID",
		})
	}

	var slot models.ClassSlot
	if err := database.DB.Where("id = ? AND student_id = ?", uint(slotID), c.Params("id")).
		First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class slot not found",
		})
	}

	if err := database.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete class slot",
		})
	}

	middleware.LogActivity(c, "DELETE", "class_slots", c.Params("id"))
	return c.JSON(fiber.Map{"message": "Class slot deleted successfully"})
}
