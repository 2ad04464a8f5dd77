package controllers

import (
	"tutortrack_go/database"
	"tutortrack_go/middleware"
	"tutortrack_go/models"
	"tutortrack_go/services"

	"github.com/gofiber/fiber/v2"
)

// QRController regenerates the printable scan codes.
type QRController struct {
	qr *services.QRService
}

func NewQRController() *QRController {
	return &QRController{qr: services.NewQRService()}
}

// Generate renders the QR card for one student.
func (qc *QRController) Generate(c *fiber.Ctx) error {
	id := c.Params("id")
	var student models.Student
	if err := database.DB.First(&student, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	path, err := qc.qr.Generate(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate QR code",
		})
	}

	middleware.LogActivity(c, "CREATE", "qr_codes", id)
	return c.JSON(fiber.Map{
		"path": path,
		"url":  services.ScanURL(id),
	})
}

// GenerateAll renders QR cards for every student.
func (qc *QRController) GenerateAll(c *fiber.Ctx) error {
	generated, err := qc.qr.GenerateAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate QR codes",
		})
	}

	middleware.LogActivity(c, "CREATE", "qr_codes", "all")
	return c.JSON(fiber.Map{"generated": generated})
}
