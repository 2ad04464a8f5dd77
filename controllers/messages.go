package controllers

import (
	"errors"
	"time"

	"tutortrack_go/services"

	"github.com/gofiber/fiber/v2"
)

// MessageController hands out WhatsApp deep links for parent notices.
type MessageController struct {
	messaging *services.MessagingService
}

func NewMessageController() *MessageController {
	return &MessageController{messaging: services.NewMessagingService()}
}

// Absentees returns absence-notice links for every student scheduled today who
// is still absent or unrecorded.
func (mc *MessageController) Absentees(c *fiber.Ctx) error {
	messages, err := mc.messaging.AbsenteeMessages(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build absentee messages",
		})
	}
	return c.JSON(fiber.Map{
		"count":    len(messages),
		"messages": messages,
	})
}

func (mc *MessageController) respond(c *fiber.Ctx, msg *services.ParentMessage, err error) error {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	case errors.Is(err, services.ErrInvalidContact):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Student has no usable parent number",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build message",
		})
	}
	return c.JSON(fiber.Map{"message": msg})
}

// Absence builds the absence notice link for one student.
func (mc *MessageController) Absence(c *fiber.Ctx) error {
	msg, err := mc.messaging.AbsenceMessage(c.Params("id"))
	return mc.respond(c, msg, err)
}

// Present builds the present-day report link for one student.
func (mc *MessageController) Present(c *fiber.Ctx) error {
	msg, err := mc.messaging.PresentMessage(c.Params("id"))
	return mc.respond(c, msg, err)
}

// Monthly builds the detailed monthly summary link for one student.
func (mc *MessageController) Monthly(c *fiber.Ctx) error {
	month := c.Query("month", services.CurrentMonth())
	if !services.ValidMonth(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month format, expected YYYY-MM",
		})
	}
	msg, err := mc.messaging.MonthlyMessage(c.Params("id"), month)
	return mc.respond(c, msg, err)
}
