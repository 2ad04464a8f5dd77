package routes

import (
	"tutortrack_go/config"
	"tutortrack_go/controllers"
	"tutortrack_go/middleware"
	"tutortrack_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	studentController := &controllers.StudentController{}
	classSlotController := &controllers.ClassSlotController{}
	attendanceController := controllers.NewAttendanceController(wsHub)
	reportController := controllers.NewReportController()
	messageController := controllers.NewMessageController()
	exportController := controllers.NewExportController()
	qrController := controllers.NewQRController()
	healthController := &controllers.HealthController{}
	wsController := controllers.NewWebSocketController(wsHub)

	// Health (no auth)
	app.Get("/health", healthController.Health)

	// Public scan endpoint: this is what the printed QR codes resolve to, so it
	// takes no auth. The student ID alone carries no sensitive data.
	app.Get("/scan/:id", attendanceController.Scan)

	// WebSocket upgrade for the live scan feed; JWT comes in as ?token=
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Staff account management (admin only)
	users := protected.Group("/users", middleware.RequireAdmin())
	users.Post("/", authController.Register)

	// Student management
	students := protected.Group("/students")
	students.Get("/", middleware.RequireCapability(middleware.CapView), studentController.GetStudents)
	students.Get("/:id", middleware.RequireCapability(middleware.CapView), studentController.GetStudent)
	students.Post("/", middleware.RequireAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)
	students.Get("/:id/history", middleware.RequireCapability(middleware.CapView), studentController.GetStudentHistory)

	// Class slot management
	students.Get("/:id/slots", middleware.RequireCapability(middleware.CapView), classSlotController.GetSlots)
	students.Post("/:id/slots", middleware.RequireAdmin(), classSlotController.AddSlot)
	students.Delete("/:id/slots/:slot_id", middleware.RequireAdmin(), classSlotController.DeleteSlot)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Post("/scan/:id", middleware.RequireCapability(middleware.CapScan), attendanceController.Scan)
	attendance.Post("/grades", middleware.RequireCapability(middleware.CapBulkGrades), attendanceController.BulkGrades)
	attendance.Post("/sweep", middleware.RequireAdmin(), attendanceController.Sweep)
	students.Post("/:id/records", middleware.RequireCapability(middleware.CapAddRecord), attendanceController.RecordForStudent)

	// Reports
	reports := protected.Group("/reports")
	reports.Get("/daily", middleware.RequireCapability(middleware.CapDailyReport), reportController.Daily)
	reports.Get("/monthly", middleware.RequireAdmin(), reportController.Monthly)

	// Parent messaging (WhatsApp deep links)
	messages := protected.Group("/messages")
	messages.Get("/absentees", middleware.RequireCapability(middleware.CapDailyReport), messageController.Absentees)
	messages.Get("/students/:id/absence", middleware.RequireCapability(middleware.CapView), messageController.Absence)
	messages.Get("/students/:id/present", middleware.RequireCapability(middleware.CapView), messageController.Present)
	messages.Get("/students/:id/monthly", middleware.RequireAdmin(), messageController.Monthly)

	// Exports
	exports := protected.Group("/exports")
	exports.Get("/daily-summary", middleware.RequireCapability(middleware.CapDailyReport), exportController.DailySummary)
	exports.Get("/students/:id/monthly", middleware.RequireAdmin(), exportController.MonthlyReport)
	exports.Get("/monthly-archive", middleware.RequireAdmin(), exportController.MonthlyReportsZip)
	exports.Get("/roster", middleware.RequireAdmin(), exportController.ExportRoster)
	exports.Post("/roster", middleware.RequireAdmin(), exportController.ImportRoster)

	// QR codes
	qr := protected.Group("/qr")
	qr.Post("/students/:id", middleware.RequireAdmin(), qrController.Generate)
	qr.Post("/all", middleware.RequireAdmin(), qrController.GenerateAll)

	// WebSocket stats (admin only)
	protected.Get("/ws/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)
}

// SetupStaticRoutes serves the generated QR code images.
func SetupStaticRoutes(app *fiber.App) {
	app.Static("/qr_codes", config.AppConfig.QRDir)
}
