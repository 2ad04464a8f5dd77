package seeders

import (
	"os"

	"tutortrack_go/config"
	"tutortrack_go/database"
	"tutortrack_go/models"
	"tutortrack_go/utils"

	"github.com/sirupsen/logrus"
)

// Seed creates the staff accounts the app needs to be usable on first boot,
// plus demo students in development. Existing rows are never touched.
func Seed() {
	seedUsers()
	if config.AppConfig.AppEnv == "development" {
		seedDemoStudents()
	}
}

func seedUsers() {
	seedUser("admin", os.Getenv("SEED_ADMIN_PASSWORD"), "admin", "all")
	seedUser("teacher", os.Getenv("SEED_TEACHER_PASSWORD"), "teacher",
		"view,scan,add_record,daily_report")
}

func seedUser(username, password, role, capabilities string) {
	if password == "" {
		if config.AppConfig.AppEnv != "development" {
			logrus.WithField("username", username).
				Warn("Seed password not set, skipping user")
			return
		}
		password = username + "123"
	}

	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash seed password")
		return
	}

	user := models.User{
		Username:     username,
		Password:     hashed,
		Role:         role,
		Capabilities: capabilities,
		Status:       "active",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		logrus.WithError(err).WithField("username", username).Error("Failed to seed user")
		return
	}
	logrus.WithField("username", username).Info("Seeded staff account")
}

func seedDemoStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		return
	}

	demo := []struct {
		student models.Student
		days    []string
	}{
		{models.Student{ID: "1001", Name: "Demo Student One", ParentPhone: "0100 123 4567", PaymentAmount: 150}, []string{"monday", "wednesday"}},
		{models.Student{ID: "1002", Name: "Demo Student Two", ParentPhone: "0111 987 6543", PaymentAmount: 200}, []string{"tuesday", "thursday"}},
	}
	for _, d := range demo {
		if err := database.DB.Create(&d.student).Error; err != nil {
			logrus.WithError(err).Error("Failed to seed demo student")
			continue
		}
		for _, day := range d.days {
			slot := models.ClassSlot{
				StudentID: d.student.ID,
				Weekday:   day,
				StartTime: "09:00",
				EndTime:   "10:00",
			}
			database.DB.Create(&slot)
		}
	}
	logrus.Info("Seeded demo students")
}
