package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tutortrack_go/config"
	"tutortrack_go/database"
	"tutortrack_go/models"

	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// QRService renders the per-student scan codes. Each PNG encodes the public
// scan URL for the student, so any phone camera lands on the scan endpoint.
type QRService struct {
	db *gorm.DB
}

func NewQRService() *QRService {
	return &QRService{db: database.DB}
}

// ScanURL is what the printed code resolves to.
func ScanURL(studentID string) string {
	return strings.TrimRight(config.AppConfig.PublicBaseURL, "/") + "/scan/" + studentID
}

// Generate writes the QR PNG for one student and returns its path.
func (qs *QRService) Generate(studentID string) (string, error) {
	if err := os.MkdirAll(config.AppConfig.QRDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create QR directory: %v", err)
	}
	path := filepath.Join(config.AppConfig.QRDir, studentID+".png")
	if err := qrcode.WriteFile(ScanURL(studentID), qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("failed to render QR for %s: %v", studentID, err)
	}
	return path, nil
}

// GenerateAll renders codes for every student and returns how many succeeded.
func (qs *QRService) GenerateAll() (int, error) {
	var ids []string
	if err := qs.db.Model(&models.Student{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	generated := 0
	for _, id := range ids {
		if _, err := qs.Generate(id); err != nil {
			continue
		}
		generated++
	}
	return generated, nil
}

// Remove deletes a student's QR PNG, ignoring a file that is already gone.
func (qs *QRService) Remove(studentID string) {
	path := filepath.Join(config.AppConfig.QRDir, studentID+".png")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", path).Warn("Could not remove QR file")
	}
}
