package services

import (
	"errors"

	"tutortrack_go/database"
	"tutortrack_go/models"

	"gorm.io/gorm"
)

// StudentService owns the destructive end of the student lifecycle. The cascade
// deletes are physical: history rows sit under the unique (student_id, date)
// index, and a soft-deleted row would keep blocking that index, so a re-issued
// student ID could never be scanned again on those dates.
type StudentService struct {
	db *gorm.DB
}

func NewStudentService() *StudentService {
	return &StudentService{db: database.DB}
}

// Delete removes a student together with their slots and history.
func (ss *StudentService) Delete(studentID string) error {
	var student models.Student
	if err := ss.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	return ss.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("student_id = ?", studentID).
			Delete(&models.ClassSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("student_id = ?", studentID).
			Delete(&models.HistoryRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&student).Error
	})
}
