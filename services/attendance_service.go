package services

import (
	"errors"
	"time"

	"tutortrack_go/database"
	"tutortrack_go/models"

	"gorm.io/gorm"
)

// Outcome names the state-machine branch that fired, for caller-side messaging.
type Outcome string

const (
	OutcomeNotScheduled   Outcome = "not_scheduled_today"
	OutcomeMarkedPresent  Outcome = "marked_present"
	OutcomeUpgraded       Outcome = "upgraded_to_present"
	OutcomeAlreadyPresent Outcome = "already_present"
)

// GradeMode selects between the two manual-entry behaviors. The bulk-entry path
// always writes; the single-student page refuses on non-class days. Both are kept
// distinct on purpose.
type GradeMode int

const (
	GradeModeUpsert GradeMode = iota
	GradeModeStrict
)

// AttendanceResult reports which branch fired and the record it left behind.
// Record is nil for OutcomeNotScheduled.
type AttendanceResult struct {
	Outcome Outcome               `json:"outcome"`
	Record  *models.HistoryRecord `json:"record,omitempty"`
}

// AttendanceService owns the scan/visit state machine and the daily absence sweep.
type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{db: database.DB}
}

// decideScan is the transition table for a visit on a given day. Scheduling is
// weekday-only; time of day never matters. A present record is terminal for the
// day, so a second scan is a no-op.
func decideScan(existing *models.HistoryRecord, scheduled bool) Outcome {
	if !scheduled {
		return OutcomeNotScheduled
	}
	if existing == nil {
		return OutcomeMarkedPresent
	}
	if existing.Status == models.StatusAbsent {
		return OutcomeUpgraded
	}
	return OutcomeAlreadyPresent
}

// firstSlotForWeekday resolves the slot a new record links to. Students may hold
// several slots on the same weekday; the lowest slot ID wins so linkage stays
// deterministic.
func firstSlotForWeekday(tx *gorm.DB, studentID, weekday string) (*models.ClassSlot, error) {
	var slot models.ClassSlot
	err := tx.Where("student_id = ? AND weekday = ?", studentID, weekday).
		Order("id ASC").First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// RecordAttendance converts a scan/visit into today's canonical history record.
// On a scheduled weekday it creates a present/paid record, upgrades an absent one,
// or no-ops if the student already scanned. On any other day nothing is touched
// and the caller gets OutcomeNotScheduled.
func (s *AttendanceService) RecordAttendance(studentID string, at time.Time) (*AttendanceResult, error) {
	var student models.Student
	if err := s.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	date := at.Format(models.DateLayout)
	weekday := models.WeekdayKey(at)

	var result *AttendanceResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot, err := firstSlotForWeekday(tx, studentID, weekday)
		if err != nil {
			return err
		}

		var existing *models.HistoryRecord
		var rec models.HistoryRecord
		err = tx.Where("student_id = ? AND date = ?", studentID, date).First(&rec).Error
		switch {
		case err == nil:
			existing = &rec
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = nil
		default:
			return err
		}

		switch decideScan(existing, slot != nil) {
		case OutcomeNotScheduled:
			result = &AttendanceResult{Outcome: OutcomeNotScheduled}

		case OutcomeMarkedPresent:
			created := models.HistoryRecord{
				StudentID:      studentID,
				ClassSlotID:    &slot.ID,
				ExamGrade:      models.Sentinel,
				HomeworkStatus: models.Sentinel,
				Status:         models.StatusPresent,
				Paid:           models.PaidYes,
				Date:           date,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			result = &AttendanceResult{Outcome: OutcomeMarkedPresent, Record: &created}

		case OutcomeUpgraded:
			existing.Status = models.StatusPresent
			existing.Paid = models.PaidYes
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			result = &AttendanceResult{Outcome: OutcomeUpgraded, Record: existing}

		case OutcomeAlreadyPresent:
			result = &AttendanceResult{Outcome: OutcomeAlreadyPresent, Record: existing}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SweepAbsences inserts an absent/unpaid record for every student scheduled on
// today's weekday who has no record yet. Existence is re-checked inside the
// transaction immediately before each insert, so the sweep is safe to run any
// number of times and never overwrites a record of any status.
func (s *AttendanceService) SweepAbsences(today time.Time) (int, error) {
	date := today.Format(models.DateLayout)
	weekday := models.WeekdayKey(today)

	var slots []models.ClassSlot
	if err := s.db.Where("weekday = ?", weekday).Order("student_id ASC, id ASC").Find(&slots).Error; err != nil {
		return 0, err
	}

	marked := 0
	for _, slot := range slots {
		slot := slot
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.HistoryRecord{}).
				Where("student_id = ? AND date = ?", slot.StudentID, date).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			rec := models.HistoryRecord{
				StudentID:      slot.StudentID,
				ClassSlotID:    &slot.ID,
				ExamGrade:      models.Sentinel,
				HomeworkStatus: models.Sentinel,
				Status:         models.StatusAbsent,
				Paid:           models.PaidNo,
				Date:           date,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			marked++
			return nil
		})
		if err != nil {
			return marked, err
		}
	}
	return marked, nil
}

// RecordGrade writes grade/homework for one (student, day) and forces the record
// present. Empty inputs collapse to the sentinel. In strict mode the write is
// refused outright on a non-class day; in upsert mode it always goes through.
// Strict updates also mark the session paid (the single-student page behaves like
// a scan); bulk updates leave the paid flag as it was.
func (s *AttendanceService) RecordGrade(studentID string, at time.Time, grade, homework string, mode GradeMode) (*AttendanceResult, error) {
	var student models.Student
	if err := s.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if grade == "" {
		grade = models.Sentinel
	}
	if homework == "" {
		homework = models.Sentinel
	}

	date := at.Format(models.DateLayout)
	weekday := models.WeekdayKey(at)

	var result *AttendanceResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot, err := firstSlotForWeekday(tx, studentID, weekday)
		if err != nil {
			return err
		}
		if mode == GradeModeStrict && slot == nil {
			return ErrNotScheduledToday
		}

		var rec models.HistoryRecord
		err = tx.Where("student_id = ? AND date = ?", studentID, date).First(&rec).Error
		switch {
		case err == nil:
			rec.ExamGrade = grade
			rec.HomeworkStatus = homework
			rec.Status = models.StatusPresent
			if mode == GradeModeStrict {
				rec.Paid = models.PaidYes
			}
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
			result = &AttendanceResult{Outcome: OutcomeUpgraded, Record: &rec}

		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.HistoryRecord{
				StudentID:      studentID,
				ExamGrade:      grade,
				HomeworkStatus: homework,
				Status:         models.StatusPresent,
				Paid:           models.PaidYes,
				Date:           date,
			}
			if slot != nil {
				created.ClassSlotID = &slot.ID
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			result = &AttendanceResult{Outcome: OutcomeMarkedPresent, Record: &created}

		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
