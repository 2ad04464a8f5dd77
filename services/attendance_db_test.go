package services

import (
	"errors"
	"testing"
	"time"

	"tutortrack_go/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The production schema uses MySQL enum columns, so the test tables are created
// with plain DDL instead of AutoMigrate.
var testSchema = []string{
	`CREATE TABLE students (
		id TEXT PRIMARY KEY,
		name TEXT,
		parent_phone TEXT,
		payment_amount REAL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE class_slots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		student_id TEXT,
		weekday TEXT,
		start_time TEXT,
		end_time TEXT
	)`,
	`CREATE TABLE history_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		student_id TEXT,
		class_slot_id INTEGER,
		exam_grade TEXT,
		homework_status TEXT,
		status TEXT,
		paid TEXT,
		date TEXT
	)`,
	`CREATE UNIQUE INDEX idx_student_date ON history_records(student_id, date)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}
	return db
}

func addStudent(t *testing.T, db *gorm.DB, id, name string, days ...string) {
	t.Helper()
	student := models.Student{ID: id, Name: name, ParentPhone: "0100 123 4567", PaymentAmount: 100}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student %s: %v", id, err)
	}
	for _, day := range days {
		slot := models.ClassSlot{StudentID: id, Weekday: day, StartTime: "09:00", EndTime: "10:00"}
		if err := db.Create(&slot).Error; err != nil {
			t.Fatalf("failed to create slot for %s: %v", id, err)
		}
	}
}

func historyFor(t *testing.T, db *gorm.DB, studentID string) []models.HistoryRecord {
	t.Helper()
	var records []models.HistoryRecord
	if err := db.Where("student_id = ?", studentID).Order("date ASC").Find(&records).Error; err != nil {
		t.Fatalf("failed to load history for %s: %v", studentID, err)
	}
	return records
}

// 2026-09-01 is a Tuesday.
var tuesday = time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

func TestSweepAbsencesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := &AttendanceService{db: db}

	addStudent(t, db, "s1", "Sara", "tuesday")
	addStudent(t, db, "s2", "Omar", "wednesday")

	marked, err := svc.SweepAbsences(tuesday)
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	if marked != 1 {
		t.Fatalf("first sweep marked %d, want 1", marked)
	}

	// Running the sweep again on the same day must insert nothing.
	marked, err = svc.SweepAbsences(tuesday)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if marked != 0 {
		t.Errorf("second sweep marked %d, want 0", marked)
	}

	records := historyFor(t, db, "s1")
	if len(records) != 1 {
		t.Fatalf("s1 has %d records, want exactly 1", len(records))
	}
	rec := records[0]
	if rec.Status != models.StatusAbsent || rec.Paid != models.PaidNo ||
		rec.ExamGrade != models.Sentinel || rec.HomeworkStatus != models.Sentinel {
		t.Errorf("sweep record = %+v", rec)
	}

	// The Wednesday-only student is untouched by a Tuesday sweep.
	if got := historyFor(t, db, "s2"); len(got) != 0 {
		t.Errorf("s2 has %d records, want 0", len(got))
	}
}

func TestSweepNeverOverwritesPresent(t *testing.T) {
	db := newTestDB(t)
	svc := &AttendanceService{db: db}
	addStudent(t, db, "s1", "Sara", "tuesday")

	result, err := svc.RecordAttendance("s1", tuesday)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Outcome != OutcomeMarkedPresent {
		t.Fatalf("scan outcome = %v, want %v", result.Outcome, OutcomeMarkedPresent)
	}

	marked, err := svc.SweepAbsences(tuesday)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if marked != 0 {
		t.Errorf("sweep marked %d students with a present record, want 0", marked)
	}

	records := historyFor(t, db, "s1")
	if len(records) != 1 {
		t.Fatalf("s1 has %d records, want 1", len(records))
	}
	if records[0].Status != models.StatusPresent || records[0].Paid != models.PaidYes {
		t.Errorf("present record was mutated by the sweep: %+v", records[0])
	}
}

func TestScanUpgradesSweptAbsence(t *testing.T) {
	db := newTestDB(t)
	svc := &AttendanceService{db: db}
	addStudent(t, db, "s1", "Sara", "tuesday")

	if _, err := svc.SweepAbsences(tuesday); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	result, err := svc.RecordAttendance("s1", tuesday)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Outcome != OutcomeUpgraded {
		t.Fatalf("scan outcome = %v, want %v", result.Outcome, OutcomeUpgraded)
	}
	if result.Record.Status != models.StatusPresent || result.Record.Paid != models.PaidYes {
		t.Errorf("upgraded record = %+v", result.Record)
	}

	// A second scan on the same day is a no-op.
	result, err = svc.RecordAttendance("s1", tuesday)
	if err != nil {
		t.Fatalf("re-scan failed: %v", err)
	}
	if result.Outcome != OutcomeAlreadyPresent {
		t.Errorf("re-scan outcome = %v, want %v", result.Outcome, OutcomeAlreadyPresent)
	}
}

func TestScanOnNonClassDayTouchesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := &AttendanceService{db: db}
	addStudent(t, db, "s1", "Sara", "tuesday")

	wednesday := tuesday.AddDate(0, 0, 1)
	result, err := svc.RecordAttendance("s1", wednesday)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Outcome != OutcomeNotScheduled {
		t.Errorf("scan outcome = %v, want %v", result.Outcome, OutcomeNotScheduled)
	}
	if got := historyFor(t, db, "s1"); len(got) != 0 {
		t.Errorf("non-class-day scan left %d records, want 0", len(got))
	}
}

func TestStrictGradeRefusesNonClassDay(t *testing.T) {
	db := newTestDB(t)
	svc := &AttendanceService{db: db}
	addStudent(t, db, "s1", "Sara", "tuesday")

	wednesday := tuesday.AddDate(0, 0, 1)
	_, err := svc.RecordGrade("s1", wednesday, "8", models.HomeworkDone, GradeModeStrict)
	if !errors.Is(err, ErrNotScheduledToday) {
		t.Fatalf("strict grade error = %v, want ErrNotScheduledToday", err)
	}

	// The bulk path writes regardless of schedule.
	result, err := svc.RecordGrade("s1", wednesday, "8", models.HomeworkDone, GradeModeUpsert)
	if err != nil {
		t.Fatalf("upsert grade failed: %v", err)
	}
	if result.Record.Status != models.StatusPresent || result.Record.ExamGrade != "8" {
		t.Errorf("upsert record = %+v", result.Record)
	}
}

func TestDeleteStudentFreesHistoryDates(t *testing.T) {
	db := newTestDB(t)
	attendance := &AttendanceService{db: db}
	students := &StudentService{db: db}

	addStudent(t, db, "s1", "Sara", "tuesday")
	if _, err := attendance.RecordAttendance("s1", tuesday); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if err := students.Delete("s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// The ID can be reissued and scanned on the same date: the unique
	// (student_id, date) index must not be haunted by rows of the old student.
	addStudent(t, db, "s1", "Sara II", "tuesday")
	result, err := attendance.RecordAttendance("s1", tuesday)
	if err != nil {
		t.Fatalf("re-scan after reissue failed: %v", err)
	}
	if result.Outcome != OutcomeMarkedPresent {
		t.Errorf("re-scan outcome = %v, want %v", result.Outcome, OutcomeMarkedPresent)
	}

	var total int64
	if err := db.Unscoped().Model(&models.HistoryRecord{}).
		Where("student_id = ?", "s1").Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 1 {
		t.Errorf("history rows for reissued ID = %d, want 1", total)
	}
}

func TestDeleteStudentMissing(t *testing.T) {
	db := newTestDB(t)
	students := &StudentService{db: db}
	if err := students.Delete("ghost"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("delete missing student error = %v, want ErrStudentNotFound", err)
	}
}
