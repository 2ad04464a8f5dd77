package services

import (
	"fmt"
	"strconv"
	"strings"

	"tutortrack_go/database"
	"tutortrack_go/models"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column order is a contract with the legacy roster spreadsheets; keep verbatim.
var rosterHeader = []string{"id", "student_name", "parent_number", "payment_amount", "day_of_week"}

// RosterImportStats summarizes one roster import run.
type RosterImportStats struct {
	StudentsUpserted int      `json:"students_upserted"`
	SlotsAdded       int      `json:"slots_added"`
	QRGenerated      int      `json:"qr_generated"`
	SkippedRows      []string `json:"skipped_rows,omitempty"`
}

// RosterService moves the student roster between the database and xlsx files.
type RosterService struct {
	db *gorm.DB
	qr *QRService
}

func NewRosterService() *RosterService {
	return &RosterService{db: database.DB, qr: NewQRService()}
}

// ImportRoster loads students and their weekly slots from an xlsx roster.
// Students are upserted by ID; each non-empty day_of_week cell appends a slot
// with the default class time, matching how the legacy sheets were filled in.
func (rs *RosterService) ImportRoster(path string) (*RosterImportStats, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("roster has no data rows")
	}

	colIndex := rosterColumnIndex(rows[0])
	for _, key := range []string{"id", "student_name"} {
		if _, ok := colIndex[key]; !ok {
			return nil, fmt.Errorf("missing column: %s", key)
		}
	}

	stats := &RosterImportStats{}
	err = rs.db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < len(rows); i++ {
			raw := rows[i]
			id := strings.TrimSpace(cell(raw, colIndex, "id"))
			if id == "" {
				continue
			}

			amount, err := strconv.ParseFloat(strings.TrimSpace(cell(raw, colIndex, "payment_amount")), 64)
			if err != nil {
				amount = 0
			}
			student := models.Student{
				ID:            id,
				Name:          strings.TrimSpace(cell(raw, colIndex, "student_name")),
				ParentPhone:   strings.TrimSpace(cell(raw, colIndex, "parent_number")),
				PaymentAmount: amount,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&student).Error; err != nil {
				return err
			}
			stats.StudentsUpserted++

			day := strings.ToLower(strings.TrimSpace(cell(raw, colIndex, "day_of_week")))
			if day == "" {
				continue
			}
			if !models.IsValidWeekday(day) {
				stats.SkippedRows = append(stats.SkippedRows, fmt.Sprintf("row %d: unknown weekday %q", i+1, day))
				continue
			}
			slot := models.ClassSlot{
				StudentID: id,
				Weekday:   day,
				StartTime: "09:00",
				EndTime:   "10:00",
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
			stats.SlotsAdded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// QR generation is best-effort; a render failure must not fail the import.
	var ids []string
	if err := rs.db.Model(&models.Student{}).Order("id ASC").Pluck("id", &ids).Error; err == nil {
		for _, id := range ids {
			if _, err := rs.qr.Generate(id); err != nil {
				logrus.WithError(err).WithField("student_id", id).Warn("QR generation failed during import")
				continue
			}
			stats.QRGenerated++
		}
	}
	return stats, nil
}

// ExportRoster writes the current roster back out in the legacy column order,
// one row per (student, slot), students without slots on a single row.
func (rs *RosterService) ExportRoster() (*excelize.File, error) {
	var students []models.Student
	if err := rs.db.Preload("Slots", func(db *gorm.DB) *gorm.DB {
		return db.Order("class_slots.id ASC")
	}).Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, name := range rosterHeader {
		cellRef, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cellRef, name)
	}

	rowNum := 2
	writeRow := func(st models.Student, day string) {
		values := []interface{}{st.ID, st.Name, st.ParentPhone, st.PaymentAmount, day}
		for col, v := range values {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cellRef, v)
		}
		rowNum++
	}
	for _, st := range students {
		if len(st.Slots) == 0 {
			writeRow(st, "")
			continue
		}
		for _, slot := range st.Slots {
			writeRow(st, slot.Weekday)
		}
	}
	return f, nil
}

// AppendToRoster adds one student's rows to the roster file on disk, creating it
// with a header when missing. Keeps the spreadsheet in step with admin adds.
func (rs *RosterService) AppendToRoster(path string, student *models.Student, days []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		f = excelize.NewFile()
		sheet := f.GetSheetName(0)
		for col, name := range rosterHeader {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cellRef, name)
		}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	next := len(rows) + 1

	if len(days) == 0 {
		days = []string{""}
	}
	for _, day := range days {
		values := []interface{}{student.ID, student.Name, student.ParentPhone, student.PaymentAmount, day}
		for col, v := range values {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, next)
			f.SetCellValue(sheet, cellRef, v)
		}
		next++
	}
	return f.SaveAs(path)
}

func rosterColumnIndex(header []string) map[string]int {
	m := map[string]int{}
	for i, h := range header {
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return m
}

func cell(row []string, colIndex map[string]int, key string) string {
	idx, ok := colIndex[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
