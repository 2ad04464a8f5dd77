package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tutortrack_go/database"
	"tutortrack_go/models"

	"gorm.io/gorm"
)

// DailyRow is one student's line in the daily report. The merge is total over the
// student set: students with no record for the date get defaulted absent/unpaid
// sentinel rows.
type DailyRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"student_name"`
	ParentPhone    string  `json:"parent_number"`
	ExamGrade      string  `json:"exam_grade"`
	HomeworkStatus string  `json:"homework_status"`
	Status         string  `json:"status"`
	Paid           string  `json:"paid"`
	PaymentAmount  float64 `json:"payment_amount"`
}

// MonthlySummary aggregates one student's history rows for a month.
type MonthlySummary struct {
	TotalClasses    int     `json:"total_classes"`
	PresentCount    int     `json:"present_count"`
	AbsentCount     int     `json:"absent_count"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PaidSessions    int     `json:"paid_sessions"`
	PaidAmount      float64 `json:"paid_amount"`
	AverageGrade    float64 `json:"average_grade"`
	GradedCount     int     `json:"graded_count"`
	HomeworkDone    int     `json:"homework_done"`
	HomeworkNotDone int     `json:"homework_not_done"`
}

// AverageGradeLabel formats the grade average, or "no grades" when nothing parsed.
func (m MonthlySummary) AverageGradeLabel() string {
	if m.GradedCount == 0 {
		return "no grades"
	}
	return strconv.FormatFloat(m.AverageGrade, 'f', 1, 64)
}

// StudentMonthlyStats is one row of the admin monthly overview.
type StudentMonthlyStats struct {
	ID          string `json:"id"`
	Name        string `json:"student_name"`
	ParentPhone string `json:"parent_number"`
	ClassDays   string `json:"class_days"`
	MonthlySummary
	PaymentAmount float64 `json:"payment_amount"`
}

// MonthlyOverview totals the per-student stats for the admin dashboard.
type MonthlyOverview struct {
	Month             string  `json:"month"`
	TotalStudents     int     `json:"total_students"`
	TotalPaid         float64 `json:"total_paid"`
	TotalPresent      int     `json:"total_present"`
	OverallAttendance float64 `json:"overall_attendance"`
}

// ComputeMonthlySummary folds history rows into a summary. Grades that fail to
// parse are excluded from the average rather than failing the rollup, and an
// empty month yields a zero attendance rate, never a division by zero.
func ComputeMonthlySummary(records []models.HistoryRecord, paymentAmount float64) MonthlySummary {
	var m MonthlySummary
	m.TotalClasses = len(records)

	var gradeSum float64
	for _, rec := range records {
		switch rec.Status {
		case models.StatusPresent:
			m.PresentCount++
		case models.StatusAbsent:
			m.AbsentCount++
		}
		if rec.Paid == models.PaidYes {
			m.PaidSessions++
		}
		if rec.ExamGrade != models.Sentinel {
			if g, err := strconv.ParseFloat(strings.TrimSpace(rec.ExamGrade), 64); err == nil {
				gradeSum += g
				m.GradedCount++
			}
		}
		switch rec.HomeworkStatus {
		case models.HomeworkDone:
			m.HomeworkDone++
		case models.HomeworkNotDone:
			m.HomeworkNotDone++
		}
	}

	if m.TotalClasses > 0 {
		m.AttendanceRate = float64(m.PresentCount) / float64(m.TotalClasses) * 100
	}
	m.PaidAmount = float64(m.PaidSessions) * paymentAmount
	if m.GradedCount > 0 {
		m.AverageGrade = gradeSum / float64(m.GradedCount)
	}
	return m
}

// MergeDaily produces exactly one row per known student for the date, defaulting
// the ones without a record.
func MergeDaily(students []models.Student, records []models.HistoryRecord) []DailyRow {
	byStudent := make(map[string]*models.HistoryRecord, len(records))
	for i := range records {
		byStudent[records[i].StudentID] = &records[i]
	}

	rows := make([]DailyRow, 0, len(students))
	for _, st := range students {
		row := DailyRow{
			ID:             st.ID,
			Name:           st.Name,
			ParentPhone:    st.ParentPhone,
			ExamGrade:      models.Sentinel,
			HomeworkStatus: models.Sentinel,
			Status:         models.StatusAbsent,
			Paid:           models.PaidNo,
			PaymentAmount:  st.PaymentAmount,
		}
		if rec, ok := byStudent[st.ID]; ok {
			row.ExamGrade = rec.ExamGrade
			row.HomeworkStatus = rec.HomeworkStatus
			row.Status = rec.Status
			row.Paid = rec.Paid
		}
		rows = append(rows, row)
	}
	return rows
}

// ReportService derives daily and monthly rollups from the history ledger.
// Read-side only; it never writes.
type ReportService struct {
	db *gorm.DB
}

func NewReportService() *ReportService {
	return &ReportService{db: database.DB}
}

// DailyReport returns the merged rows for a date plus the total collected.
func (rs *ReportService) DailyReport(date string) ([]DailyRow, float64, error) {
	var students []models.Student
	if err := rs.db.Order("id ASC").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	var records []models.HistoryRecord
	if err := rs.db.Where("date = ?", date).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	rows := MergeDaily(students, records)
	var totalPaid float64
	for _, row := range rows {
		if row.Paid == models.PaidYes {
			totalPaid += row.PaymentAmount
		}
	}
	return rows, totalPaid, nil
}

// MonthHistory returns a student's history rows for a month ("2006-01"),
// ordered by date.
func (rs *ReportService) MonthHistory(studentID, month string) (*models.Student, []models.HistoryRecord, error) {
	var student models.Student
	if err := rs.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}

	var records []models.HistoryRecord
	if err := rs.db.Where("student_id = ? AND date LIKE ?", studentID, month+"-%").
		Order("date ASC").Find(&records).Error; err != nil {
		return nil, nil, err
	}
	return &student, records, nil
}

// MonthlyStats builds one overview row per student for the month.
func (rs *ReportService) MonthlyStats(month string) ([]StudentMonthlyStats, error) {
	var students []models.Student
	if err := rs.db.Preload("Slots").Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	stats := make([]StudentMonthlyStats, 0, len(students))
	for _, st := range students {
		var records []models.HistoryRecord
		if err := rs.db.Where("student_id = ? AND date LIKE ?", st.ID, month+"-%").
			Order("date ASC").Find(&records).Error; err != nil {
			return nil, err
		}

		stats = append(stats, StudentMonthlyStats{
			ID:             st.ID,
			Name:           st.Name,
			ParentPhone:    st.ParentPhone,
			ClassDays:      classDayList(st.Slots),
			MonthlySummary: ComputeMonthlySummary(records, st.PaymentAmount),
			PaymentAmount:  st.PaymentAmount,
		})
	}
	return stats, nil
}

// Overview totals MonthlyStats rows for the admin dashboard header.
func (rs *ReportService) Overview(month string) (*MonthlyOverview, []StudentMonthlyStats, error) {
	stats, err := rs.MonthlyStats(month)
	if err != nil {
		return nil, nil, err
	}

	ov := &MonthlyOverview{Month: month, TotalStudents: len(stats)}
	totalSessions := 0
	for _, s := range stats {
		ov.TotalPaid += s.PaidAmount
		ov.TotalPresent += s.PresentCount
		totalSessions += s.TotalClasses
	}
	if totalSessions > 0 {
		ov.OverallAttendance = float64(ov.TotalPresent) / float64(totalSessions) * 100
	}
	return ov, stats, nil
}

// classDayList renders a student's distinct class weekdays in week order.
func classDayList(slots []models.ClassSlot) string {
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		seen[s.Weekday] = true
	}
	days := make([]string, 0, len(seen))
	for _, d := range models.Weekdays {
		if seen[d] {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return "no classes"
	}
	return strings.Join(days, ", ")
}

// CurrentMonth returns the month key for "now".
func CurrentMonth() string {
	return time.Now().Format(models.MonthLayout)
}

// Today returns the date key for "now".
func Today() string {
	return time.Now().Format(models.DateLayout)
}

// ValidMonth checks a "YYYY-MM" key.
func ValidMonth(month string) bool {
	_, err := time.Parse(models.MonthLayout, month)
	return err == nil
}

// ValidDate checks a "YYYY-MM-DD" key.
func ValidDate(date string) bool {
	_, err := time.Parse(models.DateLayout, date)
	return err == nil
}

// formatMoney keeps money rendering consistent across reports and messages.
func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
