package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"tutortrack_go/config"
	"tutortrack_go/database"
	"tutortrack_go/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ParentMessage is a composed message plus the deep link that opens it in
// WhatsApp web with the body prefilled.
type ParentMessage struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Phone       string `json:"phone"`
	Kind        string `json:"kind"`
	Body        string `json:"body"`
	Link        string `json:"link"`
}

const (
	MessageKindAbsence = "absence"
	MessageKindPresent = "present"
	MessageKindMonthly = "monthly"
)

// MessagingService renders parent notices and builds WhatsApp deep links.
// Every link handed out leaves a Notification audit row.
type MessagingService struct {
	db      *gorm.DB
	reports *ReportService
}

func NewMessagingService() *MessagingService {
	return &MessagingService{db: database.DB, reports: NewReportService()}
}

// NormalizePhone strips everything but digits and prepends the default country
// code when no international prefix survives the strip. An empty result means
// the contact is unusable.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrInvalidContact
	}
	return defaultCountryCode + digits, nil
}

// WhatsAppLink builds the web.whatsapp.com send URL for a normalized phone.
func WhatsAppLink(phone, body string) string {
	q := url.Values{}
	q.Set("phone", phone)
	q.Set("text", body)
	return "https://web.whatsapp.com/send?" + q.Encode()
}

// BuildAbsenceBody renders the absence notice for one student and date.
func BuildAbsenceBody(studentName, date string) string {
	return strings.TrimSpace(fmt.Sprintf(`Absence notice
Dear parent,
%s did not attend the class on %s.

Please contact the administration about the reason for the absence.

Best regards,
The administration`, studentName, date))
}

// BuildPresentBody renders the present-day report. Grade and homework wording
// depends on whether anything was recorded for the day.
func BuildPresentBody(studentName, date, examGrade, homeworkStatus string) string {
	gradeLine := "- No exam grade was recorded today"
	if examGrade != models.Sentinel && examGrade != "" {
		gradeLine = "- Exam grade: " + examGrade
	}

	var homeworkLine string
	switch homeworkStatus {
	case models.HomeworkDone:
		homeworkLine = "- Homework: completed"
	case models.HomeworkNotDone:
		homeworkLine = "- Homework: not completed"
	default:
		homeworkLine = "- Homework: none assigned today"
	}

	return strings.TrimSpace(fmt.Sprintf(`Daily class report
Dear parent,

%s attended the class on %s.

Today's details:
- Status: present
%s
%s

Thank you for your continued support.

Best regards,
The administration`, studentName, date, gradeLine, homeworkLine))
}

// BuildMonthlyBody renders the detailed monthly summary with one line per session.
func BuildMonthlyBody(student *models.Student, month string, summary MonthlySummary, records []models.HistoryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly report for %s\n", student.Name)
	fmt.Fprintf(&b, "Month: %s\n\n", month)

	b.WriteString("Overview:\n")
	fmt.Fprintf(&b, "- Total classes: %d\n", summary.TotalClasses)
	fmt.Fprintf(&b, "- Attended: %d\n", summary.PresentCount)
	fmt.Fprintf(&b, "- Missed: %d\n", summary.AbsentCount)
	fmt.Fprintf(&b, "- Attendance rate: %.1f%%\n\n", summary.AttendanceRate)

	b.WriteString("Payments:\n")
	fmt.Fprintf(&b, "- Amount paid: %s\n", formatMoney(summary.PaidAmount))
	fmt.Fprintf(&b, "- Per-session fee: %s\n\n", formatMoney(student.PaymentAmount))

	b.WriteString("Academics:\n")
	fmt.Fprintf(&b, "- Average grade: %s\n", summary.AverageGradeLabel())
	fmt.Fprintf(&b, "- Homework completed: %d\n", summary.HomeworkDone)
	fmt.Fprintf(&b, "- Homework missed: %d\n\n", summary.HomeworkNotDone)

	b.WriteString("Sessions:\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "%s: %s, exam %s, homework %s, paid %s\n",
			rec.Date, rec.Status, rec.ExamGrade, rec.HomeworkStatus, rec.Paid)
	}

	b.WriteString("\nBest regards, the administration")
	return b.String()
}

// compose normalizes the phone, wraps the body in a deep link and records the
// notification. InvalidContact is an expected outcome, not a crash: callers
// treat it as absent data.
func (ms *MessagingService) compose(student *models.Student, kind, body string) (*ParentMessage, error) {
	phone, err := NormalizePhone(student.ParentPhone, config.AppConfig.DefaultCountryCode)
	if err != nil {
		return nil, err
	}

	msg := &ParentMessage{
		StudentID:   student.ID,
		StudentName: student.Name,
		Phone:       phone,
		Kind:        kind,
		Body:        body,
		Link:        WhatsAppLink(phone, body),
	}

	audit := models.Notification{
		StudentID: student.ID,
		Kind:      kind,
		Phone:     phone,
		Message:   body,
		Link:      msg.Link,
	}
	if err := ms.db.Create(&audit).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record notification audit row")
	}
	return msg, nil
}

func (ms *MessagingService) findStudent(studentID string) (*models.Student, error) {
	var student models.Student
	if err := ms.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// AbsenceMessage builds the absence notice link for one student, dated today.
func (ms *MessagingService) AbsenceMessage(studentID string) (*ParentMessage, error) {
	student, err := ms.findStudent(studentID)
	if err != nil {
		return nil, err
	}
	date := time.Now().Format(models.DateLayout)
	return ms.compose(student, MessageKindAbsence, BuildAbsenceBody(student.Name, date))
}

// PresentMessage builds the present-day report link using today's record if any.
func (ms *MessagingService) PresentMessage(studentID string) (*ParentMessage, error) {
	student, err := ms.findStudent(studentID)
	if err != nil {
		return nil, err
	}

	date := time.Now().Format(models.DateLayout)
	grade, homework := models.Sentinel, models.Sentinel
	var rec models.HistoryRecord
	err = ms.db.Where("student_id = ? AND date = ?", studentID, date).First(&rec).Error
	if err == nil {
		grade, homework = rec.ExamGrade, rec.HomeworkStatus
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return ms.compose(student, MessageKindPresent, BuildPresentBody(student.Name, date, grade, homework))
}

// MonthlyMessage builds the detailed monthly summary link for one student.
func (ms *MessagingService) MonthlyMessage(studentID, month string) (*ParentMessage, error) {
	student, records, err := ms.reports.MonthHistory(studentID, month)
	if err != nil {
		return nil, err
	}
	summary := ComputeMonthlySummary(records, student.PaymentAmount)
	return ms.compose(student, MessageKindMonthly, BuildMonthlyBody(student, month, summary, records))
}

// AbsenteeMessages builds absence links for every student scheduled today whose
// record is still absent or missing. Students with unusable phones are skipped.
func (ms *MessagingService) AbsenteeMessages(today time.Time) ([]ParentMessage, error) {
	date := today.Format(models.DateLayout)
	weekday := models.WeekdayKey(today)

	var students []models.Student
	err := ms.db.
		Joins("JOIN class_slots ON class_slots.student_id = students.id AND class_slots.deleted_at IS NULL").
		Joins("LEFT JOIN history_records ON history_records.student_id = students.id AND history_records.date = ? AND history_records.deleted_at IS NULL", date).
		Where("class_slots.weekday = ?", weekday).
		Where("history_records.status IS NULL OR history_records.status = ?", models.StatusAbsent).
		Distinct("students.*").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ParentMessage, 0, len(students))
	for i := range students {
		st := students[i]
		msg, err := ms.compose(&st, MessageKindAbsence, BuildAbsenceBody(st.Name, date))
		if errors.Is(err, ErrInvalidContact) {
			logrus.WithField("student_id", st.ID).Warn("Skipping absentee with unusable parent number")
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}
