package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Attendance and payment states stored on history records.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	PaidYes = "Yes"
	PaidNo  = "No"

	// Sentinel marks "not applicable / not recorded" for grades and homework.
	Sentinel = "-"

	HomeworkDone    = "done"
	HomeworkNotDone = "not_done"
)

// DateLayout is the day-granularity key used across history records.
const DateLayout = "2006-01-02"

// MonthLayout is the prefix used for month-range lookups.
const MonthLayout = "2006-01"

// Weekday values stored on class slots (lowercase English, as in the roster sheet).
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayKey returns the slot weekday key for a point in time.
func WeekdayKey(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// IsValidWeekday checks a weekday key against the known set.
func IsValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Student is the aggregate root. The ID is externally assigned (printed on the
// student's QR card), so it is a string key rather than an auto-increment.
type Student struct {
	ID            string         `json:"id" gorm:"primaryKey;size:64"`
	Name          string         `json:"student_name" gorm:"size:255;not null"`
	ParentPhone   string         `json:"parent_number" gorm:"size:50"`
	PaymentAmount float64        `json:"payment_amount" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships (cascade-deleted with the student)
	Slots   []ClassSlot     `json:"slots,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	History []HistoryRecord `json:"history,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

// ClassSlot is a recurring weekly class time for one student. Slots are created
// and deleted whole, never edited in place. Duplicates on the same weekday are
// allowed; record linkage picks the lowest slot ID deterministically.
type ClassSlot struct {
	BaseModel
	StudentID string `json:"student_id" gorm:"size:64;not null;index"`
	Weekday   string `json:"day_of_week" gorm:"size:20;not null;index;type:enum('sunday','monday','tuesday','wednesday','thursday','friday','saturday')"`
	StartTime string `json:"start_time" gorm:"size:10;not null"`
	EndTime   string `json:"end_time" gorm:"size:10;not null"`

	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// HistoryRecord is one day's outcome for a student. The composite unique index
// backs the one-record-per-(student,date) invariant so concurrent writers fail
// loudly instead of duplicating a day.
type HistoryRecord struct {
	BaseModel
	StudentID      string `json:"student_id" gorm:"size:64;not null;uniqueIndex:idx_student_date"`
	ClassSlotID    *uint  `json:"class_slot_id" gorm:"default:null"`
	ExamGrade      string `json:"exam_grade" gorm:"size:50;not null;default:'-'"`
	HomeworkStatus string `json:"homework_status" gorm:"size:20;not null;default:'-'"`
	Status         string `json:"status" gorm:"size:20;not null;type:enum('Present','Absent')"`
	Paid           string `json:"paid" gorm:"size:10;not null;type:enum('Yes','No')"`
	Date           string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_student_date"`

	Student   Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	ClassSlot *ClassSlot `json:"class_slot,omitempty" gorm:"foreignKey:ClassSlotID"`
}

// User model for staff accounts (admin, teacher)
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password     string `json:"-" gorm:"size:255;not null"`
	Role         string `json:"role" gorm:"size:50;not null;default:'teacher';type:enum('admin','teacher')"`
	Capabilities string `json:"capabilities" gorm:"size:500"` // comma-separated; "all" grants everything
	Status       string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive')"`
}

// HasCapability reports whether the user may perform the named action.
func (u *User) HasCapability(capability string) bool {
	for _, c := range strings.Split(u.Capabilities, ",") {
		c = strings.TrimSpace(c)
		if c == "all" || c == capability {
			return true
		}
	}
	return false
}

// ActivityLog model for request auditing
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID string `json:"resource_id" gorm:"size:100"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
	RequestID  string `json:"request_id" gorm:"size:64"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification keeps an audit row for every parent message link we hand out.
type Notification struct {
	BaseModel
	StudentID string `json:"student_id" gorm:"size:64;not null;index"`
	Kind      string `json:"kind" gorm:"size:50;not null;type:enum('absence','present','monthly')"`
	Phone     string `json:"phone" gorm:"size:50;not null"`
	Message   string `json:"message" gorm:"type:text;not null"`
	Link      string `json:"link" gorm:"type:text;not null"`

	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
