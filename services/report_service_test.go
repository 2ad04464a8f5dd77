package services

import (
	"testing"

	"tutortrack_go/models"
)

func rec(status, paid, grade, homework string) models.HistoryRecord {
	return models.HistoryRecord{
		Status:         status,
		Paid:           paid,
		ExamGrade:      grade,
		HomeworkStatus: homework,
	}
}

func TestComputeMonthlySummary(t *testing.T) {
	cases := []struct {
		name    string
		records []models.HistoryRecord
		amount  float64
		want    MonthlySummary
	}{
		{
			name:    "empty month has zero rate, not a division by zero",
			records: nil,
			amount:  100,
			want:    MonthlySummary{},
		},
		{
			name: "unparseable grades are excluded from the average",
			records: []models.HistoryRecord{
				rec(models.StatusPresent, models.PaidYes, models.Sentinel, models.Sentinel),
				rec(models.StatusPresent, models.PaidYes, "7.5", models.HomeworkDone),
				rec(models.StatusAbsent, models.PaidNo, "abc", models.HomeworkNotDone),
				rec(models.StatusPresent, models.PaidYes, "9", models.HomeworkDone),
			},
			amount: 100,
			want: MonthlySummary{
				TotalClasses:    4,
				PresentCount:    3,
				AbsentCount:     1,
				AttendanceRate:  75,
				PaidSessions:    3,
				PaidAmount:      300,
				AverageGrade:    8.25,
				GradedCount:     2,
				HomeworkDone:    2,
				HomeworkNotDone: 1,
			},
		},
		{
			name: "all absent",
			records: []models.HistoryRecord{
				rec(models.StatusAbsent, models.PaidNo, models.Sentinel, models.Sentinel),
				rec(models.StatusAbsent, models.PaidNo, models.Sentinel, models.Sentinel),
			},
			amount: 50,
			want: MonthlySummary{
				TotalClasses: 2,
				AbsentCount:  2,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeMonthlySummary(tc.records, tc.amount)
			if got != tc.want {
				t.Errorf("ComputeMonthlySummary() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAverageGradeLabel(t *testing.T) {
	if got := (MonthlySummary{}).AverageGradeLabel(); got != "no grades" {
		t.Errorf("AverageGradeLabel() = %q, want %q", got, "no grades")
	}
	s := MonthlySummary{AverageGrade: 8.25, GradedCount: 2}
	if got := s.AverageGradeLabel(); got != "8.2" {
		t.Errorf("AverageGradeLabel() = %q, want %q", got, "8.2")
	}
}

func TestMergeDailyIsTotalOverStudents(t *testing.T) {
	students := []models.Student{
		{ID: "1", Name: "A", PaymentAmount: 100},
		{ID: "2", Name: "B", PaymentAmount: 150},
		{ID: "3", Name: "C", PaymentAmount: 200},
	}
	records := []models.HistoryRecord{
		{StudentID: "2", Status: models.StatusPresent, Paid: models.PaidYes, ExamGrade: "8", HomeworkStatus: models.HomeworkDone},
	}

	rows := MergeDaily(students, records)
	if len(rows) != len(students) {
		t.Fatalf("MergeDaily() returned %d rows, want %d", len(rows), len(students))
	}

	// Students without a record get the defaulted absent/unpaid row.
	for _, row := range rows {
		if row.ID == "2" {
			if row.Status != models.StatusPresent || row.Paid != models.PaidYes || row.ExamGrade != "8" {
				t.Errorf("recorded row = %+v", row)
			}
			continue
		}
		if row.Status != models.StatusAbsent || row.Paid != models.PaidNo ||
			row.ExamGrade != models.Sentinel || row.HomeworkStatus != models.Sentinel {
			t.Errorf("defaulted row %s = %+v", row.ID, row)
		}
	}
}

func TestClassDayList(t *testing.T) {
	cases := []struct {
		name  string
		slots []models.ClassSlot
		want  string
	}{
		{"no slots", nil, "no classes"},
		{
			"week order, duplicates collapsed",
			[]models.ClassSlot{
				{Weekday: "thursday"},
				{Weekday: "monday"},
				{Weekday: "monday"},
			},
			"monday, thursday",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classDayList(tc.slots); got != tc.want {
				t.Errorf("classDayList() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidDateAndMonth(t *testing.T) {
	if !ValidDate("2026-08-30") || ValidDate("2026-8-30") || ValidDate("30/08/2026") {
		t.Error("ValidDate accepts only YYYY-MM-DD")
	}
	if !ValidMonth("2026-08") || ValidMonth("2026-8") || ValidMonth("2026-08-30") {
		t.Error("ValidMonth accepts only YYYY-MM")
	}
}
