package services

import (
	"errors"
	"strings"
	"testing"

	"tutortrack_go/models"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		cc      string
		want    string
		wantErr error
	}{
		{"spaces and dashes stripped", "0100 123-4567", "+2", "+201001234567", nil},
		{"already digits", "01001234567", "+2", "+201001234567", nil},
		{"letters dropped", "phone: 055", "+2", "+2055", nil},
		{"empty input", "", "+2", "", ErrInvalidContact},
		{"no digits at all", "n/a", "+2", "", ErrInvalidContact},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw, tc.cc)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("NormalizePhone() error = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("NormalizePhone() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+201001234567", "hello parent")
	if !strings.HasPrefix(link, "https://web.whatsapp.com/send?") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "phone=%2B201001234567") {
		t.Errorf("phone not encoded in link: %s", link)
	}
	if !strings.Contains(link, "text=hello+parent") {
		t.Errorf("body not encoded in link: %s", link)
	}
}

func TestBuildPresentBodyWording(t *testing.T) {
	cases := []struct {
		name     string
		grade    string
		homework string
		contains []string
	}{
		{
			"nothing recorded",
			models.Sentinel, models.Sentinel,
			[]string{"No exam grade was recorded today", "Homework: none assigned today"},
		},
		{
			"grade and homework done",
			"8.5", models.HomeworkDone,
			[]string{"Exam grade: 8.5", "Homework: completed"},
		},
		{
			"homework missed",
			models.Sentinel, models.HomeworkNotDone,
			[]string{"Homework: not completed"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := BuildPresentBody("Sara", "2026-08-30", tc.grade, tc.homework)
			for _, want := range tc.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
		})
	}
}

func TestBuildAbsenceBody(t *testing.T) {
	body := BuildAbsenceBody("Omar", "2026-08-30")
	for _, want := range []string{"Omar", "2026-08-30", "did not attend"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildMonthlyBody(t *testing.T) {
	student := &models.Student{ID: "7", Name: "Lina", PaymentAmount: 150}
	records := []models.HistoryRecord{
		{Date: "2026-08-03", Status: models.StatusPresent, ExamGrade: "9", HomeworkStatus: models.HomeworkDone, Paid: models.PaidYes},
		{Date: "2026-08-10", Status: models.StatusAbsent, ExamGrade: models.Sentinel, HomeworkStatus: models.Sentinel, Paid: models.PaidNo},
	}
	summary := ComputeMonthlySummary(records, student.PaymentAmount)

	body := BuildMonthlyBody(student, "2026-08", summary, records)
	for _, want := range []string{
		"Monthly report for Lina",
		"Month: 2026-08",
		"Total classes: 2",
		"Attendance rate: 50.0%",
		"Amount paid: 150.00",
		"2026-08-03: Present",
		"2026-08-10: Absent",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildMonthlyBodyNoGrades(t *testing.T) {
	student := &models.Student{ID: "8", Name: "Nour", PaymentAmount: 100}
	body := BuildMonthlyBody(student, "2026-08", MonthlySummary{}, nil)
	if !strings.Contains(body, "Average grade: no grades") {
		t.Errorf("expected no-grades wording:\n%s", body)
	}
}
