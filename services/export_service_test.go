package services

import (
	"strings"
	"testing"

	"tutortrack_go/models"
)

func TestReportFileName(t *testing.T) {
	cases := []struct {
		name    string
		student models.Student
		month   string
		want    string
	}{
		{"plain name", models.Student{ID: "1", Name: "Sara Ahmed"}, "2026-08", "Sara_Ahmed_2026-08.csv"},
		{"punctuation stripped", models.Student{ID: "2", Name: "O'Brien, Jr."}, "2026-08", "OBrien_Jr_2026-08.csv"},
		{"name collapses to nothing", models.Student{ID: "9", Name: "!!!"}, "2026-08", "student_9_2026-08.csv"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reportFileName(&tc.student, tc.month); got != tc.want {
				t.Errorf("reportFileName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMonthlyReportBytes(t *testing.T) {
	student := &models.Student{ID: "5", Name: "Hana"}

	t.Run("with records", func(t *testing.T) {
		records := []models.HistoryRecord{
			{Date: "2026-08-03", Status: models.StatusPresent, HomeworkStatus: models.HomeworkDone, ExamGrade: "8", Paid: models.PaidYes},
		}
		data, err := monthlyReportBytes(student, "2026-08", records)
		if err != nil {
			t.Fatalf("monthlyReportBytes() error = %v", err)
		}
		out := string(data)
		for _, want := range []string{
			"Student ID,5",
			"Student Name,Hana",
			"Month,2026-08",
			"date,status,homework_status,exam_grade,paid",
			"2026-08-03,Present,done,8,Yes",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty month gets placeholder row", func(t *testing.T) {
		data, err := monthlyReportBytes(student, "2026-08", nil)
		if err != nil {
			t.Fatalf("monthlyReportBytes() error = %v", err)
		}
		if !strings.Contains(string(data), "no data,-,-,-,-") {
			t.Errorf("missing placeholder row:\n%s", string(data))
		}
	})
}
