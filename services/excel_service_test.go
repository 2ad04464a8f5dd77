package services

import "testing"

func TestRosterColumnIndex(t *testing.T) {
	idx := rosterColumnIndex([]string{"ID", " Student_Name ", "parent_number", "payment_amount", "Day_Of_Week"})

	for key, want := range map[string]int{
		"id":             0,
		"student_name":   1,
		"parent_number":  2,
		"payment_amount": 3,
		"day_of_week":    4,
	} {
		if got, ok := idx[key]; !ok || got != want {
			t.Errorf("rosterColumnIndex()[%q] = %d (present=%v), want %d", key, got, ok, want)
		}
	}
}

func TestCell(t *testing.T) {
	idx := map[string]int{"id": 0, "day_of_week": 4}
	row := []string{"101", "Sara"}

	if got := cell(row, idx, "id"); got != "101" {
		t.Errorf("cell(id) = %q, want %q", got, "101")
	}
	// Excel rows are ragged; a column past the row end reads as empty.
	if got := cell(row, idx, "day_of_week"); got != "" {
		t.Errorf("cell(day_of_week) = %q, want empty", got)
	}
	if got := cell(row, idx, "unknown"); got != "" {
		t.Errorf("cell(unknown) = %q, want empty", got)
	}
}
