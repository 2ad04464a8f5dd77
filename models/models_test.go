package models

import (
	"testing"
	"time"
)

func TestWeekdayKey(t *testing.T) {
	// 2026-08-30 is a Sunday.
	d := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if got := WeekdayKey(d); got != "sunday" {
		t.Errorf("WeekdayKey() = %q, want %q", got, "sunday")
	}
	if got := WeekdayKey(d.AddDate(0, 0, 1)); got != "monday" {
		t.Errorf("WeekdayKey() = %q, want %q", got, "monday")
	}
}

func TestIsValidWeekday(t *testing.T) {
	for _, day := range Weekdays {
		if !IsValidWeekday(day) {
			t.Errorf("IsValidWeekday(%q) = false", day)
		}
	}
	for _, day := range []string{"Monday", "mon", "", "someday"} {
		if IsValidWeekday(day) {
			t.Errorf("IsValidWeekday(%q) = true", day)
		}
	}
}

func TestHasCapability(t *testing.T) {
	cases := []struct {
		name         string
		capabilities string
		check        string
		want         bool
	}{
		{"admin wildcard", "all", "scan", true},
		{"listed capability", "view, scan,daily_report", "scan", true},
		{"missing capability", "view,scan", "bulk_grades", false},
		{"empty list", "", "view", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Capabilities: tc.capabilities}
			if got := u.HasCapability(tc.check); got != tc.want {
				t.Errorf("HasCapability(%q) = %v, want %v", tc.check, got, tc.want)
			}
		})
	}
}
