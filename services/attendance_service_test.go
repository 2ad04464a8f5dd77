package services

import (
	"testing"

	"tutortrack_go/models"
)

func TestDecideScan(t *testing.T) {
	present := &models.HistoryRecord{Status: models.StatusPresent}
	absent := &models.HistoryRecord{Status: models.StatusAbsent}

	cases := []struct {
		name      string
		existing  *models.HistoryRecord
		scheduled bool
		want      Outcome
	}{
		{"no class today", nil, false, OutcomeNotScheduled},
		{"no class today with stale record", absent, false, OutcomeNotScheduled},
		{"first scan of the day", nil, true, OutcomeMarkedPresent},
		{"scan after sweep marked absent", absent, true, OutcomeUpgraded},
		{"second scan is a no-op", present, true, OutcomeAlreadyPresent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decideScan(tc.existing, tc.scheduled); got != tc.want {
				t.Errorf("decideScan() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecideScanNeverDowngrades(t *testing.T) {
	// A present record must stay terminal regardless of how often it is re-scanned.
	rec := &models.HistoryRecord{Status: models.StatusPresent, Paid: models.PaidYes}
	for i := 0; i < 3; i++ {
		if got := decideScan(rec, true); got != OutcomeAlreadyPresent {
			t.Fatalf("scan %d: decideScan() = %v, want %v", i+1, got, OutcomeAlreadyPresent)
		}
	}
}
