package services

import (
	"time"

	"tutortrack_go/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SweepScheduler runs the daily absence sweep: once at process start, so a
// restart mid-day still fills in today's absences, and then on the configured
// cron spec just after midnight. The sweep is idempotent, so overlap with a
// manual trigger is harmless.
type SweepScheduler struct {
	attendance *AttendanceService
	cron       *cron.Cron
}

func NewSweepScheduler(attendance *AttendanceService) *SweepScheduler {
	return &SweepScheduler{
		attendance: attendance,
		cron:       cron.New(),
	}
}

// Start runs the boot sweep and schedules the daily one.
func (ss *SweepScheduler) Start() {
	ss.runSweep()

	spec := config.AppConfig.SweepSpec
	if _, err := ss.cron.AddFunc(spec, ss.runSweep); err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Invalid sweep cron spec; daily sweep disabled")
		return
	}
	ss.cron.Start()
	logrus.WithField("spec", spec).Info("Absence sweep scheduled")
}

// Stop halts the scheduler, letting a running sweep finish.
func (ss *SweepScheduler) Stop() {
	ctx := ss.cron.Stop()
	<-ctx.Done()
}

func (ss *SweepScheduler) runSweep() {
	marked, err := ss.attendance.SweepAbsences(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Absence sweep failed")
		return
	}
	logrus.WithField("marked_absent", marked).Info("Absence sweep completed")
}
