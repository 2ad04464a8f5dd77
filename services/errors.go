package services

import "errors"

// Expected, recoverable conditions. Controllers translate these into user-facing
// responses; anything else coming out of a service is a data-store failure and
// surfaces as a 500.
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrRecordNotFound    = errors.New("history record not found")
	ErrNotScheduledToday = errors.New("no class scheduled for this day")
	ErrInvalidContact    = errors.New("parent contact number is unusable")
)
