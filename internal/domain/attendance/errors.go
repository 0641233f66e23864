package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrHolidayNotFound    = errors.New("holiday not found")
	ErrRecordFinalized    = errors.New("attendance record already consumed by a finalized payroll run")
	ErrInvalidDateRange   = errors.New("invalid date range")
)
