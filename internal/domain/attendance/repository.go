package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByEmployeeRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]DayRecord, error)
	GetByEmployeesRange(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) (map[string][]DayRecord, error)
	MarkConsumed(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time, runID string) error
}

type HolidayRepository interface {
	GetByCompanyRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
}
