package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayStatus string

const (
	DayStatusPresent DayStatus = "present"
	DayStatusAbsent  DayStatus = "absent"
	DayStatusHalfDay DayStatus = "half_day"
	DayStatusLeave   DayStatus = "leave"
)

type HolidayType string

const (
	HolidayTypeRegular        HolidayType = "regular"
	HolidayTypeSpecial        HolidayType = "special"
	HolidayTypeSpecialWorking HolidayType = "special_working"
)

// DayRecord is one employee-day of time tracking. Once a finalized payroll
// run has consumed it, corrections go through payslip edit history instead
// of mutating the record.
type DayRecord struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	Date           time.Time
	ScheduleIn     string
	ScheduleOut    string
	ActualIn       *time.Time
	ActualOut      *time.Time
	OvertimeHours  decimal.Decimal
	NightHours     decimal.Decimal // hours worked after 22:00
	LateMinutes    int
	UndertimeHours decimal.Decimal
	Status         DayStatus
	IsHoliday      bool
	HolidayType    *HolidayType
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Holiday is a company calendar entry. Recurring entries match month and day
// in every year.
type Holiday struct {
	ID          string
	CompanyID   string
	Date        time.Time
	Name        string
	Type        HolidayType
	IsRecurring bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Matches reports whether the calendar entry applies to date.
func (h Holiday) Matches(date time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
}
