package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	HireDate         time.Time
	ResignationDate  *time.Time
	EmploymentStatus EmploymentStatus
	Compensation     Compensation
	Schedule         ScheduleConfig
	LeaveCredits     []LeaveCredit
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// SalaryBasis determines how BasicSalary is interpreted when deriving
// daily and hourly rates.
type SalaryBasis string

const (
	SalaryBasisMonthly SalaryBasis = "monthly"
	SalaryBasisDaily   SalaryBasis = "daily"
	SalaryBasisHourly  SalaryBasis = "hourly"
)

var SalaryBasisValues = []string{
	string(SalaryBasisMonthly),
	string(SalaryBasisDaily),
	string(SalaryBasisHourly),
}

// Compensation is the employee's pay configuration. Nil multiplier fields
// fall back to company policy when the engine resolves them.
type Compensation struct {
	Basis              SalaryBasis       `json:"basis"`
	BasicSalary        decimal.Decimal   `json:"basic_salary"`
	Allowance          decimal.Decimal   `json:"allowance"` // non-taxable
	RegularHolidayRate *decimal.Decimal  `json:"regular_holiday_rate,omitempty"`
	SpecialHolidayRate *decimal.Decimal  `json:"special_holiday_rate,omitempty"`
	RestDayRate        *decimal.Decimal  `json:"rest_day_rate,omitempty"`
	NightDiffPercent   *decimal.Decimal  `json:"night_diff_percent,omitempty"`
	Overtime           OvertimeOverrides `json:"overtime"`
}

// OvertimeOverrides are per-employee overtime multipliers. A nil field means
// the company policy multiplier applies.
type OvertimeOverrides struct {
	Regular        *decimal.Decimal `json:"regular,omitempty"`
	RestDay        *decimal.Decimal `json:"rest_day,omitempty"`
	RegularHoliday *decimal.Decimal `json:"regular_holiday,omitempty"`
	SpecialHoliday *decimal.Decimal `json:"special_holiday,omitempty"`
}

// DaySchedule is the default in/out for one weekday.
type DaySchedule struct {
	ClockIn   string `json:"clock_in"`  // "08:00"
	ClockOut  string `json:"clock_out"` // "17:00"
	IsWorkday bool   `json:"is_workday"`
}

type OverrideKind string

const (
	OverrideKindLeave  OverrideKind = "leave"
	OverrideKindChange OverrideKind = "schedule_change"
)

// ScheduleOverride replaces the weekday default for a single date.
type ScheduleOverride struct {
	Date      time.Time    `json:"date"`
	Kind      OverrideKind `json:"kind"`
	IsWorkday bool         `json:"is_workday"`
	ClockIn   string       `json:"clock_in,omitempty"`
	ClockOut  string       `json:"clock_out,omitempty"`
}

// ScheduleConfig holds the weekly pattern plus date-specific overrides.
// An empty Days map means no schedule was ever configured for the employee.
type ScheduleConfig struct {
	Days      map[time.Weekday]DaySchedule `json:"days,omitempty"`
	Overrides []ScheduleOverride           `json:"overrides,omitempty"`
}

// OverrideFor returns the override in effect for date, if any.
func (c ScheduleConfig) OverrideFor(date time.Time) (ScheduleOverride, bool) {
	for _, o := range c.Overrides {
		if sameDate(o.Date, date) {
			return o, true
		}
	}
	return ScheduleOverride{}, false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

type LeaveType string

const (
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypeSick     LeaveType = "sick"
)

// LeaveCredit is one row of the leave ledger. Balance is maintained by the
// leave-approval workflow; the engine only reads it.
type LeaveCredit struct {
	Type    LeaveType       `json:"type"`
	Total   decimal.Decimal `json:"total"`
	Used    decimal.Decimal `json:"used"`
	Balance decimal.Decimal `json:"balance"`
}

// LeaveBalance sums remaining credits across all leave types.
func (e Employee) LeaveBalance() decimal.Decimal {
	total := decimal.Zero
	for _, c := range e.LeaveCredits {
		total = total.Add(c.Balance)
	}
	return total
}
