package payroll

import (
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	cutoffStart = date(2025, 6, 1)  // Sunday
	cutoffEnd   = date(2025, 6, 15) // Sunday
)

// workdays for a Monday-Friday schedule inside the cutoff
var juneWorkdays = []time.Time{
	date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4), date(2025, 6, 5), date(2025, 6, 6),
	date(2025, 6, 9), date(2025, 6, 10), date(2025, 6, 11), date(2025, 6, 12), date(2025, 6, 13),
}

func scheduledEmployee() employee.Employee {
	return employee.Employee{
		ID:        "emp-1",
		CompanyID: "company-1",
		Schedule:  weekdaySchedule(),
	}
}

func presentRecord(day time.Time) attendance.DayRecord {
	return attendance.DayRecord{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.DayStatusPresent,
	}
}

func presentRecords(days ...time.Time) []attendance.DayRecord {
	records := make([]attendance.DayRecord, 0, len(days))
	for _, day := range days {
		records = append(records, presentRecord(day))
	}
	return records
}

func hasWarningContaining(warnings []string, sub string) bool {
	for _, w := range warnings {
		if strings.Contains(w, sub) {
			return true
		}
	}
	return false
}

func TestAggregate_FullAttendance(t *testing.T) {
	t.Parallel()

	totals := Aggregate(scheduledEmployee(), presentRecords(juneWorkdays...), nil, cutoffStart, cutoffEnd)

	assert.Equal(t, 10, totals.ScheduledWorkdays)
	assert.Equal(t, 10, totals.DaysWorked)
	assert.Equal(t, 0, totals.Absences)
	assert.Empty(t, totals.Warnings)
}

func TestAggregate_MissingAndAbsentRecordsCountAsAbsences(t *testing.T) {
	t.Parallel()

	// No record on June 5, an explicit absent record on June 6.
	records := presentRecords(
		date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4),
		date(2025, 6, 9), date(2025, 6, 10), date(2025, 6, 11), date(2025, 6, 12), date(2025, 6, 13),
	)
	records = append(records, attendance.DayRecord{
		EmployeeID: "emp-1",
		Date:       date(2025, 6, 6),
		Status:     attendance.DayStatusAbsent,
	})

	totals := Aggregate(scheduledEmployee(), records, nil, cutoffStart, cutoffEnd)

	assert.Equal(t, 8, totals.DaysWorked)
	assert.Equal(t, 2, totals.Absences)
}

func TestAggregate_LeaveCoveredByBalance(t *testing.T) {
	t.Parallel()

	emp := scheduledEmployee()
	emp.LeaveCredits = []employee.LeaveCredit{
		{Type: employee.LeaveTypeVacation, Balance: decimal.NewFromInt(5)},
	}

	records := presentRecords(date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4), date(2025, 6, 5))
	records = append(records, attendance.DayRecord{
		EmployeeID: "emp-1",
		Date:       date(2025, 6, 6),
		Status:     attendance.DayStatusLeave,
	})

	totals := Aggregate(emp, records, nil, date(2025, 6, 2), date(2025, 6, 6))

	assert.Equal(t, 4, totals.DaysWorked)
	assert.Equal(t, 1, totals.LeaveDays)
	assert.Equal(t, 0, totals.Absences)
}

func TestAggregate_LeaveWithoutBalanceBecomesAbsence(t *testing.T) {
	t.Parallel()

	records := presentRecords(date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4), date(2025, 6, 5))
	records = append(records, attendance.DayRecord{
		EmployeeID: "emp-1",
		Date:       date(2025, 6, 6),
		Status:     attendance.DayStatusLeave,
	})

	totals := Aggregate(scheduledEmployee(), records, nil, date(2025, 6, 2), date(2025, 6, 6))

	assert.Equal(t, 0, totals.LeaveDays)
	assert.Equal(t, 1, totals.Absences)
	assert.True(t, hasWarningContaining(totals.Warnings, "no remaining leave credit"))
}

func TestAggregate_RegularHolidayPaidWhenScheduledButUnworked(t *testing.T) {
	t.Parallel()

	holidays := []attendance.Holiday{
		{Date: date(2025, 6, 12), Name: "Independence Day", Type: attendance.HolidayTypeRegular},
	}

	// Present every workday except the holiday, which has no record.
	records := presentRecords(
		date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4), date(2025, 6, 5), date(2025, 6, 6),
		date(2025, 6, 9), date(2025, 6, 10), date(2025, 6, 11), date(2025, 6, 13),
	)

	totals := Aggregate(scheduledEmployee(), records, holidays, cutoffStart, cutoffEnd)

	assert.Equal(t, 1, totals.RegularHolidayDays)
	assert.Equal(t, 9, totals.DaysWorked)
	assert.Equal(t, 0, totals.Absences, "an unworked regular holiday is never an absence")
}

func TestAggregate_SpecialHolidayNoWorkNoPay(t *testing.T) {
	t.Parallel()

	holidays := []attendance.Holiday{
		{Date: date(2025, 6, 12), Name: "Local Holiday", Type: attendance.HolidayTypeSpecial},
	}

	records := presentRecords(
		date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4), date(2025, 6, 5), date(2025, 6, 6),
		date(2025, 6, 9), date(2025, 6, 10), date(2025, 6, 11), date(2025, 6, 13),
	)

	totals := Aggregate(scheduledEmployee(), records, holidays, cutoffStart, cutoffEnd)

	assert.Equal(t, 0, totals.SpecialHolidayDays)
	assert.Equal(t, 0, totals.Absences)

	// Worked special holiday earns the premium day.
	special := attendance.HolidayTypeSpecial
	worked := append(records, attendance.DayRecord{
		EmployeeID:  "emp-1",
		Date:        date(2025, 6, 12),
		Status:      attendance.DayStatusPresent,
		IsHoliday:   true,
		HolidayType: &special,
	})
	totals = Aggregate(scheduledEmployee(), worked, holidays, cutoffStart, cutoffEnd)

	assert.Equal(t, 1, totals.SpecialHolidayDays)
	assert.Equal(t, 10, totals.DaysWorked)
}

func TestAggregate_HolidayFlagDisagreementWarnsAndFollowsCalendar(t *testing.T) {
	t.Parallel()

	holidays := []attendance.Holiday{
		{Date: date(2025, 6, 12), Name: "Independence Day", Type: attendance.HolidayTypeRegular},
	}

	// The record claims an ordinary day; the calendar says regular holiday.
	records := []attendance.DayRecord{presentRecord(date(2025, 6, 12))}

	totals := Aggregate(scheduledEmployee(), records, holidays, cutoffStart, cutoffEnd)

	assert.True(t, hasWarningContaining(totals.Warnings, "disagrees"))
	assert.Equal(t, 1, totals.RegularHolidayDays, "the calendar view wins")
	assert.Equal(t, 1, totals.DaysWorked)
}

func TestAggregate_RestDayOvertimeSplitsAtEightHours(t *testing.T) {
	t.Parallel()

	records := []attendance.DayRecord{
		{
			EmployeeID:    "emp-1",
			Date:          date(2025, 6, 7), // Saturday
			Status:        attendance.DayStatusPresent,
			OvertimeHours: decimal.NewFromInt(10),
		},
	}

	totals := Aggregate(scheduledEmployee(), records, nil, cutoffStart, cutoffEnd)

	assert.Equal(t, 1, totals.RestDaysWorked)
	assertDecimal(t, "8", totals.Overtime.RestDay)
	assertDecimal(t, "2", totals.Overtime.RestDayExcess)
}

func TestAggregate_DegenerateScheduleFailsOpen(t *testing.T) {
	t.Parallel()

	days := make(map[time.Weekday]employee.DaySchedule)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[wd] = employee.DaySchedule{IsWorkday: false}
	}
	emp := scheduledEmployee()
	emp.Schedule = employee.ScheduleConfig{Days: days}

	totals := Aggregate(emp, nil, nil, date(2025, 6, 2), date(2025, 6, 6))

	assert.True(t, hasWarningContaining(totals.Warnings, "rest day"))
	assert.Equal(t, 5, totals.ScheduledWorkdays)
	assert.Equal(t, 5, totals.Absences)
}

func TestAggregate_RecurringHolidayMatchesAnyYear(t *testing.T) {
	t.Parallel()

	holidays := []attendance.Holiday{
		{Date: date(2020, 6, 12), Name: "Independence Day", Type: attendance.HolidayTypeRegular, IsRecurring: true},
	}

	totals := Aggregate(scheduledEmployee(), nil, holidays, date(2025, 6, 12), date(2025, 6, 12))

	assert.Equal(t, 1, totals.RegularHolidayDays)
}
