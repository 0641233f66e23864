package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// OvertimeHours accumulates overtime per tier. Buckets are mutually
// exclusive: an hour lands in exactly one of them.
type OvertimeHours struct {
	Regular              decimal.Decimal
	RestDay              decimal.Decimal
	RestDayExcess        decimal.Decimal
	SpecialHoliday       decimal.Decimal
	SpecialHolidayExcess decimal.Decimal
	RegularHoliday       decimal.Decimal
	RegularHolidayExcess decimal.Decimal
}

// Totals is the aggregated view of one employee's cutoff range.
type Totals struct {
	ScheduledWorkdays  int
	DaysWorked         int
	Absences           int
	LeaveDays          int
	LateMinutes        int
	UndertimeHours     decimal.Decimal
	NightHours         decimal.Decimal
	RegularHolidayDays int // regular-holiday dates eligible for holiday pay
	SpecialHolidayDays int // special holidays actually worked
	RestDaysWorked     int
	Overtime           OvertimeHours
	Warnings           []string
}

// Aggregate walks every calendar date in [start, end] inclusive and
// classifies it as workday, rest day, or holiday, reconciling the attendance
// records against the schedule and the holiday calendar.
//
// A workday with no record is an unpaid absence unless leave-covered. Rest
// days and holidays never accrue absences: the employee was not expected to
// work. A record whose holiday flag disagrees with the calendar is processed
// using the calendar's view and surfaced as a warning, never corrected
// silently.
func Aggregate(emp employee.Employee, records []attendance.DayRecord, holidays []attendance.Holiday, start, end time.Time) Totals {
	t := Totals{
		UndertimeHours: decimal.Zero,
		NightHours:     decimal.Zero,
	}

	recordsByDate := make(map[string]attendance.DayRecord, len(records))
	for _, rec := range records {
		recordsByDate[dateKey(rec.Date)] = rec
	}

	// Degenerate-schedule fallback: a schedule that marks every date in range
	// as a rest day would zero out the paycheck. Treat the whole range as
	// working days instead and flag it.
	failOpen := false
	if countScheduledWorkdays(emp.Schedule, start, end) == 0 {
		failOpen = true
		t.Warnings = append(t.Warnings, "schedule marks every day in the cutoff as a rest day; treating all days as workdays")
	}

	// Leave coverage is bounded by the ledger balance. Days marked leave
	// beyond the remaining balance fall through to unpaid absence.
	remainingLeave := emp.LeaveBalance()

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day := ResolveDay(emp.Schedule, date)
		if failOpen {
			day.IsWorkday = true
		}

		holiday, isHoliday := holidayFor(holidays, date)
		rec, hasRecord := recordsByDate[dateKey(date)]

		if hasRecord && rec.IsHoliday != isHoliday {
			t.Warnings = append(t.Warnings, fmt.Sprintf("attendance record for %s disagrees with holiday calendar", dateKey(date)))
		} else if hasRecord && isHoliday && rec.HolidayType != nil && *rec.HolidayType != holiday.Type {
			t.Warnings = append(t.Warnings, fmt.Sprintf("attendance record for %s carries holiday type %s but calendar says %s", dateKey(date), *rec.HolidayType, holiday.Type))
		}

		worked := hasRecord && (rec.Status == attendance.DayStatusPresent || rec.Status == attendance.DayStatusHalfDay)

		// Special-working holidays pay like ordinary workdays.
		if isHoliday && holiday.Type != attendance.HolidayTypeSpecialWorking {
			switch holiday.Type {
			case attendance.HolidayTypeRegular:
				// Regular holidays are paid whether or not they are worked,
				// as long as the employee was scheduled (or actually came in).
				if day.IsWorkday || worked {
					t.RegularHolidayDays++
				}
				if worked {
					t.DaysWorked++
					t.carryRecord(rec)
					addTiered(&t.Overtime.RegularHoliday, &t.Overtime.RegularHolidayExcess, rec.OvertimeHours)
				}
			case attendance.HolidayTypeSpecial:
				// Special holidays are no-work-no-pay; the premium applies
				// only to days actually worked.
				if worked {
					t.SpecialHolidayDays++
					t.DaysWorked++
					t.carryRecord(rec)
					addTiered(&t.Overtime.SpecialHoliday, &t.Overtime.SpecialHolidayExcess, rec.OvertimeHours)
				}
			}
			continue
		}

		if !day.IsWorkday {
			if worked {
				t.RestDaysWorked++
				t.DaysWorked++
				t.carryRecord(rec)
				addTiered(&t.Overtime.RestDay, &t.Overtime.RestDayExcess, rec.OvertimeHours)
			}
			continue
		}

		// Plain workday (including special-working holidays).
		t.ScheduledWorkdays++

		switch {
		case worked:
			t.DaysWorked++
			t.carryRecord(rec)
			t.Overtime.Regular = t.Overtime.Regular.Add(rec.OvertimeHours)

		case (hasRecord && rec.Status == attendance.DayStatusLeave) || day.OnLeave:
			if remainingLeave.GreaterThanOrEqual(decimalOne) {
				t.LeaveDays++
				remainingLeave = remainingLeave.Sub(decimalOne)
			} else {
				t.Absences++
				t.Warnings = append(t.Warnings, fmt.Sprintf("leave day %s has no remaining leave credit; counted as unpaid absence", dateKey(date)))
			}

		default:
			// Absent record, or no record at all.
			t.Absences++
		}
	}

	return t
}

// carryRecord accumulates the per-record minute/hour counters.
func (t *Totals) carryRecord(rec attendance.DayRecord) {
	t.LateMinutes += rec.LateMinutes
	t.UndertimeHours = t.UndertimeHours.Add(rec.UndertimeHours)
	t.NightHours = t.NightHours.Add(rec.NightHours)
}

// addTiered splits overtime hours on a premium day: the first eight land in
// the base bucket, anything beyond in the excess bucket.
func addTiered(base, excess *decimal.Decimal, hours decimal.Decimal) {
	if hours.LessThanOrEqual(decimal.Zero) {
		return
	}
	if hours.GreaterThan(hoursPerDay) {
		*base = base.Add(hoursPerDay)
		*excess = excess.Add(hours.Sub(hoursPerDay))
		return
	}
	*base = base.Add(hours)
}

func countScheduledWorkdays(sched employee.ScheduleConfig, start, end time.Time) int {
	count := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if ResolveDay(sched, date).IsWorkday {
			count++
		}
	}
	return count
}

func holidayFor(holidays []attendance.Holiday, date time.Time) (attendance.Holiday, bool) {
	for _, h := range holidays {
		if h.Matches(date) {
			return h, true
		}
	}
	return attendance.Holiday{}, false
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
