package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
)

// ResolvedDay is the schedule in effect for one calendar date.
type ResolvedDay struct {
	IsWorkday bool
	ClockIn   string
	ClockOut  string
	OnLeave   bool // a leave override applies to this date
}

// ResolveDay determines whether date is a scheduled workday and the in/out
// times. A date-specific override (approved leave, ad-hoc schedule change)
// wins over the weekday default.
//
// When no schedule is configured at all, every day resolves as a workday.
// Failing open here means a misconfigured employee gets flagged pay rather
// than a silent zero paycheck.
func ResolveDay(sched employee.ScheduleConfig, date time.Time) ResolvedDay {
	if o, ok := sched.OverrideFor(date); ok {
		return ResolvedDay{
			IsWorkday: o.IsWorkday,
			ClockIn:   o.ClockIn,
			ClockOut:  o.ClockOut,
			OnLeave:   o.Kind == employee.OverrideKindLeave,
		}
	}

	if len(sched.Days) == 0 {
		return ResolvedDay{IsWorkday: true}
	}

	day, ok := sched.Days[date.Weekday()]
	if !ok {
		return ResolvedDay{IsWorkday: false}
	}
	return ResolvedDay{
		IsWorkday: day.IsWorkday,
		ClockIn:   day.ClockIn,
		ClockOut:  day.ClockOut,
	}
}

// HasConfiguredSchedule reports whether any weekday default exists.
func HasConfiguredSchedule(sched employee.ScheduleConfig) bool {
	return len(sched.Days) > 0
}
