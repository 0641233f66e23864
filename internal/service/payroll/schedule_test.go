package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
)

func weekdaySchedule() employee.ScheduleConfig {
	days := make(map[time.Weekday]employee.DaySchedule)
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		days[wd] = employee.DaySchedule{ClockIn: "08:00", ClockOut: "17:00", IsWorkday: true}
	}
	return employee.ScheduleConfig{Days: days}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDay_WeekdayDefault(t *testing.T) {
	t.Parallel()

	sched := weekdaySchedule()

	monday := ResolveDay(sched, date(2025, 6, 2))
	assert.True(t, monday.IsWorkday)
	assert.Equal(t, "08:00", monday.ClockIn)
	assert.Equal(t, "17:00", monday.ClockOut)

	saturday := ResolveDay(sched, date(2025, 6, 7))
	assert.False(t, saturday.IsWorkday)
}

func TestResolveDay_OverrideWins(t *testing.T) {
	t.Parallel()

	sched := weekdaySchedule()
	sched.Overrides = []employee.ScheduleOverride{
		{Date: date(2025, 6, 2), Kind: employee.OverrideKindLeave, IsWorkday: true},
		{Date: date(2025, 6, 7), Kind: employee.OverrideKindChange, IsWorkday: true, ClockIn: "09:00", ClockOut: "18:00"},
	}

	onLeave := ResolveDay(sched, date(2025, 6, 2))
	assert.True(t, onLeave.OnLeave)

	// A rest day turned into a workday by an ad-hoc change.
	saturday := ResolveDay(sched, date(2025, 6, 7))
	assert.True(t, saturday.IsWorkday)
	assert.False(t, saturday.OnLeave)
	assert.Equal(t, "09:00", saturday.ClockIn)
}

func TestResolveDay_NoScheduleFailsOpen(t *testing.T) {
	t.Parallel()

	day := ResolveDay(employee.ScheduleConfig{}, date(2025, 6, 7))
	assert.True(t, day.IsWorkday)
}

func TestHasConfiguredSchedule(t *testing.T) {
	t.Parallel()

	assert.True(t, HasConfiguredSchedule(weekdaySchedule()))
	assert.False(t, HasConfiguredSchedule(employee.ScheduleConfig{}))
}
