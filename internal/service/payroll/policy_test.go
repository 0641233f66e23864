package payroll

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolvePolicy_AllDefaults(t *testing.T) {
	t.Parallel()

	resolved, advisories := ResolvePolicy(payroll.PayrollPolicy{})

	assertDecimal(t, "0.1", resolved.NightDiffPercent)
	assertDecimal(t, "1.25", resolved.OvertimeRegularRate)
	assertDecimal(t, "1.69", resolved.OvertimeRestDayRate)
	assertDecimal(t, "2", resolved.RegularHolidayOTRate)
	assertDecimal(t, "1.69", resolved.SpecialHolidayOTRate)
	assertDecimal(t, "1", resolved.RegularHolidayRate)
	assertDecimal(t, "0.3", resolved.SpecialHolidayRate)
	assertDecimal(t, "1.3", resolved.RestDayRate)
	assert.Equal(t, 261, resolved.DailyRateWorkingDaysPerYear)
	assert.False(t, resolved.DailyRateIncludesAllowance)
	assert.Equal(t, 15, resolved.FirstPayDate)
	assert.Equal(t, 30, resolved.SecondPayDate)

	// One advisory per defaulted multiplier field.
	assert.Len(t, advisories, 8)
}

func TestResolvePolicy_PartialOverride(t *testing.T) {
	t.Parallel()

	nightDiff := decimal.NewFromFloat(0.15)
	otRegular := decimal.NewFromFloat(1.5)
	resolved, advisories := ResolvePolicy(payroll.PayrollPolicy{
		NightDiffPercent:    &nightDiff,
		OvertimeRegularRate: &otRegular,
	})

	assertDecimal(t, "0.15", resolved.NightDiffPercent)
	assertDecimal(t, "1.5", resolved.OvertimeRegularRate)
	assertDecimal(t, "1.69", resolved.OvertimeRestDayRate)
	assert.Len(t, advisories, 6)
	for _, adv := range advisories {
		assert.NotContains(t, adv, "night_diff_percent")
		assert.NotContains(t, adv, "overtime_regular_rate")
	}
}

func TestResolvePolicy_InvalidWorkingDaysFallsBack(t *testing.T) {
	t.Parallel()

	zero := 0
	resolved, advisories := ResolvePolicy(payroll.PayrollPolicy{
		DailyRateWorkingDaysPerYear: &zero,
	})

	assert.Equal(t, 261, resolved.DailyRateWorkingDaysPerYear)

	found := false
	for _, adv := range advisories {
		if strings.Contains(adv, "daily_rate_working_days_per_year") {
			found = true
		}
	}
	assert.True(t, found, "expected an advisory about the invalid working days value")
}
