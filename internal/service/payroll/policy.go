package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Documented policy defaults. A missing settings field always resolves to one
// of these, never to zero and never to an error: payroll must always produce
// a number.
var (
	DefaultNightDiffPercent     = decimal.NewFromFloat(0.10)
	DefaultOvertimeRegularRate  = decimal.NewFromFloat(1.25)
	DefaultOvertimeRestDayRate  = decimal.NewFromFloat(1.69)
	DefaultRegularHolidayOTRate = decimal.NewFromFloat(2.00)
	DefaultSpecialHolidayOTRate = decimal.NewFromFloat(1.69)
	DefaultRegularHolidayRate   = decimal.NewFromFloat(1.00)
	DefaultSpecialHolidayRate   = decimal.NewFromFloat(0.30)
	DefaultRestDayRate          = decimal.NewFromFloat(1.30)
)

const (
	DefaultWorkingDaysPerYear = 261
	DefaultFirstPayDate       = 15
	DefaultSecondPayDate      = 30
)

// ResolvePolicy turns a stored policy row, with any subset of fields present,
// into a fully populated snapshot. Downstream components consume only the
// snapshot, so default handling happens exactly once per run. The returned
// advisories name each defaulted field for HR review.
func ResolvePolicy(p payroll.PayrollPolicy) (payroll.ResolvedPolicy, []string) {
	var advisories []string

	pick := func(field string, v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
		if v == nil {
			advisories = append(advisories, fmt.Sprintf("policy field %s not set, using default %s", field, def))
			return def
		}
		return *v
	}

	resolved := payroll.ResolvedPolicy{
		NightDiffPercent:     pick("night_diff_percent", p.NightDiffPercent, DefaultNightDiffPercent),
		OvertimeRegularRate:  pick("overtime_regular_rate", p.OvertimeRegularRate, DefaultOvertimeRegularRate),
		OvertimeRestDayRate:  pick("overtime_rest_day_rate", p.OvertimeRestDayRate, DefaultOvertimeRestDayRate),
		RegularHolidayOTRate: pick("regular_holiday_ot_rate", p.RegularHolidayOTRate, DefaultRegularHolidayOTRate),
		SpecialHolidayOTRate: pick("special_holiday_ot_rate", p.SpecialHolidayOTRate, DefaultSpecialHolidayOTRate),
		RegularHolidayRate:   pick("regular_holiday_rate", p.RegularHolidayRate, DefaultRegularHolidayRate),
		SpecialHolidayRate:   pick("special_holiday_rate", p.SpecialHolidayRate, DefaultSpecialHolidayRate),
		RestDayRate:          pick("rest_day_rate", p.RestDayRate, DefaultRestDayRate),
	}

	if p.DailyRateIncludesAllowance != nil {
		resolved.DailyRateIncludesAllowance = *p.DailyRateIncludesAllowance
	}
	if p.DailyRateWorkingDaysPerYear != nil && *p.DailyRateWorkingDaysPerYear > 0 {
		resolved.DailyRateWorkingDaysPerYear = *p.DailyRateWorkingDaysPerYear
	} else {
		resolved.DailyRateWorkingDaysPerYear = DefaultWorkingDaysPerYear
		if p.DailyRateWorkingDaysPerYear != nil {
			advisories = append(advisories, fmt.Sprintf("policy field daily_rate_working_days_per_year invalid (%d), using default %d", *p.DailyRateWorkingDaysPerYear, DefaultWorkingDaysPerYear))
		}
	}
	resolved.FirstPayDate = DefaultFirstPayDate
	if p.FirstPayDate != nil {
		resolved.FirstPayDate = *p.FirstPayDate
	}
	resolved.SecondPayDate = DefaultSecondPayDate
	if p.SecondPayDate != nil {
		resolved.SecondPayDate = *p.SecondPayDate
	}

	return resolved, advisories
}
