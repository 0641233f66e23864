package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

func flatRates() Rates {
	return Rates{Daily: decimal.NewFromInt(1000), Hourly: decimal.NewFromInt(125)}
}

func TestComputePremiums_PolicyDefaults(t *testing.T) {
	t.Parallel()

	totals := Totals{
		RegularHolidayDays: 1,
		SpecialHolidayDays: 1,
		RestDaysWorked:     1,
		NightHours:         decimal.NewFromInt(4),
		Overtime: OvertimeHours{
			Regular: decimal.NewFromInt(2),
		},
	}

	premiums := ComputePremiums(totals, flatRates(), employee.Compensation{}, defaultTestPolicy())

	// 1000*1.00 regular holiday + 1000*0.30 special holiday
	assertDecimal(t, "1300", premiums.HolidayPay)
	// 1000*1.30 rest-day premium
	assertDecimal(t, "1300", premiums.RestDayPay)
	// 125*0.10*4 night differential
	assertDecimal(t, "50", premiums.NightDiffPay)
	// 125*1.25*2 regular overtime
	assertDecimal(t, "312.50", premiums.Overtime.Regular)
}

func TestComputePremiums_OvertimeBucketsPricedIndependently(t *testing.T) {
	t.Parallel()

	totals := Totals{
		Overtime: OvertimeHours{
			RestDay:              decimal.NewFromInt(8),
			RestDayExcess:        decimal.NewFromInt(2),
			RegularHoliday:       decimal.NewFromInt(3),
			SpecialHolidayExcess: decimal.NewFromInt(1),
		},
	}

	premiums := ComputePremiums(totals, flatRates(), employee.Compensation{}, defaultTestPolicy())

	// 125*1.69*8 and 125*1.69*2
	assertDecimal(t, "1690", premiums.Overtime.RestDay)
	assertDecimal(t, "422.50", premiums.Overtime.RestDayExcess)
	// 125*2.00*3
	assertDecimal(t, "750", premiums.Overtime.RegularHoliday)
	// 125*1.69*1
	assertDecimal(t, "211.25", premiums.Overtime.SpecialHolidayExcess)
	assertDecimal(t, "0", premiums.Overtime.Regular)
}

func TestComputePremiums_EmployeeOverrideWins(t *testing.T) {
	t.Parallel()

	otOverride := decimal.NewFromInt(2)
	restDayOverride := decimal.NewFromFloat(1.5)
	comp := employee.Compensation{
		RestDayRate: &restDayOverride,
		Overtime:    employee.OvertimeOverrides{Regular: &otOverride},
	}

	totals := Totals{
		RestDaysWorked: 1,
		Overtime:       OvertimeHours{Regular: decimal.NewFromInt(2)},
	}

	premiums := ComputePremiums(totals, flatRates(), comp, defaultTestPolicy())

	// 1000*1.5 instead of the 1.30 policy rate
	assertDecimal(t, "1500", premiums.RestDayPay)
	// 125*2*2 instead of the 1.25 policy rate
	assertDecimal(t, "500", premiums.Overtime.Regular)
}
