package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Premiums holds the holiday, rest-day, night-differential, and overtime
// earnings for one cutoff.
type Premiums struct {
	HolidayPay   decimal.Decimal
	RestDayPay   decimal.Decimal
	NightDiffPay decimal.Decimal
	Overtime     payroll.OvertimePay
}

// ComputePremiums prices the aggregated hours. Per-employee multiplier
// overrides win over policy values; a missing multiplier always falls back
// to the resolved policy, which itself carries documented defaults.
func ComputePremiums(t Totals, rates Rates, comp employee.Compensation, pol payroll.ResolvedPolicy) Premiums {
	regularHolidayRate := multiplier(comp.RegularHolidayRate, pol.RegularHolidayRate)
	specialHolidayRate := multiplier(comp.SpecialHolidayRate, pol.SpecialHolidayRate)
	restDayRate := multiplier(comp.RestDayRate, pol.RestDayRate)
	nightDiffPercent := multiplier(comp.NightDiffPercent, pol.NightDiffPercent)

	otRegular := multiplier(comp.Overtime.Regular, pol.OvertimeRegularRate)
	otRestDay := multiplier(comp.Overtime.RestDay, pol.OvertimeRestDayRate)
	otRegularHoliday := multiplier(comp.Overtime.RegularHoliday, pol.RegularHolidayOTRate)
	otSpecialHoliday := multiplier(comp.Overtime.SpecialHoliday, pol.SpecialHolidayOTRate)

	holidayPay := rates.Daily.Mul(regularHolidayRate).Mul(decimal.NewFromInt(int64(t.RegularHolidayDays))).
		Add(rates.Daily.Mul(specialHolidayRate).Mul(decimal.NewFromInt(int64(t.SpecialHolidayDays))))

	restDayPay := rates.Daily.Mul(restDayRate).Mul(decimal.NewFromInt(int64(t.RestDaysWorked)))

	nightDiffPay := rates.Hourly.Mul(nightDiffPercent).Mul(t.NightHours)

	overtime := payroll.OvertimePay{
		Regular:              otAmount(rates.Hourly, otRegular, t.Overtime.Regular),
		RestDay:              otAmount(rates.Hourly, otRestDay, t.Overtime.RestDay),
		RestDayExcess:        otAmount(rates.Hourly, otRestDay, t.Overtime.RestDayExcess),
		SpecialHoliday:       otAmount(rates.Hourly, otSpecialHoliday, t.Overtime.SpecialHoliday),
		SpecialHolidayExcess: otAmount(rates.Hourly, otSpecialHoliday, t.Overtime.SpecialHolidayExcess),
		RegularHoliday:       otAmount(rates.Hourly, otRegularHoliday, t.Overtime.RegularHoliday),
		RegularHolidayExcess: otAmount(rates.Hourly, otRegularHoliday, t.Overtime.RegularHolidayExcess),
	}

	return Premiums{
		HolidayPay:   holidayPay.Round(decimalCents),
		RestDayPay:   restDayPay.Round(decimalCents),
		NightDiffPay: nightDiffPay.Round(decimalCents),
		Overtime: payroll.OvertimePay{
			Regular:              overtime.Regular.Round(decimalCents),
			RestDay:              overtime.RestDay.Round(decimalCents),
			RestDayExcess:        overtime.RestDayExcess.Round(decimalCents),
			SpecialHoliday:       overtime.SpecialHoliday.Round(decimalCents),
			SpecialHolidayExcess: overtime.SpecialHolidayExcess.Round(decimalCents),
			RegularHoliday:       overtime.RegularHoliday.Round(decimalCents),
			RegularHolidayExcess: overtime.RegularHolidayExcess.Round(decimalCents),
		},
	}
}

// multiplier picks the employee override when present, the policy value
// otherwise. Never zero for an absent override.
func multiplier(override *decimal.Decimal, policyValue decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return policyValue
}

func otAmount(hourly, rate, hours decimal.Decimal) decimal.Decimal {
	return hourly.Mul(rate).Mul(hours)
}
