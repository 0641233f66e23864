package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	months       = decimal.NewFromInt(12)
	hoursPerDay  = decimal.NewFromInt(8)
	minutesInHr  = decimal.NewFromInt(60)
	semiMonthly  = decimal.NewFromInt(2)
	decimalOne   = decimal.NewFromInt(1)
	decimalCents = int32(2)
)

// Rates is the canonical daily/hourly rate pair for one employee.
type Rates struct {
	Daily  decimal.Decimal
	Hourly decimal.Decimal
}

// DeriveRates converts the salary basis into daily and hourly rates. This is
// the only place the conversion formula lives; premium calculation and
// attendance deductions both consume its output so the two can never drift.
func DeriveRates(comp employee.Compensation, pol payroll.ResolvedPolicy) Rates {
	switch comp.Basis {
	case employee.SalaryBasisDaily:
		daily := comp.BasicSalary
		return Rates{Daily: daily, Hourly: daily.Div(hoursPerDay)}
	case employee.SalaryBasisHourly:
		hourly := comp.BasicSalary
		return Rates{Daily: hourly.Mul(hoursPerDay), Hourly: hourly}
	default: // monthly
		base := comp.BasicSalary
		if pol.DailyRateIncludesAllowance {
			base = base.Add(comp.Allowance)
		}
		daily := base.Mul(months).Div(decimal.NewFromInt(int64(pol.DailyRateWorkingDaysPerYear)))
		return Rates{Daily: daily, Hourly: daily.Div(hoursPerDay)}
	}
}
