package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// AttendanceDeductions are the currency equivalents of unworked time. They
// are netted into earnings by the composer, never subtracted a second time
// alongside government and loan deductions.
type AttendanceDeductions struct {
	Absent    decimal.Decimal
	Late      decimal.Decimal
	Undertime decimal.Decimal
}

func (d AttendanceDeductions) Total() decimal.Decimal {
	return d.Absent.Add(d.Late).Add(d.Undertime)
}

// ComputeAttendanceDeductions converts absences, late minutes, and undertime
// hours to currency.
//
// Absences are deducted for monthly-basis employees only. Daily and hourly
// employees are simply not paid for unworked days through their basic pay;
// deducting here as well would penalize them twice. This asymmetry matches
// historical payout behavior and is deliberate.
func ComputeAttendanceDeductions(t Totals, rates Rates, basis employee.SalaryBasis) AttendanceDeductions {
	d := AttendanceDeductions{
		Absent:    decimal.Zero,
		Late:      decimal.Zero,
		Undertime: decimal.Zero,
	}

	if basis == employee.SalaryBasisMonthly && t.Absences > 0 {
		d.Absent = rates.Daily.Mul(decimal.NewFromInt(int64(t.Absences)))
	}
	if t.LateMinutes > 0 {
		d.Late = decimal.NewFromInt(int64(t.LateMinutes)).Div(minutesInHr).Mul(rates.Hourly)
	}
	if t.UndertimeHours.IsPositive() {
		d.Undertime = t.UndertimeHours.Mul(rates.Hourly)
	}

	d.Absent = d.Absent.Round(decimalCents)
	d.Late = d.Late.Round(decimalCents)
	d.Undertime = d.Undertime.Round(decimalCents)
	return d
}

// AssembleGovernmentDeductions turns the per-run elections into applied
// deduction lines. A disabled election produces no line at all: the absence
// of a line item and a zero-amount line item are observably different on the
// payslip. Half frequency halves the monthly-table amount for this cutoff.
//
// Lines come out in the fixed statutory order so recomputation from the same
// elections is byte-identical.
func AssembleGovernmentDeductions(elections map[payroll.DeductionType]payroll.DeductionElection) []payroll.DeductionLine {
	lines := make([]payroll.DeductionLine, 0, len(elections))
	for _, dType := range payroll.DeductionTypeOrder {
		el, ok := elections[dType]
		if !ok || !el.Enabled {
			continue
		}
		amount := el.MonthlyAmount
		if el.Frequency == payroll.DeductionFrequencyHalf {
			amount = amount.Div(semiMonthly)
		}
		lines = append(lines, payroll.DeductionLine{Type: dType, Amount: amount.Round(decimalCents)})
	}
	return lines
}
