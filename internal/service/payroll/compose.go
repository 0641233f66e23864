package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// EngineInput is everything one employee's computation needs, fully resolved
// before invocation. The engine performs no I/O: loading and persistence
// belong to the run processor.
type EngineInput struct {
	Employee         employee.Employee
	Records          []attendance.DayRecord
	Holidays         []attendance.Holiday
	Selection        payroll.EmployeeSelection
	Policy           payroll.ResolvedPolicy
	PolicyAdvisories []string
	RunID            string
	CutoffStart      time.Time
	CutoffEnd        time.Time
}

// ComputePayslip runs the full pipeline for one employee: aggregate the
// cutoff, derive rates, price premiums, assemble deductions, compose. Pure:
// identical inputs always produce an identical payslip.
func ComputePayslip(in EngineInput) payroll.Payslip {
	totals := Aggregate(in.Employee, in.Records, in.Holidays, in.CutoffStart, in.CutoffEnd)
	rates := DeriveRates(in.Employee.Compensation, in.Policy)
	premiums := ComputePremiums(totals, rates, in.Employee.Compensation, in.Policy)
	attDeductions := ComputeAttendanceDeductions(totals, rates, in.Employee.Compensation.Basis)
	government := AssembleGovernmentDeductions(in.Selection.Deductions)

	return Compose(in, totals, rates, premiums, attDeductions, government)
}

// Compose assembles the payslip in the load-bearing order:
//
//  1. basic pay for the cutoff
//  2. minus absence, late, and undertime deductions
//  3. plus overtime, holiday, rest-day, and night premiums and incentives,
//     giving taxable gross earnings (floored at zero)
//  4. plus the non-taxable allowance, giving total earnings
//  5. minus government and loan deductions, giving net pay (floored at zero)
//
// Attendance deductions are netted into earnings at step 2 and must never be
// subtracted again at step 5.
func Compose(in EngineInput, totals Totals, rates Rates, premiums Premiums, attDeductions AttendanceDeductions, government []payroll.DeductionLine) payroll.Payslip {
	comp := in.Employee.Compensation

	// Step 1: basic pay. Monthly employees earn half the monthly salary per
	// semi-monthly cutoff regardless of how the calendar falls. Daily and
	// hourly employees earn for days actually worked, which is also how
	// their absences go unpaid.
	var basicPay, allowance decimal.Decimal
	switch comp.Basis {
	case employee.SalaryBasisMonthly:
		basicPay = comp.BasicSalary.Div(semiMonthly)
		allowance = comp.Allowance.Div(semiMonthly)
	default:
		basicPay = rates.Daily.Mul(decimal.NewFromInt(int64(totals.DaysWorked)))
		allowance = comp.Allowance
	}
	basicPay = basicPay.Round(decimalCents)
	allowance = allowance.Round(decimalCents)

	// Step 2.
	afterAttendance := basicPay.Sub(attDeductions.Total())

	// Step 3.
	incentiveTotal := decimal.Zero
	for _, item := range in.Selection.Incentives {
		incentiveTotal = incentiveTotal.Add(item.Amount)
	}
	taxableGross := afterAttendance.
		Add(premiums.Overtime.Total()).
		Add(premiums.HolidayPay).
		Add(premiums.RestDayPay).
		Add(premiums.NightDiffPay).
		Add(incentiveTotal).
		Round(decimalCents)
	if taxableGross.IsNegative() {
		taxableGross = decimal.Zero
	}

	// Step 4.
	totalEarnings := taxableGross.Add(allowance)

	// Step 5.
	loanTotal := decimal.Zero
	for _, item := range in.Selection.Loans {
		loanTotal = loanTotal.Add(item.Amount)
	}
	governmentTotal := decimal.Zero
	for _, line := range government {
		governmentTotal = governmentTotal.Add(line.Amount)
	}
	totalDeductions := governmentTotal.Add(loanTotal).Round(decimalCents)

	netPay := totalEarnings.Sub(totalDeductions)
	if netPay.IsNegative() {
		netPay = decimal.Zero
	}

	warnings := make([]string, 0, len(in.PolicyAdvisories)+len(totals.Warnings))
	warnings = append(warnings, in.PolicyAdvisories...)
	warnings = append(warnings, totals.Warnings...)

	return payroll.Payslip{
		PayrollRunID: in.RunID,
		EmployeeID:   in.Employee.ID,
		CompanyID:    in.Employee.CompanyID,
		CutoffStart:  in.CutoffStart,
		CutoffEnd:    in.CutoffEnd,

		DailyRate:  rates.Daily.Round(decimalCents),
		HourlyRate: rates.Hourly.Round(decimalCents),

		DaysWorked:     totals.DaysWorked,
		Absences:       totals.Absences,
		LeaveDays:      totals.LeaveDays,
		LateMinutes:    totals.LateMinutes,
		UndertimeHours: totals.UndertimeHours,

		BasicPay:           basicPay,
		AbsentDeduction:    attDeductions.Absent,
		LateDeduction:      attDeductions.Late,
		UndertimeDeduction: attDeductions.Undertime,

		HolidayPay:   premiums.HolidayPay,
		RestDayPay:   premiums.RestDayPay,
		NightDiffPay: premiums.NightDiffPay,
		Overtime:     premiums.Overtime,

		Incentives:          in.Selection.Incentives,
		TaxableGross:        taxableGross,
		NonTaxableAllowance: allowance,
		TotalEarnings:       totalEarnings,

		GovernmentDeductions: government,
		LoanDeductions:       in.Selection.Loans,
		TotalDeductions:      totalDeductions,
		NetPay:               netPay,

		Warnings: warnings,
	}
}
