package payroll

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ApplyEdit produces the edited payslip plus the per-field change
// descriptors for the audit entry. The stored payslip is never overwritten
// silently: callers persist the new amounts together with the edit record.
// Totals are recomposed with the same ordering the original composition
// used, so an edited payslip still reconciles.
func ApplyEdit(slip payroll.Payslip, req payroll.UpdatePayslipRequest) (payroll.Payslip, []payroll.FieldChange, error) {
	edited := slip
	var changes []payroll.FieldChange

	amount := func(field string, current *decimal.Decimal, next *decimal.Decimal) {
		if next == nil || current.Equal(*next) {
			return
		}
		changes = append(changes, payroll.FieldChange{
			Field:    field,
			OldValue: current.StringFixed(2),
			NewValue: next.StringFixed(2),
		})
		*current = *next
	}

	amount("basic_pay", &edited.BasicPay, req.BasicPay)
	amount("holiday_pay", &edited.HolidayPay, req.HolidayPay)
	amount("rest_day_pay", &edited.RestDayPay, req.RestDayPay)
	amount("night_diff_pay", &edited.NightDiffPay, req.NightDiffPay)
	amount("absent_deduction", &edited.AbsentDeduction, req.AbsentDeduction)
	amount("late_deduction", &edited.LateDeduction, req.LateDeduction)
	amount("undertime_deduction", &edited.UndertimeDeduction, req.UndertimeDeduction)

	if req.Incentives != nil && !lineItemsEqual(edited.Incentives, req.Incentives) {
		changes = append(changes, payroll.FieldChange{
			Field:    "incentives",
			OldValue: describeLineItems(edited.Incentives),
			NewValue: describeLineItems(req.Incentives),
		})
		edited.Incentives = req.Incentives
	}
	if req.LoanDeductions != nil && !lineItemsEqual(edited.LoanDeductions, req.LoanDeductions) {
		changes = append(changes, payroll.FieldChange{
			Field:    "loan_deductions",
			OldValue: describeLineItems(edited.LoanDeductions),
			NewValue: describeLineItems(req.LoanDeductions),
		})
		edited.LoanDeductions = req.LoanDeductions
	}
	if req.GovernmentDeductions != nil && !deductionLinesEqual(edited.GovernmentDeductions, req.GovernmentDeductions) {
		changes = append(changes, payroll.FieldChange{
			Field:    "government_deductions",
			OldValue: describeDeductionLines(edited.GovernmentDeductions),
			NewValue: describeDeductionLines(req.GovernmentDeductions),
		})
		edited.GovernmentDeductions = req.GovernmentDeductions
	}

	if len(changes) == 0 {
		return payroll.Payslip{}, nil, payroll.ErrNothingToEdit
	}

	oldNet := edited.NetPay
	recomposeTotals(&edited)
	if !oldNet.Equal(edited.NetPay) {
		changes = append(changes, payroll.FieldChange{
			Field:    "net_pay",
			OldValue: oldNet.StringFixed(2),
			NewValue: edited.NetPay.StringFixed(2),
		})
	}

	return edited, changes, nil
}

// recomposeTotals re-runs the composition ordering over the payslip's own
// sub-totals: attendance deductions net into earnings, then government and
// loan deductions come off once.
func recomposeTotals(p *payroll.Payslip) {
	incentiveTotal := decimal.Zero
	for _, item := range p.Incentives {
		incentiveTotal = incentiveTotal.Add(item.Amount)
	}

	taxableGross := p.BasicPay.
		Sub(p.AbsentDeduction).Sub(p.LateDeduction).Sub(p.UndertimeDeduction).
		Add(p.Overtime.Total()).
		Add(p.HolidayPay).
		Add(p.RestDayPay).
		Add(p.NightDiffPay).
		Add(incentiveTotal).
		Round(decimalCents)
	if taxableGross.IsNegative() {
		taxableGross = decimal.Zero
	}
	p.TaxableGross = taxableGross
	p.TotalEarnings = taxableGross.Add(p.NonTaxableAllowance)

	p.TotalDeductions = p.GovernmentTotal().Add(p.LoanTotal()).Round(decimalCents)

	netPay := p.TotalEarnings.Sub(p.TotalDeductions)
	if netPay.IsNegative() {
		netPay = decimal.Zero
	}
	p.NetPay = netPay
}

func lineItemsEqual(a, b []payroll.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}

func deductionLinesEqual(a, b []payroll.DeductionLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}

func describeLineItems(items []payroll.LineItem) string {
	if len(items) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s=%s", item.Name, item.Amount.StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}

func describeDeductionLines(lines []payroll.DeductionLine) string {
	if len(lines) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s=%s", line.Type, line.Amount.StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}
