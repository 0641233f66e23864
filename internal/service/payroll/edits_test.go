package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedPayslip() payroll.Payslip {
	return payroll.Payslip{
		ID:                  "slip-1",
		BasicPay:            decimal.NewFromInt(15000),
		TaxableGross:        decimal.NewFromInt(15000),
		NonTaxableAllowance: decimal.NewFromInt(500),
		TotalEarnings:       decimal.NewFromInt(15500),
		TotalDeductions:     decimal.Zero,
		NetPay:              decimal.NewFromInt(15500),
	}
}

func TestApplyEdit_AmountChangeRecomputesNetPay(t *testing.T) {
	t.Parallel()

	newBasic := decimal.NewFromInt(14000)
	edited, changes, err := ApplyEdit(storedPayslip(), payroll.UpdatePayslipRequest{
		ID:       "slip-1",
		Reason:   "timekeeping correction",
		BasicPay: &newBasic,
	})

	require.NoError(t, err)
	assertDecimal(t, "14000", edited.BasicPay)
	assertDecimal(t, "14000", edited.TaxableGross)
	assertDecimal(t, "14500", edited.NetPay)

	require.Len(t, changes, 2)
	assert.Equal(t, "basic_pay", changes[0].Field)
	assert.Equal(t, "15000.00", changes[0].OldValue)
	assert.Equal(t, "14000.00", changes[0].NewValue)
	assert.Equal(t, "net_pay", changes[1].Field)
	assert.Equal(t, "15500.00", changes[1].OldValue)
	assert.Equal(t, "14500.00", changes[1].NewValue)
}

func TestApplyEdit_GovernmentLinesReplaced(t *testing.T) {
	t.Parallel()

	edited, changes, err := ApplyEdit(storedPayslip(), payroll.UpdatePayslipRequest{
		ID:     "slip-1",
		Reason: "late SSS election",
		GovernmentDeductions: []payroll.DeductionLine{
			{Type: payroll.DeductionTypeSSS, Amount: decimal.NewFromInt(500)},
		},
	})

	require.NoError(t, err)
	assertDecimal(t, "500", edited.TotalDeductions)
	assertDecimal(t, "15000", edited.NetPay)

	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Contains(t, fields, "government_deductions")
	assert.Contains(t, fields, "net_pay")
}

func TestApplyEdit_NoChangeIsRejected(t *testing.T) {
	t.Parallel()

	sameBasic := decimal.NewFromInt(15000)
	_, _, err := ApplyEdit(storedPayslip(), payroll.UpdatePayslipRequest{
		ID:       "slip-1",
		Reason:   "no-op",
		BasicPay: &sameBasic,
	})

	assert.ErrorIs(t, err, payroll.ErrNothingToEdit)
}

func TestApplyEdit_DeductionEditNeverDoubleSubtractsAttendance(t *testing.T) {
	t.Parallel()

	slip := storedPayslip()
	slip.LateDeduction = decimal.NewFromInt(75)
	slip.TaxableGross = decimal.NewFromInt(14925)
	slip.TotalEarnings = decimal.NewFromInt(15425)
	slip.NetPay = decimal.NewFromInt(15425)

	newLate := decimal.NewFromInt(150)
	edited, _, err := ApplyEdit(slip, payroll.UpdatePayslipRequest{
		ID:            "slip-1",
		Reason:        "biometric re-read",
		LateDeduction: &newLate,
	})

	require.NoError(t, err)
	// The late deduction moves taxable gross, not the deductions column.
	assertDecimal(t, "14850", edited.TaxableGross)
	assertDecimal(t, "0", edited.TotalDeductions)
	assertDecimal(t, "15350", edited.NetPay)
}
