package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeAttendanceDeductions_MonthlyAbsences(t *testing.T) {
	t.Parallel()

	totals := Totals{Absences: 2, LateMinutes: 30, UndertimeHours: decimal.NewFromInt(1)}

	d := ComputeAttendanceDeductions(totals, flatRates(), employee.SalaryBasisMonthly)

	assertDecimal(t, "2000", d.Absent)
	// 30/60 * 125
	assertDecimal(t, "62.50", d.Late)
	assertDecimal(t, "125", d.Undertime)
	assertDecimal(t, "2187.50", d.Total())
}

func TestComputeAttendanceDeductions_DailyBasisSkipsAbsentDeduction(t *testing.T) {
	t.Parallel()

	totals := Totals{Absences: 2, LateMinutes: 30}

	d := ComputeAttendanceDeductions(totals, flatRates(), employee.SalaryBasisDaily)

	// Unworked days are already unpaid through basic pay; deducting again
	// would double-penalize.
	assertDecimal(t, "0", d.Absent)
	assertDecimal(t, "62.50", d.Late)
}

func TestAssembleGovernmentDeductions_DisabledProducesNoLine(t *testing.T) {
	t.Parallel()

	elections := map[payroll.DeductionType]payroll.DeductionElection{
		payroll.DeductionTypeSSS:        {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(500)},
		payroll.DeductionTypePhilHealth: {Enabled: false, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(400)},
		payroll.DeductionTypeTax:        {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(1200)},
	}

	lines := AssembleGovernmentDeductions(elections)

	assert.Len(t, lines, 2, "a disabled election is absent, not zero")
	assert.Equal(t, payroll.DeductionTypeSSS, lines[0].Type)
	assert.Equal(t, payroll.DeductionTypeTax, lines[1].Type)
}

func TestAssembleGovernmentDeductions_HalfFrequency(t *testing.T) {
	t.Parallel()

	elections := map[payroll.DeductionType]payroll.DeductionElection{
		payroll.DeductionTypePagIbig: {Enabled: true, Frequency: payroll.DeductionFrequencyHalf, MonthlyAmount: decimal.NewFromInt(200)},
	}

	lines := AssembleGovernmentDeductions(elections)

	assert.Len(t, lines, 1)
	assertDecimal(t, "100", lines[0].Amount)
}

func TestAssembleGovernmentDeductions_StatutoryOrder(t *testing.T) {
	t.Parallel()

	elections := map[payroll.DeductionType]payroll.DeductionElection{
		payroll.DeductionTypeTax:        {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(1)},
		payroll.DeductionTypePagIbig:    {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(1)},
		payroll.DeductionTypePhilHealth: {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(1)},
		payroll.DeductionTypeSSS:        {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(1)},
	}

	lines := AssembleGovernmentDeductions(elections)

	want := []payroll.DeductionType{
		payroll.DeductionTypeSSS,
		payroll.DeductionTypePhilHealth,
		payroll.DeductionTypePagIbig,
		payroll.DeductionTypeTax,
	}
	for i, line := range lines {
		assert.Equal(t, want[i], line.Type)
	}
}
