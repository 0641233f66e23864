package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func attendance30MinLate(day time.Time) attendance.DayRecord {
	rec := presentRecord(day)
	rec.LateMinutes = 30
	return rec
}

func monthlyEmployee(salary int64) employee.Employee {
	emp := scheduledEmployee()
	emp.Compensation = employee.Compensation{
		Basis:       employee.SalaryBasisMonthly,
		BasicSalary: decimal.NewFromInt(salary),
	}
	return emp
}

func fullyWorkedInput(salary int64) EngineInput {
	return EngineInput{
		Employee:    monthlyEmployee(salary),
		Records:     presentRecords(juneWorkdays...),
		Policy:      defaultTestPolicy(),
		RunID:       "run-1",
		CutoffStart: cutoffStart,
		CutoffEnd:   cutoffEnd,
	}
}

func TestComputePayslip_FullyWorkedMonthlyCutoff(t *testing.T) {
	t.Parallel()

	slip := ComputePayslip(fullyWorkedInput(30000))

	assertDecimal(t, "15000", slip.BasicPay)
	assertDecimal(t, "0", slip.AbsentDeduction)
	assertDecimal(t, "15000", slip.TaxableGross)
	assertDecimal(t, "15000", slip.TotalEarnings)
	assertDecimal(t, "15000", slip.NetPay)
	assert.Equal(t, 10, slip.DaysWorked)
	assert.Equal(t, 0, slip.Absences)
}

func TestComputePayslip_DailyBasisPaysWorkedDaysOnly(t *testing.T) {
	t.Parallel()

	emp := scheduledEmployee()
	emp.Compensation = employee.Compensation{
		Basis:       employee.SalaryBasisDaily,
		BasicSalary: decimal.NewFromInt(800),
		Allowance:   decimal.NewFromInt(1000),
	}

	// 8 of 10 workdays attended; the two misses are simply unpaid.
	in := EngineInput{
		Employee:    emp,
		Records:     presentRecords(juneWorkdays[:8]...),
		Policy:      defaultTestPolicy(),
		RunID:       "run-1",
		CutoffStart: cutoffStart,
		CutoffEnd:   cutoffEnd,
	}

	slip := ComputePayslip(in)

	assertDecimal(t, "6400", slip.BasicPay)
	assertDecimal(t, "0", slip.AbsentDeduction)
	assert.Equal(t, 2, slip.Absences)
	// Daily-basis employees keep the full allowance per cutoff.
	assertDecimal(t, "1000", slip.NonTaxableAllowance)
	assertDecimal(t, "7400", slip.NetPay)
}

func TestComputePayslip_DisabledDeductionShortensTheList(t *testing.T) {
	t.Parallel()

	in := fullyWorkedInput(30000)
	in.Selection = payroll.EmployeeSelection{
		EmployeeID: "emp-1",
		Deductions: map[payroll.DeductionType]payroll.DeductionElection{
			payroll.DeductionTypeSSS:        {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(500)},
			payroll.DeductionTypePhilHealth: {Enabled: false, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(400)},
		},
	}

	slip := ComputePayslip(in)

	assert.Len(t, slip.GovernmentDeductions, 1)
	assertDecimal(t, "500", slip.TotalDeductions)
	assertDecimal(t, "14500", slip.NetPay)
}

func TestComputePayslip_IncentivesAndLoans(t *testing.T) {
	t.Parallel()

	in := fullyWorkedInput(30000)
	in.Selection = payroll.EmployeeSelection{
		EmployeeID: "emp-1",
		Incentives: []payroll.LineItem{{Name: "Performance Bonus", Amount: decimal.NewFromInt(2000)}},
		Loans:      []payroll.LineItem{{Name: "Salary Loan", Amount: decimal.NewFromInt(1500)}},
	}

	slip := ComputePayslip(in)

	assertDecimal(t, "17000", slip.TaxableGross)
	assertDecimal(t, "17000", slip.TotalEarnings)
	assertDecimal(t, "1500", slip.TotalDeductions)
	assertDecimal(t, "15500", slip.NetPay)
}

func TestComputePayslip_NetPayFloorsAtZero(t *testing.T) {
	t.Parallel()

	in := fullyWorkedInput(30000)
	in.Selection = payroll.EmployeeSelection{
		EmployeeID: "emp-1",
		Loans:      []payroll.LineItem{{Name: "Salary Loan", Amount: decimal.NewFromInt(99999)}},
	}

	slip := ComputePayslip(in)

	assertDecimal(t, "0", slip.NetPay)
}

func TestCompose_TaxableGrossFloorsAtZero(t *testing.T) {
	t.Parallel()

	emp := monthlyEmployee(26100)
	in := EngineInput{
		Employee:    emp,
		Policy:      defaultTestPolicy(),
		RunID:       "run-1",
		CutoffStart: cutoffStart,
		CutoffEnd:   cutoffEnd,
	}
	rates := DeriveRates(emp.Compensation, in.Policy)
	totals := Totals{Absences: 15}
	attDeductions := ComputeAttendanceDeductions(totals, rates, emp.Compensation.Basis)

	// 15 absences at 1200/day exceed the 13050 semi-monthly basic.
	slip := Compose(in, totals, rates, Premiums{}, attDeductions, nil)

	assertDecimal(t, "0", slip.TaxableGross)
	assertDecimal(t, "0", slip.NetPay)
}

func TestComputePayslip_AttendanceDeductionsNettedOnlyOnce(t *testing.T) {
	t.Parallel()

	in := fullyWorkedInput(26100)
	in.Records = append(presentRecords(juneWorkdays[:9]...), attendance30MinLate(juneWorkdays[9]))

	slip := ComputePayslip(in)

	// Reconciliation: deductions list carries only government and loans;
	// late pay reduction lives inside taxable gross.
	recomputedGross := slip.BasicPay.
		Sub(slip.AbsentDeduction).Sub(slip.LateDeduction).Sub(slip.UndertimeDeduction).
		Add(slip.Overtime.Total()).
		Add(slip.HolidayPay).Add(slip.RestDayPay).Add(slip.NightDiffPay)
	assert.True(t, recomputedGross.Equal(slip.TaxableGross))
	assert.True(t, slip.TotalEarnings.Equal(slip.TaxableGross.Add(slip.NonTaxableAllowance)))
	assert.True(t, slip.NetPay.Equal(slip.TotalEarnings.Sub(slip.TotalDeductions)))
}

func TestComputePayslip_Deterministic(t *testing.T) {
	t.Parallel()

	in := fullyWorkedInput(26100)
	in.Selection = payroll.EmployeeSelection{
		EmployeeID: "emp-1",
		Deductions: map[payroll.DeductionType]payroll.DeductionElection{
			payroll.DeductionTypeSSS: {Enabled: true, Frequency: payroll.DeductionFrequencyHalf, MonthlyAmount: decimal.NewFromInt(500)},
			payroll.DeductionTypeTax: {Enabled: true, Frequency: payroll.DeductionFrequencyFull, MonthlyAmount: decimal.NewFromInt(900)},
		},
		Incentives: []payroll.LineItem{{Name: "Attendance Bonus", Amount: decimal.NewFromInt(500)}},
	}

	first := ComputePayslip(in)
	second := ComputePayslip(in)

	assert.Equal(t, first, second)
}
