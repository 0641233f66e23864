package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployeeRepo struct {
	employees []employee.Employee
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id string, _ string) (employee.Employee, error) {
	for _, emp := range s.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepo) GetByIDs(_ context.Context, _ string, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range s.employees {
		for _, id := range ids {
			if emp.ID == id {
				out = append(out, emp)
			}
		}
	}
	return out, nil
}

func (s *stubEmployeeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]employee.Employee, error) {
	return s.employees, nil
}

func (s *stubEmployeeRepo) UpdateCompensation(_ context.Context, _ string, _ string, _ employee.Compensation) error {
	return nil
}

type stubAttendanceRepo struct {
	records map[string][]attendance.DayRecord
}

func (s *stubAttendanceRepo) GetByEmployeeRange(_ context.Context, employeeID string, _ string, _, _ time.Time) ([]attendance.DayRecord, error) {
	return s.records[employeeID], nil
}

func (s *stubAttendanceRepo) GetByEmployeesRange(_ context.Context, _ string, _ []string, _, _ time.Time) (map[string][]attendance.DayRecord, error) {
	return s.records, nil
}

func (s *stubAttendanceRepo) MarkConsumed(_ context.Context, _ string, _ []string, _, _ time.Time, _ string) error {
	return nil
}

type stubHolidayRepo struct {
	holidays []attendance.Holiday
}

func (s *stubHolidayRepo) GetByCompanyRange(_ context.Context, _ string, _, _ time.Time) ([]attendance.Holiday, error) {
	return s.holidays, nil
}

func testProcessor(emps []employee.Employee, records map[string][]attendance.DayRecord) *RunProcessor {
	return NewRunProcessor(
		&stubEmployeeRepo{employees: emps},
		&stubAttendanceRepo{records: records},
		&stubHolidayRepo{},
		4,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func testRun(employeeIDs ...string) payroll.PayrollRun {
	selections := make([]payroll.EmployeeSelection, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		selections = append(selections, payroll.EmployeeSelection{EmployeeID: id})
	}
	return payroll.PayrollRun{
		ID:          "run-1",
		CompanyID:   "company-1",
		CutoffStart: cutoffStart,
		CutoffEnd:   cutoffEnd,
		Status:      payroll.RunStatusDraft,
		Selections:  selections,
	}
}

func TestRunProcessor_OneFailureDoesNotAbortTheBatch(t *testing.T) {
	t.Parallel()

	emp := monthlyEmployee(26100)
	emp.ID = "emp-1"
	records := map[string][]attendance.DayRecord{
		"emp-1": presentRecords(juneWorkdays...),
	}

	proc := testProcessor([]employee.Employee{emp}, records)
	result, err := proc.Process(context.Background(), testRun("emp-1", "emp-missing"), defaultTestPolicy(), nil)

	require.NoError(t, err)
	require.Len(t, result.Payslips, 1)
	assert.Equal(t, "emp-1", result.Payslips[0].EmployeeID)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "emp-missing", result.Failures[0].EmployeeID)
	assert.Contains(t, result.Failures[0].Reason, "not found")
}

func TestRunProcessor_InvalidSalaryBasisBecomesFailure(t *testing.T) {
	t.Parallel()

	broken := monthlyEmployee(26100)
	broken.ID = "emp-broken"
	broken.Compensation.Basis = "weekly"

	proc := testProcessor([]employee.Employee{broken}, map[string][]attendance.DayRecord{})
	result, err := proc.Process(context.Background(), testRun("emp-broken"), defaultTestPolicy(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.Payslips)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Reason, "unknown salary basis")
}

func TestRunProcessor_ResultsFollowSelectionOrder(t *testing.T) {
	t.Parallel()

	var emps []employee.Employee
	records := map[string][]attendance.DayRecord{}
	ids := []string{"emp-3", "emp-1", "emp-2"}
	for _, id := range ids {
		emp := monthlyEmployee(26100)
		emp.ID = id
		emps = append(emps, emp)
		records[id] = presentRecords(juneWorkdays...)
	}

	proc := testProcessor(emps, records)
	result, err := proc.Process(context.Background(), testRun(ids...), defaultTestPolicy(), nil)

	require.NoError(t, err)
	require.Len(t, result.Payslips, 3)
	for i, id := range ids {
		assert.Equal(t, id, result.Payslips[i].EmployeeID)
	}
	assert.Empty(t, result.Failures)
}

func TestRunProcessor_NegativeSalaryRejected(t *testing.T) {
	t.Parallel()

	emp := monthlyEmployee(26100)
	emp.ID = "emp-neg"
	emp.Compensation.BasicSalary = emp.Compensation.BasicSalary.Neg()

	proc := testProcessor([]employee.Employee{emp}, map[string][]attendance.DayRecord{})
	result, err := proc.Process(context.Background(), testRun("emp-neg"), defaultTestPolicy(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.Payslips)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Reason, "negative basic salary")
}
