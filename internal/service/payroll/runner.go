package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// RunResult is the outcome of one batch: payslips for the employees that
// computed cleanly, failures for the ones that did not. One bad employee
// never aborts the rest.
type RunResult struct {
	Payslips []payroll.Payslip
	Failures []payroll.RunFailure
}

// RunProcessor loads everything a batch needs up front, then fans the pure
// per-employee computation out across workers.
type RunProcessor struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    attendance.HolidayRepository
	workers        int
	logger         *slog.Logger
}

func NewRunProcessor(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo attendance.HolidayRepository,
	workers int,
	logger *slog.Logger,
) *RunProcessor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &RunProcessor{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		holidayRepo:    holidayRepo,
		workers:        workers,
		logger:         logger,
	}
}

// Process computes payslips for every employee selected on the run. Payslips
// come back in selection order regardless of which worker finished first.
func (p *RunProcessor) Process(ctx context.Context, run payroll.PayrollRun, policy payroll.ResolvedPolicy, advisories []string) (RunResult, error) {
	employeeIDs := make([]string, 0, len(run.Selections))
	for _, sel := range run.Selections {
		employeeIDs = append(employeeIDs, sel.EmployeeID)
	}

	employees, err := p.employeeRepo.GetByIDs(ctx, run.CompanyID, employeeIDs)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load employees: %w", err)
	}
	employeeByID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		employeeByID[emp.ID] = emp
	}

	records, err := p.attendanceRepo.GetByEmployeesRange(ctx, run.CompanyID, employeeIDs, run.CutoffStart, run.CutoffEnd)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	holidays, err := p.holidayRepo.GetByCompanyRange(ctx, run.CompanyID, run.CutoffStart, run.CutoffEnd)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load holidays: %w", err)
	}

	// Slots are indexed by selection position so results stay deterministic.
	payslips := make([]*payroll.Payslip, len(run.Selections))
	var mu sync.Mutex
	var failures []payroll.RunFailure

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, sel := range run.Selections {
		i, sel := i, sel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			emp, ok := employeeByID[sel.EmployeeID]
			if !ok {
				mu.Lock()
				failures = append(failures, payroll.RunFailure{
					EmployeeID: sel.EmployeeID,
					Reason:     "employee not found or not active",
				})
				mu.Unlock()
				return nil
			}

			slip, err := p.computeOne(emp, records[sel.EmployeeID], holidays, sel, run, policy, advisories)
			if err != nil {
				p.logger.Warn("payslip computation failed",
					slog.String("run_id", run.ID),
					slog.String("employee_id", sel.EmployeeID),
					slog.String("reason", err.Error()),
				)
				mu.Lock()
				failures = append(failures, payroll.RunFailure{
					EmployeeID: sel.EmployeeID,
					Reason:     err.Error(),
				})
				mu.Unlock()
				return nil
			}

			payslips[i] = &slip
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	result := RunResult{Payslips: make([]payroll.Payslip, 0, len(payslips))}
	for _, slip := range payslips {
		if slip != nil {
			result.Payslips = append(result.Payslips, *slip)
		}
	}

	// Failure order follows selection order, not worker completion order.
	byEmployee := make(map[string]payroll.RunFailure, len(failures))
	for _, f := range failures {
		byEmployee[f.EmployeeID] = f
	}
	for _, sel := range run.Selections {
		if f, ok := byEmployee[sel.EmployeeID]; ok {
			result.Failures = append(result.Failures, f)
		}
	}

	return result, nil
}

// computeOne isolates a single employee; a panic inside the engine becomes a
// RunFailure instead of taking the batch down.
func (p *RunProcessor) computeOne(
	emp employee.Employee,
	records []attendance.DayRecord,
	holidays []attendance.Holiday,
	sel payroll.EmployeeSelection,
	run payroll.PayrollRun,
	policy payroll.ResolvedPolicy,
	advisories []string,
) (slip payroll.Payslip, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("computation panicked: %v", r)
		}
	}()

	if err := validateCompensation(emp); err != nil {
		return payroll.Payslip{}, err
	}

	slip = ComputePayslip(EngineInput{
		Employee:         emp,
		Records:          records,
		Holidays:         holidays,
		Selection:        sel,
		Policy:           policy,
		PolicyAdvisories: advisories,
		RunID:            run.ID,
		CutoffStart:      run.CutoffStart,
		CutoffEnd:        run.CutoffEnd,
	})
	return slip, nil
}

func validateCompensation(emp employee.Employee) error {
	switch emp.Compensation.Basis {
	case employee.SalaryBasisMonthly, employee.SalaryBasisDaily, employee.SalaryBasisHourly:
	default:
		return fmt.Errorf("unknown salary basis %q", emp.Compensation.Basis)
	}
	if emp.Compensation.BasicSalary.IsNegative() {
		return fmt.Errorf("negative basic salary")
	}
	return nil
}
