package payroll

import "context"

type RunFilter struct {
	Status string
	Page   int
	Limit  int
}

type PayrollRepository interface {
	// Policy
	GetPolicy(ctx context.Context, companyID string) (PayrollPolicy, error)
	UpsertPolicy(ctx context.Context, policy PayrollPolicy) (PayrollPolicy, error)

	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	GetRunByCutoff(ctx context.Context, companyID string, run PayrollRun) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, int64, error)
	UpdateRunStatus(ctx context.Context, id string, companyID string, status RunStatus, failures []RunFailure) error

	// Payslips
	ReplaceRunPayslips(ctx context.Context, runID string, companyID string, payslips []Payslip) ([]Payslip, error)
	GetPayslipByID(ctx context.Context, id string, companyID string) (Payslip, error)
	ListPayslipsByRun(ctx context.Context, runID string, companyID string) ([]Payslip, error)
	UpdatePayslip(ctx context.Context, companyID string, payslip Payslip, edit PayslipEdit) error
	ListPayslipEdits(ctx context.Context, payslipID string, companyID string) ([]PayslipEdit, error)
}
