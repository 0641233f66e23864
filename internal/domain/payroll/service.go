package payroll

import "context"

type PayrollService interface {
	// Policy
	GetPolicy(ctx context.Context) (PolicyResponse, error)
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)

	// Runs
	CreateRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)
	ProcessRun(ctx context.Context, runID string) (RunResultResponse, error)
	FinalizeRun(ctx context.Context, runID string) error
	MarkRunPaid(ctx context.Context, runID string) error
	CancelRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) (ListRunResponse, error)

	// Payslips
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, runID string) ([]PayslipResponse, error)
	UpdatePayslip(ctx context.Context, req UpdatePayslipRequest) (PayslipResponse, error)
}
