package employee

import "context"

type EmployeeService interface {
	ListActive(ctx context.Context) ([]EmployeeResponse, error)
	GetCompensation(ctx context.Context, employeeID string) (CompensationResponse, error)
	UpdateCompensation(ctx context.Context, req UpdateCompensationRequest) (CompensationResponse, error)
}
