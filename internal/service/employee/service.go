package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	logger       *slog.Logger
}

func NewEmployeeService(db *database.DB, employeeRepo employee.EmployeeRepository, logger *slog.Logger) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

// Helper function to extract claims from context
func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.EmployeeResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.EmployeeResponse{
			ID:               emp.ID,
			EmployeeCode:     emp.EmployeeCode,
			FullName:         emp.FullName,
			HireDate:         emp.HireDate.Format("2006-01-02"),
			EmploymentStatus: string(emp.EmploymentStatus),
			SalaryBasis:      string(emp.Compensation.Basis),
			BasicSalary:      emp.Compensation.BasicSalary,
			LeaveBalance:     emp.LeaveBalance(),
		})
	}

	return responses, nil
}

func (s *EmployeeServiceImpl) GetCompensation(ctx context.Context, employeeID string) (employee.CompensationResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.CompensationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return employee.CompensationResponse{}, err
	}

	return mapToCompensationResponse(emp), nil
}

func (s *EmployeeServiceImpl) UpdateCompensation(ctx context.Context, req employee.UpdateCompensationRequest) (employee.CompensationResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.CompensationResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.CompensationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return employee.CompensationResponse{}, err
	}

	comp := emp.Compensation
	if req.Basis != nil {
		comp.Basis = employee.SalaryBasis(*req.Basis)
	}
	if req.BasicSalary != nil {
		comp.BasicSalary = *req.BasicSalary
	}
	if req.Allowance != nil {
		comp.Allowance = *req.Allowance
	}
	if req.RegularHolidayRate != nil {
		comp.RegularHolidayRate = req.RegularHolidayRate
	}
	if req.SpecialHolidayRate != nil {
		comp.SpecialHolidayRate = req.SpecialHolidayRate
	}
	if req.RestDayRate != nil {
		comp.RestDayRate = req.RestDayRate
	}
	if req.NightDiffPercent != nil {
		comp.NightDiffPercent = req.NightDiffPercent
	}

	if err := s.employeeRepo.UpdateCompensation(ctx, companyID, req.EmployeeID, comp); err != nil {
		return employee.CompensationResponse{}, err
	}

	s.logger.Info("compensation updated",
		slog.String("employee_id", req.EmployeeID),
		slog.String("salary_basis", string(comp.Basis)),
	)

	emp.Compensation = comp
	return mapToCompensationResponse(emp), nil
}

func mapToCompensationResponse(emp employee.Employee) employee.CompensationResponse {
	return employee.CompensationResponse{
		EmployeeID:         emp.ID,
		Basis:              string(emp.Compensation.Basis),
		BasicSalary:        emp.Compensation.BasicSalary,
		Allowance:          emp.Compensation.Allowance,
		RegularHolidayRate: emp.Compensation.RegularHolidayRate,
		SpecialHolidayRate: emp.Compensation.SpecialHolidayRate,
		RestDayRate:        emp.Compensation.RestDayRate,
		NightDiffPercent:   emp.Compensation.NightDiffPercent,
	}
}
