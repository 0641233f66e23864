package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Compensation and schedule live in JSONB columns. They are documents the
// engine reads whole; nothing queries into their fields.
const employeeColumns = `
	id, company_id, employee_code, full_name, hire_date, resignation_date,
	employment_status, compensation, schedule, leave_credits,
	created_at, updated_at, deleted_at
`

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}

// GetByIDs implements employee.EmployeeRepository. Unknown IDs are simply
// absent from the result; the caller decides whether that is an error.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE company_id = $1 AND id = ANY($2) AND deleted_at IS NULL
	`, employeeColumns)

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by ids: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE company_id = $1 AND employment_status = $2 AND deleted_at IS NULL
		ORDER BY employee_code ASC
	`, employeeColumns)

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// UpdateCompensation implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateCompensation(ctx context.Context, companyID string, employeeID string, comp employee.Compensation) error {
	q := GetQuerier(ctx, e.db)

	compensation, err := json.Marshal(comp)
	if err != nil {
		return fmt.Errorf("failed to marshal compensation: %w", err)
	}

	query := `
		UPDATE employees
		SET compensation = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, compensation, employeeID, companyID)
	if err != nil {
		return fmt.Errorf("failed to update compensation for employee %s: %w", employeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var compensation, schedule, leaveCredits []byte

	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.HireDate, &emp.ResignationDate,
		&emp.EmploymentStatus, &compensation, &schedule, &leaveCredits,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}

	if err := json.Unmarshal(compensation, &emp.Compensation); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to unmarshal compensation: %w", err)
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &emp.Schedule); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to unmarshal schedule: %w", err)
		}
	}
	if len(leaveCredits) > 0 {
		if err := json.Unmarshal(leaveCredits, &emp.LeaveCredits); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to unmarshal leave credits: %w", err)
		}
	}

	return emp, nil
}
