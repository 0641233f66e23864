package employee

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateCompensationRequest struct {
	EmployeeID         string
	Basis              *string          `json:"salary_basis,omitempty"`
	BasicSalary        *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowance          *decimal.Decimal `json:"allowance,omitempty"`
	RegularHolidayRate *decimal.Decimal `json:"regular_holiday_rate,omitempty"`
	SpecialHolidayRate *decimal.Decimal `json:"special_holiday_rate,omitempty"`
	RestDayRate        *decimal.Decimal `json:"rest_day_rate,omitempty"`
	NightDiffPercent   *decimal.Decimal `json:"night_diff_percent,omitempty"`
}

var two = decimal.NewFromInt(2)

func (r *UpdateCompensationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Basis != nil {
		valid := false
		for _, v := range SalaryBasisValues {
			if *r.Basis == v {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, validator.ValidationError{Field: "salary_basis", Message: "must be monthly, daily, or hourly"})
		}
	}
	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be greater than zero"})
	}
	if r.Allowance != nil && r.Allowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowance", Message: "must be non-negative"})
	}
	for field, v := range map[string]*decimal.Decimal{
		"regular_holiday_rate": r.RegularHolidayRate,
		"special_holiday_rate": r.SpecialHolidayRate,
		"rest_day_rate":        r.RestDayRate,
		"night_diff_percent":   r.NightDiffPercent,
	} {
		if v != nil && (v.IsNegative() || v.GreaterThan(two)) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be between 0 and 2"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string          `json:"id"`
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	HireDate         string          `json:"hire_date"`
	EmploymentStatus string          `json:"employment_status"`
	SalaryBasis      string          `json:"salary_basis"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	LeaveBalance     decimal.Decimal `json:"leave_balance"`
}

type CompensationResponse struct {
	EmployeeID         string           `json:"employee_id"`
	Basis              string           `json:"salary_basis"`
	BasicSalary        decimal.Decimal  `json:"basic_salary"`
	Allowance          decimal.Decimal  `json:"allowance"`
	RegularHolidayRate *decimal.Decimal `json:"regular_holiday_rate,omitempty"`
	SpecialHolidayRate *decimal.Decimal `json:"special_holiday_rate,omitempty"`
	RestDayRate        *decimal.Decimal `json:"rest_day_rate,omitempty"`
	NightDiffPercent   *decimal.Decimal `json:"night_diff_percent,omitempty"`
}
