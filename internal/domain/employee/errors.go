package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeCodeExists    = errors.New("employee code already exists")
	ErrInvalidSalaryBasis    = errors.New("salary basis must be monthly, daily, or hourly")
	ErrInvalidBasicSalary    = errors.New("basic salary must be greater than zero")
	ErrInvalidRateMultiplier = errors.New("rate multiplier must be between 0 and 2")
	ErrEmployeeInactive      = errors.New("employee is not active")
)
