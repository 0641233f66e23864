package payroll

import "errors"

var (
	ErrPayrollPolicyNotFound = errors.New("payroll policy not found")
	ErrRunNotFound           = errors.New("payroll run not found")
	ErrRunAlreadyExists      = errors.New("payroll run already exists for this cutoff")
	ErrRunNotDraft           = errors.New("payroll run is not in draft status")
	ErrRunNotFinalized       = errors.New("payroll run is not finalized")
	ErrRunImmutable          = errors.New("payroll run can no longer be modified")
	ErrPayslipNotFound       = errors.New("payslip not found")
	ErrNoEmployeesSelected   = errors.New("no employees selected for payroll run")
	ErrNothingToEdit         = errors.New("payslip edit contains no changes")
)
