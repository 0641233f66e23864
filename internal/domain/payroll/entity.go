package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPolicy - Company payroll configuration as stored. Every field is
// optional; the engine resolves absent fields to documented defaults once
// per run and works only with the resolved snapshot.
type PayrollPolicy struct {
	ID                          string
	CompanyID                   string
	NightDiffPercent            *decimal.Decimal
	OvertimeRegularRate         *decimal.Decimal
	OvertimeRestDayRate         *decimal.Decimal
	RegularHolidayOTRate        *decimal.Decimal
	SpecialHolidayOTRate        *decimal.Decimal
	RegularHolidayRate          *decimal.Decimal
	SpecialHolidayRate          *decimal.Decimal
	RestDayRate                 *decimal.Decimal
	DailyRateIncludesAllowance  *bool
	DailyRateWorkingDaysPerYear *int
	FirstPayDate                *int // day of month, display only
	SecondPayDate               *int
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// ResolvedPolicy is a fully populated policy snapshot. Immutable for the
// duration of a run; a settings change mid-run never affects payslips already
// computed from an earlier snapshot.
type ResolvedPolicy struct {
	NightDiffPercent            decimal.Decimal
	OvertimeRegularRate         decimal.Decimal
	OvertimeRestDayRate         decimal.Decimal
	RegularHolidayOTRate        decimal.Decimal
	SpecialHolidayOTRate        decimal.Decimal
	RegularHolidayRate          decimal.Decimal
	SpecialHolidayRate          decimal.Decimal
	RestDayRate                 decimal.Decimal
	DailyRateIncludesAllowance  bool
	DailyRateWorkingDaysPerYear int
	FirstPayDate                int
	SecondPayDate               int
}

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft      RunStatus = "draft"
	RunStatusProcessing RunStatus = "processing"
	RunStatusFinalized  RunStatus = "finalized"
	RunStatusPaid       RunStatus = "paid"
	RunStatusArchived   RunStatus = "archived"
	RunStatusCancelled  RunStatus = "cancelled"
)

// CanCancel reports whether the run may still be cancelled. Paid and archived
// runs are immutable history.
func (s RunStatus) CanCancel() bool {
	return s == RunStatusDraft || s == RunStatusProcessing || s == RunStatusFinalized
}

// DeductionType enum - statutory withholding categories.
type DeductionType string

const (
	DeductionTypeSSS        DeductionType = "sss"
	DeductionTypePhilHealth DeductionType = "philhealth"
	DeductionTypePagIbig    DeductionType = "pagibig"
	DeductionTypeTax        DeductionType = "tax"
)

// DeductionTypeOrder fixes the order government lines appear on a payslip so
// recomputation from identical inputs stays byte-identical.
var DeductionTypeOrder = []DeductionType{
	DeductionTypeSSS,
	DeductionTypePhilHealth,
	DeductionTypePagIbig,
	DeductionTypeTax,
}

// DeductionFrequency enum - how much of a monthly-table amount one cutoff
// carries.
type DeductionFrequency string

const (
	DeductionFrequencyFull DeductionFrequency = "full"
	DeductionFrequencyHalf DeductionFrequency = "half"
)

// DeductionElection is a per-run, per-employee choice for one government
// deduction. MonthlyAmount is already looked up from the statutory tables by
// the caller; the engine never consults tax tables itself.
type DeductionElection struct {
	Enabled       bool               `json:"enabled"`
	Frequency     DeductionFrequency `json:"frequency"`
	MonthlyAmount decimal.Decimal    `json:"monthly_amount"`
}

// LineItem is a free-form loan deduction or incentive scoped to one run.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// EmployeeSelection carries the per-employee choices for one run.
type EmployeeSelection struct {
	EmployeeID string                              `json:"employee_id"`
	Deductions map[DeductionType]DeductionElection `json:"deductions"`
	Loans      []LineItem                          `json:"loans"`
	Incentives []LineItem                          `json:"incentives"`
}

// RunFailure records one employee whose computation failed without aborting
// the batch.
type RunFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// PayrollRun - one cutoff period for one company.
type PayrollRun struct {
	ID          string
	CompanyID   string
	CutoffStart time.Time
	CutoffEnd   time.Time
	Status      RunStatus
	Selections  []EmployeeSelection
	Failures    []RunFailure
	CreatedBy   string
	FinalizedAt *time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SelectionFor returns the elections for one employee on this run.
func (r PayrollRun) SelectionFor(employeeID string) (EmployeeSelection, bool) {
	for _, s := range r.Selections {
		if s.EmployeeID == employeeID {
			return s, true
		}
	}
	return EmployeeSelection{}, false
}

// OvertimePay splits overtime earnings into the seven mutually exclusive
// buckets by day type and whether the hours exceed the first eight.
type OvertimePay struct {
	Regular              decimal.Decimal `json:"regular"`
	RestDay              decimal.Decimal `json:"rest_day"`
	RestDayExcess        decimal.Decimal `json:"rest_day_excess"`
	SpecialHoliday       decimal.Decimal `json:"special_holiday"`
	SpecialHolidayExcess decimal.Decimal `json:"special_holiday_excess"`
	RegularHoliday       decimal.Decimal `json:"regular_holiday"`
	RegularHolidayExcess decimal.Decimal `json:"regular_holiday_excess"`
}

func (o OvertimePay) Total() decimal.Decimal {
	return o.Regular.
		Add(o.RestDay).Add(o.RestDayExcess).
		Add(o.SpecialHoliday).Add(o.SpecialHolidayExcess).
		Add(o.RegularHoliday).Add(o.RegularHolidayExcess)
}

// DeductionLine is one government deduction actually applied to a payslip.
// A disabled election produces no line at all, which is observably different
// from a zero-amount line.
type DeductionLine struct {
	Type   DeductionType   `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Payslip - the composed result for one (employee, run). Created once;
// subsequent changes append to edit history, never overwrite silently.
type Payslip struct {
	ID           string
	PayrollRunID string
	EmployeeID   string
	CompanyID    string
	CutoffStart  time.Time
	CutoffEnd    time.Time

	DailyRate  decimal.Decimal
	HourlyRate decimal.Decimal

	DaysWorked     int
	Absences       int
	LeaveDays      int
	LateMinutes    int
	UndertimeHours decimal.Decimal

	BasicPay           decimal.Decimal
	AbsentDeduction    decimal.Decimal
	LateDeduction      decimal.Decimal
	UndertimeDeduction decimal.Decimal

	HolidayPay   decimal.Decimal
	RestDayPay   decimal.Decimal
	NightDiffPay decimal.Decimal
	Overtime     OvertimePay

	Incentives          []LineItem
	TaxableGross        decimal.Decimal
	NonTaxableAllowance decimal.Decimal
	TotalEarnings       decimal.Decimal

	GovernmentDeductions []DeductionLine
	LoanDeductions       []LineItem
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal

	Warnings []string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	EditHistory  []PayslipEdit
}

// GovernmentTotal sums the applied government lines.
func (p Payslip) GovernmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.GovernmentDeductions {
		total = total.Add(d.Amount)
	}
	return total
}

// LoanTotal sums the loan deductions.
func (p Payslip) LoanTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.LoanDeductions {
		total = total.Add(l.Amount)
	}
	return total
}

// FieldChange describes one changed field in a payslip edit.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// PayslipEdit - one append-only audit entry for a post-creation change.
type PayslipEdit struct {
	ID        string
	PayslipID string
	EditedBy  string
	Reason    string
	Changes   []FieldChange
	EditedAt  time.Time
}
