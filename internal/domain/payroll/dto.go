package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== POLICY DTOs ==========

type PolicyResponse struct {
	CompanyID                   string          `json:"company_id"`
	NightDiffPercent            decimal.Decimal `json:"night_diff_percent"`
	OvertimeRegularRate         decimal.Decimal `json:"overtime_regular_rate"`
	OvertimeRestDayRate         decimal.Decimal `json:"overtime_rest_day_rate"`
	RegularHolidayOTRate        decimal.Decimal `json:"regular_holiday_ot_rate"`
	SpecialHolidayOTRate        decimal.Decimal `json:"special_holiday_ot_rate"`
	RegularHolidayRate          decimal.Decimal `json:"regular_holiday_rate"`
	SpecialHolidayRate          decimal.Decimal `json:"special_holiday_rate"`
	RestDayRate                 decimal.Decimal `json:"rest_day_rate"`
	DailyRateIncludesAllowance  bool            `json:"daily_rate_includes_allowance"`
	DailyRateWorkingDaysPerYear int             `json:"daily_rate_working_days_per_year"`
	FirstPayDate                int             `json:"first_pay_date"`
	SecondPayDate               int             `json:"second_pay_date"`
	DefaultedFields             []string        `json:"defaulted_fields,omitempty"`
}

type UpdatePolicyRequest struct {
	NightDiffPercent            *decimal.Decimal `json:"night_diff_percent,omitempty"`
	OvertimeRegularRate         *decimal.Decimal `json:"overtime_regular_rate,omitempty"`
	OvertimeRestDayRate         *decimal.Decimal `json:"overtime_rest_day_rate,omitempty"`
	RegularHolidayOTRate        *decimal.Decimal `json:"regular_holiday_ot_rate,omitempty"`
	SpecialHolidayOTRate        *decimal.Decimal `json:"special_holiday_ot_rate,omitempty"`
	RegularHolidayRate          *decimal.Decimal `json:"regular_holiday_rate,omitempty"`
	SpecialHolidayRate          *decimal.Decimal `json:"special_holiday_rate,omitempty"`
	RestDayRate                 *decimal.Decimal `json:"rest_day_rate,omitempty"`
	DailyRateIncludesAllowance  *bool            `json:"daily_rate_includes_allowance,omitempty"`
	DailyRateWorkingDaysPerYear *int             `json:"daily_rate_working_days_per_year,omitempty"`
	FirstPayDate                *int             `json:"first_pay_date,omitempty"`
	SecondPayDate               *int             `json:"second_pay_date,omitempty"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*decimal.Decimal{
		"night_diff_percent":      r.NightDiffPercent,
		"overtime_regular_rate":   r.OvertimeRegularRate,
		"overtime_rest_day_rate":  r.OvertimeRestDayRate,
		"regular_holiday_ot_rate": r.RegularHolidayOTRate,
		"special_holiday_ot_rate": r.SpecialHolidayOTRate,
		"regular_holiday_rate":    r.RegularHolidayRate,
		"special_holiday_rate":    r.SpecialHolidayRate,
		"rest_day_rate":           r.RestDayRate,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.DailyRateWorkingDaysPerYear != nil && *r.DailyRateWorkingDaysPerYear <= 0 {
		errs = append(errs, validator.ValidationError{Field: "daily_rate_working_days_per_year", Message: "must be positive"})
	}
	for field, v := range map[string]*int{
		"first_pay_date":  r.FirstPayDate,
		"second_pay_date": r.SecondPayDate,
	} {
		if v != nil && (*v < 1 || *v > 31) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be a day of month between 1 and 31"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	CutoffStart string              `json:"cutoff_start"` // "2006-01-02"
	CutoffEnd   string              `json:"cutoff_end"`
	Selections  []EmployeeSelection `json:"selections"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.CutoffStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "cutoff_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.CutoffEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "cutoff_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "cutoff_end", Message: "must not be before cutoff_start"})
	}
	if len(r.Selections) == 0 {
		errs = append(errs, validator.ValidationError{Field: "selections", Message: "at least one employee is required"})
	}
	for _, sel := range r.Selections {
		if sel.EmployeeID == "" {
			errs = append(errs, validator.ValidationError{Field: "selections", Message: "employee_id is required for every selection"})
			break
		}
		for _, el := range sel.Deductions {
			if el.Frequency != DeductionFrequencyFull && el.Frequency != DeductionFrequencyHalf {
				errs = append(errs, validator.ValidationError{Field: "deductions", Message: "frequency must be 'full' or 'half'"})
			}
			if el.MonthlyAmount.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: "deductions", Message: "monthly_amount must be non-negative"})
			}
		}
		for _, item := range append(append([]LineItem{}, sel.Loans...), sel.Incentives...) {
			if item.Name == "" {
				errs = append(errs, validator.ValidationError{Field: "line_items", Message: "name is required"})
			}
			if item.Amount.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: "line_items", Message: "amount must be non-negative"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunResponse struct {
	ID          string              `json:"id"`
	CompanyID   string              `json:"company_id"`
	CutoffStart string              `json:"cutoff_start"`
	CutoffEnd   string              `json:"cutoff_end"`
	Status      string              `json:"status"`
	Selections  []EmployeeSelection `json:"selections,omitempty"`
	Failures    []RunFailure        `json:"failures,omitempty"`
	FinalizedAt *string             `json:"finalized_at,omitempty"`
	PaidAt      *string             `json:"paid_at,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

type ListRunResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// RunResultResponse is the outcome of processing a run: the generated
// payslips plus individually reported failures.
type RunResultResponse struct {
	Run      RunResponse       `json:"run"`
	Payslips []PayslipResponse `json:"payslips"`
	Failures []RunFailure      `json:"failures,omitempty"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID           string `json:"id"`
	PayrollRunID string `json:"payroll_run_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	CutoffStart  string `json:"cutoff_start"`
	CutoffEnd    string `json:"cutoff_end"`

	DailyRate  decimal.Decimal `json:"daily_rate"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`

	DaysWorked     int             `json:"days_worked"`
	Absences       int             `json:"absences"`
	LeaveDays      int             `json:"leave_days"`
	LateMinutes    int             `json:"late_minutes"`
	UndertimeHours decimal.Decimal `json:"undertime_hours"`

	BasicPay           decimal.Decimal `json:"basic_pay"`
	AbsentDeduction    decimal.Decimal `json:"absent_deduction"`
	LateDeduction      decimal.Decimal `json:"late_deduction"`
	UndertimeDeduction decimal.Decimal `json:"undertime_deduction"`

	HolidayPay   decimal.Decimal `json:"holiday_pay"`
	RestDayPay   decimal.Decimal `json:"rest_day_pay"`
	NightDiffPay decimal.Decimal `json:"night_diff_pay"`
	Overtime     OvertimePay     `json:"overtime"`

	Incentives          []LineItem      `json:"incentives"`
	TaxableGross        decimal.Decimal `json:"taxable_gross"`
	NonTaxableAllowance decimal.Decimal `json:"non_taxable_allowance"`
	TotalEarnings       decimal.Decimal `json:"total_earnings"`

	GovernmentDeductions []DeductionLine `json:"government_deductions"`
	LoanDeductions       []LineItem      `json:"loan_deductions"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	NetPay               decimal.Decimal `json:"net_pay"`

	Warnings    []string              `json:"warnings,omitempty"`
	EditHistory []PayslipEditResponse `json:"edit_history,omitempty"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

type PayslipEditResponse struct {
	ID       string        `json:"id"`
	EditedBy string        `json:"edited_by"`
	Reason   string        `json:"reason,omitempty"`
	Changes  []FieldChange `json:"changes"`
	EditedAt string        `json:"edited_at"`
}

// UpdatePayslipRequest adjusts computed amounts after the fact. Only the
// listed fields may change; totals are recomposed, never supplied.
type UpdatePayslipRequest struct {
	ID                   string
	Reason               string           `json:"reason"`
	BasicPay             *decimal.Decimal `json:"basic_pay,omitempty"`
	HolidayPay           *decimal.Decimal `json:"holiday_pay,omitempty"`
	RestDayPay           *decimal.Decimal `json:"rest_day_pay,omitempty"`
	NightDiffPay         *decimal.Decimal `json:"night_diff_pay,omitempty"`
	AbsentDeduction      *decimal.Decimal `json:"absent_deduction,omitempty"`
	LateDeduction        *decimal.Decimal `json:"late_deduction,omitempty"`
	UndertimeDeduction   *decimal.Decimal `json:"undertime_deduction,omitempty"`
	Incentives           []LineItem       `json:"incentives,omitempty"`
	LoanDeductions       []LineItem       `json:"loan_deductions,omitempty"`
	GovernmentDeductions []DeductionLine  `json:"government_deductions,omitempty"`
}

func (r *UpdatePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required for payslip edits"})
	}
	for field, v := range map[string]*decimal.Decimal{
		"basic_pay":           r.BasicPay,
		"holiday_pay":         r.HolidayPay,
		"rest_day_pay":        r.RestDayPay,
		"night_diff_pay":      r.NightDiffPay,
		"absent_deduction":    r.AbsentDeduction,
		"late_deduction":      r.LateDeduction,
		"undertime_deduction": r.UndertimeDeduction,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	for _, item := range append(append([]LineItem{}, r.Incentives...), r.LoanDeductions...) {
		if item.Name == "" {
			errs = append(errs, validator.ValidationError{Field: "line_items", Message: "name is required"})
		}
		if item.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "line_items", Message: "amount must be non-negative"})
		}
	}
	for _, line := range r.GovernmentDeductions {
		if line.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "government_deductions", Message: "amount must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
