package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== POLICY ==========

func (r *payrollRepository) GetPolicy(ctx context.Context, companyID string) (payroll.PayrollPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, night_diff_percent,
			   overtime_regular_rate, overtime_rest_day_rate,
			   regular_holiday_ot_rate, special_holiday_ot_rate,
			   regular_holiday_rate, special_holiday_rate, rest_day_rate,
			   daily_rate_includes_allowance, daily_rate_working_days_per_year,
			   first_pay_date, second_pay_date,
			   created_at, updated_at
		FROM payroll_policies
		WHERE company_id = $1
	`

	var p payroll.PayrollPolicy
	err := q.QueryRow(ctx, query, companyID).Scan(
		&p.ID, &p.CompanyID, &p.NightDiffPercent,
		&p.OvertimeRegularRate, &p.OvertimeRestDayRate,
		&p.RegularHolidayOTRate, &p.SpecialHolidayOTRate,
		&p.RegularHolidayRate, &p.SpecialHolidayRate, &p.RestDayRate,
		&p.DailyRateIncludesAllowance, &p.DailyRateWorkingDaysPerYear,
		&p.FirstPayDate, &p.SecondPayDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPolicy{}, payroll.ErrPayrollPolicyNotFound
		}
		return payroll.PayrollPolicy{}, fmt.Errorf("failed to get payroll policy: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) UpsertPolicy(ctx context.Context, policy payroll.PayrollPolicy) (payroll.PayrollPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_policies (
			company_id, night_diff_percent,
			overtime_regular_rate, overtime_rest_day_rate,
			regular_holiday_ot_rate, special_holiday_ot_rate,
			regular_holiday_rate, special_holiday_rate, rest_day_rate,
			daily_rate_includes_allowance, daily_rate_working_days_per_year,
			first_pay_date, second_pay_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (company_id) DO UPDATE SET
			night_diff_percent = EXCLUDED.night_diff_percent,
			overtime_regular_rate = EXCLUDED.overtime_regular_rate,
			overtime_rest_day_rate = EXCLUDED.overtime_rest_day_rate,
			regular_holiday_ot_rate = EXCLUDED.regular_holiday_ot_rate,
			special_holiday_ot_rate = EXCLUDED.special_holiday_ot_rate,
			regular_holiday_rate = EXCLUDED.regular_holiday_rate,
			special_holiday_rate = EXCLUDED.special_holiday_rate,
			rest_day_rate = EXCLUDED.rest_day_rate,
			daily_rate_includes_allowance = EXCLUDED.daily_rate_includes_allowance,
			daily_rate_working_days_per_year = EXCLUDED.daily_rate_working_days_per_year,
			first_pay_date = EXCLUDED.first_pay_date,
			second_pay_date = EXCLUDED.second_pay_date,
			updated_at = NOW()
		RETURNING id, company_id, night_diff_percent,
			overtime_regular_rate, overtime_rest_day_rate,
			regular_holiday_ot_rate, special_holiday_ot_rate,
			regular_holiday_rate, special_holiday_rate, rest_day_rate,
			daily_rate_includes_allowance, daily_rate_working_days_per_year,
			first_pay_date, second_pay_date,
			created_at, updated_at
	`

	var p payroll.PayrollPolicy
	err := q.QueryRow(ctx, query,
		policy.CompanyID, policy.NightDiffPercent,
		policy.OvertimeRegularRate, policy.OvertimeRestDayRate,
		policy.RegularHolidayOTRate, policy.SpecialHolidayOTRate,
		policy.RegularHolidayRate, policy.SpecialHolidayRate, policy.RestDayRate,
		policy.DailyRateIncludesAllowance, policy.DailyRateWorkingDaysPerYear,
		policy.FirstPayDate, policy.SecondPayDate,
	).Scan(
		&p.ID, &p.CompanyID, &p.NightDiffPercent,
		&p.OvertimeRegularRate, &p.OvertimeRestDayRate,
		&p.RegularHolidayOTRate, &p.SpecialHolidayOTRate,
		&p.RegularHolidayRate, &p.SpecialHolidayRate, &p.RestDayRate,
		&p.DailyRateIncludesAllowance, &p.DailyRateWorkingDaysPerYear,
		&p.FirstPayDate, &p.SecondPayDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollPolicy{}, fmt.Errorf("failed to upsert payroll policy: %w", err)
	}

	return p, nil
}

// ========== RUNS ==========

// Selections and failures are stored as JSONB documents. They are read and
// written whole, never queried into.

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	selections, err := json.Marshal(run.Selections)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		INSERT INTO payroll_runs (id, company_id, cutoff_start, cutoff_end, status, selections, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		run.ID, run.CompanyID, run.CutoffStart, run.CutoffEnd, run.Status, selections, run.CreatedBy,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, cutoff_start, cutoff_end, status, selections, failures,
			   created_by, finalized_at, paid_at, created_at, updated_at
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	return scanRun(q.QueryRow(ctx, query, id, companyID))
}

func (r *payrollRepository) GetRunByCutoff(ctx context.Context, companyID string, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, cutoff_start, cutoff_end, status, selections, failures,
			   created_by, finalized_at, paid_at, created_at, updated_at
		FROM payroll_runs
		WHERE company_id = $1 AND cutoff_start = $2 AND cutoff_end = $3 AND status != $4
	`

	return scanRun(q.QueryRow(ctx, query, companyID, run.CutoffStart, run.CutoffEnd, payroll.RunStatusCancelled))
}

func (r *payrollRepository) ListRuns(ctx context.Context, companyID string, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{companyID}
	where := "WHERE company_id = $1"
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM payroll_runs " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT id, company_id, cutoff_start, cutoff_end, status, selections, failures,
			   created_by, finalized_at, paid_at, created_at, updated_at
		FROM payroll_runs
		%s
		ORDER BY cutoff_start DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll runs: %w", err)
	}

	return runs, totalCount, nil
}

func (r *payrollRepository) UpdateRunStatus(ctx context.Context, id string, companyID string, status payroll.RunStatus, failures []payroll.RunFailure) error {
	q := GetQuerier(ctx, r.db)

	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	query := `
		UPDATE payroll_runs
		SET status = $1,
			failures = $2,
			finalized_at = CASE WHEN $1 = 'finalized' THEN NOW() ELSE finalized_at END,
			paid_at = CASE WHEN $1 = 'paid' THEN NOW() ELSE paid_at END,
			updated_at = NOW()
		WHERE id = $3 AND company_id = $4
	`

	tag, err := q.Exec(ctx, query, status, failuresJSON, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update payroll run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}

	return nil
}

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	var selections, failures []byte

	err := row.Scan(
		&run.ID, &run.CompanyID, &run.CutoffStart, &run.CutoffEnd, &run.Status,
		&selections, &failures,
		&run.CreatedBy, &run.FinalizedAt, &run.PaidAt, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to scan payroll run: %w", err)
	}

	if len(selections) > 0 {
		if err := json.Unmarshal(selections, &run.Selections); err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("failed to unmarshal selections: %w", err)
		}
	}
	if len(failures) > 0 {
		if err := json.Unmarshal(failures, &run.Failures); err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("failed to unmarshal failures: %w", err)
		}
	}

	return run, nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `
	p.id, p.payroll_run_id, p.employee_id, p.company_id, p.cutoff_start, p.cutoff_end,
	p.daily_rate, p.hourly_rate,
	p.days_worked, p.absences, p.leave_days, p.late_minutes, p.undertime_hours,
	p.basic_pay, p.absent_deduction, p.late_deduction, p.undertime_deduction,
	p.holiday_pay, p.rest_day_pay, p.night_diff_pay, p.overtime,
	p.incentives, p.taxable_gross, p.non_taxable_allowance, p.total_earnings,
	p.government_deductions, p.loan_deductions, p.total_deductions, p.net_pay,
	p.warnings, p.created_at, p.updated_at,
	e.full_name, e.employee_code
`

// ReplaceRunPayslips swaps the run's payslips atomically. Reprocessing a
// draft run must not leave stale slips from the previous computation behind.
func (r *payrollRepository) ReplaceRunPayslips(ctx context.Context, runID string, companyID string, payslips []payroll.Payslip) ([]payroll.Payslip, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM payslips WHERE payroll_run_id = $1 AND company_id = $2`,
			runID, companyID,
		); err != nil {
			return fmt.Errorf("failed to clear run payslips: %w", err)
		}

		query := `
			INSERT INTO payslips (
				id, payroll_run_id, employee_id, company_id, cutoff_start, cutoff_end,
				daily_rate, hourly_rate,
				days_worked, absences, leave_days, late_minutes, undertime_hours,
				basic_pay, absent_deduction, late_deduction, undertime_deduction,
				holiday_pay, rest_day_pay, night_diff_pay, overtime,
				incentives, taxable_gross, non_taxable_allowance, total_earnings,
				government_deductions, loan_deductions, total_deductions, net_pay,
				warnings
			) VALUES (
				gen_random_uuid(), $1, $2, $3, $4, $5,
				$6, $7,
				$8, $9, $10, $11, $12,
				$13, $14, $15, $16,
				$17, $18, $19, $20,
				$21, $22, $23, $24,
				$25, $26, $27, $28,
				$29
			)
		`

		for _, slip := range payslips {
			overtime, incentives, government, loans, warnings, err := marshalPayslipDocs(slip)
			if err != nil {
				return err
			}

			if _, err := tx.Exec(ctx, query,
				runID, slip.EmployeeID, companyID, slip.CutoffStart, slip.CutoffEnd,
				slip.DailyRate, slip.HourlyRate,
				slip.DaysWorked, slip.Absences, slip.LeaveDays, slip.LateMinutes, slip.UndertimeHours,
				slip.BasicPay, slip.AbsentDeduction, slip.LateDeduction, slip.UndertimeDeduction,
				slip.HolidayPay, slip.RestDayPay, slip.NightDiffPay, overtime,
				incentives, slip.TaxableGross, slip.NonTaxableAllowance, slip.TotalEarnings,
				government, loans, slip.TotalDeductions, slip.NetPay,
				warnings,
			); err != nil {
				return fmt.Errorf("failed to insert payslip for employee %s: %w", slip.EmployeeID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.ListPayslipsByRun(ctx, runID, companyID)
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`, payslipColumns)

	slip, err := scanPayslip(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, err
	}

	return slip, nil
}

func (r *payrollRepository) ListPayslipsByRun(ctx context.Context, runID string, companyID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.payroll_run_id = $1 AND p.company_id = $2
		ORDER BY e.employee_code ASC
	`, payslipColumns)

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, nil
}

// UpdatePayslip writes the edited amounts and appends the audit entry in one
// transaction. Edits without their audit row must never be visible.
func (r *payrollRepository) UpdatePayslip(ctx context.Context, companyID string, payslip payroll.Payslip, edit payroll.PayslipEdit) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		overtime, incentives, government, loans, warnings, err := marshalPayslipDocs(payslip)
		if err != nil {
			return err
		}

		query := `
			UPDATE payslips
			SET basic_pay = $1, absent_deduction = $2, late_deduction = $3, undertime_deduction = $4,
				holiday_pay = $5, rest_day_pay = $6, night_diff_pay = $7, overtime = $8,
				incentives = $9, taxable_gross = $10, non_taxable_allowance = $11, total_earnings = $12,
				government_deductions = $13, loan_deductions = $14, total_deductions = $15, net_pay = $16,
				warnings = $17, updated_at = NOW()
			WHERE id = $18 AND company_id = $19
		`

		tag, err := tx.Exec(ctx, query,
			payslip.BasicPay, payslip.AbsentDeduction, payslip.LateDeduction, payslip.UndertimeDeduction,
			payslip.HolidayPay, payslip.RestDayPay, payslip.NightDiffPay, overtime,
			incentives, payslip.TaxableGross, payslip.NonTaxableAllowance, payslip.TotalEarnings,
			government, loans, payslip.TotalDeductions, payslip.NetPay,
			warnings, payslip.ID, companyID,
		)
		if err != nil {
			return fmt.Errorf("failed to update payslip: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrPayslipNotFound
		}

		changes, err := json.Marshal(edit.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal edit changes: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO payslip_edits (id, payslip_id, edited_by, reason, changes, edited_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			edit.ID, edit.PayslipID, edit.EditedBy, edit.Reason, changes, edit.EditedAt,
		); err != nil {
			return fmt.Errorf("failed to insert payslip edit: %w", err)
		}

		return nil
	})
}

func (r *payrollRepository) ListPayslipEdits(ctx context.Context, payslipID string, companyID string) ([]payroll.PayslipEdit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pe.id, pe.payslip_id, pe.edited_by, pe.reason, pe.changes, pe.edited_at
		FROM payslip_edits pe
		JOIN payslips p ON p.id = pe.payslip_id
		WHERE pe.payslip_id = $1 AND p.company_id = $2
		ORDER BY pe.edited_at ASC
	`

	rows, err := q.Query(ctx, query, payslipID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip edits: %w", err)
	}
	defer rows.Close()

	var edits []payroll.PayslipEdit
	for rows.Next() {
		var edit payroll.PayslipEdit
		var changes []byte
		if err := rows.Scan(&edit.ID, &edit.PayslipID, &edit.EditedBy, &edit.Reason, &changes, &edit.EditedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payslip edit: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &edit.Changes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal edit changes: %w", err)
			}
		}
		edits = append(edits, edit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslip edits: %w", err)
	}

	return edits, nil
}

// ========== HELPERS ==========

func marshalPayslipDocs(slip payroll.Payslip) (overtime, incentives, government, loans, warnings []byte, err error) {
	if overtime, err = json.Marshal(slip.Overtime); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal overtime: %w", err)
	}
	if incentives, err = json.Marshal(slip.Incentives); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal incentives: %w", err)
	}
	if government, err = json.Marshal(slip.GovernmentDeductions); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal government deductions: %w", err)
	}
	if loans, err = json.Marshal(slip.LoanDeductions); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal loan deductions: %w", err)
	}
	if warnings, err = json.Marshal(slip.Warnings); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}
	return overtime, incentives, government, loans, warnings, nil
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var slip payroll.Payslip
	var overtime, incentives, government, loans, warnings []byte

	err := row.Scan(
		&slip.ID, &slip.PayrollRunID, &slip.EmployeeID, &slip.CompanyID, &slip.CutoffStart, &slip.CutoffEnd,
		&slip.DailyRate, &slip.HourlyRate,
		&slip.DaysWorked, &slip.Absences, &slip.LeaveDays, &slip.LateMinutes, &slip.UndertimeHours,
		&slip.BasicPay, &slip.AbsentDeduction, &slip.LateDeduction, &slip.UndertimeDeduction,
		&slip.HolidayPay, &slip.RestDayPay, &slip.NightDiffPay, &overtime,
		&incentives, &slip.TaxableGross, &slip.NonTaxableAllowance, &slip.TotalEarnings,
		&government, &loans, &slip.TotalDeductions, &slip.NetPay,
		&warnings, &slip.CreatedAt, &slip.UpdatedAt,
		&slip.EmployeeName, &slip.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, err
		}
		return payroll.Payslip{}, fmt.Errorf("failed to scan payslip: %w", err)
	}

	if err := json.Unmarshal(overtime, &slip.Overtime); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to unmarshal overtime: %w", err)
	}
	if len(incentives) > 0 {
		if err := json.Unmarshal(incentives, &slip.Incentives); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal incentives: %w", err)
		}
	}
	if len(government) > 0 {
		if err := json.Unmarshal(government, &slip.GovernmentDeductions); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal government deductions: %w", err)
		}
	}
	if len(loans) > 0 {
		if err := json.Unmarshal(loans, &slip.LoanDeductions); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal loan deductions: %w", err)
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &slip.Warnings); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}

	return slip, nil
}
