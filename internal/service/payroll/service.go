package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	processor      *RunProcessor
	logger         *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	processor *RunProcessor,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		processor:      processor,
		logger:         logger,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== POLICY ==========

func (s *PayrollServiceImpl) GetPolicy(ctx context.Context) (payroll.PolicyResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}

	stored, err := s.payrollRepo.GetPolicy(ctx, companyID)
	if err != nil && !errors.Is(err, payroll.ErrPayrollPolicyNotFound) {
		return payroll.PolicyResponse{}, err
	}
	stored.CompanyID = companyID

	resolved, advisories := ResolvePolicy(stored)
	return mapToPolicyResponse(companyID, resolved, advisories), nil
}

func (s *PayrollServiceImpl) UpdatePolicy(ctx context.Context, req payroll.UpdatePolicyRequest) (payroll.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PolicyResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}

	current, err := s.payrollRepo.GetPolicy(ctx, companyID)
	if err != nil && !errors.Is(err, payroll.ErrPayrollPolicyNotFound) {
		return payroll.PolicyResponse{}, err
	}
	current.CompanyID = companyID

	// Apply updates
	if req.NightDiffPercent != nil {
		current.NightDiffPercent = req.NightDiffPercent
	}
	if req.OvertimeRegularRate != nil {
		current.OvertimeRegularRate = req.OvertimeRegularRate
	}
	if req.OvertimeRestDayRate != nil {
		current.OvertimeRestDayRate = req.OvertimeRestDayRate
	}
	if req.RegularHolidayOTRate != nil {
		current.RegularHolidayOTRate = req.RegularHolidayOTRate
	}
	if req.SpecialHolidayOTRate != nil {
		current.SpecialHolidayOTRate = req.SpecialHolidayOTRate
	}
	if req.RegularHolidayRate != nil {
		current.RegularHolidayRate = req.RegularHolidayRate
	}
	if req.SpecialHolidayRate != nil {
		current.SpecialHolidayRate = req.SpecialHolidayRate
	}
	if req.RestDayRate != nil {
		current.RestDayRate = req.RestDayRate
	}
	if req.DailyRateIncludesAllowance != nil {
		current.DailyRateIncludesAllowance = req.DailyRateIncludesAllowance
	}
	if req.DailyRateWorkingDaysPerYear != nil {
		current.DailyRateWorkingDaysPerYear = req.DailyRateWorkingDaysPerYear
	}
	if req.FirstPayDate != nil {
		current.FirstPayDate = req.FirstPayDate
	}
	if req.SecondPayDate != nil {
		current.SecondPayDate = req.SecondPayDate
	}

	updated, err := s.payrollRepo.UpsertPolicy(ctx, current)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}

	resolved, advisories := ResolvePolicy(updated)
	return mapToPolicyResponse(companyID, resolved, advisories), nil
}

// ========== RUNS ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	cutoffStart, _ := time.Parse("2006-01-02", req.CutoffStart)
	cutoffEnd, _ := time.Parse("2006-01-02", req.CutoffEnd)

	run := payroll.PayrollRun{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		CutoffStart: cutoffStart,
		CutoffEnd:   cutoffEnd,
		Status:      payroll.RunStatusDraft,
		Selections:  req.Selections,
		CreatedBy:   userID,
	}

	if _, err := s.payrollRepo.GetRunByCutoff(ctx, companyID, run); err == nil {
		return payroll.RunResponse{}, payroll.ErrRunAlreadyExists
	} else if !errors.Is(err, payroll.ErrRunNotFound) {
		return payroll.RunResponse{}, fmt.Errorf("failed to check existing run: %w", err)
	}

	created, err := s.payrollRepo.CreateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(created), nil
}

func (s *PayrollServiceImpl) ProcessRun(ctx context.Context, runID string) (payroll.RunResultResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}
	if run.Status != payroll.RunStatusDraft && run.Status != payroll.RunStatusProcessing {
		return payroll.RunResultResponse{}, payroll.ErrRunImmutable
	}
	if len(run.Selections) == 0 {
		return payroll.RunResultResponse{}, payroll.ErrNoEmployeesSelected
	}

	if err := s.payrollRepo.UpdateRunStatus(ctx, run.ID, companyID, payroll.RunStatusProcessing, nil); err != nil {
		return payroll.RunResultResponse{}, err
	}

	// Policy is snapshotted here, once. A settings change while the batch is
	// running cannot leak into payslips computed from this snapshot.
	stored, err := s.payrollRepo.GetPolicy(ctx, companyID)
	if err != nil && !errors.Is(err, payroll.ErrPayrollPolicyNotFound) {
		return payroll.RunResultResponse{}, err
	}
	resolved, advisories := ResolvePolicy(stored)

	result, err := s.processor.Process(ctx, run, resolved, advisories)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}

	saved, err := s.payrollRepo.ReplaceRunPayslips(ctx, run.ID, companyID, result.Payslips)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}

	if err := s.payrollRepo.UpdateRunStatus(ctx, run.ID, companyID, payroll.RunStatusProcessing, result.Failures); err != nil {
		return payroll.RunResultResponse{}, err
	}

	run.Status = payroll.RunStatusProcessing
	run.Failures = result.Failures

	responses := make([]payroll.PayslipResponse, 0, len(saved))
	for _, slip := range saved {
		responses = append(responses, mapToPayslipResponse(slip))
	}

	return payroll.RunResultResponse{
		Run:      mapToRunResponse(run),
		Payslips: responses,
		Failures: result.Failures,
	}, nil
}

func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if run.Status != payroll.RunStatusProcessing {
		return payroll.ErrRunNotDraft
	}

	payslips, err := s.payrollRepo.ListPayslipsByRun(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if len(payslips) == 0 {
		return payroll.ErrNoEmployeesSelected
	}

	// Finalization freezes the consumed attendance records; later
	// corrections go through payslip edit history.
	employeeIDs := make([]string, 0, len(payslips))
	for _, slip := range payslips {
		employeeIDs = append(employeeIDs, slip.EmployeeID)
	}
	if err := s.attendanceRepo.MarkConsumed(ctx, companyID, employeeIDs, run.CutoffStart, run.CutoffEnd, run.ID); err != nil {
		return fmt.Errorf("failed to mark attendance consumed: %w", err)
	}

	return s.payrollRepo.UpdateRunStatus(ctx, runID, companyID, payroll.RunStatusFinalized, run.Failures)
}

func (s *PayrollServiceImpl) MarkRunPaid(ctx context.Context, runID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if run.Status != payroll.RunStatusFinalized {
		return payroll.ErrRunNotFinalized
	}

	return s.payrollRepo.UpdateRunStatus(ctx, runID, companyID, payroll.RunStatusPaid, run.Failures)
}

func (s *PayrollServiceImpl) CancelRun(ctx context.Context, runID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if !run.Status.CanCancel() {
		return payroll.ErrRunImmutable
	}

	return s.payrollRepo.UpdateRunStatus(ctx, runID, companyID, payroll.RunStatusCancelled, run.Failures)
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	runs, totalCount, err := s.payrollRepo.ListRuns(ctx, companyID, filter)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	responses := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, mapToRunResponse(run))
	}

	return payroll.ListRunResponse{
		Data:       responses,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.payrollRepo.GetPayslipByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	edits, err := s.payrollRepo.ListPayslipEdits(ctx, id, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	slip.EditHistory = edits

	return mapToPayslipResponse(slip), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, runID string) ([]payroll.PayslipResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.ListPayslipsByRun(ctx, runID, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, slip := range payslips {
		responses = append(responses, mapToPayslipResponse(slip))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) UpdatePayslip(ctx context.Context, req payroll.UpdatePayslipRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.payrollRepo.GetPayslipByID(ctx, req.ID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	edited, changes, err := ApplyEdit(slip, req)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	edit := payroll.PayslipEdit{
		ID:        uuid.NewString(),
		PayslipID: slip.ID,
		EditedBy:  userID,
		Reason:    req.Reason,
		Changes:   changes,
		EditedAt:  time.Now().UTC(),
	}

	if err := s.payrollRepo.UpdatePayslip(ctx, companyID, edited, edit); err != nil {
		return payroll.PayslipResponse{}, err
	}

	s.logger.Info("payslip edited",
		slog.String("payslip_id", slip.ID),
		slog.String("edited_by", userID),
		slog.Int("changes", len(changes)),
	)

	return s.GetPayslip(ctx, req.ID)
}

// ========== HELPERS ==========

func mapToPolicyResponse(companyID string, p payroll.ResolvedPolicy, advisories []string) payroll.PolicyResponse {
	return payroll.PolicyResponse{
		CompanyID:                   companyID,
		NightDiffPercent:            p.NightDiffPercent,
		OvertimeRegularRate:         p.OvertimeRegularRate,
		OvertimeRestDayRate:         p.OvertimeRestDayRate,
		RegularHolidayOTRate:        p.RegularHolidayOTRate,
		SpecialHolidayOTRate:        p.SpecialHolidayOTRate,
		RegularHolidayRate:          p.RegularHolidayRate,
		SpecialHolidayRate:          p.SpecialHolidayRate,
		RestDayRate:                 p.RestDayRate,
		DailyRateIncludesAllowance:  p.DailyRateIncludesAllowance,
		DailyRateWorkingDaysPerYear: p.DailyRateWorkingDaysPerYear,
		FirstPayDate:                p.FirstPayDate,
		SecondPayDate:               p.SecondPayDate,
		DefaultedFields:             advisories,
	}
}

func mapToRunResponse(run payroll.PayrollRun) payroll.RunResponse {
	var finalizedAt, paidAt *string
	if run.FinalizedAt != nil {
		str := run.FinalizedAt.Format(time.RFC3339)
		finalizedAt = &str
	}
	if run.PaidAt != nil {
		str := run.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	return payroll.RunResponse{
		ID:          run.ID,
		CompanyID:   run.CompanyID,
		CutoffStart: run.CutoffStart.Format("2006-01-02"),
		CutoffEnd:   run.CutoffEnd.Format("2006-01-02"),
		Status:      string(run.Status),
		Selections:  run.Selections,
		Failures:    run.Failures,
		FinalizedAt: finalizedAt,
		PaidAt:      paidAt,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
	}
}

func mapToPayslipResponse(slip payroll.Payslip) payroll.PayslipResponse {
	employeeName := ""
	employeeCode := ""
	if slip.EmployeeName != nil {
		employeeName = *slip.EmployeeName
	}
	if slip.EmployeeCode != nil {
		employeeCode = *slip.EmployeeCode
	}

	edits := make([]payroll.PayslipEditResponse, 0, len(slip.EditHistory))
	for _, e := range slip.EditHistory {
		edits = append(edits, payroll.PayslipEditResponse{
			ID:       e.ID,
			EditedBy: e.EditedBy,
			Reason:   e.Reason,
			Changes:  e.Changes,
			EditedAt: e.EditedAt.Format(time.RFC3339),
		})
	}

	return payroll.PayslipResponse{
		ID:           slip.ID,
		PayrollRunID: slip.PayrollRunID,
		EmployeeID:   slip.EmployeeID,
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		CutoffStart:  slip.CutoffStart.Format("2006-01-02"),
		CutoffEnd:    slip.CutoffEnd.Format("2006-01-02"),

		DailyRate:  slip.DailyRate,
		HourlyRate: slip.HourlyRate,

		DaysWorked:     slip.DaysWorked,
		Absences:       slip.Absences,
		LeaveDays:      slip.LeaveDays,
		LateMinutes:    slip.LateMinutes,
		UndertimeHours: slip.UndertimeHours,

		BasicPay:           slip.BasicPay,
		AbsentDeduction:    slip.AbsentDeduction,
		LateDeduction:      slip.LateDeduction,
		UndertimeDeduction: slip.UndertimeDeduction,

		HolidayPay:   slip.HolidayPay,
		RestDayPay:   slip.RestDayPay,
		NightDiffPay: slip.NightDiffPay,
		Overtime:     slip.Overtime,

		Incentives:          slip.Incentives,
		TaxableGross:        slip.TaxableGross,
		NonTaxableAllowance: slip.NonTaxableAllowance,
		TotalEarnings:       slip.TotalEarnings,

		GovernmentDeductions: slip.GovernmentDeductions,
		LoanDeductions:       slip.LoanDeductions,
		TotalDeductions:      slip.TotalDeductions,
		NetPay:               slip.NetPay,

		Warnings:    slip.Warnings,
		EditHistory: edits,
		CreatedAt:   slip.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   slip.UpdatedAt.Format(time.RFC3339),
	}
}
