package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, employee_id, company_id, date, schedule_in, schedule_out,
	actual_in, actual_out, overtime_hours, night_hours, late_minutes,
	undertime_hours, status, is_holiday, holiday_type, created_at, updated_at
`

// GetByEmployeeRange implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetByEmployeeRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC
	`, attendanceColumns)

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	return collectDayRecords(rows)
}

// GetByEmployeesRange implements attendance.AttendanceRepository. One query
// for the whole batch; the processor indexes the result per employee.
func (a *attendanceRepositoryImpl) GetByEmployeesRange(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) (map[string][]attendance.DayRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE company_id = $1 AND employee_id = ANY($2) AND date >= $3 AND date <= $4
		ORDER BY employee_id ASC, date ASC
	`, attendanceColumns)

	rows, err := q.Query(ctx, query, companyID, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	records, err := collectDayRecords(rows)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]attendance.DayRecord, len(employeeIDs))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	return byEmployee, nil
}

// MarkConsumed implements attendance.AttendanceRepository. Stamps the
// finalized run onto every record it paid out.
func (a *attendanceRepositoryImpl) MarkConsumed(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time, runID string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET consumed_by_run_id = $1, updated_at = NOW()
		WHERE company_id = $2 AND employee_id = ANY($3) AND date >= $4 AND date <= $5
		  AND consumed_by_run_id IS NULL
	`

	if _, err := q.Exec(ctx, query, runID, companyID, employeeIDs, start, end); err != nil {
		return fmt.Errorf("failed to mark attendance consumed: %w", err)
	}

	return nil
}

func collectDayRecords(rows pgx.Rows) ([]attendance.DayRecord, error) {
	var records []attendance.DayRecord
	for rows.Next() {
		var rec attendance.DayRecord
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ScheduleIn, &rec.ScheduleOut,
			&rec.ActualIn, &rec.ActualOut, &rec.OvertimeHours, &rec.NightHours, &rec.LateMinutes,
			&rec.UndertimeHours, &rec.Status, &rec.IsHoliday, &rec.HolidayType, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}
