package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) attendance.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// GetByCompanyRange implements attendance.HolidayRepository. Recurring
// holidays are returned regardless of their stored year; Matches decides
// whether one applies to a given date.
func (h *holidayRepositoryImpl) GetByCompanyRange(ctx context.Context, companyID string, start, end time.Time) ([]attendance.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, company_id, date, name, type, is_recurring, created_at, updated_at
		FROM holidays
		WHERE company_id = $1
		  AND (is_recurring OR (date >= $2 AND date <= $3))
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	defer rows.Close()

	var holidays []attendance.Holiday
	for rows.Next() {
		var hol attendance.Holiday
		err := rows.Scan(
			&hol.ID, &hol.CompanyID, &hol.Date, &hol.Name, &hol.Type,
			&hol.IsRecurring, &hol.CreatedAt, &hol.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}
