package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db database.Querier
}

func NewShiftRepository(db database.Querier) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetActive implements shift.ShiftRepository. The oldest active shift wins.
func (r *shiftRepository) GetActive(ctx context.Context) (*shift.Shift, error) {
	query := `
		SELECT id, name, start_time, end_time, present_hours, half_day_hours,
			break_duration, effective_duration, half_day_duration, grace_period_minutes,
			is_active, created_at, updated_at
		FROM shifts
		WHERE is_active = TRUE
		ORDER BY created_at ASC
		LIMIT 1
	`

	var s shift.Shift
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.PresentHours, &s.HalfDayHours,
		&s.BreakDuration, &s.EffectiveDuration, &s.HalfDayDuration, &s.GracePeriodMinutes,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}

	return &s, nil
}
