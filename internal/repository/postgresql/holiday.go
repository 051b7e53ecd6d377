package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepository struct {
	db database.Querier
}

func NewHolidayRepository(db database.Querier) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// Find implements holiday.HolidayRepository. A location-specific holiday is
// preferred over a global one on the same date.
func (r *holidayRepository) Find(ctx context.Context, date time.Time, locationID *string) (*holiday.Holiday, error) {
	query := `
		SELECT id, name, holiday_date, location_id, is_active, created_at, updated_at
		FROM holidays
		WHERE is_active = TRUE
		  AND holiday_date = $1::date
		  AND (location_id IS NULL OR location_id = $2)
		ORDER BY location_id NULLS LAST
		LIMIT 1
	`

	var h holiday.Holiday
	err := r.db.QueryRow(ctx, query, date.Format("2006-01-02"), locationID).Scan(
		&h.ID, &h.Name, &h.Date, &h.LocationID, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}

	return &h, nil
}
