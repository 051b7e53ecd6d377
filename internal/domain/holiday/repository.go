package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// Find returns an active holiday on date that is global or bound to
	// locationID, nil when the date is not a holiday.
	Find(ctx context.Context, date time.Time, locationID *string) (*Holiday, error)
}
