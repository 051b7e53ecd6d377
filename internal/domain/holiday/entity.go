package holiday

import "time"

type Holiday struct {
	ID         string
	Name       string
	Date       time.Time
	LocationID *string // nil for company-wide holidays
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (h Holiday) IsGlobal() bool {
	return h.LocationID == nil
}
