package fraction

import (
	"time"

	"github.com/google/uuid"
)

// Fraction is a time-scoped ownership share of a lot, expressed as an
// exact numerator/denominator pair. Both bounds are inclusive; a nil
// EndDate means the share is open-ended.
type Fraction struct {
	ID          uuid.UUID
	LotID       uuid.UUID
	OwnerID     uuid.UUID
	Numerator   int64
	Denominator int64
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ActiveAt reports whether the fraction covers the given date:
// start_date <= date and (end_date absent or end_date >= date).
func (f *Fraction) ActiveAt(date time.Time) bool {
	if f.StartDate.After(date) {
		return false
	}

	return f.EndDate == nil || !f.EndDate.Before(date)
}
