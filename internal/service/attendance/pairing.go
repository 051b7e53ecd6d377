package attendance

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// PairingResult keeps every emitted pair for anomaly detection and the
// positive-duration subset for hour totals.
type PairingResult struct {
	All   []attendance.InOutPair
	Valid []attendance.InOutPair
}

// HasZeroDurationPair reports whether an orphan punch produced a marker pair.
func (r PairingResult) HasZeroDurationPair() bool {
	for _, pair := range r.All {
		if pair.DurationHours == 0 {
			return true
		}
	}
	return false
}

// PairPunches matches IN punches to the following OUT punch in timestamp order.
// An IN followed by another IN, an OUT with no open IN and an IN left open at
// the end are each emitted as a zero-duration pair at the orphan's timestamp.
func PairPunches(punches []attendance.Punch) PairingResult {
	active := make([]attendance.Punch, 0, len(punches))
	for _, p := range punches {
		if !p.IsDeleted {
			active = append(active, p)
		}
	}
	slices.SortStableFunc(active, func(a, b attendance.Punch) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	all := make([]attendance.InOutPair, 0, len(active)/2+1)
	var open *time.Time

	for i := range active {
		p := active[i]
		switch p.EventType {
		case attendance.EventIn:
			if open != nil {
				all = append(all, zeroPair(*open))
			}
			ts := p.Timestamp
			open = &ts
		case attendance.EventOut:
			if open != nil {
				all = append(all, newPair(*open, p.Timestamp))
				open = nil
			} else {
				all = append(all, zeroPair(p.Timestamp))
			}
		}
	}
	if open != nil {
		all = append(all, zeroPair(*open))
	}

	valid := make([]attendance.InOutPair, 0, len(all))
	for _, pair := range all {
		if pair.InTime.Equal(pair.OutTime) || pair.DurationHours < 0 {
			continue
		}
		valid = append(valid, pair)
	}

	return PairingResult{All: all, Valid: valid}
}

func newPair(in, out time.Time) attendance.InOutPair {
	return attendance.InOutPair{
		InTime:        in,
		OutTime:       out,
		DurationHours: out.Sub(in).Hours(),
	}
}

func zeroPair(at time.Time) attendance.InOutPair {
	return attendance.InOutPair{InTime: at, OutTime: at}
}
