package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairPunches_Alternating(t *testing.T) {
	punches := []attendance.Punch{
		punchAt("1", attendance.EventIn, "2024-01-10T09:00:00Z"),
		punchAt("2", attendance.EventOut, "2024-01-10T12:00:00Z"),
		punchAt("3", attendance.EventIn, "2024-01-10T13:00:00Z"),
		punchAt("4", attendance.EventOut, "2024-01-10T17:30:00Z"),
	}

	result := PairPunches(punches)

	require.Len(t, result.Valid, 2)
	assert.Len(t, result.All, 2)
	assert.InDelta(t, 3.0, result.Valid[0].DurationHours, 1e-9)
	assert.InDelta(t, 4.5, result.Valid[1].DurationHours, 1e-9)
	for _, pair := range result.Valid {
		assert.False(t, pair.OutTime.Before(pair.InTime))
	}
}

func TestPairPunches_SortsByTimestamp(t *testing.T) {
	// backdated IN inserted after its OUT
	punches := []attendance.Punch{
		punchAt("2", attendance.EventOut, "2024-01-10T17:00:00Z"),
		punchAt("1", attendance.EventIn, "2024-01-10T08:00:00Z"),
	}

	result := PairPunches(punches)

	require.Len(t, result.Valid, 1)
	assert.Equal(t, "2024-01-10T08:00:00Z", result.Valid[0].InTime.Format("2006-01-02T15:04:05Z07:00"))
	assert.InDelta(t, 9.0, result.Valid[0].DurationHours, 1e-9)
}

func TestPairPunches_Orphans(t *testing.T) {
	tests := []struct {
		name      string
		punches   []attendance.Punch
		wantAll   int
		wantValid int
	}{
		{
			name: "double IN closes previous as zero pair",
			punches: []attendance.Punch{
				punchAt("1", attendance.EventIn, "2024-01-10T09:00:00Z"),
				punchAt("2", attendance.EventIn, "2024-01-10T09:05:00Z"),
				punchAt("3", attendance.EventOut, "2024-01-10T17:00:00Z"),
			},
			wantAll:   2,
			wantValid: 1,
		},
		{
			name: "orphan OUT emits zero pair",
			punches: []attendance.Punch{
				punchAt("1", attendance.EventOut, "2024-01-10T08:00:00Z"),
				punchAt("2", attendance.EventIn, "2024-01-10T09:00:00Z"),
				punchAt("3", attendance.EventOut, "2024-01-10T17:00:00Z"),
			},
			wantAll:   2,
			wantValid: 1,
		},
		{
			name: "trailing IN emits zero pair",
			punches: []attendance.Punch{
				punchAt("1", attendance.EventIn, "2024-01-10T09:00:00Z"),
			},
			wantAll:   1,
			wantValid: 0,
		},
		{
			name: "IN and OUT at same instant is dropped",
			punches: []attendance.Punch{
				punchAt("1", attendance.EventIn, "2024-01-10T09:00:00Z"),
				punchAt("2", attendance.EventOut, "2024-01-10T09:00:00Z"),
			},
			wantAll:   1,
			wantValid: 0,
		},
		{
			name:      "no punches",
			punches:   nil,
			wantAll:   0,
			wantValid: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PairPunches(tt.punches)
			assert.Len(t, result.All, tt.wantAll)
			assert.Len(t, result.Valid, tt.wantValid)
			assert.NotNil(t, result.Valid)
		})
	}
}

func TestPairPunches_SkipsTombstoned(t *testing.T) {
	deleted := punchAt("2", attendance.EventOut, "2024-01-10T10:00:00Z")
	deleted.IsDeleted = true

	result := PairPunches([]attendance.Punch{
		punchAt("1", attendance.EventIn, "2024-01-10T09:00:00Z"),
		deleted,
		punchAt("3", attendance.EventOut, "2024-01-10T17:00:00Z"),
	})

	require.Len(t, result.Valid, 1)
	assert.InDelta(t, 8.0, result.Valid[0].DurationHours, 1e-9)
}

func TestPairPunches_ValidCountForAlternatingSequences(t *testing.T) {
	for n := 0; n <= 12; n++ {
		var punches []attendance.Punch
		base := punchAt("0", attendance.EventIn, "2024-01-10T06:00:00Z").Timestamp
		for i := 0; i < n; i++ {
			eventType := attendance.EventIn
			if i%2 == 1 {
				eventType = attendance.EventOut
			}
			p := punchAt("x", eventType, "2024-01-10T06:00:00Z")
			p.Timestamp = base.Add(time.Duration(i) * 30 * time.Minute)
			punches = append(punches, p)
		}

		result := PairPunches(punches)
		assert.Len(t, result.Valid, n/2, "n=%d", n)
	}
}
