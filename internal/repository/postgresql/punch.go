package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const punchColumns = `id, employee_id, event_type, punched_at, source,
	latitude, longitude, address, ip_address, has_address, is_remote_clock_in,
	is_deleted, is_manually_added, adjustment, note, created_by, created_at`

type punchRepository struct {
	db database.Querier
}

func NewPunchRepository(db database.Querier) attendance.PunchRepository {
	return &punchRepository{db: db}
}

// Create implements attendance.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p attendance.Punch) (attendance.Punch, error) {
	adjustment, err := marshalNullable(p.Adjustment)
	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to encode adjustment: %w", err)
	}

	query := `
		INSERT INTO attendance_punches (
			id, employee_id, event_type, punched_at, source,
			latitude, longitude, address, ip_address, has_address, is_remote_clock_in,
			is_manually_added, adjustment, note, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err = r.db.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.EventType, p.Timestamp, p.Source,
		p.Latitude, p.Longitude, p.Address, p.IPAddress, p.HasAddress, p.IsRemoteClockIn,
		p.IsManuallyAdded, adjustment, p.Note, p.CreatedBy, p.CreatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to insert punch: %w", err)
	}

	return p, nil
}

// GetLatest implements attendance.PunchRepository.
func (r *punchRepository) GetLatest(ctx context.Context, employeeID string) (*attendance.Punch, error) {
	query := `
		SELECT ` + punchColumns + `
		FROM attendance_punches
		WHERE employee_id = $1 AND is_deleted = FALSE
		ORDER BY punched_at DESC, created_at DESC
		LIMIT 1
	`

	p, err := scanPunch(r.db.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest punch: %w", err)
	}

	return &p, nil
}

// ListBetween implements attendance.PunchRepository.
func (r *punchRepository) ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	query := `
		SELECT ` + punchColumns + `
		FROM attendance_punches
		WHERE employee_id = $1 AND is_deleted = FALSE
		  AND punched_at >= $2 AND punched_at < $3
		ORDER BY punched_at ASC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	return collectPunches(rows)
}

// ListLogs implements attendance.PunchRepository.
func (r *punchRepository) ListLogs(ctx context.Context, employeeID string, filter attendance.LogFilter) ([]attendance.Punch, int64, error) {
	var (
		conditions = []string{"employee_id = $1", "is_deleted = FALSE"}
		args       = []interface{}{employeeID}
	)

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("punched_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("punched_at < $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_punches WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_punches
		WHERE %s
		ORDER BY punched_at DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, punchColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	punches, err := collectPunches(rows)
	if err != nil {
		return nil, 0, err
	}

	return punches, total, nil
}

// ListEmployeeIDsWithPunches implements attendance.PunchRepository.
func (r *punchRepository) ListEmployeeIDsWithPunches(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT employee_id
		FROM attendance_punches
		WHERE is_deleted = FALSE AND punched_at >= $1 AND punched_at < $2
		ORDER BY employee_id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with punches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee ids: %w", err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPunch(row rowScanner) (attendance.Punch, error) {
	var (
		p          attendance.Punch
		adjustment []byte
	)

	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EventType, &p.Timestamp, &p.Source,
		&p.Latitude, &p.Longitude, &p.Address, &p.IPAddress, &p.HasAddress, &p.IsRemoteClockIn,
		&p.IsDeleted, &p.IsManuallyAdded, &adjustment, &p.Note, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return attendance.Punch{}, err
	}

	if len(adjustment) > 0 {
		var info attendance.AdjustmentInfo
		if err := json.Unmarshal(adjustment, &info); err != nil {
			return attendance.Punch{}, fmt.Errorf("failed to decode adjustment of punch %s: %w", p.ID, err)
		}
		p.Adjustment = &info
	}

	return p, nil
}

func collectPunches(rows pgx.Rows) ([]attendance.Punch, error) {
	punches := make([]attendance.Punch, 0)
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}
	return punches, nil
}

// marshalNullable encodes v as JSON, or returns nil for SQL NULL when v is a nil pointer.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
