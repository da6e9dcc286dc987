package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/database"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, user_id, work_date, shift, start_time, end_time, off_type, status, rejection_reason, created_at, updated_at`

func scanRegistration(row pgx.Row) (shift.Registration, error) {
	var reg shift.Registration
	var startTime, endTime, offType *string
	err := row.Scan(
		&reg.ID, &reg.UserID, &reg.WorkDate, &reg.Shift,
		&startTime, &endTime, &offType,
		&reg.Status, &reg.RejectionReason, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return shift.Registration{}, err
	}
	if startTime != nil {
		reg.StartTime = *startTime
	}
	if endTime != nil {
		reg.EndTime = *endTime
	}
	if offType != nil {
		reg.OffType = shift.OffType(*offType)
	}
	// DATE columns come back in UTC; renormalize to the local calendar day
	// so DateKey stays stable.
	reg.WorkDate = time.Date(reg.WorkDate.Year(), reg.WorkDate.Month(), reg.WorkDate.Day(), 0, 0, 0, 0, time.Local)
	return reg, nil
}

func (r *shiftRepository) Create(ctx context.Context, reg shift.Registration) (shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_registrations (id, user_id, work_date, shift, start_time, end_time, off_type, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING ` + shiftColumns + `
	`

	created, err := scanRegistration(q.QueryRow(ctx, query,
		reg.ID, reg.UserID, dateutil.DateKey(reg.WorkDate), reg.Shift,
		reg.StartTime, reg.EndTime, string(reg.OffType), reg.Status,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_shift_registrations_user_date") {
			return shift.Registration{}, shift.ErrDuplicateDate
		}
		return shift.Registration{}, fmt.Errorf("failed to create shift registration: %w", err)
	}

	return created, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shift_registrations WHERE id = $1`

	reg, err := scanRegistration(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Registration{}, shift.ErrRegistrationNotFound
		}
		return shift.Registration{}, fmt.Errorf("failed to get shift registration: %w", err)
	}

	return reg, nil
}

func (r *shiftRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shift_registrations WHERE user_id = $1 AND work_date = $2`

	reg, err := scanRegistration(q.QueryRow(ctx, query, userID, dateutil.DateKey(date)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Registration{}, shift.ErrRegistrationNotFound
		}
		return shift.Registration{}, fmt.Errorf("failed to get shift registration: %w", err)
	}

	return reg, nil
}

func (r *shiftRepository) ListByUser(ctx context.Context, userID string) ([]shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shift_registrations WHERE user_id = $1 ORDER BY work_date`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift registrations: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (r *shiftRepository) ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shift_registrations
		WHERE user_id = $1 AND work_date >= $2 AND work_date < $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, userID, dateutil.DateKey(start), dateutil.DateKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list shift registrations: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (r *shiftRepository) ListByRange(ctx context.Context, start, end time.Time) ([]shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sr.id, sr.user_id, sr.work_date, sr.shift, sr.start_time, sr.end_time, sr.off_type,
			   sr.status, sr.rejection_reason, sr.created_at, sr.updated_at, e.full_name
		FROM shift_registrations sr
		JOIN employees e ON e.id = sr.user_id
		WHERE sr.work_date >= $1 AND sr.work_date < $2
		ORDER BY sr.work_date, e.full_name
	`

	rows, err := q.Query(ctx, query, dateutil.DateKey(start), dateutil.DateKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list shift registrations: %w", err)
	}
	defer rows.Close()

	var regs []shift.Registration
	for rows.Next() {
		var reg shift.Registration
		var startTime, endTime, offType *string
		var employeeName string
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.WorkDate, &reg.Shift,
			&startTime, &endTime, &offType,
			&reg.Status, &reg.RejectionReason, &reg.CreatedAt, &reg.UpdatedAt,
			&employeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift registration: %w", err)
		}
		if startTime != nil {
			reg.StartTime = *startTime
		}
		if endTime != nil {
			reg.EndTime = *endTime
		}
		if offType != nil {
			reg.OffType = shift.OffType(*offType)
		}
		reg.WorkDate = time.Date(reg.WorkDate.Year(), reg.WorkDate.Month(), reg.WorkDate.Day(), 0, 0, 0, 0, time.Local)
		reg.EmployeeName = &employeeName
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift registrations: %w", err)
	}

	return regs, nil
}

func (r *shiftRepository) Update(ctx context.Context, reg shift.Registration, keepStatus bool) (shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var args []interface{}
	if keepStatus {
		query = `
			UPDATE shift_registrations
			SET shift = $2, start_time = NULLIF($3, ''), end_time = NULLIF($4, ''),
				off_type = NULLIF($5, ''), updated_at = NOW()
			WHERE id = $1
			RETURNING ` + shiftColumns + `
		`
		args = []interface{}{reg.ID, reg.Shift, reg.StartTime, reg.EndTime, string(reg.OffType)}
	} else {
		query = `
			UPDATE shift_registrations
			SET shift = $2, start_time = NULLIF($3, ''), end_time = NULLIF($4, ''),
				off_type = NULLIF($5, ''), status = $6, rejection_reason = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + shiftColumns + `
		`
		args = []interface{}{reg.ID, reg.Shift, reg.StartTime, reg.EndTime, string(reg.OffType), reg.Status, reg.RejectionReason}
	}

	updated, err := scanRegistration(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Registration{}, shift.ErrRegistrationNotFound
		}
		return shift.Registration{}, fmt.Errorf("failed to update shift registration: %w", err)
	}

	return updated, nil
}

func (r *shiftRepository) UpdateStatus(ctx context.Context, id string, status shift.Status, reason *string) (shift.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_registrations
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + shiftColumns + `
	`

	updated, err := scanRegistration(q.QueryRow(ctx, query, id, status, reason))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Registration{}, shift.ErrRegistrationNotFound
		}
		return shift.Registration{}, fmt.Errorf("failed to update shift registration status: %w", err)
	}

	return updated, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrRegistrationNotFound
	}

	return nil
}

func collectRegistrations(rows pgx.Rows) ([]shift.Registration, error) {
	var regs []shift.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift registrations: %w", err)
	}
	return regs, nil
}
