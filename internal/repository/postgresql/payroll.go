package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `pr.id, pr.user_id, pr.month, pr.base_salary, pr.standard_work_days,
	pr.actual_work_days, pr.ot_hours, pr.ot_pay, pr.allowance, pr.bonus, pr.deductions,
	pr.net_salary, pr.status, pr.created_at, pr.updated_at, e.full_name`

func scanPayrollRecord(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Month, &rec.BaseSalary, &rec.StandardWorkDays,
		&rec.ActualWorkDays, &rec.OTHours, &rec.OTPay, &rec.Allowance, &rec.Bonus, &rec.Deductions,
		&rec.NetSalary, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	return rec, nil
}

func (r *payrollRepository) GetByUserAndMonth(ctx context.Context, userID, month string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		LEFT JOIN employees e ON e.id = pr.user_id
		WHERE pr.user_id = $1 AND pr.month = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, userID, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListByMonth(ctx context.Context, month string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		LEFT JOIN employees e ON e.id = pr.user_id
		WHERE pr.month = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	return collectPayrollRecords(rows)
}

func (r *payrollRepository) ListByUser(ctx context.Context, userID string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		LEFT JOIN employees e ON e.id = pr.user_id
		WHERE pr.user_id = $1
		ORDER BY pr.created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	return collectPayrollRecords(rows)
}

// Upsert writes the record keyed by (user_id, month) in one statement so a
// concurrent recalculation cannot interleave a read-modify-write.
func (r *payrollRepository) Upsert(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH upserted AS (
			INSERT INTO payroll_records (
				id, user_id, month, base_salary, standard_work_days, actual_work_days,
				ot_hours, ot_pay, allowance, bonus, deductions, net_salary, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (user_id, month) DO UPDATE SET
				base_salary = EXCLUDED.base_salary,
				standard_work_days = EXCLUDED.standard_work_days,
				actual_work_days = EXCLUDED.actual_work_days,
				ot_hours = EXCLUDED.ot_hours,
				ot_pay = EXCLUDED.ot_pay,
				allowance = EXCLUDED.allowance,
				bonus = EXCLUDED.bonus,
				deductions = EXCLUDED.deductions,
				net_salary = EXCLUDED.net_salary,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING *
		)
		SELECT pr.id, pr.user_id, pr.month, pr.base_salary, pr.standard_work_days,
			pr.actual_work_days, pr.ot_hours, pr.ot_pay, pr.allowance, pr.bonus, pr.deductions,
			pr.net_salary, pr.status, pr.created_at, pr.updated_at, e.full_name
		FROM upserted pr
		LEFT JOIN employees e ON e.id = pr.user_id
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.ID, record.UserID, record.Month, record.BaseSalary, record.StandardWorkDays,
		record.ActualWorkDays, record.OTHours, record.OTPay, record.Allowance, record.Bonus,
		record.Deductions, record.NetSalary, record.Status,
	))
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) Delete(ctx context.Context, userID, month string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE user_id = $1 AND month = $2`, userID, month)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}

	return nil
}

func collectPayrollRecords(rows pgx.Rows) ([]payroll.Record, error) {
	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}
