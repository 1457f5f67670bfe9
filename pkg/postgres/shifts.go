package postgres

import (
	"context"
	"fmt"

	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/schedule"
)

// GetShifts retrieves shifts within the given inclusive date window
func (d *DB) GetShifts(ctx context.Context, from, to string) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, shift_date, start_time, end_time, break_minutes, color, notes
		FROM shift
		WHERE shift_date >= $1 AND shift_date <= $2
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		var color, notes *string
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Date, &s.StartTime, &s.EndTime, &s.BreakMinutes, &color, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		if color != nil {
			s.Color = *color
		}
		if notes != nil {
			s.Notes = *notes
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// ApplyShiftChanges reconciles an edit journal against storage in a single
// transaction: inserts, then updates, then deletes.
func (d *DB) ApplyShiftChanges(ctx context.Context, changes schedule.Changes) error {
	if len(changes.Inserts) == 0 && len(changes.Updates) == 0 && len(changes.Deletes) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range changes.Inserts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift (id, employee_id, shift_date, start_time, end_time, break_minutes, color, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.EmployeeID, s.Date, s.StartTime, s.EndTime, s.BreakMinutes, nullable(s.Color), nullable(s.Notes))
		if err != nil {
			return fmt.Errorf("failed to insert shift %s: %w", s.ID, err)
		}
	}

	for _, s := range changes.Updates {
		_, err := tx.Exec(ctx, `
			UPDATE shift
			SET employee_id = $2, shift_date = $3, start_time = $4, end_time = $5, break_minutes = $6, color = $7, notes = $8
			WHERE id = $1
		`, s.ID, s.EmployeeID, s.Date, s.StartTime, s.EndTime, s.BreakMinutes, nullable(s.Color), nullable(s.Notes))
		if err != nil {
			return fmt.Errorf("failed to update shift %s: %w", s.ID, err)
		}
	}

	for _, id := range changes.Deletes {
		if _, err := tx.Exec(ctx, `DELETE FROM shift WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete shift %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit shift changes: %w", err)
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
