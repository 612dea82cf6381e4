package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/route-rota/pkg/db"
)

// assignmentSelect joins the week start and route number onto each assignment
const assignmentSelect = `
	SELECT a.id::text, a.week_id::text, w.start_date, a.day_of_week,
		a.route_id::text, r.route_number, COALESCE(a.volunteer_id::text, ''), a.created_at
	FROM assignments a
	JOIN weeks w ON w.id = a.week_id
	JOIN routes r ON r.id = a.route_id
`

const assignmentOrder = `
	ORDER BY w.start_date,
		array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday'], a.day_of_week),
		r.route_number, a.created_at
`

func scanAssignment(row pgx.Row) (*db.Assignment, error) {
	var a db.Assignment
	var weekStart time.Time
	if err := row.Scan(&a.ID, &a.WeekID, &weekStart, &a.DayOfWeek,
		&a.RouteID, &a.RouteNumber, &a.VolunteerID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.WeekStart = weekStart.Format("2006-01-02")
	return &a, nil
}

func (d *DB) queryAssignments(ctx context.Context, where string, arg any) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, assignmentSelect+where+assignmentOrder, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// GetAssignment retrieves an assignment by id
func (d *DB) GetAssignment(ctx context.Context, id string) (*db.Assignment, error) {
	a, err := scanAssignment(d.pool.QueryRow(ctx, assignmentSelect+`WHERE a.id::text = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment %s: %w", id, translateError(err))
	}
	return a, nil
}

// GetAssignmentsForWeek retrieves all assignments in a week, including open slots
func (d *DB) GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error) {
	return d.queryAssignments(ctx, `WHERE a.week_id::text = $1`, weekID)
}

// GetAssignmentsForVolunteer retrieves every assignment held by a volunteer, across all weeks
func (d *DB) GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]db.Assignment, error) {
	return d.queryAssignments(ctx, `WHERE a.volunteer_id::text = $1`, volunteerID)
}

// InsertAssignment inserts a new assignment.
// Returns db.ErrDuplicate when the volunteer already holds the slot.
func (d *DB) InsertAssignment(ctx context.Context, assignment *db.Assignment) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO assignments (id, week_id, day_of_week, route_id, volunteer_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
	`, assignment.ID, assignment.WeekID, assignment.DayOfWeek, assignment.RouteID, assignment.VolunteerID)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", translateError(err))
	}
	return nil
}

// CopyAssignments inserts assignments in a single transaction, skipping any that
// already exist, and returns how many were inserted
func (d *DB) CopyAssignments(ctx context.Context, assignments []db.Assignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	inserted := 0
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range assignments {
			batch.Queue(`
				INSERT INTO assignments (id, week_id, day_of_week, route_id, volunteer_id)
				VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
				ON CONFLICT DO NOTHING
			`, a.ID, a.WeekID, a.DayOfWeek, a.RouteID, a.VolunteerID)
		}

		results := tx.SendBatch(ctx, batch)
		for range assignments {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return fmt.Errorf("failed to copy assignment: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to copy assignments: %w", err)
	}

	return inserted, nil
}

// DeleteAssignment deletes an assignment by id
func (d *DB) DeleteAssignment(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM assignments WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete assignment %s: %w", id, db.ErrNotFound)
	}
	return nil
}
