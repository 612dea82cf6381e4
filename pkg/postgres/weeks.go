package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/route-rota/pkg/db"
)

const weekColumns = `id::text, start_date, end_date, published`

func scanWeek(row pgx.Row) (*db.Week, error) {
	var w db.Week
	var start, end time.Time
	if err := row.Scan(&w.ID, &start, &end, &w.Published); err != nil {
		return nil, err
	}
	w.StartDate = start.Format("2006-01-02")
	w.EndDate = end.Format("2006-01-02")
	return &w, nil
}

// GetWeek retrieves a week by id
func (d *DB) GetWeek(ctx context.Context, id string) (*db.Week, error) {
	week, err := scanWeek(d.pool.QueryRow(ctx, `
		SELECT `+weekColumns+`
		FROM weeks
		WHERE id::text = $1
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get week %s: %w", id, translateError(err))
	}
	return week, nil
}

// UpsertWeek inserts the week unless one with the same start date exists.
// Either way the stored record is returned, so the caller's id is only used on insert.
func (d *DB) UpsertWeek(ctx context.Context, week *db.Week) (*db.Week, error) {
	stored, err := scanWeek(d.pool.QueryRow(ctx, `
		INSERT INTO weeks (id, start_date, end_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (start_date) DO UPDATE SET start_date = EXCLUDED.start_date
		RETURNING `+weekColumns+`
	`, week.ID, week.StartDate, week.EndDate))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert week %s: %w", week.StartDate, translateError(err))
	}
	return stored, nil
}

// GetPreviousWeek retrieves the latest week starting before the given date
func (d *DB) GetPreviousWeek(ctx context.Context, before string) (*db.Week, error) {
	week, err := scanWeek(d.pool.QueryRow(ctx, `
		SELECT `+weekColumns+`
		FROM weeks
		WHERE start_date < $1
		ORDER BY start_date DESC
		LIMIT 1
	`, before))
	if err != nil {
		return nil, fmt.Errorf("failed to get week before %s: %w", before, translateError(err))
	}
	return week, nil
}

// SetWeekPublished marks a week as published.
// Returns true only when the flag changed, false when it was already set.
func (d *DB) SetWeekPublished(ctx context.Context, id string) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE weeks SET published = TRUE
		WHERE id::text = $1 AND NOT published
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to publish week %s: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Nothing updated: either already published or missing
	if _, err := d.GetWeek(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
