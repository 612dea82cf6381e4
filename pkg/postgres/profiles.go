package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/route-rota/pkg/db"
)

const profileColumns = `id::text, first_name, last_name, phone_number, email,
	availability_days, onboarding_completed, is_admin`

func scanProfile(row pgx.Row) (*db.Profile, error) {
	var p db.Profile
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.PhoneNumber, &p.Email,
		&p.AvailabilityDays, &p.OnboardingCompleted, &p.IsAdmin); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetVolunteers retrieves onboarded, non-admin profiles ordered by first name
func (d *DB) GetVolunteers(ctx context.Context) ([]db.Profile, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE onboarding_completed AND NOT is_admin
		ORDER BY first_name, last_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var profiles []db.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return profiles, nil
}

// GetVolunteer retrieves any profile by id, regardless of eligibility
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Profile, error) {
	p, err := scanProfile(d.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id::text = $1
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer %s: %w", id, translateError(err))
	}
	return p, nil
}

// UpsertProfile creates or updates the profile keyed by profile.ID.
// is_admin is only ever set on insert; it is granted out of band.
func (d *DB) UpsertProfile(ctx context.Context, profile *db.Profile) (*db.Profile, error) {
	days := profile.AvailabilityDays
	if days == nil {
		days = []string{}
	}

	p, err := scanProfile(d.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, first_name, last_name, phone_number, email,
			availability_days, onboarding_completed)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone_number = EXCLUDED.phone_number,
			email = EXCLUDED.email,
			availability_days = EXCLUDED.availability_days,
			onboarding_completed = EXCLUDED.onboarding_completed,
			updated_at = NOW()
		RETURNING `+profileColumns,
		profile.ID, profile.FirstName, profile.LastName, profile.PhoneNumber, profile.Email,
		days, profile.OnboardingCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile %s: %w", profile.ID, translateError(err))
	}
	return p, nil
}

// UpdateAvailability replaces a volunteer's availability days and deletes the
// given assignments in one transaction. Only assignments held by the volunteer are deleted.
func (d *DB) UpdateAvailability(ctx context.Context, volunteerID string, days []string, removeAssignmentIDs []string) error {
	if days == nil {
		days = []string{}
	}

	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE profiles
			SET availability_days = $2, updated_at = NOW()
			WHERE id::text = $1
		`, volunteerID, days)
		if err != nil {
			return fmt.Errorf("failed to update availability: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("volunteer %s: %w", volunteerID, db.ErrNotFound)
		}

		if len(removeAssignmentIDs) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM assignments
			WHERE id::text = ANY($1) AND volunteer_id::text = $2
		`, removeAssignmentIDs, volunteerID)
		if err != nil {
			return fmt.Errorf("failed to remove assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update availability for %s: %w", volunteerID, err)
	}
	return nil
}
