package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/route-rota/pkg/db"
)

// GetRoutes retrieves the route catalog ordered by route number
func (d *DB) GetRoutes(ctx context.Context) ([]db.Route, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, route_number
		FROM routes
		ORDER BY route_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []db.Route
	for rows.Next() {
		var r db.Route
		if err := rows.Scan(&r.ID, &r.RouteNumber); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	return routes, nil
}

// GetRoute retrieves a route by id
func (d *DB) GetRoute(ctx context.Context, id string) (*db.Route, error) {
	var r db.Route
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, route_number
		FROM routes
		WHERE id::text = $1
	`, id).Scan(&r.ID, &r.RouteNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get route %s: %w", id, translateError(err))
	}
	return &r, nil
}

// EnsureRoutes creates any of routes 1..count that are missing and
// returns how many were created
func (d *DB) EnsureRoutes(ctx context.Context, count int) (int, error) {
	tag, err := d.pool.Exec(ctx, `
		INSERT INTO routes (route_number)
		SELECT n FROM generate_series(1, $1::int) AS n
		ON CONFLICT (route_number) DO NOTHING
	`, count)
	if err != nil {
		return 0, fmt.Errorf("failed to seed routes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
