package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/db"
)

// RouteSeeder defines the database operation needed to seed the route catalog
type RouteSeeder interface {
	EnsureRoutes(ctx context.Context, count int) (int, error)
}

// RouteLister defines the database operation needed to list routes
type RouteLister interface {
	GetRoutes(ctx context.Context) ([]db.Route, error)
}

// EnsureRoutes makes sure routes 1..count exist and returns how many were created
func EnsureRoutes(ctx context.Context, store RouteSeeder, logger *zap.Logger, count int) (int, error) {
	if count <= 0 {
		return 0, &ValidationError{Fields: []FieldError{{Field: "count", Rule: "min", Param: "1"}}}
	}

	created, err := store.EnsureRoutes(ctx, count)
	if err != nil {
		return 0, fmt.Errorf("failed to seed routes: %w", err)
	}

	logger.Info("Seeded route catalog", zap.Int("route_count", count), zap.Int("created", created))
	return created, nil
}

// ListRoutes returns the route catalog ordered by route number
func ListRoutes(ctx context.Context, store RouteLister, logger *zap.Logger) ([]model.Route, error) {
	records, err := store.GetRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}

	routes := make([]model.Route, len(records))
	for i, r := range records {
		routes[i] = model.Route{ID: r.ID, Number: r.RouteNumber}
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Number < routes[j].Number
	})

	logger.Debug("Listed routes", zap.Int("count", len(routes)))
	return routes, nil
}

// FindRouteByNumber returns the route with the given number
func FindRouteByNumber(routes []model.Route, number int) (model.Route, error) {
	for _, r := range routes {
		if r.Number == number {
			return r, nil
		}
	}
	return model.Route{}, fmt.Errorf("route %d: %w", number, db.ErrNotFound)
}
