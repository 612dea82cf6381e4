package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/db"
)

// VolunteerLister defines the database operations needed to list volunteers
type VolunteerLister interface {
	GetVolunteers(ctx context.Context) ([]db.Profile, error)
}

// VolunteerGetter defines the database operation needed to fetch one profile
type VolunteerGetter interface {
	GetVolunteer(ctx context.Context, id string) (*db.Profile, error)
}

// ListVolunteers returns every eligible volunteer ordered by first name
func ListVolunteers(ctx context.Context, store VolunteerLister, logger *zap.Logger) ([]model.Volunteer, error) {
	profiles, err := store.GetVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteers: %w", err)
	}

	volunteers := make([]model.Volunteer, 0, len(profiles))
	for _, p := range profiles {
		v := volunteerFromProfile(p)
		if !v.IsEligible() {
			continue
		}
		volunteers = append(volunteers, v)
	}

	sort.SliceStable(volunteers, func(i, j int) bool {
		return volunteers[i].FirstName < volunteers[j].FirstName
	})

	logger.Debug("Listed volunteers",
		zap.Int("profiles", len(profiles)),
		zap.Int("eligible", len(volunteers)))

	return volunteers, nil
}

// VolunteersAvailableOn returns eligible volunteers whose standing availability includes day
func VolunteersAvailableOn(ctx context.Context, store VolunteerLister, logger *zap.Logger, day model.Weekday) ([]model.Volunteer, error) {
	if !day.IsValid() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "day", Rule: "weekday", Param: string(day)}}}
	}

	volunteers, err := ListVolunteers(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	var available []model.Volunteer
	for _, v := range volunteers {
		if v.AvailableOn(day) {
			available = append(available, v)
		}
	}

	logger.Debug("Filtered volunteers by availability",
		zap.String("day", string(day)),
		zap.Int("available", len(available)))

	return available, nil
}

// GetVolunteer returns a single profile, eligible or not
func GetVolunteer(ctx context.Context, store VolunteerGetter, logger *zap.Logger, id string) (*model.Volunteer, error) {
	if id == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "volunteer_id", Rule: "required"}}}
	}

	profile, err := store.GetVolunteer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer %s: %w", id, err)
	}

	v := volunteerFromProfile(*profile)
	logger.Debug("Fetched volunteer", zap.String("volunteer_id", id), zap.Bool("eligible", v.IsEligible()))
	return &v, nil
}
