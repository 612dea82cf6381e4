package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

// PreferencesStore defines the database operations needed to update availability
type PreferencesStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Profile, error)
	GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]db.Assignment, error)
	UpdateAvailability(ctx context.Context, volunteerID string, days []string, removeAssignmentIDs []string) error
}

// PreferencesResult reports what an availability change removed
type PreferencesResult struct {
	Days               []model.Weekday
	RemovedAssignments int
	AffectedWeeks      int
	Removed            []model.Assignment
}

type preferencesInput struct {
	VolunteerID string          `json:"volunteer_id" validate:"required"`
	Days        []model.Weekday `json:"days" validate:"dive,weekday"`
}

// UpdatePreferences replaces a volunteer's standing availability, then removes
// their assignments on days no longer offered in every week that has not ended.
// Past weeks are left alone. The profile update and the removals are one transaction.
func UpdatePreferences(
	ctx context.Context,
	store PreferencesStore,
	notifier CancellationNotifier,
	cfg *config.Config,
	logger *zap.Logger,
	volunteerID string,
	days []model.Weekday,
) (*PreferencesResult, error) {
	if err := validateInput(preferencesInput{VolunteerID: volunteerID, Days: days}); err != nil {
		return nil, err
	}

	days = dedupeDays(days)

	logger.Debug("Updating availability",
		zap.String("volunteer_id", volunteerID),
		zap.Strings("days", dayStrings(days)))

	if _, err := store.GetVolunteer(ctx, volunteerID); err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer %s: %w", volunteerID, err)
	}

	records, err := store.GetAssignmentsForVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for volunteer %s: %w", volunteerID, err)
	}

	keep := make(map[model.Weekday]bool, len(days))
	for _, d := range days {
		keep[d] = true
	}

	now := time.Now()
	result := &PreferencesResult{Days: days}
	var removeIDs []string
	weeks := make(map[string]bool)

	for _, r := range records {
		a, err := assignmentFromRecord(r, cfg.Location())
		if err != nil {
			return nil, err
		}
		if keep[a.Day] {
			continue
		}
		if !weekdates.WeekEnd(a.WeekStart).After(now) {
			continue
		}

		removeIDs = append(removeIDs, a.ID)
		result.Removed = append(result.Removed, a)
		weeks[a.WeekID] = true
	}

	if err := store.UpdateAvailability(ctx, volunteerID, dayStrings(days), removeIDs); err != nil {
		return nil, fmt.Errorf("failed to update availability for volunteer %s: %w", volunteerID, err)
	}

	result.RemovedAssignments = len(removeIDs)
	result.AffectedWeeks = len(weeks)

	logger.Info("Updated availability",
		zap.String("volunteer_id", volunteerID),
		zap.Strings("days", dayStrings(days)),
		zap.Int("removed_assignments", result.RemovedAssignments),
		zap.Int("affected_weeks", result.AffectedWeeks))

	if notifier != nil && cfg.Notifications.NotifyOnCascade {
		for _, a := range result.Removed {
			notifier.NotifyCancellation(cancellationFor(a, cfg, true))
		}
	}

	return result, nil
}
