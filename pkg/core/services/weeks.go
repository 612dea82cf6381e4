package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

// WeekUpserter defines the database operation needed to resolve a week
type WeekUpserter interface {
	UpsertWeek(ctx context.Context, week *db.Week) (*db.Week, error)
}

// CopyWeekStore defines the database operations needed to copy a week
type CopyWeekStore interface {
	GetWeek(ctx context.Context, id string) (*db.Week, error)
	GetPreviousWeek(ctx context.Context, before string) (*db.Week, error)
	GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error)
	CopyAssignments(ctx context.Context, assignments []db.Assignment) (int, error)
}

// PublishWeekStore defines the database operations needed to publish a week
type PublishWeekStore interface {
	OverviewStore
	SetWeekPublished(ctx context.Context, id string) (bool, error)
}

// WeekPublisher exports a published week to a shared spreadsheet
type WeekPublisher interface {
	PublishWeek(spreadsheetID string, week *sheetsclient.PublishedWeek) error
}

// PublishResult reports the state of a week after PublishWeek
type PublishResult struct {
	Week             *model.Week
	AlreadyPublished bool
	Exported         bool
}

// ResolveWeek returns the week containing date, creating it if it does not exist yet.
// The date is interpreted in the configured timezone.
func ResolveWeek(ctx context.Context, store WeekUpserter, cfg *config.Config, logger *zap.Logger, date time.Time) (*model.Week, error) {
	start, end := weekdates.WeekRange(date.In(cfg.Location()))

	logger.Debug("Resolving week",
		zap.Time("date", date),
		zap.String("start_date", weekdates.FormatDateForDB(start)))

	record, err := store.UpsertWeek(ctx, &db.Week{
		ID:        uuid.New().String(),
		StartDate: weekdates.FormatDateForDB(start),
		EndDate:   weekdates.FormatDateForDB(end),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert week starting %s: %w", weekdates.FormatDateForDB(start), err)
	}

	week, err := weekFromRecord(record, cfg.Location())
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolved week",
		zap.String("week_id", week.ID),
		zap.Bool("published", week.Published))

	return week, nil
}

// CopyPreviousWeek copies every filled assignment of the latest earlier week into the
// target week, keeping day and route. Slots already filled in the target and days
// closed by configuration are skipped. It returns the number of rows created.
func CopyPreviousWeek(ctx context.Context, store CopyWeekStore, cfg *config.Config, logger *zap.Logger, targetWeekID string) (int, error) {
	if targetWeekID == "" {
		return 0, &ValidationError{Fields: []FieldError{{Field: "week_id", Rule: "required"}}}
	}

	target, err := store.GetWeek(ctx, targetWeekID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch week %s: %w", targetWeekID, err)
	}

	previous, err := store.GetPreviousWeek(ctx, target.StartDate)
	if errors.Is(err, db.ErrNotFound) {
		return 0, &NoPriorWeekError{WeekStart: target.StartDate}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch week before %s: %w", target.StartDate, err)
	}

	logger.Debug("Copying previous week",
		zap.String("source_week_id", previous.ID),
		zap.String("source_start", previous.StartDate),
		zap.String("target_week_id", target.ID),
		zap.String("target_start", target.StartDate))

	source, err := store.GetAssignmentsForWeek(ctx, previous.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch assignments for week %s: %w", previous.ID, err)
	}

	existing, err := store.GetAssignmentsForWeek(ctx, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch assignments for week %s: %w", target.ID, err)
	}

	filled := make(map[slotKey]bool)
	for _, a := range existing {
		if a.VolunteerID != "" {
			filled[slotKey{day: a.DayOfWeek, routeID: a.RouteID}] = true
		}
	}

	targetStart, err := weekdates.ParseDBDate(target.StartDate, cfg.Location())
	if err != nil {
		return 0, fmt.Errorf("failed to parse start date of week %s: %w", target.ID, err)
	}

	var toCopy []db.Assignment
	skippedFilled, skippedClosed := 0, 0
	for _, a := range source {
		if a.VolunteerID == "" {
			continue
		}
		if filled[slotKey{day: a.DayOfWeek, routeID: a.RouteID}] {
			skippedFilled++
			continue
		}
		if _, closed := cfg.ClosureOn(weekdates.DayDateFor(targetStart, model.Weekday(a.DayOfWeek))); closed {
			skippedClosed++
			continue
		}

		toCopy = append(toCopy, db.Assignment{
			ID:          uuid.New().String(),
			WeekID:      target.ID,
			DayOfWeek:   a.DayOfWeek,
			RouteID:     a.RouteID,
			VolunteerID: a.VolunteerID,
		})
	}

	if len(toCopy) == 0 {
		logger.Info("Nothing to copy from previous week",
			zap.String("target_week_id", target.ID),
			zap.Int("skipped_filled", skippedFilled),
			zap.Int("skipped_closed", skippedClosed))
		return 0, nil
	}

	copied, err := store.CopyAssignments(ctx, toCopy)
	if err != nil {
		return 0, fmt.Errorf("failed to copy assignments into week %s: %w", target.ID, err)
	}

	logger.Info("Copied previous week",
		zap.String("source_week_id", previous.ID),
		zap.String("target_week_id", target.ID),
		zap.Int("copied", copied),
		zap.Int("skipped_filled", skippedFilled),
		zap.Int("skipped_closed", skippedClosed))

	return copied, nil
}

// PublishWeek marks a week as published. Publishing twice is a no-op.
// The spreadsheet export runs only on the first publish, and its failure is logged, not returned.
func PublishWeek(
	ctx context.Context,
	store PublishWeekStore,
	publisher WeekPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	weekID string,
) (*PublishResult, error) {
	if weekID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "week_id", Rule: "required"}}}
	}

	record, err := store.GetWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week %s: %w", weekID, err)
	}

	week, err := weekFromRecord(record, cfg.Location())
	if err != nil {
		return nil, err
	}

	changed, err := store.SetWeekPublished(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to publish week %s: %w", weekID, err)
	}
	week.Published = true

	if !changed {
		logger.Info("Week already published", zap.String("week_id", weekID))
		return &PublishResult{Week: week, AlreadyPublished: true}, nil
	}

	logger.Info("Published week",
		zap.String("week_id", weekID),
		zap.String("start_date", record.StartDate))

	result := &PublishResult{Week: week}

	if publisher == nil || cfg.PublishSheetID == "" {
		logger.Debug("No spreadsheet configured, skipping export", zap.String("week_id", weekID))
		return result, nil
	}

	overview, err := WeekOverview(ctx, store, cfg, logger, weekID)
	if err != nil {
		logger.Warn("Failed to build week overview for export", zap.String("week_id", weekID), zap.Error(err))
		return result, nil
	}

	if err := publisher.PublishWeek(cfg.PublishSheetID, overview.ToPublishedWeek()); err != nil {
		logger.Warn("Failed to export published week", zap.String("week_id", weekID), zap.Error(err))
		return result, nil
	}

	result.Exported = true
	logger.Info("Exported published week", zap.String("week_id", weekID), zap.String("sheet_id", cfg.PublishSheetID))

	return result, nil
}

type slotKey struct {
	day     string
	routeID string
}
