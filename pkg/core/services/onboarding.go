package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/clients/smsclient"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/db"
)

// OnboardingStore defines the database operations needed to onboard a volunteer
type OnboardingStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Profile, error)
	UpsertProfile(ctx context.Context, profile *db.Profile) (*db.Profile, error)
}

// OnboardInput carries the details a volunteer gives when signing up
type OnboardInput struct {
	VolunteerID string          `json:"volunteer_id" validate:"required,uuid"`
	FirstName   string          `json:"first_name" validate:"required"`
	LastName    string          `json:"last_name" validate:"required"`
	PhoneNumber string          `json:"phone_number" validate:"required"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Days        []model.Weekday `json:"days" validate:"required,min=1,dive,weekday"`
}

// ProfileStatus reports where a profile stands. A missing profile is neither
// onboarded nor an admin.
type ProfileStatus struct {
	Exists              bool
	OnboardingCompleted bool
	IsAdmin             bool
}

// OnboardVolunteer creates or completes a volunteer profile. The phone number
// is stored in E.164 form and at least one availability day is required.
// Admin status is never changed here.
func OnboardVolunteer(
	ctx context.Context,
	store OnboardingStore,
	cfg *config.Config,
	logger *zap.Logger,
	input OnboardInput,
) (*model.Volunteer, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Email = strings.TrimSpace(input.Email)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	phone, err := smsclient.NormalizeNumber(input.PhoneNumber, cfg.Notifications.SMSRegion())
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "phone_number", Rule: "phone", Param: input.PhoneNumber}}}
	}

	days := dedupeDays(input.Days)

	saved, err := store.UpsertProfile(ctx, &db.Profile{
		ID:                  input.VolunteerID,
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		PhoneNumber:         phone,
		Email:               input.Email,
		AvailabilityDays:    dayStrings(days),
		OnboardingCompleted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile %s: %w", input.VolunteerID, err)
	}

	v := volunteerFromProfile(*saved)
	logger.Info("Volunteer onboarded",
		zap.String("volunteer_id", v.ID),
		zap.Strings("days", dayStrings(v.AvailabilityDays)),
		zap.Bool("is_admin", v.IsAdmin))

	return &v, nil
}

// GetProfileStatus looks up onboarding and admin state for id
func GetProfileStatus(ctx context.Context, store VolunteerGetter, logger *zap.Logger, id string) (*ProfileStatus, error) {
	if id == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "volunteer_id", Rule: "required"}}}
	}

	profile, err := store.GetVolunteer(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		logger.Debug("No profile", zap.String("volunteer_id", id))
		return &ProfileStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", id, err)
	}

	return &ProfileStatus{
		Exists:              true,
		OnboardingCompleted: profile.OnboardingCompleted,
		IsAdmin:             profile.IsAdmin,
	}, nil
}
