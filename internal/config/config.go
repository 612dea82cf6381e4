package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRouteCount        = 15
	DefaultUrgentWindowHours = 48
	DefaultSMSRegion         = "US"

	AudienceAdmin      = "admin"
	AudienceVolunteers = "volunteers"
	AudienceNone       = "none"
)

// Closure marks days on which no routes run, e.g. public holidays
type Closure struct {
	RRule  string `yaml:"rrule" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
}

// TwilioConfig holds the SMS provider credentials
type TwilioConfig struct {
	AccountSID string `yaml:"accountSID" validate:"required"`
	AuthToken  string `yaml:"authToken" validate:"required"`
	FromNumber string `yaml:"fromNumber" validate:"required"`
}

// NotificationConfig controls who hears about cancellations
type NotificationConfig struct {
	AdminEmail        string        `yaml:"adminEmail,omitempty" validate:"omitempty,email"`
	GmailSender       string        `yaml:"gmailSender,omitempty"`
	DashboardURL      string        `yaml:"dashboardURL,omitempty" validate:"omitempty,url"`
	UrgentAudience    string        `yaml:"urgentAudience,omitempty" validate:"omitempty,oneof=admin volunteers none"`
	RoutineAudience   string        `yaml:"routineAudience,omitempty" validate:"omitempty,oneof=admin volunteers none"`
	UrgentWindowHours int           `yaml:"urgentWindowHours,omitempty" validate:"omitempty,min=1"`
	NotifyOnCascade   bool          `yaml:"notifyOnCascade,omitempty"`
	SMSDefaultRegion  string        `yaml:"smsDefaultRegion,omitempty" validate:"omitempty,len=2"`
	Twilio            *TwilioConfig `yaml:"twilio,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL    string             `yaml:"databaseURL" validate:"required"`
	Timezone       string             `yaml:"timezone,omitempty"`
	RouteCount     int                `yaml:"routeCount,omitempty" validate:"omitempty,min=1,max=500"`
	SlotStartTime  string             `yaml:"slotStartTime,omitempty" validate:"omitempty,datetime=15:04"`
	PublishSheetID string             `yaml:"publishSheetID,omitempty"`
	Closures       []Closure          `yaml:"closures,omitempty" validate:"dive"`
	Notifications  NotificationConfig `yaml:"notifications,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads the configuration for an environment.
// env="test" looks for route_rota_config.test.yaml
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// ROUTE_ROTA_DATABASE_URL and TWILIO_AUTH_TOKEN override the file when set.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("ROUTE_ROTA_DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if token := os.Getenv("TWILIO_AUTH_TOKEN"); token != "" && cfg.Notifications.Twilio != nil {
		cfg.Notifications.Twilio.AuthToken = token
	}
}

// Validate validates the configuration struct, the timezone and the closure rrules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	return nil
}

// Location returns the configured timezone, UTC when unset
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Routes returns the size of the route catalog
func (c *Config) Routes() int {
	if c.RouteCount <= 0 {
		return DefaultRouteCount
	}
	return c.RouteCount
}

// SlotStartOffset returns how long after midnight a delivery slot begins
func (c *Config) SlotStartOffset() time.Duration {
	if c.SlotStartTime == "" {
		return 0
	}
	t, err := time.Parse("15:04", c.SlotStartTime)
	if err != nil {
		return 0
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// UrgentWindow returns how close to a slot a cancellation counts as urgent
func (n NotificationConfig) UrgentWindow() time.Duration {
	hours := n.UrgentWindowHours
	if hours <= 0 {
		hours = DefaultUrgentWindowHours
	}
	return time.Duration(hours) * time.Hour
}

// AudienceFor returns the configured audience for urgent or routine cancellations
func (n NotificationConfig) AudienceFor(urgent bool) string {
	audience := n.RoutineAudience
	if urgent {
		audience = n.UrgentAudience
	}
	if audience == "" {
		return AudienceAdmin
	}
	return audience
}

// SMSRegion returns the region used to interpret numbers without a country code
func (n NotificationConfig) SMSRegion() string {
	if n.SMSDefaultRegion == "" {
		return DefaultSMSRegion
	}
	return n.SMSDefaultRegion
}

// ClosureOn reports whether routes are closed on date, and why
func (c *Config) ClosureOn(date time.Time) (string, bool) {
	dateStr := date.Format("2006-01-02")
	searchStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7)
	searchEnd := searchStart.AddDate(0, 0, 14)

	for _, closure := range c.Closures {
		// Parse per call: DTStart mutates the rule
		rule, err := rrule.StrToRRule(closure.RRule)
		if err != nil {
			continue
		}
		rule.DTStart(searchStart)

		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			if occurrence.Format("2006-01-02") == dateStr {
				return closure.Reason, true
			}
		}
	}

	return "", false
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "route_rota_config.yaml"
	if env != "" {
		configFileName = "route_rota_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
