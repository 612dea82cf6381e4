package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:   "postgres://localhost:5432/rota",
		Timezone:      "America/New_York",
		RouteCount:    15,
		SlotStartTime: "09:30",
		Closures: []Closure{
			{RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", Reason: "Christmas"},
		},
		Notifications: NotificationConfig{
			AdminEmail:     "admin@example.com",
			UrgentAudience: AudienceVolunteers,
			Twilio: &TwilioConfig{
				AccountSID: "AC123",
				AuthToken:  "secret",
				FromNumber: "+12015550123",
			},
		},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost:5432/rota"}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidAdminEmail(t *testing.T) {
	cfg := &Config{
		DatabaseURL:   "postgres://localhost:5432/rota",
		Notifications: NotificationConfig{AdminEmail: "not-an-email"},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidAudience(t *testing.T) {
	cfg := &Config{
		DatabaseURL:   "postgres://localhost:5432/rota",
		Notifications: NotificationConfig{UrgentAudience: "everyone"},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_IncompleteTwilio(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost:5432/rota",
		Notifications: NotificationConfig{
			Twilio: &TwilioConfig{AccountSID: "AC123"},
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidSlotStartTime(t *testing.T) {
	cfg := &Config{
		DatabaseURL:   "postgres://localhost:5432/rota",
		SlotStartTime: "9am",
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost:5432/rota",
		Timezone:    "Mars/Olympus_Mons",
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost:5432/rota",
		Closures: []Closure{
			{RRule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
			{RRule: "INVALID_RRULE"},
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in closures[1]")
}

func TestValidate_EmptyRRule(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost:5432/rota",
		Closures:    []Closure{{Reason: "Unknown"}},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestDefaults(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost:5432/rota"}

	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, DefaultRouteCount, cfg.Routes())
	assert.Equal(t, time.Duration(0), cfg.SlotStartOffset())
	assert.Equal(t, 48*time.Hour, cfg.Notifications.UrgentWindow())
	assert.Equal(t, AudienceAdmin, cfg.Notifications.AudienceFor(true))
	assert.Equal(t, AudienceAdmin, cfg.Notifications.AudienceFor(false))
	assert.Equal(t, DefaultSMSRegion, cfg.Notifications.SMSRegion())
}

func TestAudienceFor_UsesConfiguredValues(t *testing.T) {
	n := NotificationConfig{UrgentAudience: AudienceVolunteers, RoutineAudience: AudienceNone}

	assert.Equal(t, AudienceVolunteers, n.AudienceFor(true))
	assert.Equal(t, AudienceNone, n.AudienceFor(false))
}

func TestSlotStartOffset(t *testing.T) {
	cfg := &Config{SlotStartTime: "09:30"}
	assert.Equal(t, 9*time.Hour+30*time.Minute, cfg.SlotStartOffset())
}

func TestClosureOn(t *testing.T) {
	cfg := &Config{
		Closures: []Closure{
			{RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", Reason: "Christmas"},
			{RRule: "FREQ=YEARLY;BYMONTH=5;BYDAY=-1MO", Reason: "Memorial Day"},
		},
	}

	reason, closed := cfg.ClosureOn(time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC))
	assert.True(t, closed)
	assert.Equal(t, "Christmas", reason)

	reason, closed = cfg.ClosureOn(time.Date(2024, time.May, 27, 0, 0, 0, 0, time.UTC))
	assert.True(t, closed)
	assert.Equal(t, "Memorial Day", reason)

	_, closed = cfg.ClosureOn(time.Date(2024, time.December, 24, 0, 0, 0, 0, time.UTC))
	assert.False(t, closed)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	validConfig := `
databaseURL: "postgres://localhost:5432/rota"
timezone: "America/Chicago"
routeCount: 12
slotStartTime: "10:00"
closures:
  - rrule: "FREQ=YEARLY;BYMONTH=7;BYMONTHDAY=4"
    reason: "Independence Day"
notifications:
  adminEmail: "admin@example.com"
  urgentAudience: "volunteers"
  urgentWindowHours: 24
  notifyOnCascade: true
  twilio:
    accountSID: "AC123"
    authToken: "from-file"
    fromNumber: "+12015550123"
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/rota", cfg.DatabaseURL)
	assert.Equal(t, "America/Chicago", cfg.Location().String())
	assert.Equal(t, 12, cfg.Routes())
	assert.Equal(t, 10*time.Hour, cfg.SlotStartOffset())
	require.Len(t, cfg.Closures, 1)
	assert.Equal(t, "Independence Day", cfg.Closures[0].Reason)
	assert.Equal(t, "admin@example.com", cfg.Notifications.AdminEmail)
	assert.Equal(t, AudienceVolunteers, cfg.Notifications.AudienceFor(true))
	assert.Equal(t, AudienceAdmin, cfg.Notifications.AudienceFor(false))
	assert.Equal(t, 24*time.Hour, cfg.Notifications.UrgentWindow())
	assert.True(t, cfg.Notifications.NotifyOnCascade)
	require.NotNil(t, cfg.Notifications.Twilio)
	assert.Equal(t, "+12015550123", cfg.Notifications.Twilio.FromNumber)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "env_config.yaml")

	config := `
databaseURL: "postgres://file-host/rota"
notifications:
  twilio:
    accountSID: "AC123"
    authToken: "from-file"
    fromNumber: "+12015550123"
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	t.Setenv("ROUTE_ROTA_DATABASE_URL", "postgres://env-host/rota")
	t.Setenv("TWILIO_AUTH_TOKEN", "from-env")

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/rota", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.Notifications.Twilio.AuthToken)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_rrule.yaml")

	invalidConfig := `
databaseURL: "postgres://localhost:5432/rota"
closures:
  - rrule: "INVALID_RRULE_SYNTAX"
`

	require.NoError(t, os.WriteFile(configPath, []byte(invalidConfig), 0644))

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	invalidYAML := `
databaseURL: "postgres://localhost:5432/rota"
  invalid indentation
timezone: "UTC"
`

	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0644))

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadOAuthClientFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "oauthClient.json")

	client := `{
  "installed": {
    "client_id": "client-123.apps.googleusercontent.com",
    "project_id": "route-rota",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "shh",
    "redirect_uris": ["http://localhost"]
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(client), 0600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "client-123.apps.googleusercontent.com", cfg.Installed.ClientID)
}

func TestLoadOAuthClientFromPath_MissingSecret(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "oauthClient.json")

	client := `{"installed": {"client_id": "abc", "auth_uri": "https://a.example.com", "token_uri": "https://t.example.com"}}`
	require.NoError(t, os.WriteFile(path, []byte(client), 0600))

	_, err := LoadOAuthClientFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oauth client validation failed")
}
