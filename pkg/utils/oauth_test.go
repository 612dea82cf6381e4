package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/route-rota/internal/config"
)

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, MissingScopes(ScopeSheets+" "+ScopeGmailSend+" openid"))
	assert.Equal(t, []string{ScopeGmailSend}, MissingScopes(ScopeSheets))
	assert.Equal(t, RequiredScopes(), MissingScopes(""))
}

func TestTokenStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tokens")
	store := NewTokenStoreAt(dir, "test")

	token, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}))

	info, err := os.Stat(filepath.Join(dir, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, expiry.Equal(loaded.Expiry))

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token-prod.json"), []byte("{not json"), 0600))

	_, err := NewTokenStoreAt(dir, "prod").Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestGetOAuthConfig(t *testing.T) {
	cfg := &config.OAuthClientConfig{Installed: config.OAuthInstalled{
		ClientID:     "client-123",
		ClientSecret: "secret",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		RedirectURIs: []string{"http://localhost"},
	}}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "client-123", oauthConfig.ClientID)
	assert.Equal(t, RequiredScopes(), oauthConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
}
