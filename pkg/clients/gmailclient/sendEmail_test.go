package gmailclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRawMessage(t *testing.T) {
	raw := string(buildRawMessage("rota@example.com", "admin@example.com", "Route Cancellation: Monday Route 3", "<h2>Alert</h2>"))

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	assert.True(t, found)
	assert.Equal(t, "<h2>Alert</h2>", body)
	assert.Contains(t, headers, "From: rota@example.com\r\n")
	assert.Contains(t, headers, "To: admin@example.com\r\n")
	assert.Contains(t, headers, "Subject: Route Cancellation: Monday Route 3\r\n")
	assert.Contains(t, headers, "Content-Type: text/html; charset=\"UTF-8\"")
}

func TestBuildRawMessage_NoFrom(t *testing.T) {
	raw := string(buildRawMessage("", "admin@example.com", "Hi", "<p>x</p>"))

	assert.True(t, strings.HasPrefix(raw, "To: admin@example.com\r\n"))
	assert.NotContains(t, raw, "From:")
}

func TestBuildRawMessage_EncodesNonASCIISubject(t *testing.T) {
	raw := string(buildRawMessage("", "admin@example.com", "Route 3 – urgent", "<p>x</p>"))

	assert.Contains(t, raw, "Subject: =?utf-8?q?")
}
