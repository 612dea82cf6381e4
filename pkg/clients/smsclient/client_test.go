package smsclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type fakeMessageCreator struct {
	mu      sync.Mutex
	sentTo  []string
	failFor map[string]bool
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	to := *params.To
	if f.failFor[to] {
		return nil, errors.New("twilio: 21610 unsubscribed recipient")
	}
	f.sentTo = append(f.sentTo, to)
	return &twilioApi.ApiV2010Message{}, nil
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		region   string
		expected string
		wantErr  bool
	}{
		{"us national format", "(201) 555-0123", "US", "+12015550123", false},
		{"us digits only", "2015550123", "US", "+12015550123", false},
		{"already e164", "+12015550123", "US", "+12015550123", false},
		{"international number keeps country", "+44 121 234 5678", "US", "+441212345678", false},
		{"gb national with gb region", "0121 234 5678", "GB", "+441212345678", false},
		{"letters", "call me", "US", "", true},
		{"too short", "555", "US", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNumber(tt.raw, tt.region)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSendSMS_CountsSuccessesAndFailures(t *testing.T) {
	api := &fakeMessageCreator{failFor: map[string]bool{"+12015550124": true}}
	client := newClient(api, "+12015550100", "US", zap.NewNop())

	result, err := client.SendSMS(context.Background(), []string{
		"201-555-0123",
		"201-555-0124", // rejected by provider
		"not a number", // rejected by normalization
	}, "Route 3 needs a driver")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Failures, 2)
	assert.Equal(t, []string{"+12015550123"}, api.sentTo)
}

func TestSendSMS_InvalidInput(t *testing.T) {
	client := newClient(&fakeMessageCreator{}, "+12015550100", "US", zap.NewNop())

	_, err := client.SendSMS(context.Background(), nil, "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient list")

	_, err = client.SendSMS(context.Background(), []string{"2015550123"}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message")
}

func TestSendSMS_CancelledContext(t *testing.T) {
	api := &fakeMessageCreator{}
	client := newClient(api, "+12015550100", "US", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := client.SendSMS(ctx, []string{"2015550123", "2015550124"}, "hello")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.Empty(t, api.sentTo)
}
