package smsclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/nyaruka/phonenumbers"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrentSends = 5

// messageCreator is the part of the Twilio REST API used for sending
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client sends SMS messages through Twilio
type Client struct {
	api           messageCreator
	fromNumber    string
	defaultRegion string
	maxConcurrent int
	logger        *zap.Logger
}

// SendFailure records a recipient that could not be messaged
type SendFailure struct {
	Number string
	Err    error
}

// SendResult reports per-recipient outcomes of a broadcast
type SendResult struct {
	Sent     int
	Failed   int
	Total    int
	Failures []SendFailure
}

// NewClient creates a Twilio-backed SMS client.
// defaultRegion is the ISO country used for numbers without a "+" prefix.
func NewClient(accountSID, authToken, fromNumber, defaultRegion string, logger *zap.Logger) *Client {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return newClient(rest.Api, fromNumber, defaultRegion, logger)
}

func newClient(api messageCreator, fromNumber, defaultRegion string, logger *zap.Logger) *Client {
	return &Client{
		api:           api,
		fromNumber:    fromNumber,
		defaultRegion: defaultRegion,
		maxConcurrent: defaultMaxConcurrentSends,
		logger:        logger,
	}
}

// NormalizeNumber converts a phone number to E.164 ("+12015550123")
func NormalizeNumber(raw, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// SendSMS sends body to every number in to.
// Individual failures are counted in the result rather than returned as an error.
func (c *Client) SendSMS(ctx context.Context, to []string, body string) (*SendResult, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("invalid recipient list: no numbers given")
	}
	if body == "" {
		return nil, fmt.Errorf("invalid message: body is empty")
	}

	result := &SendResult{Total: len(to)}
	var mu sync.Mutex

	record := func(number string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, SendFailure{Number: number, Err: err})
			return
		}
		result.Sent++
	}

	var g errgroup.Group
	g.SetLimit(c.maxConcurrent)

	for _, number := range to {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(number, err)
				return nil
			}

			formatted, err := NormalizeNumber(number, c.defaultRegion)
			if err != nil {
				record(number, err)
				return nil
			}

			params := &twilioApi.CreateMessageParams{}
			params.SetTo(formatted)
			params.SetFrom(c.fromNumber)
			params.SetBody(body)

			if _, err := c.api.CreateMessage(params); err != nil {
				record(number, fmt.Errorf("failed to send sms: %w", err))
				return nil
			}

			record(number, nil)
			return nil
		})
	}

	// Goroutines never return an error, failures live in the result
	_ = g.Wait()

	c.logger.Info("SMS broadcast finished",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("total", result.Total))

	return result, nil
}
