package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/clients/smsclient"
	"github.com/jakechorley/route-rota/pkg/core/model"
)

const defaultDeliveryTimeout = 30 * time.Second

// EmailSender delivers a single HTML email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers one text to many numbers
type SMSSender interface {
	SendSMS(ctx context.Context, to []string, body string) (*smsclient.SendResult, error)
}

// VolunteerSource returns the eligible volunteers available on day
type VolunteerSource func(ctx context.Context, day model.Weekday) ([]model.Volunteer, error)

// Dispatcher decides and delivers cancellation notifications in the background.
// Delivery failures are logged and never reach the caller.
type Dispatcher struct {
	decider    Decider
	volunteers VolunteerSource
	email      EmailSender
	sms        SMSSender
	logger     *zap.Logger

	now     func() time.Time
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. email and sms may be nil when the transport is not configured.
func NewDispatcher(decider Decider, volunteers VolunteerSource, email EmailSender, sms SMSSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		decider:    decider,
		volunteers: volunteers,
		email:      email,
		sms:        sms,
		logger:     logger,
		now:        time.Now,
		timeout:    defaultDeliveryTimeout,
	}
}

// NotifyCancellation handles c in a new goroutine and returns immediately
func (d *Dispatcher) NotifyCancellation(c Cancellation) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		_, _ = d.Deliver(ctx, c)
	}()
}

// Wait blocks until every notification started so far has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Deliver decides and sends notifications for c synchronously.
// The returned error is for callers that want it; NotifyCancellation discards it.
func (d *Dispatcher) Deliver(ctx context.Context, c Cancellation) (*Plan, error) {
	logger := d.logger.With(
		zap.String("assignment_id", c.AssignmentID),
		zap.String("day", string(c.Day)),
		zap.Int("route_number", c.RouteNumber),
		zap.Bool("cascade", c.Cascade))

	var available []model.Volunteer
	if d.volunteers != nil {
		vols, err := d.volunteers(ctx, c.Day)
		if err != nil {
			// Still tell the admin, just without a candidate list
			logger.Warn("Failed to fetch available volunteers for notification", zap.Error(err))
		} else {
			available = vols
		}
	}

	plan, err := d.decider.Decide(d.now(), c, available)
	if err != nil {
		logger.Warn("Failed to decide cancellation notification", zap.Error(err))
		return nil, err
	}

	logger.Debug("Cancellation notification decided",
		zap.String("urgency", string(plan.Urgency)),
		zap.Float64("hours_until_slot", plan.HoursUntilSlot),
		zap.String("audience", string(plan.Audience)),
		zap.Int("candidates", len(plan.Candidates)))

	if plan.SkipReason != "" {
		logger.Info("No cancellation notification sent", zap.String("reason", plan.SkipReason))
		return plan, nil
	}

	var errs []error

	if plan.Email != nil {
		if err := d.sendEmail(ctx, plan.Email); err != nil {
			logger.Warn("Failed to send cancellation email", zap.String("to", plan.Email.To), zap.Error(err))
			errs = append(errs, err)
		} else {
			logger.Info("Sent cancellation email", zap.String("to", plan.Email.To))
		}
	}

	if plan.SMS != nil {
		result, err := d.sendSMS(ctx, plan.SMS)
		switch {
		case err != nil:
			logger.Warn("Failed to send cancellation SMS", zap.Int("recipients", len(plan.SMS.To)), zap.Error(err))
			errs = append(errs, err)
		case result.Failed > 0:
			logger.Warn("Some cancellation SMS messages failed",
				zap.Int("sent", result.Sent),
				zap.Int("failed", result.Failed),
				zap.Int("total", result.Total))
		default:
			logger.Info("Sent cancellation SMS", zap.Int("sent", result.Sent))
		}
	}

	return plan, errors.Join(errs...)
}

func (d *Dispatcher) sendEmail(ctx context.Context, msg *EmailMessage) error {
	if d.email == nil {
		return fmt.Errorf("no email transport configured")
	}
	return d.email.SendEmail(ctx, msg.To, msg.Subject, msg.HTML)
}

func (d *Dispatcher) sendSMS(ctx context.Context, msg *SMSMessage) (*smsclient.SendResult, error) {
	if d.sms == nil {
		return nil, fmt.Errorf("no sms transport configured")
	}
	return d.sms.SendSMS(ctx, msg.To, msg.Body)
}
