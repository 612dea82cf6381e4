package notify

import (
	"time"

	"github.com/jakechorley/route-rota/internal/config"
)

// Audience is who hears about a cancellation
type Audience string

const (
	AudienceAdmin      Audience = config.AudienceAdmin
	AudienceVolunteers Audience = config.AudienceVolunteers
	AudienceNone       Audience = config.AudienceNone
)

// Urgency classifies how close to the slot a cancellation happened
type Urgency string

const (
	Urgent  Urgency = "urgent"
	Routine Urgency = "routine"
)

// Policy maps urgency to audience
type Policy map[Urgency]Audience

// DefaultPolicy sends every cancellation to the administrator
func DefaultPolicy() Policy {
	return Policy{Urgent: AudienceAdmin, Routine: AudienceAdmin}
}

// PolicyFromConfig builds the policy table from the notifications block
func PolicyFromConfig(cfg config.NotificationConfig) Policy {
	return Policy{
		Urgent:  Audience(cfg.AudienceFor(true)),
		Routine: Audience(cfg.AudienceFor(false)),
	}
}

// AudienceFor returns the audience for u, falling back to the administrator
func (p Policy) AudienceFor(u Urgency) Audience {
	if a, ok := p[u]; ok && a != "" {
		return a
	}
	return AudienceAdmin
}

// ClassifyUrgency returns the hours until the slot and whether that is urgent.
// A cancellation is urgent when the slot is still ahead but no more than window away.
func ClassifyUrgency(now, slot time.Time, window time.Duration) (float64, Urgency) {
	hours := slot.Sub(now).Hours()
	if hours > 0 && hours <= window.Hours() {
		return hours, Urgent
	}
	return hours, Routine
}
