package notify

import (
	"math"
	"time"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/model"
)

// Cancellation describes an assignment a volunteer no longer holds
type Cancellation struct {
	AssignmentID         string
	WeekID               string
	Day                  model.Weekday
	RouteNumber          int
	SlotTime             time.Time
	CancelledVolunteerID string
	Cascade              bool // removed because availability narrowed
}

// Candidate is a volunteer who could take the open slot
type Candidate struct {
	VolunteerID string
	Name        string
	PhoneNumber string
}

// EmailMessage is an HTML email to send
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// SMSMessage is one text broadcast to many numbers
type SMSMessage struct {
	To   []string
	Body string
}

// Plan is the outcome of deciding how to handle a cancellation.
// At most one of Email and SMS is set; neither is set when nothing should be sent.
type Plan struct {
	Urgency        Urgency
	HoursUntilSlot float64
	NoticeHours    int
	Audience       Audience
	Candidates     []Candidate
	Email          *EmailMessage
	SMS            *SMSMessage
	SkipReason     string
}

// Decider turns a cancellation into a Plan. It performs no I/O.
type Decider struct {
	Policy       Policy
	AdminEmail   string
	UrgentWindow time.Duration
	DashboardURL string
}

// NewDecider builds a Decider from the notifications block
func NewDecider(cfg config.NotificationConfig) Decider {
	return Decider{
		Policy:       PolicyFromConfig(cfg),
		AdminEmail:   cfg.AdminEmail,
		UrgentWindow: cfg.UrgentWindow(),
		DashboardURL: cfg.DashboardURL,
	}
}

// Decide chooses an audience for c and builds the message for it.
// available is the set of volunteers free on the cancelled day; the volunteer
// who cancelled and anyone without a phone number are left out of the candidates.
func (d Decider) Decide(now time.Time, c Cancellation, available []model.Volunteer) (*Plan, error) {
	window := d.UrgentWindow
	if window <= 0 {
		window = config.DefaultUrgentWindowHours * time.Hour
	}

	hours, urgency := ClassifyUrgency(now, c.SlotTime, window)

	plan := &Plan{
		Urgency:        urgency,
		HoursUntilSlot: hours,
		NoticeHours:    int(math.Round(hours)),
		Audience:       d.Policy.AudienceFor(urgency),
		Candidates:     candidatesFrom(available, c.CancelledVolunteerID),
	}

	switch plan.Audience {
	case AudienceAdmin:
		if d.AdminEmail == "" {
			plan.SkipReason = "no admin email configured"
			return plan, nil
		}

		html, err := renderAdminEmail(adminEmailData{
			Day:          string(c.Day),
			RouteNumber:  c.RouteNumber,
			NoticeHours:  plan.NoticeHours,
			Candidates:   plan.Candidates,
			DashboardURL: d.DashboardURL,
		})
		if err != nil {
			return nil, err
		}

		plan.Email = &EmailMessage{
			To:      d.AdminEmail,
			Subject: adminEmailSubject(string(c.Day), c.RouteNumber),
			HTML:    html,
		}

	case AudienceVolunteers:
		if len(plan.Candidates) == 0 {
			plan.SkipReason = "no contactable volunteers available"
			return plan, nil
		}

		numbers := make([]string, len(plan.Candidates))
		for i, cand := range plan.Candidates {
			numbers[i] = cand.PhoneNumber
		}
		plan.SMS = &SMSMessage{
			To:   numbers,
			Body: volunteerSMSBody(string(c.Day), c.RouteNumber),
		}

	default:
		plan.SkipReason = "notifications disabled"
	}

	return plan, nil
}

func candidatesFrom(available []model.Volunteer, excludeID string) []Candidate {
	candidates := []Candidate{}
	for _, v := range available {
		if v.ID == excludeID || v.PhoneNumber == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			VolunteerID: v.ID,
			Name:        v.FullName(),
			PhoneNumber: v.PhoneNumber,
		})
	}
	return candidates
}
