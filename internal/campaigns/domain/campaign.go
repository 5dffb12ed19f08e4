// Package domain holds the campaign record, its lifecycle and targeting rules.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is an outreach medium.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSocial  Channel = "social"
	ChannelPPC     Channel = "ppc"
	ChannelDisplay Channel = "display"
	ChannelSEO     Channel = "seo"
	ChannelContent Channel = "content"
)

// ChannelNames lists the accepted channels.
func ChannelNames() []string {
	return []string{
		string(ChannelEmail),
		string(ChannelSocial),
		string(ChannelPPC),
		string(ChannelDisplay),
		string(ChannelSEO),
		string(ChannelContent),
	}
}

// Performance holds a campaign's delivery counters. Counters only grow.
type Performance struct {
	Sent         int64
	Delivered    int64
	Bounced      int64
	Opened       int64
	Clicked      int64
	Replied      int64
	Converted    int64
	Unsubscribed int64
}

// Add returns p increased by delta. Negative increments are rejected so
// counters stay monotonically non-decreasing.
func (p Performance) Add(delta Performance) (Performance, error) {
	for _, v := range []int64{
		delta.Sent, delta.Delivered, delta.Bounced, delta.Opened,
		delta.Clicked, delta.Replied, delta.Converted, delta.Unsubscribed,
	} {
		if v < 0 {
			return p, errors.New("performance increments must not be negative")
		}
	}
	return Performance{
		Sent:         p.Sent + delta.Sent,
		Delivered:    p.Delivered + delta.Delivered,
		Bounced:      p.Bounced + delta.Bounced,
		Opened:       p.Opened + delta.Opened,
		Clicked:      p.Clicked + delta.Clicked,
		Replied:      p.Replied + delta.Replied,
		Converted:    p.Converted + delta.Converted,
		Unsubscribed: p.Unsubscribed + delta.Unsubscribed,
	}, nil
}

// IsZero reports whether no counter has moved.
func (p Performance) IsZero() bool {
	return p == Performance{}
}

// Campaign is an organized outreach effort aimed at a filtered set of leads.
type Campaign struct {
	ID          uuid.UUID
	Name        string
	Description string
	Owner       string
	Status      Status
	Channels    []Channel
	Targeting   Targeting
	Subject     string
	Body        string
	BudgetCents int64
	SpentCents  int64
	Performance Performance
	Tags        []string
	ScheduledAt *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
	LaunchedAt  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UsesChannel reports whether the campaign runs on ch.
func (c Campaign) UsesChannel(ch Channel) bool {
	return slices.Contains(c.Channels, ch)
}

// ValidationError collects field-level problems with a campaign.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	slices.Sort(parts)
	return "invalid campaign: " + strings.Join(parts, "; ")
}

// Validate enforces the invariants of a stored campaign.
func (c Campaign) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "is required"
	}
	if !c.Status.Valid() {
		fields["status"] = "is not a known status"
	}
	if len(c.Channels) == 0 {
		fields["channels"] = "at least one channel is required"
	}
	for _, ch := range c.Channels {
		if !slices.Contains(ChannelNames(), string(ch)) {
			fields["channels"] = fmt.Sprintf("unknown channel %q", ch)
		}
	}
	if c.UsesChannel(ChannelEmail) && (strings.TrimSpace(c.Subject) == "" || strings.TrimSpace(c.Body) == "") {
		fields["template"] = "subject and body are required for email campaigns"
	}
	if err := c.Targeting.ScoreRange.Validate(); err != nil {
		fields["targeting.scoreRange"] = err.Error()
	}
	if !c.Targeting.HasCriteria() {
		fields["targeting"] = "at least one targeting criterion is required"
	}
	for _, s := range c.Targeting.Statuses {
		if !s.Valid() {
			fields["targeting.statuses"] = fmt.Sprintf("unknown lead status %q", s)
		}
	}
	if c.BudgetCents < 0 {
		fields["budget"] = "must not be negative"
	}
	if c.SpentCents < 0 {
		fields["spent"] = "must not be negative"
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		fields["endDate"] = "must not be before startDate"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err came from Campaign.Validate.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Apply performs action at time now and stamps the lifecycle timestamps.
func (c *Campaign) Apply(action Action, now time.Time) error {
	next, err := Next(c.Status, action)
	if err != nil {
		return err
	}

	switch action {
	case ActionLaunch:
		c.LaunchedAt = &now
		c.ScheduledAt = nil
		if c.StartDate == nil {
			c.StartDate = &now
		}
	case ActionComplete:
		c.CompletedAt = &now
	}

	c.Status = next
	c.UpdatedAt = now
	return nil
}

// Schedule moves a draft (or re-schedules a scheduled campaign) to launch at runAt.
func (c *Campaign) Schedule(runAt, now time.Time) error {
	if !runAt.After(now) {
		return errors.New("scheduled time must be in the future")
	}
	next, err := Next(c.Status, ActionSchedule)
	if err != nil {
		return err
	}
	c.Status = next
	c.ScheduledAt = &runAt
	c.UpdatedAt = now
	return nil
}

// Duplicate returns a fresh draft copy with reset counters and lifecycle.
func (c Campaign) Duplicate(newID uuid.UUID, now time.Time) Campaign {
	dup := c
	dup.ID = newID
	dup.Name = c.Name + " (Copy)"
	dup.Status = StatusDraft
	dup.Channels = slices.Clone(c.Channels)
	dup.Tags = slices.Clone(c.Tags)
	dup.Targeting = Targeting{
		Industries: slices.Clone(c.Targeting.Industries),
		Locations:  slices.Clone(c.Targeting.Locations),
		Countries:  slices.Clone(c.Targeting.Countries),
		Statuses:   slices.Clone(c.Targeting.Statuses),
		Tags:       slices.Clone(c.Targeting.Tags),
		ScoreRange: c.Targeting.ScoreRange,
	}
	dup.SpentCents = 0
	dup.Performance = Performance{}
	dup.ScheduledAt = nil
	dup.StartDate = nil
	dup.EndDate = nil
	dup.LaunchedAt = nil
	dup.CompletedAt = nil
	dup.CreatedAt = now
	dup.UpdatedAt = now
	return dup
}
