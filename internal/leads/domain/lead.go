// Package domain holds the lead record and the rules every stored lead obeys.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 0
	MaxScore = 100
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
)

// ScoreBreakdown holds the four sub-scores behind a lead's composite score.
type ScoreBreakdown struct {
	Engagement  int `json:"engagement"`
	Demographic int `json:"demographic"`
	Behavioral  int `json:"behavioral"`
	Fit         int `json:"fit"`
}

// Validate checks that every sub-score lies in [0,100].
func (b ScoreBreakdown) Validate() error {
	parts := []struct {
		name  string
		value int
	}{
		{"engagement", b.Engagement},
		{"demographic", b.Demographic},
		{"behavioral", b.Behavioral},
		{"fit", b.Fit},
	}
	for _, p := range parts {
		if p.value < MinScore || p.value > MaxScore {
			return fmt.Errorf("%s score must be between %d and %d", p.name, MinScore, MaxScore)
		}
	}
	return nil
}

// Lead is a prospective customer.
type Lead struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Phone          string
	Company        string
	JobTitle       string
	Industry       string
	Location       string
	Country        string
	Source         string
	Tags           []string
	Status         Status
	Score          int
	ScoreBreakdown *ScoreBreakdown
	ValueCents     *int64
	CampaignID     *uuid.UUID
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastContactAt  *time.Time
}

// Value returns the monetary estimate in cents, treating a missing value as 0.
func (l Lead) Value() int64 {
	if l.ValueCents == nil {
		return 0
	}
	return *l.ValueCents
}

// ValidationError collects field-level problems with a lead.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	slices.Sort(parts)
	return "invalid lead: " + strings.Join(parts, "; ")
}

// Validate enforces the invariants of a stored lead.
func (l Lead) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(l.Name) == "" {
		fields["name"] = "is required"
	}
	if !emailPattern.MatchString(l.Email) {
		fields["email"] = "must be a valid email address"
	}
	if l.Phone != "" && !phonePattern.MatchString(l.Phone) {
		fields["phone"] = "may only contain digits, spaces and + - ( )"
	}
	if !l.Status.Valid() {
		fields["status"] = "is not a known status"
	}
	if l.Score < MinScore || l.Score > MaxScore {
		fields["score"] = fmt.Sprintf("must be between %d and %d", MinScore, MaxScore)
	}
	if l.ScoreBreakdown != nil {
		if err := l.ScoreBreakdown.Validate(); err != nil {
			fields["scoreBreakdown"] = err.Error()
		}
	}
	if l.ValueCents != nil && *l.ValueCents < 0 {
		fields["value"] = "must not be negative"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err came from Lead.Validate.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
