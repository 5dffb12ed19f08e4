package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a campaign.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusDraft,
	StatusScheduled,
	StatusActive,
	StatusPaused,
	StatusCompleted,
	StatusArchived,
}

// StatusNames returns the canonical status strings in lifecycle order.
func StatusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Running reports whether the campaign is currently live.
func (s Status) Running() bool {
	return s == StatusActive
}

// Editable reports whether content and targeting may still change.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusScheduled || s == StatusPaused
}

// ParseStatus maps raw input onto a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown campaign status %q", raw)
	}
	return status, nil
}

// Action drives a status transition.
type Action string

const (
	ActionSchedule Action = "schedule"
	ActionLaunch   Action = "launch"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionComplete Action = "complete"
	ActionArchive  Action = "archive"
)

// Actions lists every action in lifecycle order.
var Actions = []Action{ActionSchedule, ActionLaunch, ActionPause, ActionResume, ActionComplete, ActionArchive}

// ErrInvalidTransition is returned when an action is not allowed from the current status.
var ErrInvalidTransition = errors.New("invalid campaign status transition")

// TransitionError describes a rejected transition.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s campaign", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// transitions is the campaign lifecycle:
// draft → scheduled → active → {paused ⇄ active} → completed → archived.
// A draft may launch immediately or be archived unused.
var transitions = map[Action]map[Status]Status{
	ActionSchedule: {
		StatusDraft:     StatusScheduled,
		StatusScheduled: StatusScheduled,
	},
	ActionLaunch: {
		StatusDraft:     StatusActive,
		StatusScheduled: StatusActive,
	},
	ActionPause: {
		StatusActive: StatusPaused,
	},
	ActionResume: {
		StatusPaused: StatusActive,
	},
	ActionComplete: {
		StatusActive: StatusCompleted,
		StatusPaused: StatusCompleted,
	},
	ActionArchive: {
		StatusDraft:     StatusArchived,
		StatusCompleted: StatusArchived,
	},
}

// Next returns the status reached by applying action to from.
func Next(from Status, action Action) (Status, error) {
	targets, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown campaign action %q", action)
	}
	to, ok := targets[from]
	if !ok {
		return "", &TransitionError{From: from, Action: action}
	}
	return to, nil
}

// AllowedActions lists the actions permitted from status, in a stable order.
func AllowedActions(from Status) []Action {
	out := make([]Action, 0, len(Actions))
	for _, action := range Actions {
		if _, ok := transitions[action][from]; ok {
			out = append(out, action)
		}
	}
	return out
}
