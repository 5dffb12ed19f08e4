package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// statusConverted is accepted on input for records that use the
// "converted" vocabulary; it is stored as StatusWon.
const statusConverted = "converted"

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusWon,
	StatusLost,
}

// StatusNames returns the canonical status strings in pipeline order.
func StatusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusWon, StatusLost:
		return true
	}
	return false
}

// Closed reports whether the lead has left the pipeline.
func (s Status) Closed() bool {
	return s == StatusWon || s == StatusLost
}

// ParseStatus maps raw input onto a canonical status. Matching is
// case-insensitive and "converted" is an alias of "won".
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == statusConverted {
		return StatusWon, nil
	}
	status := Status(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("unknown lead status %q", raw)
	}
	return status, nil
}
