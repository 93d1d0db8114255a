package domain

import (
	"slices"
	"time"
)

// LinkRecord is the persisted manifest of the last successful link.
// It only ever adds relinks; a missing or stale record never suppresses one.
type LinkRecord struct {
	Library     string    `json:"library"`
	Fingerprint string    `json:"fingerprint"`
	Objects     []string  `json:"objects,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}

// Matches reports whether the record describes the given library and fingerprint.
func (r *LinkRecord) Matches(library, fingerprint string) bool {
	if r == nil {
		return false
	}
	return r.Library == library && r.Fingerprint == fingerprint
}

// NewLinkRecord creates a record for a link of objects into library.
func NewLinkRecord(library, fingerprint string, objects []string, at time.Time) *LinkRecord {
	return &LinkRecord{
		Library:     library,
		Fingerprint: fingerprint,
		Objects:     slices.Clone(objects),
		Timestamp:   at,
	}
}
