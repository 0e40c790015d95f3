package domain

import (
	"sort"
	"strings"
	"time"
)

// UnknownActor is stamped on records mutated without an authenticated session.
const UnknownActor = "unknown"

// Field names understood by record stores for prefix range scans.
const (
	FieldSourceTerm       = "source_term"
	FieldSourceTermFolded = "source_term_folded"
)

// Record is a single dictionary entry within a collection.
type Record struct {
	ID           string     `json:"id"`
	SourceTerm   string     `json:"sourceTerm"`
	TargetTerm   string     `json:"targetTerm"`
	Definition   string     `json:"definition"`
	Domain       string     `json:"domain,omitempty"`
	Subdomain    string     `json:"subdomain,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	ExampleOfUse string     `json:"exampleOfUse,omitempty"`
	Forbidden    bool       `json:"forbidden"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
	ModifiedAt   time.Time  `json:"modifiedAt"`
	ModifiedBy   string     `json:"modifiedBy"`
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	DeletedBy    *string    `json:"deletedBy,omitempty"`
}

// HasTerm reports whether at least one of the two term fields is non-blank.
func (r Record) HasTerm() bool {
	return strings.TrimSpace(r.SourceTerm) != "" || strings.TrimSpace(r.TargetTerm) != ""
}

// Marker returns the keyset position of the record in source-term order.
func (r Record) Marker() PageMarker {
	return PageMarker{SourceTerm: r.SourceTerm, ID: r.ID}
}

// ApplyContent copies the user-editable fields of src into r.
// Identity, audit and deletion fields are left untouched.
func (r *Record) ApplyContent(src Record) {
	r.SourceTerm = src.SourceTerm
	r.TargetTerm = src.TargetTerm
	r.Definition = src.Definition
	r.Domain = src.Domain
	r.Subdomain = src.Subdomain
	r.Notes = src.Notes
	r.ExampleOfUse = src.ExampleOfUse
	r.Forbidden = src.Forbidden
}

// Stamp is an audit moment: when and by whom.
type Stamp struct {
	At time.Time
	By string
}

// ApplyDelete marks the record as soft-deleted with the given stamp.
// The modification stamp moves with it; content fields are untouched.
func (r *Record) ApplyDelete(s Stamp) {
	at := s.At
	by := s.By
	r.Deleted = true
	r.DeletedAt = &at
	r.DeletedBy = &by
	r.ModifiedAt = at
	r.ModifiedBy = by
}

// PrefixRange returns the bounds of a range scan over strings starting with
// prefix. Terms continuing with a code point above U+F8FF fall outside it.
func PrefixRange(prefix string) (lower, upper string) {
	return prefix, prefix + "\uf8ff"
}

// SortBySourceTerm orders records ascending by source term using byte-wise
// (case-sensitive) comparison, breaking ties by ID.
func SortBySourceTerm(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].SourceTerm != recs[j].SourceTerm {
			return recs[i].SourceTerm < recs[j].SourceTerm
		}
		return recs[i].ID < recs[j].ID
	})
}

// Before reports whether the marker sorts strictly before r.
func (m PageMarker) Before(r Record) bool {
	if m.SourceTerm != r.SourceTerm {
		return m.SourceTerm < r.SourceTerm
	}
	return m.ID < r.ID
}
