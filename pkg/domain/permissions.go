package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	platformstrings "muniadmin/pkg/platform/strings"
)

// Permission tags understood by the gate middleware. Tags are plain strings
// so new ones can be introduced without a schema change.
const (
	PermAdmin        = "ADMIN"
	PermRequestIssue = "REQUEST_ISSUE"
	PermViewer       = "VIEWER"
	PermBasicAccess  = "BASIC_ACCESS"
)

// PermissionSet is an unordered set of permission tags. It is the single
// place that understands the two serialized shapes found in legacy data:
// a genuine JSON array and a JSON string containing an encoded array
// (rows written before permissions were stored as a native array).
//
// Decoding never fails outright: unparseable data is recorded and surfaced
// via Err so callers can distinguish "no such tag" from "corrupted claims".
type PermissionSet struct {
	tags     []string
	parseErr error
}

// NewPermissionSet builds a set from tags, dropping empties, surrounding
// whitespace and duplicates.
func NewPermissionSet(tags ...string) PermissionSet {
	return PermissionSet{tags: platformstrings.DedupeAndTrim(tags)}
}

// Has reports membership. A set with a parse error contains nothing.
func (s PermissionSet) Has(tag string) bool {
	return s.parseErr == nil && slices.Contains(s.tags, tag)
}

// Tags returns a copy of the tags in the set.
func (s PermissionSet) Tags() []string {
	return slices.Clone(s.tags)
}

// Err reports whether the serialized form this set was decoded from was
// unparseable. Callers deciding access must treat a non-nil Err as a fault,
// never as an empty set.
func (s PermissionSet) Err() error { return s.parseErr }

// IsZero reports whether the set holds no tags and no parse error.
func (s PermissionSet) IsZero() bool { return len(s.tags) == 0 && s.parseErr == nil }

// MarshalJSON always emits the canonical array form. Issuing tokens through
// this type is what retires the legacy string encoding.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	if s.tags == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.tags)
}

// UnmarshalJSON accepts ["A","B"] as well as "[\"A\",\"B\"]". It never
// returns an error; malformed input parks the failure in Err so an outer
// decode (e.g. JWT claims) still succeeds and the gate can answer 500
// instead of silently denying or allowing.
func (s *PermissionSet) UnmarshalJSON(b []byte) error {
	var tags []string
	if err := json.Unmarshal(b, &tags); err == nil {
		*s = NewPermissionSet(tags...)
		return nil
	}

	var encoded string
	if err := json.Unmarshal(b, &encoded); err == nil {
		if encoded == "" {
			*s = PermissionSet{}
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &tags); err == nil {
			*s = NewPermissionSet(tags...)
			return nil
		}
		*s = PermissionSet{parseErr: fmt.Errorf("permissions: string form is not a JSON array: %q", encoded)}
		return nil
	}

	*s = PermissionSet{parseErr: fmt.Errorf("permissions: unsupported serialized form: %s", string(b))}
	return nil
}
