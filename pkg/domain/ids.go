// Package domain holds shared identifier types parsed at trust boundaries.
//
// Identifiers in this system come from the identity provider and the practice
// roster as opaque strings, so the types are string-backed rather than UUIDs.
// Construct them via the Parse functions when crossing a trust boundary;
// direct conversion bypasses validation.
package domain

import (
	"unicode"

	dErrors "praxis/pkg/domain-errors"
)

// PrincipalID identifies a user in the practice roster.
type PrincipalID string

// CompanyID identifies a company (practice) a principal belongs to.
type CompanyID string

// MessageID identifies a system message.
type MessageID string

// ProfileID identifies a browser profile for read-state tracking.
type ProfileID string

const maxIDLen = 128

func (id PrincipalID) IsEmpty() bool { return id == "" }
func (id CompanyID) IsEmpty() bool   { return id == "" }
func (id MessageID) IsEmpty() bool   { return id == "" }
func (id ProfileID) IsEmpty() bool   { return id == "" }

func (id PrincipalID) String() string { return string(id) }
func (id CompanyID) String() string   { return string(id) }
func (id MessageID) String() string   { return string(id) }
func (id ProfileID) String() string   { return string(id) }

// ParsePrincipalID validates an external principal identifier.
func ParsePrincipalID(s string) (PrincipalID, error) {
	if err := validateID(s, "principal id"); err != nil {
		return "", err
	}
	return PrincipalID(s), nil
}

// ParseCompanyID validates an external company identifier.
func ParseCompanyID(s string) (CompanyID, error) {
	if err := validateID(s, "company id"); err != nil {
		return "", err
	}
	return CompanyID(s), nil
}

// ParseMessageID validates an external message identifier.
func ParseMessageID(s string) (MessageID, error) {
	if err := validateID(s, "message id"); err != nil {
		return "", err
	}
	return MessageID(s), nil
}

// ParseProfileID validates an external browser-profile identifier.
func ParseProfileID(s string) (ProfileID, error) {
	if err := validateID(s, "profile id"); err != nil {
		return "", err
	}
	return ProfileID(s), nil
}

func validateID(s, kind string) error {
	if s == "" {
		return dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(s) > maxIDLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "%s exceeds %d bytes", kind, maxIDLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return dErrors.Newf(dErrors.CodeInvalidInput, "%s contains control or space characters", kind)
		}
	}
	return nil
}
