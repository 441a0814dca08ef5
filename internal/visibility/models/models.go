package models

import (
	"time"

	id "praxis/pkg/domain"
	dErrors "praxis/pkg/domain-errors"
)

// Role is the fixed three-tier role set. These are hard-coded business rules,
// not a configurable permission system.
type Role string

const (
	RoleSysAdmin       Role = "sys_admin"
	RoleCompanyManager Role = "company_manager"
	RoleEmployee       Role = "employee"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleSysAdmin:       true,
	RoleCompanyManager: true,
	RoleEmployee:       true,
}

func (r Role) IsValid() bool { return validRoles[r] }

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported role %q", s)
	}
	return r, nil
}

// Principal is the resolved role/company identity of the signed-in user.
//
// Invariants:
//   - company_manager and employee are meaningful only with a company id
//   - sys_admin ignores CompanyID
//
// A Principal is resolved once per request from the authenticated identity
// and never mutated by this engine; role changes are an external
// administrative action.
type Principal struct {
	ID        id.PrincipalID
	Role      Role
	CompanyID id.CompanyID
}

// Validate enforces the role/company invariant.
func (p Principal) Validate() error {
	if p.ID.IsEmpty() {
		return dErrors.New(dErrors.CodeInvariantViolation, "principal id is required")
	}
	if !p.Role.IsValid() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "unsupported role %q", p.Role)
	}
	if p.Role != RoleSysAdmin && p.CompanyID.IsEmpty() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "role %s requires a company id", p.Role)
	}
	return nil
}

// FallbackPolicy governs what the principal resolver does when the
// authenticated identity has no roster profile. Fail-open preserves the
// pre-roster onboarding behavior (resolve to sys_admin so no data is hidden
// behind a missing profile); fail-closed rejects the request. The choice is
// an explicit, logged configuration value, never an implicit side effect.
type FallbackPolicy string

const (
	FallbackFailOpen   FallbackPolicy = "fail-open"
	FallbackFailClosed FallbackPolicy = "fail-closed"
)

func (p FallbackPolicy) IsValid() bool {
	return p == FallbackFailOpen || p == FallbackFailClosed
}

// ParseFallbackPolicy constructs a FallbackPolicy from configuration input.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	p := FallbackPolicy(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported fallback policy %q", s)
	}
	return p, nil
}

// Priority tiers for system messages. Only urgent messages participate in the
// interrupting carousel; normal ones surface through ordinary list views.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// Target is any record the visibility filter can admit or reject.
//
// VisibilityOwner returns the owning principal; an empty owner makes the
// record a broadcast visible to everyone. DirectedOnly suppresses broadcast
// semantics entirely: an un-owned record is then shown to no one.
type Target interface {
	VisibilityOwner() id.PrincipalID
	DirectedOnly() bool
}

// SystemMessage is an announcement delivered through the dashboard.
// DirectedTo empty means broadcast, subject to RequiresDirectedVisibility.
type SystemMessage struct {
	ID         id.MessageID
	Title      string
	Body       string
	DirectedTo id.PrincipalID
	Priority   Priority
	// RequiresDirectedVisibility suppresses broadcast semantics for this
	// message: it is only ever shown when directed, and for company managers
	// only when the recipient belongs to the manager's company. Set at
	// creation time; see ClassifyMessage for legacy records.
	RequiresDirectedVisibility bool
	StartsAt                   *time.Time
	EndsAt                     *time.Time
	CreatedAt                  time.Time
}

func (m SystemMessage) VisibilityOwner() id.PrincipalID { return m.DirectedTo }
func (m SystemMessage) DirectedOnly() bool              { return m.RequiresDirectedVisibility }

// ActiveAt reports whether the optional validity window contains now.
// A missing bound is open-ended on that side.
func (m SystemMessage) ActiveAt(now time.Time) bool {
	if m.StartsAt != nil && now.Before(*m.StartsAt) {
		return false
	}
	if m.EndsAt != nil && now.After(*m.EndsAt) {
		return false
	}
	return true
}

// legacyPersonalizedRequestTitles are the two localized titles the legacy
// system used to mark per-client personalized menu requests. Records created
// before the RequiresDirectedVisibility flag existed carry only the title.
var legacyPersonalizedRequestTitles = map[string]bool{
	"New personalized menu request": true,
	"בקשה חדשה לתפריט אישי":         true,
}

// ClassifyMessage sets RequiresDirectedVisibility on messages whose title
// matches a legacy personalized-request template. Call at ingest so the
// filter never compares title strings.
func ClassifyMessage(m *SystemMessage) {
	if legacyPersonalizedRequestTitles[m.Title] {
		m.RequiresDirectedVisibility = true
	}
}

// Client is a roster entry of the practice: the person being trained or
// consulted, owned by the provider (employee) responsible for them.
type Client struct {
	ID         string
	FullName   string
	ProviderID id.PrincipalID
	CreatedAt  time.Time
}

func (c Client) VisibilityOwner() id.PrincipalID { return c.ProviderID }
func (c Client) DirectedOnly() bool              { return false }

// TrainingPlan is owned transitively through its client's provider; stores
// resolve OwnerID at query time so the filter sees a flat owning identifier.
type TrainingPlan struct {
	ID        string
	ClientID  string
	Name      string
	OwnerID   id.PrincipalID
	CreatedAt time.Time
}

func (p TrainingPlan) VisibilityOwner() id.PrincipalID { return p.OwnerID }
func (p TrainingPlan) DirectedOnly() bool              { return false }

// TrainingLog records a completed session against a plan.
type TrainingLog struct {
	ID        string
	ClientID  string
	PlanID    string
	Notes     string
	OwnerID   id.PrincipalID
	CreatedAt time.Time
}

func (l TrainingLog) VisibilityOwner() id.PrincipalID { return l.OwnerID }
func (l TrainingLog) DirectedOnly() bool              { return false }

// TrainingReminder is a scheduled nudge tied to a client.
type TrainingReminder struct {
	ID        string
	ClientID  string
	Note      string
	DueAt     time.Time
	OwnerID   id.PrincipalID
	CreatedAt time.Time
}

func (r TrainingReminder) VisibilityOwner() id.PrincipalID { return r.OwnerID }
func (r TrainingReminder) DirectedOnly() bool              { return false }
