// Package filter holds the pure visibility rules shared by every listing
// feature. One predicate replaces the role branching that used to be inlined
// in each page.
package filter

import (
	"praxis/internal/visibility/membership"
	"praxis/internal/visibility/models"
)

// Visible decides whether the principal may see the target.
//
// Rules, in precedence order:
//
//  1. sys_admin sees everything.
//  2. A principal sees records it owns directly (its own clients and plans,
//     messages directed to it).
//  3. A record with no owner is a broadcast visible to everyone, unless the
//     record demands directed visibility, in which case an un-directed record
//     is shown to no one.
//  4. A company_manager sees records whose owner belongs to the manager's
//     company, resolved through the membership index.
//  5. Otherwise not visible.
//
// idx may be nil when the membership index could not be built; company-scoped
// visibility (rule 4) then never admits and managers degrade to their own
// directly-owned records. The listing itself never fails for that reason.
func Visible(p models.Principal, t models.Target, idx *membership.Index) bool {
	if p.Role == models.RoleSysAdmin {
		return true
	}

	owner := t.VisibilityOwner()
	if owner == p.ID && !owner.IsEmpty() {
		return true
	}

	if owner.IsEmpty() {
		return !t.DirectedOnly()
	}

	if p.Role == models.RoleCompanyManager && idx != nil {
		if company, ok := idx.CompanyOf(owner); ok && company == p.CompanyID {
			return true
		}
	}

	return false
}

// Admit filters a slice of targets in place order, returning the admitted
// subset. The input order is preserved.
func Admit[T models.Target](p models.Principal, targets []T, idx *membership.Index) []T {
	admitted := make([]T, 0, len(targets))
	for _, t := range targets {
		if Visible(p, t, idx) {
			admitted = append(admitted, t)
		}
	}
	return admitted
}
