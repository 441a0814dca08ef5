// Package membership builds the company membership index: a read-only
// snapshot of the principal roster used to answer "which company does this
// principal belong to" and "who manages this company" during a visibility
// decision.
package membership

import (
	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
)

// Index is an immutable snapshot. Build a fresh one per listing pass; never
// mutate between decisions.
type Index struct {
	companyOf map[id.PrincipalID]id.CompanyID
	managers  map[id.CompanyID][]id.PrincipalID
}

// Build scans the full roster once. Principals without a company are skipped;
// only company_manager entries appear in the managers set.
func Build(roster []models.Principal) *Index {
	idx := &Index{
		companyOf: make(map[id.PrincipalID]id.CompanyID, len(roster)),
		managers:  make(map[id.CompanyID][]id.PrincipalID),
	}
	for _, p := range roster {
		if p.CompanyID.IsEmpty() {
			continue
		}
		idx.companyOf[p.ID] = p.CompanyID
		if p.Role == models.RoleCompanyManager {
			idx.managers[p.CompanyID] = append(idx.managers[p.CompanyID], p.ID)
		}
	}
	return idx
}

// CompanyOf resolves a principal to its company affiliation.
func (i *Index) CompanyOf(principal id.PrincipalID) (id.CompanyID, bool) {
	c, ok := i.companyOf[principal]
	return c, ok
}

// Managers returns the company_manager principals of a company.
func (i *Index) Managers(company id.CompanyID) []id.PrincipalID {
	return i.managers[company]
}

// Size reports how many principals the snapshot covers.
func (i *Index) Size() int { return len(i.companyOf) }
