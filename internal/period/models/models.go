package models

import (
	"time"

	"dossier/pkg/domain"
)

// Period is a half-open submission window. Commands check StartDate <
// EndDate themselves because each reports its own rule code.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
}

// IsOrdered reports StartDate < EndDate.
func (p Period) IsOrdered() bool {
	return p.StartDate.Before(p.EndDate)
}

// Contains reports StartDate < t < EndDate. Both bounds are excluded.
func (p Period) Contains(t time.Time) bool {
	return p.StartDate.Before(t) && t.Before(p.EndDate)
}

func (p Period) Duration() time.Duration {
	return p.EndDate.Sub(p.StartDate)
}

// Record is the stored period of one release.
type Record struct {
	Cpid   domain.Cpid
	Ocid   domain.Ocid
	Period Period
}

// ExtendsTo reports whether moving the end date to end keeps it monotonic.
func (r Record) ExtendsTo(end time.Time) bool {
	return !end.Before(r.Period.EndDate)
}

// ValidateParams are the inputs of validatePeriod. Duration overrides the
// configured rule when present.
type ValidateParams struct {
	Country  domain.Country
	Pmd      domain.ProcurementMethod
	Period   Period
	Duration *time.Duration
}

// CheckParams are the inputs of checkPeriod.
type CheckParams struct {
	Cpid    domain.Cpid
	Ocid    domain.Ocid
	Date    time.Time
	EndDate time.Time
}

// CheckResult describes the effect an extension would have.
type CheckResult struct {
	IsPreviousPeriodChanged bool
	StoredPeriod            Period
	NewPeriod               Period
}

// SaveParams are the inputs of savePeriod.
type SaveParams struct {
	Cpid   domain.Cpid
	Ocid   domain.Ocid
	Period Period
}

// VerifyParams are the inputs of verifySubmissionPeriodEnd. Date defaults
// to the request time.
type VerifyParams struct {
	Cpid domain.Cpid
	Ocid domain.Ocid
	Date *time.Time
}
