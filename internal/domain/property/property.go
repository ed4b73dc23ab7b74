package property

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often rent falls due for a property.
type Frequency string

const (
	FrequencyWeekly      Frequency = "Weekly"
	FrequencyFortnightly Frequency = "Fortnightly"
	FrequencyMonthly     Frequency = "Monthly"
)

// IsValid checks if the frequency is one of the supported cadences.
func (f Frequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyFortnightly || f == FrequencyMonthly
}

// RentRule describes when rent is expected for a property and how the
// payment is recognised on a bank statement.
//
// Exactly one of DueDayOfWeek / DueDayOfMonth is meaningful, selected by
// Frequency: Weekly and Fortnightly use DueDayOfWeek (0=Monday .. 6=Sunday,
// matching the stored schema convention), Monthly uses DueDayOfMonth (1-31).
type RentRule struct {
	Frequency      Frequency
	DueDayOfWeek   int
	DueDayOfMonth  int
	ExpectedAmount decimal.Decimal
	MatchKeyword   string // case-insensitive substring searched in bank transaction descriptions
}

// IsDueOn reports whether rent is due on the given calendar date. Pure; only
// the date part of t is considered.
//
// Fortnightly intentionally uses the same day-of-week test as Weekly: the
// rule carries no cycle anchor date, so a true 14-day cadence cannot be
// derived from it. Monthly rules with a due day larger than the current
// month's length simply never match that month.
func (r RentRule) IsDueOn(t time.Time) bool {
	switch r.Frequency {
	case FrequencyWeekly, FrequencyFortnightly:
		return mondayIndexed(t.Weekday()) == r.DueDayOfWeek
	case FrequencyMonthly:
		return t.Day() == r.DueDayOfMonth
	}
	return false
}

// mondayIndexed converts Go's Sunday-first weekday to the 0=Monday
// convention the rent_due_day_of_week column uses.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Validate checks the rule's internal consistency.
func (r RentRule) Validate() error {
	if !r.Frequency.IsValid() {
		return fmt.Errorf("unsupported rent frequency: %q", r.Frequency)
	}
	switch r.Frequency {
	case FrequencyWeekly, FrequencyFortnightly:
		if r.DueDayOfWeek < 0 || r.DueDayOfWeek > 6 {
			return fmt.Errorf("due day of week must be in 0..6, got %d", r.DueDayOfWeek)
		}
	case FrequencyMonthly:
		if r.DueDayOfMonth < 1 || r.DueDayOfMonth > 31 {
			return fmt.Errorf("due day of month must be in 1..31, got %d", r.DueDayOfMonth)
		}
	}
	if !r.ExpectedAmount.IsPositive() {
		return fmt.Errorf("expected rent amount must be positive, got %s", r.ExpectedAmount)
	}
	if r.MatchKeyword == "" {
		return fmt.Errorf("bank statement match keyword must not be empty")
	}
	return nil
}

// Property is a landlord-owned rental unit tracked by the reconciliation
// engine. CRUD on properties is driven by the surrounding web application;
// the engine only reads them.
type Property struct {
	ID                 int64
	LandlordID         int64
	Address            string
	TenantName         string
	TenantEmail        string
	Rule               RentRule
	SendTenantReminder bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
