package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by store reads when no record carries the given
// identifier.
var ErrNotFound = errors.New("record not found")

// ReferenceError reports a dangling or missing foreign key: either a record
// referencing an identifier that does not exist, or a delete blocked by
// records still referencing the target.
type ReferenceError struct {
	Entity EntityType
	ID     int64

	// Dependents is set when a delete was refused because records of this
	// type still reference the target.
	Dependents EntityType
}

func (e *ReferenceError) Error() string {
	if e.Dependents != "" {
		return fmt.Sprintf("%s %d is still referenced by existing %s", entityNoun(e.Entity), e.ID, e.Dependents)
	}
	return fmt.Sprintf("%s %d does not exist", entityNoun(e.Entity), e.ID)
}

// TimeRangeError reports a shift whose start is not strictly before its end.
type TimeRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("shift start %s must be before end %s",
		e.Start.Format(DateTimeLayout), e.End.Format(DateTimeLayout))
}

// OverlapError reports a provider double-booking.
type OverlapError struct {
	ProviderID    int64
	ShiftID       int64
	ConflictsWith int64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("shift %d overlaps shift %d for provider %d", e.ShiftID, e.ConflictsWith, e.ProviderID)
}

// CredentialError reports a missing (provider, client) authorization. It is
// fatal only when credential enforcement is enabled.
type CredentialError struct {
	ProviderID int64
	ClientID   int64
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("provider %d holds no credential for client %d", e.ProviderID, e.ClientID)
}

// RowError reports a malformed CSV row: the offending line, the column, and
// the reason.
type RowError struct {
	Line   int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("row %d: column %s: %s", e.Line, e.Column, e.Reason)
}

func entityNoun(t EntityType) string {
	switch t {
	case EntityProviders:
		return "provider"
	case EntityClients:
		return "client"
	case EntityCredentials:
		return "credential"
	case EntityShifts:
		return "shift"
	default:
		return string(t)
	}
}
