package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyFirstName   = errors.New("empty first name")
	ErrEmptyLastName    = errors.New("empty last name")
	ErrMissingBirthdate = errors.New("missing birthdate")
	ErrFutureBirthdate  = errors.New("birthdate in the future")
)

// Senior is a registered beneficiary. Age is always derived from Birthdate;
// a stored age is never trusted over the birthdate.
type Senior struct {
	ID        int64
	FirstName string
	LastName  string
	Birthdate time.Time
	Barangay  string
	PWD       bool
	LowIncome bool
	Age       int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Senior) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (s Senior) Validate() error {
	if strings.TrimSpace(s.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(s.LastName) == "" {
		return ErrEmptyLastName
	}
	if s.Birthdate.IsZero() {
		return ErrMissingBirthdate
	}
	if s.Birthdate.After(time.Now()) {
		return ErrFutureBirthdate
	}
	return nil
}

// Snapshot captures the classification-relevant state of a senior at a
// point in time.
func (s Senior) Snapshot(now time.Time) Snapshot {
	return Snapshot{Age: AgeAt(s.Birthdate, now), PWD: s.PWD}
}

// AgeAt returns the whole-year age at the given instant. The anniversary
// itself counts: someone born 1945-06-01 is 80 on 2025-06-01.
func AgeAt(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	if years < 0 {
		return 0
	}
	anniversary := birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Application statuses as seeded in the application_statuses lookup table.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusReleased = "released"
)

// Application is one senior's request for a benefit. The most recent
// application (by CreatedAt) is the one whose category is displayed.
type Application struct {
	ID         int64
	SeniorID   int64
	BenefitID  int64
	StatusID   int64
	CategoryID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StatusLookup maps status names to their lookup-table ids.
type StatusLookup map[string]int64
