package models

import (
	"time"

	"github.com/techhub/server/internal/pkg/apperrors"
)

// FullEventPolicy decides what happens to a registration for a full event.
type FullEventPolicy string

const (
	FullPolicyWaitlist FullEventPolicy = "waitlist"
	FullPolicyReject   FullEventPolicy = "reject"
)

func (p FullEventPolicy) Valid() bool {
	return p == FullPolicyWaitlist || p == FullPolicyReject
}

// RegistrationOutcome is where a successful registration landed.
type RegistrationOutcome string

const (
	OutcomeRegistered RegistrationOutcome = "registered"
	OutcomeWaitlisted RegistrationOutcome = "waitlisted"
)

// RegistrationSnapshot is the event state read under the registration lock.
type RegistrationSnapshot struct {
	EventID              int64
	Status               EventStatus
	MaxAttendees         int
	RegistrationDeadline time.Time
	AttendeeCount        int
	IsAttendee           bool
	IsWaitlisted         bool
}

// AvailableSpots mirrors Event.AvailableSpots for the locked snapshot.
func (s RegistrationSnapshot) AvailableSpots() int {
	if spots := s.MaxAttendees - s.AttendeeCount; spots > 0 {
		return spots
	}
	return 0
}

// IsFull mirrors Event.IsFull for the locked snapshot.
func (s RegistrationSnapshot) IsFull() bool {
	return s.AttendeeCount >= s.MaxAttendees
}

// DecideRegistration applies the registration rules to a locked snapshot.
func DecideRegistration(s RegistrationSnapshot, now time.Time, policy FullEventPolicy) (RegistrationOutcome, error) {
	if s.Status != StatusPublished {
		return "", apperrors.NewCustomError(apperrors.ErrRegistrationClosed, "Event is not open for registration")
	}
	if now.After(s.RegistrationDeadline) {
		return "", apperrors.NewCustomError(apperrors.ErrRegistrationDeadline, "Registration deadline has passed")
	}
	if s.IsAttendee || s.IsWaitlisted {
		return "", apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, "Already registered for this event")
	}
	if !s.IsFull() {
		return OutcomeRegistered, nil
	}
	if policy == FullPolicyReject {
		return "", apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full")
	}
	return OutcomeWaitlisted, nil
}

// CheckPromotion reports whether the head of the waitlist may take a spot.
func CheckPromotion(s RegistrationSnapshot) error {
	if s.Status != StatusPublished {
		return apperrors.NewCustomError(apperrors.ErrRegistrationClosed, "Event is not open for registration")
	}
	if s.IsFull() {
		return apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full")
	}
	return nil
}
