package domain

import (
	"errors"
	"fmt"
	"time"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusCheckedIn  AppointmentStatus = "checked_in"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// ErrInvalidTransition is returned when a status change is not allowed by the
// transition table, including any transition out of a terminal status
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// ErrUnknownStatus is returned for a status value outside the known set
var ErrUnknownStatus = errors.New("unknown appointment status")

// transitions is the full status transition table. A status missing from the
// map is terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusCheckedIn, StatusInProgress, StatusCancelled, StatusNoShow, StatusCompleted},
	StatusCheckedIn:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// ParseStatus validates and converts a raw status string
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsTerminal returns true if no further transition is allowed from the status
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo returns true if the transition table allows s -> target
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a freshly booked appointment starts in
func InitialStatus(autoConfirm bool) AppointmentStatus {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// TransitionContext carries the inputs a transition's side effects depend on
type TransitionContext struct {
	Now time.Time

	// RequireDeposit mirrors the business setting: when a deposit is
	// collected up front, completing an appointment leaves payment state
	// to the billing module
	RequireDeposit bool

	CancellationReason *string
}

// ApplyTransition validates the transition and returns a copy of the
// appointment with the new status and accompanying side effects applied.
// It is a pure function: no I/O, the input appointment is never mutated,
// persistence is the caller's concern.
func ApplyTransition(a Appointment, target AppointmentStatus, tc TransitionContext) (Appointment, error) {
	if _, err := ParseStatus(string(target)); err != nil {
		return Appointment{}, err
	}

	if !a.Status.CanTransitionTo(target) {
		return Appointment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	updated := a
	updated.Status = target

	switch target {
	case StatusCompleted:
		now := tc.Now
		updated.CompletedAt = &now
		if !tc.RequireDeposit {
			updated.IsPaid = true
		}
	case StatusCancelled, StatusNoShow:
		now := tc.Now
		updated.CancelledAt = &now
		if tc.CancellationReason != nil {
			updated.CancellationReason = tc.CancellationReason
		}
	}

	return updated, nil
}
