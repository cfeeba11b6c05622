package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Appointment represents a scheduled service appointment.
// EmployeeID is always a concrete employee: "any employee" requests are
// resolved to one inside the booking transaction and never stored.
// ServiceName, ServicePrice and DurationMinutes are snapshots taken from the
// Service at booking time; later changes to the Service never touch them.
type Appointment struct {
	ID         int64
	BusinessID int64
	ServiceID  int64
	EmployeeID int64

	// Client identity: either a registered client or a guest, never both
	ClientID   *int64
	GuestName  *string
	GuestEmail *string
	GuestPhone *string

	Date            time.Time // calendar date, business-local
	StartTime       types.TimeString
	EndTime         types.TimeString // always StartTime + DurationMinutes
	DurationMinutes int

	// Denormalized snapshot of the service at booking time
	ServiceName  string
	ServicePrice float64

	Status AppointmentStatus
	IsPaid bool
	Notes  *string

	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time slot
func (a *Appointment) IsActive() bool {
	return !a.Status.IsTerminal()
}

// IsGuest returns true if the appointment was booked by an unregistered guest
func (a *Appointment) IsGuest() bool {
	return a.ClientID == nil
}

// Interval returns the half-open busy interval [StartTime, EndTime)
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// EmployeeDayFilter selects one employee's appointments on one date
type EmployeeDayFilter struct {
	EmployeeID      int64
	Date            time.Time
	IncludeInactive bool
}

// BusinessDayFilter selects a business's appointments, optionally narrowed
// to one date and/or one status
type BusinessDayFilter struct {
	BusinessID      int64
	Date            *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool
}
