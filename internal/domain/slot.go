package domain

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// Slot is a candidate appointment start time with its computed availability.
// A slot is available when at least one eligible employee is free for the
// whole service duration starting at StartTime.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}

// EmployeeState is the derived real-time occupancy of one employee.
// Only StateBreak is ever set explicitly by staff; the other two are
// recomputed from appointment data and the current time on every read.
type EmployeeState string

const (
	StateAvailable EmployeeState = "available"
	StateBusy      EmployeeState = "busy"
	StateBreak     EmployeeState = "break"
)
