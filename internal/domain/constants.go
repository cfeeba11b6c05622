package domain

// Default booking settings applied when the business profile omits them
const (
	DefaultSlotIntervalMinutes = 30
	DefaultBreakTTLHours       = 8 // a break never outlives a working day
)

// Input length limits
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// DateFormat is the wire format for appointment dates (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// TerminalStatuses список терминальных статусов: запись больше не занимает слот
// и не допускает переходов
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// NonTerminalStatuses список статусов, при которых запись занимает слот сотрудника
var NonTerminalStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusInProgress,
}
