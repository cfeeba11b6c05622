package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса,
	// в том числе при любом переходе из терминального статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTransitionConflict возвращается, когда статус записи изменён
	// конкурирующим переходом: CAS-обновление не применилось, запись
	// осталась нетронутой
	ErrTransitionConflict = errors.New("status changed concurrently, retry with fresh state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
