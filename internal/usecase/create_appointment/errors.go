package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена бизнесом
	ErrServiceInactive = errors.New("create_appointment: service is inactive")

	// ErrEmployeeNotFound возвращается, когда указанный сотрудник не найден в бизнесе
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrEmployeeInactive возвращается, когда сотрудник неактивен
	// или не выполняет указанную услугу
	ErrEmployeeInactive = errors.New("create_appointment: employee is inactive or not qualified")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = errors.New("create_appointment: business is closed on this date")

	// ErrOutsideBookingWindow возвращается, когда дата/время вне окна бронирования:
	// в прошлом, за горизонтом maxAdvanceBookingDays или вне рабочих часов
	ErrOutsideBookingWindow = errors.New("create_appointment: outside booking window")

	// ErrSlotNotAvailable возвращается, когда слот занят (в т.ч. при проигрыше
	// гонки конкурирующему бронированию) — клиент должен перезапросить
	// доступность и повторить выбор сам
	ErrSlotNotAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrInvalidIdentity возвращается при некорректной идентичности клиента:
	// требуется ровно одна форма — clientId либо полные гостевые данные
	ErrInvalidIdentity = errors.New("create_appointment: invalid client identity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
