package set_employee_break

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reception/models"
)

type ReceptionService interface {
	SetBreak(ctx context.Context, businessID, employeeID int64, req *models.SetBreakRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
