package get_reception

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reception/models"
)

type ReceptionService interface {
	GetReceptionView(ctx context.Context, businessID int64) (*models.ReceptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
