package set_employee_break

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reception"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reception/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidEmployeeID  = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgEmployeeNotFound   = "сотрудник не найден"
)

type Handler struct {
	service ReceptionService
	logger  Logger
}

func NewHandler(service ReceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/employees/{employeeId}/break
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем businessId из URL
	businessIDStr := vars["businessId"]
	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/employees/{id}/break - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Извлекаем employeeId из URL
	employeeIDStr := vars["employeeId"]
	employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/employees/{id}/break - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req models.SetBreakRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/employees/{id}/break - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetBreak(r.Context(), businessID, employeeID, &req); err != nil {
		switch {
		case errors.Is(err, reception.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/employees/{id}/break - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, reception.ErrEmployeeNotFound):
			h.logger.Warn("PUT /businesses/{id}/employees/{id}/break - Employee not found: business_id=%d, employee_id=%d",
				businessID, employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("PUT /businesses/{id}/employees/{id}/break - Failed to set break: business_id=%d, employee_id=%d, error=%v",
				businessID, employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/employees/{id}/break - Break flag updated: business_id=%d, employee_id=%d, on_break=%v",
		businessID, employeeID, req.OnBreak)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
