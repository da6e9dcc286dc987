package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/handler/http/middleware"
	"github.com/worklane/worklane-backend-go/internal/handler/http/response"
	"github.com/worklane/worklane-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	RecalculateAll(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByMonth(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Breakdown(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func monthParam(r *http.Request) (string, error) {
	month := chi.URLParam(r, "month")
	if !validator.IsValidMonthKey(month) {
		return "", fmt.Errorf("month must be MM-YYYY")
	}
	return month, nil
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RecalculateAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RecalculateAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := fmt.Sprintf("%d/%d payroll records recalculated", result.Succeeded, result.Total)
	if len(result.Failures) > 0 {
		response.MultiStatus(w, message, result)
		return
	}
	response.SuccessWithMessage(w, message, result)
}

func (h *payrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	var req payroll.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = userID
	req.Month = month

	result, err := h.payrollService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.MarkPaid(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked as paid", result)
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.Get(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListByMonth(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListByMonth(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine answers the calling employee's own payslip history.
func (h *payrollHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r)

	result, err := h.payrollService.ListByUser(r.Context(), p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Breakdown(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.Breakdown(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month, err := monthParam(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	if err := h.payrollService.Delete(r.Context(), userID, month); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted", nil)
}
