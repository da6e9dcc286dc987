package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/handler/http/middleware"
	"github.com/worklane/worklane-backend-go/internal/handler/http/response"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

type ShiftHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Review (approval capability required)
	WeekGrid(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	BulkWeekStatus(w http.ResponseWriter, r *http.Request)
	AdminUpsert(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.Service
}

func NewShiftHandler(shiftService shift.Service) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// Submit registers a batch of dates for the calling employee. A partial
// outcome answers 207 with the per-date failures.
func (h *shiftHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r)

	var req shift.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = p.EmployeeID

	result, err := h.shiftService.Submit(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := fmt.Sprintf("%d/%d registrations submitted", result.Succeeded, result.Total)
	if result.AllSucceeded() {
		response.Created(w, message, result)
		return
	}
	response.MultiStatus(w, message, result)
}

func (h *shiftHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r)

	result, err := h.shiftService.ListByUser(r.Context(), p, p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.shiftService.ListByUser(r.Context(), middleware.PrincipalFromContext(r), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Registration ID is required", nil)
		return
	}

	var req shift.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.shiftService.Update(r.Context(), middleware.PrincipalFromContext(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.ToResponse(result))
}

func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Registration ID is required", nil)
		return
	}

	if err := h.shiftService.Delete(r.Context(), middleware.PrincipalFromContext(r), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration deleted", nil)
}

// WeekGrid answers the review grid for the week containing ?date
// (YYYY-MM-DD, defaults to today).
func (h *shiftHandlerImpl) WeekGrid(w http.ResponseWriter, r *http.Request) {
	date := dateutil.Midnight(timeNow())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dateutil.ParseDateKey(raw)
		if err != nil {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	result, err := h.shiftService.WeekGrid(r.Context(), middleware.PrincipalFromContext(r), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Registration ID is required", nil)
		return
	}

	var req shift.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	p := middleware.PrincipalFromContext(r)

	var result shift.Registration
	var err error
	if req.Status == shift.StatusApproved {
		result, err = h.shiftService.Approve(r.Context(), p, id)
	} else {
		result, err = h.shiftService.Reject(r.Context(), p, id, req.Reason)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.ToResponse(result))
}

func (h *shiftHandlerImpl) BulkWeekStatus(w http.ResponseWriter, r *http.Request) {
	var req shift.BulkWeekStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	count, err := h.shiftService.BulkWeekStatus(r.Context(), middleware.PrincipalFromContext(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("%d registrations updated", count), map[string]int{"updated": count})
}

func (h *shiftHandlerImpl) AdminUpsert(w http.ResponseWriter, r *http.Request) {
	var req shift.AdminUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.shiftService.AdminUpsert(r.Context(), middleware.PrincipalFromContext(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.ToResponse(result))
}
