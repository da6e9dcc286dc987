package http

import (
	"net/http"

	"github.com/worklane/worklane-backend-go/internal/domain/holiday"
	"github.com/worklane/worklane-backend-go/internal/handler/http/response"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayRepo holiday.Repository
}

func NewHolidayHandler(holidayRepo holiday.Repository) HolidayHandler {
	return &holidayHandlerImpl{holidayRepo: holidayRepo}
}

type holidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Name        string `json:"name"`
	Type        string `json:"type"`
}

func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.holidayRepo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]holidayResponse, 0, len(holidays))
	for _, item := range holidays {
		result = append(result, holidayResponse{
			ID:          item.ID,
			Date:        dateutil.DateKey(item.Date),
			IsRecurring: item.IsRecurring,
			Name:        item.Name,
			Type:        item.Type,
		})
	}

	response.Success(w, result)
}
