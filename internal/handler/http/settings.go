package http

import (
	"encoding/json"
	"net/http"

	"github.com/worklane/worklane-backend-go/internal/domain/settings"
	"github.com/worklane/worklane-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Set(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.Service
}

func NewSettingsHandler(settingsService settings.Service) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type setSettingRequest struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

func (h *settingsHandlerImpl) Set(w http.ResponseWriter, r *http.Request) {
	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Key == "" {
		response.BadRequest(w, "Setting key is required", nil)
		return
	}

	result, err := h.settingsService.Set(r.Context(), req.Key, req.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
