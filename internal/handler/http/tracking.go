package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TrackingHandler interface {
	SubmitLocation(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type trackingHandlerImpl struct {
	trackingService tracking.TrackingService
}

func NewTrackingHandler(trackingService tracking.TrackingService) TrackingHandler {
	return &trackingHandlerImpl{trackingService: trackingService}
}

// SubmitLocation implements TrackingHandler.
func (h *trackingHandlerImpl) SubmitLocation(w http.ResponseWriter, r *http.Request) {
	var req tracking.SubmitLocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitLocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.trackingService.SubmitLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}

// Status implements TrackingHandler.
func (h *trackingHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.trackingService.GetStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements TrackingHandler.
func (h *trackingHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	req := tracking.HistoryRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Date:       r.URL.Query().Get("date"),
	}

	result, err := h.trackingService.GetHistory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
