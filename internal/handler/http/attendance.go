package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Clock implements AttendanceHandler.
// The photo part is the live camera frame. It is only opened once the
// location and geofence checks have passed.
func (h *AttendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	var req attendance.ClockRequest
	if err := decodeFormData(r, &req, false); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	_, fileHeader, err := r.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	req.Capture = multipartCapture{header: fileHeader}

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Clock(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Action == attendance.ActionClockIn {
		response.Created(w, result.Message, result)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Today(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *AttendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	limit := getIntQueryParam(r, "limit", 0)
	result, err := h.attendanceService.History(r.Context(), s, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{Limit: limit, TotalItems: int64(len(result))})
}
