package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/christalomclavite-hash/talom/internal/model"
)

// AppointmentServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type AppointmentServiceInterface interface {
	Create(ctx context.Context, requesterName, counterpartName, scheduledAt, notes string) (*model.Appointment, error)
	Accept(ctx context.Context, id string) (*model.Appointment, error)
	Get(ctx context.Context, id string) (*model.Appointment, error)
}

// AppointmentHandler は面談予約のHTTPハンドラー。
type AppointmentHandler struct {
	service AppointmentServiceInterface
}

// NewAppointmentHandler はAppointmentHandlerを生成する。
func NewAppointmentHandler(service AppointmentServiceInterface) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// createAppointmentRequest は予約作成リクエストのボディ。
type createAppointmentRequest struct {
	RequesterName   string `json:"requester_name"`
	CounterpartName string `json:"counterpart_name"`
	ScheduledAt     string `json:"scheduled_at"`
	Notes           string `json:"notes"`
}

// createAppointmentResponse は予約作成成功のレスポンス。
type createAppointmentResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// acceptAppointmentResponse は予約承認成功のレスポンス。
type acceptAppointmentResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// appointmentResponse は予約情報のAPIレスポンス。
type appointmentResponse struct {
	ID              string `json:"id"`
	RequesterName   string `json:"requester_name"`
	CounterpartName string `json:"counterpart_name"`
	ScheduledAt     string `json:"scheduled_at"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

// Create は面談予約の作成を処理する。
// POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	appointment, err := h.service.Create(r.Context(), req.RequesterName, req.CounterpartName, req.ScheduledAt, req.Notes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, createAppointmentResponse{
		OK: true,
		ID: appointment.ID,
	})
}

// Accept は予約の承認を処理する。承認済みの予約への再承認も成功を返す。
// POST /api/appointments/{id}/accept
func (h *AppointmentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appointment, err := h.service.Accept(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, acceptAppointmentResponse{
		OK: true,
		ID: appointment.ID,
	})
}

// Get は予約詳細を取得する。
// GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appointment, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toAppointmentResponse(appointment))
}

// toAppointmentResponse はmodel.AppointmentからAPIレスポンスに変換する。
func toAppointmentResponse(appointment *model.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              appointment.ID,
		RequesterName:   appointment.RequesterName,
		CounterpartName: appointment.CounterpartName,
		ScheduledAt:     appointment.ScheduledAt,
		Notes:           appointment.Notes,
		Status:          string(appointment.Status),
	}
}
