package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Create handles appointment scheduling
// @Summary Schedule an appointment
// @Description Schedule a patient visit with a doctor, rejecting double bookings
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound, usecase.ErrDoctorNotFound, usecase.ErrTreatmentNotFound:
			response.NotFound(w, err.Error())
		case usecase.ErrDoctorSlotTaken:
			response.Conflict(w, err.Error())
		case usecase.ErrInvalidScheduleTime, usecase.ErrPastScheduledTime, usecase.ErrInactivePatient, usecase.ErrInactiveTreatment:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to schedule appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment scheduled successfully", appointment)
}

// GetAll handles listing appointments
// @Summary Get appointments
// @Description Get appointments filtered by patient, doctor, status, and date range
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param doctor_id query string false "Doctor ID"
// @Param status query string false "Status (scheduled, completed, cancelled)"
// @Param start_date query string false "Scheduled on or after (YYYY-MM-DD)"
// @Param end_date query string false "Scheduled on or before (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &entity.AppointmentFilter{
		Status:  entity.AppointmentStatus(q.Get("status")),
		StartAt: q.Get("start_date"),
		EndAt:   q.Get("end_date"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if v := q.Get("patient_id"); v != "" {
		patientID, err := uuid.Parse(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}
		filter.PatientID = &patientID
	}
	if v := q.Get("doctor_id"); v != "" {
		doctorID, err := uuid.Parse(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}
		filter.DoctorID = &doctorID
	}

	appointments, total, err := h.appointmentUsecase.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", appointments, pageMeta(filter.Page, filter.Limit, total))
}

// GetByID handles getting an appointment by ID
// @Summary Get appointment by ID
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// Update handles rescheduling and status changes
// @Summary Update an appointment
// @Description Reschedule, change treatment, complete, or cancel a scheduled appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentRequest true "Update Appointment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), id, &req, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound, usecase.ErrTreatmentNotFound:
			response.NotFound(w, err.Error())
		case usecase.ErrDoctorSlotTaken, usecase.ErrAppointmentFinalized:
			response.Conflict(w, err.Error())
		case usecase.ErrInvalidScheduleTime, usecase.ErrPastScheduledTime, usecase.ErrInvalidStatusChange:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}
