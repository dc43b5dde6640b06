package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// errInvalidDoctorID is a query-parameter validation failure, distinct
// from a doctor that merely does not exist.
var errInvalidDoctorID = errors.New("doctor_id must be a valid UUID")

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Create handles patient registration
// @Summary Register a new patient
// @Description Register a patient and allocate a medical record number
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePatientRequest true "Create Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID := actorFromContext(r)
	patient, err := h.patientUsecase.Create(r.Context(), &req, actorID)
	if err != nil {
		switch err {
		case usecase.ErrNIKAlreadyExists, usecase.ErrEmailAlreadyExists:
			response.Conflict(w, err.Error())
		case usecase.ErrInvalidDateFormat, usecase.ErrFutureBirthDate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to register patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

// GetAll handles listing patients
// @Summary Get all patients
// @Description Get all patients with pagination
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	result, err := h.patientUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", result.Patients, pageMeta(page, limit, result.Total))
}

// Search handles patient search with filters
// @Summary Search patients
// @Description Search patients by name, NIK, record number, demographics, and visit relations
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param search query string false "Free text search (min 2 characters)"
// @Param gender query string false "Gender (M or F)"
// @Param min_age query int false "Minimum age in years"
// @Param max_age query int false "Maximum age in years"
// @Param start_date query string false "Registered on or after (YYYY-MM-DD)"
// @Param end_date query string false "Registered on or before (YYYY-MM-DD)"
// @Param doctor_id query string false "Only patients seen by this doctor"
// @Param is_active query bool false "Active flag"
// @Param new_only query bool false "Registered within the last 30 days"
// @Param has_allergy query bool false "Only patients with allergy notes"
// @Param sort_by query string false "Sort column (full_name, birth_date, age, created_at)"
// @Param sort_dir query string false "Sort direction (asc or desc)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients/search [get]
func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePatientFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.patientUsecase.Search(r.Context(), filter)
	if err != nil {
		switch err {
		case entity.ErrInvalidAgeRange, entity.ErrInvalidDateRange, entity.ErrNegativeAge:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to search patients")
		}
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", result.Patients, pageMeta(filter.Page, filter.Limit, result.Total))
}

// Statistics handles the patient statistics endpoint
// @Summary Get patient statistics
// @Description Totals by activity, gender, and registrations this month
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /patients/statistics [get]
func (h *PatientHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.patientUsecase.Statistics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get patient statistics")
		return
	}

	response.Success(w, http.StatusOK, "Patient statistics retrieved successfully", stats)
}

// GetByID handles getting a patient by ID
// @Summary Get patient by ID
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// GetByNIK handles getting a patient by NIK
// @Summary Get patient by NIK
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param nik path string true "Patient NIK"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/by-nik/{nik} [get]
func (h *PatientHandler) GetByNIK(w http.ResponseWriter, r *http.Request) {
	nik := mux.Vars(r)["nik"]

	patient, err := h.patientUsecase.GetByNIK(r.Context(), nik)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// GetByMedicalRecordNumber handles getting a patient by medical record number
// @Summary Get patient by medical record number
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param number path string true "Medical record number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/by-medical-record/{number} [get]
func (h *PatientHandler) GetByMedicalRecordNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	patient, err := h.patientUsecase.GetByMedicalRecordNumber(r.Context(), number)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// GetByDoctor handles listing patients seen by a doctor
// @Summary Get patients by doctor
// @Description Patients with at least one appointment with the doctor
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Router /patients/by-doctor/{id} [get]
func (h *PatientHandler) GetByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	patients, err := h.patientUsecase.GetByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

// Update handles patient update
// @Summary Update a patient
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param request body dto.UpdatePatientRequest true "Update Patient Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients/{id} [patch]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID := actorFromContext(r)
	patient, err := h.patientUsecase.Update(r.Context(), id, &req, actorID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrNIKAlreadyExists, usecase.ErrEmailAlreadyExists:
			response.Conflict(w, err.Error())
		case usecase.ErrInvalidDateFormat, usecase.ErrFutureBirthDate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

// Delete handles patient soft deletion
// @Summary Soft delete a patient
// @Description Mark a patient as deleted while keeping the record recoverable
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [delete]
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	actorID := actorFromContext(r)
	if err := h.patientUsecase.SoftDelete(r.Context(), id, actorID); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

// Restore handles restoring a soft deleted patient
// @Summary Restore a deleted patient
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients/{id}/restore [post]
func (h *PatientHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	actorID := actorFromContext(r)
	patient, err := h.patientUsecase.Restore(r.Context(), id, actorID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound, usecase.ErrPatientNotDeleted:
			response.NotFound(w, err.Error())
		case usecase.ErrNIKAlreadyExists, usecase.ErrEmailAlreadyExists:
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to restore patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient restored successfully", patient)
}

// Purge handles permanent patient deletion
// @Summary Permanently delete a patient
// @Description Remove a patient row entirely, bypassing soft delete
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/permanent [delete]
func (h *PatientHandler) Purge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	actorID := actorFromContext(r)
	if err := h.patientUsecase.HardDelete(r.Context(), id, actorID); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient permanently deleted", nil)
}

// parsePatientFilter builds the domain filter from search query parameters.
func parsePatientFilter(r *http.Request) (*entity.PatientFilter, error) {
	q := r.URL.Query()

	filter := &entity.PatientFilter{
		Search:     q.Get("search"),
		Gender:     q.Get("gender"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		NewOnly:    q.Get("new_only") == "true",
		HasAllergy: q.Get("has_allergy") == "true",
		SortBy:     q.Get("sort_by"),
		SortDir:    q.Get("sort_dir"),
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if v := q.Get("min_age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return nil, entity.ErrNegativeAge
		}
		filter.MinAge = &age
	}
	if v := q.Get("max_age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return nil, entity.ErrNegativeAge
		}
		filter.MaxAge = &age
	}
	if v := q.Get("doctor_id"); v != "" {
		doctorID, err := uuid.Parse(v)
		if err != nil {
			return nil, errInvalidDoctorID
		}
		filter.DoctorID = &doctorID
	}
	if v := q.Get("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	return filter, nil
}

func pageMeta(page, limit int, total int64) *response.Meta {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// actorFromContext returns the acting user for audit attribution, nil for
// anonymous calls.
func actorFromContext(r *http.Request) *uuid.UUID {
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return &userID
	}
	return nil
}
