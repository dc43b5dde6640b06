package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TreatmentHandler struct {
	treatmentUsecase usecase.TreatmentUsecase
	validator        *validator.CustomValidator
}

func NewTreatmentHandler(treatmentUsecase usecase.TreatmentUsecase, validator *validator.CustomValidator) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentUsecase: treatmentUsecase,
		validator:        validator,
	}
}

// Create handles treatment creation
// @Summary Create a new treatment
// @Description Create a billable treatment with its price (admin only)
// @Tags Treatments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTreatmentRequest true "Create Treatment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /treatments [post]
func (h *TreatmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.Create(r.Context(), &req, actorFromContext(r))
	if err != nil {
		response.InternalServerError(w, "Failed to create treatment")
		return
	}

	response.Success(w, http.StatusCreated, "Treatment created successfully", treatment)
}

// GetAll handles listing treatments
// @Summary Get all treatments
// @Description Get all treatments with pagination
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /treatments [get]
func (h *TreatmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	treatments, total, err := h.treatmentUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get treatments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Treatments retrieved successfully", treatments, pageMeta(page, limit, total))
}

// GetByID handles getting a treatment by ID
// @Summary Get treatment by ID
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Treatment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treatments/{id} [get]
func (h *TreatmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	treatment, err := h.treatmentUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		default:
			response.InternalServerError(w, "Failed to get treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}

// Update handles treatment update
// @Summary Update a treatment
// @Tags Treatments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Treatment ID"
// @Param request body dto.UpdateTreatmentRequest true "Update Treatment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treatments/{id} [put]
func (h *TreatmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	var req dto.UpdateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.Update(r.Context(), id, &req, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		default:
			response.InternalServerError(w, "Failed to update treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment updated successfully", treatment)
}

// Delete handles treatment deletion
// @Summary Delete a treatment
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Treatment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /treatments/{id} [delete]
func (h *TreatmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	if err := h.treatmentUsecase.Delete(r.Context(), id, actorFromContext(r)); err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		case usecase.ErrTreatmentInUse:
			response.Conflict(w, "Treatment is referenced by appointments")
		default:
			response.InternalServerError(w, "Failed to delete treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment deleted successfully", nil)
}
