package handler

import (
	"net/http"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
	validator     *validator.CustomValidator
}

func NewReportHandler(reportUsecase usecase.ReportUsecase, validator *validator.CustomValidator) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

// Revenue handles the revenue report endpoint
// @Summary Get revenue report
// @Description Revenue from completed appointments grouped per day and treatment (admin only)
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/revenue [get]
func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	req := dto.RevenueReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	report, err := h.reportUsecase.RevenueReport(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidReportRange:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to build revenue report")
		}
		return
	}

	response.Success(w, http.StatusOK, "Revenue report retrieved successfully", report)
}
