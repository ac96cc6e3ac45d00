package handler

import (
	"net/http"

	"github.com/festivalops/offer-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// OfferProfit handles GET /offers/{id}/profit
func (h *ReportHandler) OfferProfit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	profit, err := h.reportService.OfferProfit(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profit)
}

// ProfitSummary handles GET /reports/profit
func (h *ReportHandler) ProfitSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.ProfitSummary(r.Context())
	if err != nil {
		requestLogger(h.logger, r).Error("failed to build profit summary", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
