package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/festivalops/offer-api/internal/service"
	"go.uber.org/zap"
)

type OfferHandler struct {
	offerService *service.OfferService
	logger       *zap.Logger
}

func NewOfferHandler(offerService *service.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		logger:       logger,
	}
}

var offerSortParams = map[string]repository.OfferSortField{
	"createdAt":    repository.OfferSortCreatedAt,
	"updatedAt":    repository.OfferSortUpdatedAt,
	"clientName":   repository.OfferSortClientName,
	"projectName":  repository.OfferSortProjectName,
	"offerNumber":  repository.OfferSortOfferNumber,
	"totalInclBtw": repository.OfferSortTotalInclBtw,
}

// List handles GET /offers?page=&pageSize=&search=&sortBy=&sortOrder=
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	filters := repository.OfferFilters{
		Search:    strings.TrimSpace(q.Get("search")),
		SortOrder: q.Get("sortOrder"),
	}
	if sortBy := q.Get("sortBy"); sortBy != "" {
		field, ok := offerSortParams[sortBy]
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid sortBy parameter")
			return
		}
		filters.SortBy = field
	}
	if filters.SortOrder != "" && filters.SortOrder != "asc" && filters.SortOrder != "desc" {
		respondWithError(w, http.StatusBadRequest, "Invalid sortOrder parameter: must be asc or desc")
		return
	}

	result, err := h.offerService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		requestLogger(h.logger, r).Error("failed to list offers", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create handles POST /offers
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := h.offerService.Create(r.Context(), req)
	if err != nil {
		requestLogger(h.logger, r).Error("failed to create offer", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/offers/"+offer.ID.String())
	respondJSON(w, http.StatusCreated, offer)
}

// GetByID handles GET /offers/{id}
func (h *OfferHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	offer, err := h.offerService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// Delete handles DELETE /offers/{id}
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.offerService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCockpit handles PATCH /offers/{id}/cockpit
func (h *OfferHandler) UpdateCockpit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateCockpitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offerService.UpdateCockpit(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// Recalculate handles POST /offers/{id}/recalculate
func (h *OfferHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	offer, err := h.offerService.Recalculate(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// UpdateLine handles PATCH /offers/{id}/lines/{productId}
func (h *OfferHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(w, r, "productId")
	if !ok {
		return
	}
	var req domain.UpdateOfferLineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offerService.UpdateLine(r.Context(), id, productID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// SetForecast handles PUT /offers/{id}/forecasts/{productId}
func (h *OfferHandler) SetForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(w, r, "productId")
	if !ok {
		return
	}
	var req domain.SetForecastRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offerService.SetForecast(r.Context(), id, productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// UpdateDiscount handles PUT /offers/{id}/discount
func (h *OfferHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateDiscountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offerService.UpdateDiscount(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// UpdateRealization handles PUT /offers/{id}/realization
func (h *OfferHandler) UpdateRealization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateRealizationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offerService.UpdateRealization(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}
