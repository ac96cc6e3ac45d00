package handler

import (
	"net/http"
	"strconv"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListProducts handles GET /products?category=&active=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	products, err := h.catalogService.ListProducts(r.Context(), r.URL.Query().Get("category"), activeOnly)
	if err != nil {
		requestLogger(h.logger, r).Error("failed to list products", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	product, err := h.catalogService.CreateProduct(r.Context(), req)
	if err != nil {
		requestLogger(h.logger, r).Error("failed to create product", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/products/"+product.ID.String())
	respondJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	product, err := h.catalogService.UpdateProduct(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	settings, err := h.catalogService.ListCategorySettings(r.Context())
	if err != nil {
		requestLogger(h.logger, r).Error("failed to list category settings", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpsertCategory handles PUT /categories/{category}
func (h *CatalogHandler) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertCategorySettingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	setting, err := h.catalogService.UpsertCategorySetting(r.Context(), chi.URLParam(r, "category"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, setting)
}
