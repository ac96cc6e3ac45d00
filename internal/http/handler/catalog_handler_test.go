package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler_Products(t *testing.T) {
	h := setupHandlers(t)

	rr := httptest.NewRecorder()
	h.catalog.CreateProduct(rr, jsonRequest(t, http.MethodPost, "/products", map[string]interface{}{
		"name":                "Bar unit",
		"category":            "bar",
		"defaultPrice":        250,
		"keyFigure":           "bar_meters",
		"keyFigureMultiplier": 0.25,
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	product := decode[domain.ProductDTO](t, rr)
	assert.True(t, product.IsActive)
	params := map[string]string{"id": product.ID.String()}

	t.Run("invalid key figure", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.catalog.CreateProduct(rr, jsonRequest(t, http.MethodPost, "/products", map[string]interface{}{
			"name": "X", "category": "bar", "keyFigure": "stage_size",
		}))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decode[domain.APIError](t, rr).Errors, "keyFigure")
	})

	t.Run("list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.catalog.ListProducts(rr, httptest.NewRequest(http.MethodGet, "/products?category=bar&active=true", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]domain.ProductDTO](t, rr), 1)
	})

	t.Run("update", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withURLParams(jsonRequest(t, http.MethodPut, "/products/x", map[string]interface{}{
			"name": "Bar unit XL", "category": "bar", "isActive": false,
		}), params)
		h.catalog.UpdateProduct(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.False(t, decode[domain.ProductDTO](t, rr).IsActive)
	})

	t.Run("get and delete", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.catalog.GetProduct(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/products/x", nil), params))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Bar unit XL", decode[domain.ProductDTO](t, rr).Name)

		rr = httptest.NewRecorder()
		h.catalog.DeleteProduct(rr, withURLParams(httptest.NewRequest(http.MethodDelete, "/products/x", nil), params))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = httptest.NewRecorder()
		h.catalog.GetProduct(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/products/x", nil), map[string]string{"id": uuid.NewString()}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCatalogHandler_Categories(t *testing.T) {
	h := setupHandlers(t)

	rr := httptest.NewRecorder()
	req := withURLParams(jsonRequest(t, http.MethodPut, "/categories/cleaning", map[string]interface{}{
		"calculationType": "post_event",
	}), map[string]string{"category": "cleaning"})
	h.catalog.UpsertCategory(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	req = withURLParams(jsonRequest(t, http.MethodPut, "/categories/bar", map[string]interface{}{
		"calculationType": "weekly",
	}), map[string]string{"category": "bar"})
	h.catalog.UpsertCategory(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.catalog.ListCategories(rr, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	settings := decode[[]domain.CategorySettingDTO](t, rr)
	require.Len(t, settings, 1)
	assert.Equal(t, domain.CalculationTypePostEvent, settings[0].CalculationType)
}
