package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/festivalops/offer-api/internal/http/handler"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/festivalops/offer-api/internal/service"
	"github.com/festivalops/offer-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testHandlers struct {
	db      *gorm.DB
	catalog *handler.CatalogHandler
	offers  *handler.OfferHandler
	reports *handler.ReportHandler
}

func setupHandlers(t *testing.T) *testHandlers {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	engine := pricing.NewEngine(pricing.DefaultRules())

	offerRepo := repository.NewOfferRepository(db)
	catalogService := service.NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategorySettingRepository(db),
		repository.NewCatalogRepository(db),
		logger,
	)
	offerService := service.NewOfferService(offerRepo, repository.NewNumberSequenceRepository(db), catalogService, engine, "FEST", logger)
	reportService := service.NewReportService(offerRepo, catalogService, engine, logger)

	return &testHandlers{
		db:      db,
		catalog: handler.NewCatalogHandler(catalogService, logger),
		offers:  handler.NewOfferHandler(offerService, logger),
		reports: handler.NewReportHandler(reportService, logger),
	}
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
