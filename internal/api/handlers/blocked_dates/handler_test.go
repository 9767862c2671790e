package blocked_dates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

func newRouter() *mux.Router {
	store := memory.NewStore(memory.WithRegions(domain.Region{ID: 1, Code: "north", Name: "North"}))
	h := NewHandler(settings.NewService(store, memory.NewTxManager(store), logger.NewNop()), logger.NewNop())

	router := mux.NewRouter()
	router.HandleFunc("/admin/regions/{regionId}/blocked-dates", h.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/admin/regions/{regionId}/blocked-dates/{date}", h.HandleBlock).Methods(http.MethodPut)
	router.HandleFunc("/admin/regions/{regionId}/blocked-dates/{date}", h.HandleUnblock).Methods(http.MethodDelete)
	return router
}

func do(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestBlockedDateLifecycle(t *testing.T) {
	router := newRouter()

	rec := do(router, http.MethodPut, "/admin/regions/1/blocked-dates/2025-12-31", `{"reason":"  holiday "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var blocked BlockedDateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&blocked))
	assert.Equal(t, "holiday", blocked.Reason)

	// тело необязательно
	require.Equal(t, http.StatusOK, do(router, http.MethodPut, "/admin/regions/1/blocked-dates/2026-01-01", "").Code)

	rec = do(router, http.MethodGet, "/admin/regions/1/blocked-dates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []BlockedDateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/admin/regions/1/blocked-dates/2025-12-31", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/admin/regions/1/blocked-dates/2025-12-31", "").Code)
}

func TestHandle_Errors(t *testing.T) {
	router := newRouter()

	long := `{"reason":"` + strings.Repeat("a", 501) + `"}`
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/admin/regions/1/blocked-dates/2025-12-31", long).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/admin/regions/1/blocked-dates/31-12-2025", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/admin/regions/2/blocked-dates", "").Code)
}
