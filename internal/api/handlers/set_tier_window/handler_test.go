package set_tier_window

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
	svc := settings.NewService(store, memory.NewTxManager(store), logger.NewNop())

	router := mux.NewRouter()
	router.HandleFunc("/admin/regions/{regionId}/tier-windows/{year}/{month}/{tier}", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodPut)
	return router
}

func put(router *mux.Router, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(body)))
	return rec
}

func TestHandle_OpenAndClose(t *testing.T) {
	router := newRouter()

	rec := put(router, "/admin/regions/1/tier-windows/2025/9/priority", `{"isOpen":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var opened TierWindowResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opened))
	assert.True(t, opened.IsOpen)
	assert.Equal(t, 9, opened.Month)
	require.NotNil(t, opened.OpenedAt)

	rec = put(router, "/admin/regions/1/tier-windows/2025/9/priority", `{"isOpen":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var closed TierWindowResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&closed))
	assert.False(t, closed.IsOpen)
	assert.Equal(t, opened.OpenedAt, closed.OpenedAt)
}

func TestHandle_Errors(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "missing flag", path: "/admin/regions/1/tier-windows/2025/9/priority", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "bad month", path: "/admin/regions/1/tier-windows/2025/13/priority", body: `{"isOpen":true}`, wantStatus: http.StatusBadRequest},
		{name: "unknown tier", path: "/admin/regions/1/tier-windows/2025/9/gold", body: `{"isOpen":true}`, wantStatus: http.StatusBadRequest},
		{name: "unknown region", path: "/admin/regions/5/tier-windows/2025/9/standard", body: `{"isOpen":true}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, put(router, tt.path, tt.body).Code)
		})
	}
}
