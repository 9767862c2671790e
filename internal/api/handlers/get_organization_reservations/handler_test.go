package get_organization_reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func setup(t *testing.T) *mux.Router {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for i, status := range []domain.ReservationStatus{domain.StatusPending, domain.StatusApproved, domain.StatusCancelled} {
		r, err := store.InsertWithSlots(ctx, &domain.Reservation{
			OrganizationID: 7,
			RegionID:       1,
			Date:           time.Date(2025, time.June, 10+i, 0, 0, 0, 0, time.UTC),
			Status:         domain.StatusPending,
			Slots: []domain.ReservationSlot{{
				StartTime:    types.MustTimeString("09:00"),
				EndTime:      types.MustTimeString("09:40"),
				Grade:        "4",
				Participants: 12,
				Location:     "Room 2",
			}},
		}, 10)
		require.NoError(t, err)
		if status != domain.StatusPending {
			require.NoError(t, store.UpdateStatus(ctx, r.ID, status, nil))
		}
	}

	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")
	svc := lifecycle.NewService(store, memory.NewTxManager(store), m, logger.NewNop())

	router := mux.NewRouter()
	router.HandleFunc("/organizations/{organizationId}/reservations", NewHandler(svc, logger.NewNop()).Handle)
	return router
}

func get(router *mux.Router, path string, p middleware.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	router := setup(t)
	member := middleware.Principal{UserID: 1, OrganizationID: 7}

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "all", query: "", wantCount: 3},
		{name: "active only", query: "?activeOnly=true", wantCount: 2},
		{name: "by status", query: "?status=approved", wantCount: 1},
		{name: "date range", query: "?startDate=2025-06-11&endDate=2025-06-12", wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, "/organizations/7/reservations"+tt.query, member)
			require.Equal(t, http.StatusOK, rec.Code)

			var body []handlers.ReservationResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Len(t, body, tt.wantCount)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	router := setup(t)
	member := middleware.Principal{UserID: 1, OrganizationID: 7}

	assert.Equal(t, http.StatusForbidden, get(router, "/organizations/8/reservations", member).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/organizations/7/reservations?status=done", member).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/organizations/7/reservations?startDate=2025-06-12&endDate=2025-06-11", member).Code)
	assert.Equal(t, http.StatusOK, get(router, "/organizations/8/reservations", middleware.Principal{UserID: 2, IsAdmin: true}).Code)
}
