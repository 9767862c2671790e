package admin_reservation_action

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var date = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T, status domain.ReservationStatus) (*mux.Router, *memory.Store, string) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r, err := store.InsertWithSlots(ctx, &domain.Reservation{
		OrganizationID: 7,
		RegionID:       1,
		Date:           date,
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

	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")
	h := NewHandler(lifecycle.NewService(store, memory.NewTxManager(store), m, logger.NewNop()), logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/admin/reservations/{reservationId}/{action}", h.Handle).Methods(http.MethodPatch)
	return router, store, strconv.FormatInt(r.ID, 10)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name        string
		from        domain.ReservationStatus
		action      string
		body        string
		wantStatus  int
		wantTo      string
		wantDeleted bool
	}{
		{name: "approve", from: domain.StatusPending, action: ActionApprove, wantStatus: http.StatusOK, wantTo: "approved"},
		{name: "reject", from: domain.StatusPending, action: ActionReject, wantStatus: http.StatusOK, wantTo: "rejected", wantDeleted: true},
		{name: "cancel", from: domain.StatusApproved, action: ActionCancel, wantStatus: http.StatusOK, wantTo: "admin_cancelled", wantDeleted: true},
		{name: "resolve approve", from: domain.StatusCancelRequested, action: ActionResolveCancellation, body: `{"approve":true}`, wantStatus: http.StatusOK, wantTo: "admin_cancelled", wantDeleted: true},
		{name: "resolve deny", from: domain.StatusCancelRequested, action: ActionResolveCancellation, body: `{"approve":false}`, wantStatus: http.StatusOK, wantTo: "approved"},
		{name: "resolve without flag", from: domain.StatusCancelRequested, action: ActionResolveCancellation, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "cancel pending", from: domain.StatusPending, action: ActionCancel, wantStatus: http.StatusConflict},
		{name: "unknown action", from: domain.StatusPending, action: "archive", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, store, id := setup(t, tt.from)

			req := httptest.NewRequest(http.MethodPatch, "/admin/reservations/"+id+"/"+tt.action, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body TransitionResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantTo, body.Reservation.Status)
			assert.Equal(t, string(tt.from), body.From)
			assert.Equal(t, tt.wantDeleted, body.Deleted)

			count, err := store.CountActive(context.Background(), 1, date)
			require.NoError(t, err)
			if tt.wantDeleted {
				assert.Zero(t, count)
			} else {
				assert.Equal(t, 1, count)
			}
		})
	}
}

func TestHandle_NotFound(t *testing.T) {
	router, _, _ := setup(t, domain.StatusPending)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/reservations/999/approve", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
