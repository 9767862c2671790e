package create_reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/membership"
	admitReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type stubMembership struct {
	org *membership.Organization
	err error
}

func (s *stubMembership) GetOrganization(_ context.Context, id int64) (*membership.Organization, error) {
	if s.err != nil {
		return nil, s.err
	}
	org := *s.org
	org.ID = id
	return &org, nil
}

type stubUseCase struct {
	got *admitReservation.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *admitReservation.Request) (*admitReservation.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	slots := make([]domain.ReservationSlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		end, _ := in.StartTime.AddMinutes(domain.SlotDurationMinutes)
		slots = append(slots, domain.ReservationSlot{StartTime: in.StartTime, EndTime: end, Grade: in.Grade, Participants: in.Participants, Location: in.Location})
	}
	return &admitReservation.Response{
		ID:             11,
		OrganizationID: req.OrganizationID,
		RegionID:       req.RegionID,
		Date:           req.Date,
		Status:         string(domain.StatusPending),
		Slots:          slots,
		QuotaRemaining: 3,
		DateCurrent:    1,
		DateMax:        2,
		CreatedAt:      time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

const validBody = `{"regionId":1,"date":"2025-06-10","slots":[{"startTime":"10:00","grade":"3","participants":20,"location":"Hall A"}]}`

func approved(tier string) *stubMembership {
	return &stubMembership{org: &membership.Organization{Name: "School 5", Tier: tier, IsApproved: true}}
}

func serve(uc AdmitReservationUseCase, mc MembershipClient, body string, p middleware.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	rec := httptest.NewRecorder()
	NewHandler(uc, mc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, approved("priority"), validBody, middleware.Principal{UserID: 1, OrganizationID: 7})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.OrganizationID)
	assert.Equal(t, domain.TierPriority, uc.got.Tier)
	assert.Equal(t, types.MustTimeString("10:00"), uc.got.Slots[0].StartTime)
	assert.Nil(t, uc.got.Slots[0].EndTime)

	var body ReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "2025-06-10", body.Date)
	assert.Equal(t, "10:40", body.Slots[0].EndTime)
	assert.Equal(t, 3, body.QuotaRemaining)
}

func TestHandle_Errors(t *testing.T) {
	member := middleware.Principal{UserID: 1, OrganizationID: 7}

	tests := []struct {
		name       string
		principal  middleware.Principal
		membership *stubMembership
		body       string
		ucErr      error
		wantStatus int
	}{
		{name: "no organization", principal: middleware.Principal{UserID: 1}, membership: approved("standard"), body: validBody, wantStatus: http.StatusForbidden},
		{name: "bad json", principal: member, membership: approved("standard"), body: `{"regionId":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", principal: member, membership: approved("standard"), body: `{"tier":"priority"}`, wantStatus: http.StatusBadRequest},
		{name: "organization not found", principal: member, membership: &stubMembership{err: membership.ErrOrganizationNotFound}, body: validBody, wantStatus: http.StatusNotFound},
		{name: "membership down", principal: member, membership: &stubMembership{err: membership.ErrUnavailable}, body: validBody, wantStatus: http.StatusServiceUnavailable},
		{name: "not approved", principal: member, membership: &stubMembership{org: &membership.Organization{Tier: "standard"}}, body: validBody, wantStatus: http.StatusForbidden},
		{name: "unknown tier", principal: member, membership: approved("gold"), body: validBody, wantStatus: http.StatusInternalServerError},
		{name: "bad date", principal: member, membership: approved("standard"), body: `{"regionId":1,"date":"10.06.2025","slots":[]}`, wantStatus: http.StatusBadRequest},
		{name: "tier closed", principal: member, membership: approved("standard"), body: validBody, ucErr: &admitReservation.TierClosedError{Tier: domain.TierStandard}, wantStatus: http.StatusConflict},
		{name: "quota exceeded", principal: member, membership: approved("standard"), body: validBody, ucErr: &admitReservation.QuotaExceededError{Used: 4, Max: 4}, wantStatus: http.StatusConflict},
		{name: "date blocked", principal: member, membership: approved("standard"), body: validBody, ucErr: admitReservation.ErrDateBlocked, wantStatus: http.StatusConflict},
		{name: "date full", principal: member, membership: approved("standard"), body: validBody, ucErr: &admitReservation.DateFullError{Max: 2}, wantStatus: http.StatusConflict},
		{name: "region not found", principal: member, membership: approved("standard"), body: validBody, ucErr: admitReservation.ErrRegionNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid input", principal: member, membership: approved("standard"), body: validBody, ucErr: admitReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", principal: member, membership: approved("standard"), body: validBody, ucErr: admitReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.ucErr}, tt.membership, tt.body, tt.principal)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_ConflictMessagesCarryDetails(t *testing.T) {
	member := middleware.Principal{UserID: 1, OrganizationID: 7}

	tests := []struct {
		name     string
		ucErr    error
		contains []string
	}{
		{
			name:     "tier closed names the tier",
			ucErr:    &admitReservation.TierClosedError{Tier: domain.TierStandard},
			contains: []string{`"standard"`, "администратор"},
		},
		{
			name:     "quota shows used and max",
			ucErr:    fmt.Errorf("wrapped: %w", &admitReservation.QuotaExceededError{Used: 4, Max: 4}),
			contains: []string{"4 из 4 дней"},
		},
		{
			name:     "date full suggests another date",
			ucErr:    &admitReservation.DateFullError{Max: 2},
			contains: []string{"максимум 2", "другую дату"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.ucErr}, approved("standard"), validBody, member)
			require.Equal(t, http.StatusConflict, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			for _, part := range tt.contains {
				assert.True(t, strings.Contains(body.Message, part), "%q should contain %q", body.Message, part)
			}
		})
	}
}

func TestHandle_DateFullMessageDoesNotDependOnCheckStage(t *testing.T) {
	member := middleware.Principal{UserID: 1, OrganizationID: 7}

	advisory := serve(&stubUseCase{err: &admitReservation.DateFullError{Max: 2}}, approved("standard"), validBody, member)
	raceLost := serve(&stubUseCase{err: fmt.Errorf("commit: %w", &admitReservation.DateFullError{Max: 2})}, approved("standard"), validBody, member)

	assert.Equal(t, http.StatusConflict, raceLost.Code)
	assert.Equal(t, advisory.Body.String(), raceLost.Body.String())
}
