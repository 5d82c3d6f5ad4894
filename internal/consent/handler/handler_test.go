package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hearth/internal/consent"
	"hearth/internal/consent/handler/mocks"
	"hearth/internal/platform/middleware"
	id "hearth/pkg/domain"
)

//go:generate mockgen -source=handler.go -destination=mocks/consent-mocks.go -package=mocks Service
type ConsentHandlerSuite struct {
	suite.Suite
	tenantID  id.TenantID
	contactID id.ContactID
}

func (s *ConsentHandlerSuite) SetupSuite() {
	s.tenantID = id.TenantID(uuid.New())
	s.contactID = id.ContactID(uuid.New())
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r, mockService
}

// authed stamps the tenant into the request context the way RequireAuth would.
func (s *ConsentHandlerSuite) authed(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyTenantID, s.tenantID.String())
	return req.WithContext(ctx)
}

func (s *ConsentHandlerSuite) TestHandleCheck() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().Check(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req consent.CheckRequest) (consent.CheckResult, error) {
			assert.Equal(s.T(), s.tenantID, req.TenantID)
			assert.Equal(s.T(), s.contactID, req.ContactID)
			assert.Equal(s.T(), id.ChannelSMS, req.Channel)
			return consent.CheckResult{
				Allowed: false,
				Reason:  "Channel globally muted by STOP/unsubscribe",
			}, nil
		})

	body, err := json.Marshal(CheckConsentRequest{Channel: "SMS", Scope: "PROMOTIONAL"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["allowed"])
	assert.Equal(s.T(), "Channel globally muted by STOP/unsubscribe", resp["reason"])
}

func (s *ConsentHandlerSuite) TestHandleCheck_MissingTenant() {
	router, _ := newTestHandler(s.T())

	body, err := json.Marshal(CheckConsentRequest{Channel: "SMS", Scope: "PROMOTIONAL"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleCheck_InvalidChannel() {
	router, _ := newTestHandler(s.T())

	body, err := json.Marshal(CheckConsentRequest{Channel: "FAX", Scope: "PROMOTIONAL"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleCheck_BadContactID() {
	router, _ := newTestHandler(s.T())

	body, err := json.Marshal(CheckConsentRequest{Channel: "SMS", Scope: "PROMOTIONAL"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/not-a-uuid/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleCapture() {
	router, mockService := newTestHandler(s.T())
	capturedAt := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	mockService.EXPECT().Capture(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input consent.CaptureInput) (consent.Record, error) {
			assert.Equal(s.T(), s.tenantID, input.TenantID)
			assert.Equal(s.T(), consent.StatusGranted, input.Record.Status)
			assert.Equal(s.T(), "I agree to receive marketing texts", input.Record.VerbatimText)
			return input.Record, nil
		})

	body, err := json.Marshal(CaptureConsentRequest{
		Channel:      "SMS",
		Scope:        "PROMOTIONAL",
		Status:       "GRANTED",
		VerbatimText: "I agree to receive marketing texts",
		CapturedAt:   &capturedAt,
		Source:       "web_form",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "GRANTED", resp["status"])
	assert.Equal(s.T(), "web_form", resp["source"])
}

func (s *ConsentHandlerSuite) TestHandleCapture_InvalidStatus() {
	router, _ := newTestHandler(s.T())

	body, err := json.Marshal(CaptureConsentRequest{
		Channel:      "SMS",
		Scope:        "PROMOTIONAL",
		Status:       "MAYBE",
		VerbatimText: "I agree",
		Source:       "web_form",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleRevoke() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().Revoke(
		gomock.Any(), s.tenantID, s.contactID, id.ChannelEmail, id.ScopePromotional, "preference_center",
	).Return(consent.Record{
		ContactID: s.contactID,
		Channel:   id.ChannelEmail,
		Scope:     id.ScopePromotional,
		Status:    consent.StatusRevoked,
	}, nil)

	body, err := json.Marshal(RevokeConsentRequest{
		Channel: "EMAIL",
		Scope:   "PROMOTIONAL",
		Source:  "preference_center",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/revoke", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "REVOKED", resp["status"])
}

func (s *ConsentHandlerSuite) TestHandleRevoke_DefaultSource() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().Revoke(
		gomock.Any(), s.tenantID, s.contactID, id.ChannelSMS, id.ScopePromotional, "api",
	).Return(consent.Record{Status: consent.StatusRevoked}, nil)

	body, err := json.Marshal(RevokeConsentRequest{Channel: "SMS", Scope: "PROMOTIONAL"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/revoke", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleGlobalStop() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().RecordGlobalStop(
		gomock.Any(), s.tenantID, s.contactID, id.ChannelSMS,
	).Return(nil)

	body, err := json.Marshal(GlobalStopRequest{Channel: "SMS"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/consent/"+s.contactID.String()+"/stop", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleList() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().List(gomock.Any(), s.contactID).Return([]consent.Record{
		{
			ContactID:    s.contactID,
			Channel:      id.ChannelSMS,
			Scope:        id.ScopePromotional,
			Status:       consent.StatusGranted,
			VerbatimText: "I agree to receive marketing texts",
			Source:       "web_form",
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/consent/"+s.contactID.String()+"/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp, 1)
	assert.Equal(s.T(), "GRANTED", resp[0]["status"])
}

func TestDeviceSummary(t *testing.T) {
	assert.Empty(t, deviceSummary(""))

	summary := deviceSummary("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Contains(t, summary, "Safari")
	assert.Contains(t, summary, "(mobile)")
}
