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

	"hearth/internal/platform/middleware"
	"hearth/internal/publishing"
	id "hearth/pkg/domain"
)

// The publishing handler is tested against the real service with in-memory
// stores: the routes are thin and the interesting behavior is the wiring.
type PublishingHandlerSuite struct {
	suite.Suite
	router    chi.Router
	marketing *publishing.InMemoryMarketingStore
	tenantID  id.TenantID
	listingID id.ListingID
}

func TestPublishingHandlerSuite(t *testing.T) {
	suite.Run(t, new(PublishingHandlerSuite))
}

func (s *PublishingHandlerSuite) SetupTest() {
	profiles := publishing.NewInMemoryProfileStore()
	s.marketing = publishing.NewInMemoryMarketingStore()
	s.tenantID = id.TenantID(uuid.New())
	s.listingID = id.ListingID(uuid.New())

	s.Require().NoError(profiles.Save(context.Background(), publishing.MLSProfile{
		TenantID:                 s.tenantID,
		Name:                     "Metro Regional MLS",
		DisclaimerText:           "Listing courtesy of Metro Regional MLS.",
		CompensationDisplayRule:  publishing.CompensationProhibited,
		ClearCooperationRequired: true,
		SLAHours:                 72,
	}))

	service, err := publishing.NewService(profiles, s.marketing)
	s.Require().NoError(err)

	handler := New(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *PublishingHandlerSuite) authed(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyTenantID, s.tenantID.String())
	return req.WithContext(ctx)
}

func (s *PublishingHandlerSuite) TestPreflight() {
	body, err := json.Marshal(PreflightRequest{
		Profile:           "Metro Regional MLS",
		ContentType:       "flyer",
		ShowsCompensation: true,
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/preflight", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var result publishing.PreflightResult
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(s.T(), result.Pass)
	assert.Len(s.T(), result.Violations, 2)
}

func (s *PublishingHandlerSuite) TestPreflight_UnknownProfile() {
	body, err := json.Marshal(PreflightRequest{
		Profile:     "Nonexistent Board",
		ContentType: "flyer",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/preflight", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *PublishingHandlerSuite) TestPreflight_MissingProfileName() {
	body, err := json.Marshal(PreflightRequest{ContentType: "flyer"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/preflight", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *PublishingHandlerSuite) TestPreflight_Unauthenticated() {
	body, err := json.Marshal(PreflightRequest{Profile: "Metro Regional MLS", ContentType: "flyer"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/preflight", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *PublishingHandlerSuite) TestTimerLifecycle() {
	startedAt := time.Now().Add(-60 * time.Hour)
	body, err := json.Marshal(StartMarketingRequest{
		ListingID: s.listingID.String(),
		StartedAt: &startedAt,
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/marketing", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))
	require.Equal(s.T(), http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/publishing/timers/"+s.listingID.String()+"?profile=Metro+Regional+MLS", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var status publishing.TimerStatus
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(s.T(), publishing.TimerYellow, status.Status)
	assert.Equal(s.T(), 60, status.HoursElapsed)
}

func (s *PublishingHandlerSuite) TestTimerStatus_UnknownListing() {
	req := httptest.NewRequest(http.MethodGet, "/publishing/timers/"+uuid.NewString()+"?profile=Metro+Regional+MLS", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *PublishingHandlerSuite) TestTimerStatus_MissingProfileParam() {
	req := httptest.NewRequest(http.MethodGet, "/publishing/timers/"+s.listingID.String(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *PublishingHandlerSuite) TestProfileRoundTrip() {
	body, err := json.Marshal(SaveProfileRequest{
		Name:                    "Coastal MLS",
		DisclaimerText:          "Provided by Coastal MLS.",
		CompensationDisplayRule: "allowed",
		SLAHours:                48,
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/profiles", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))
	require.Equal(s.T(), http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/publishing/profiles", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var profiles []publishing.MLSProfile
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &profiles))
	assert.Len(s.T(), profiles, 2)
}

func (s *PublishingHandlerSuite) TestSaveProfile_InvalidSLA() {
	body, err := json.Marshal(SaveProfileRequest{
		Name:                    "Broken MLS",
		DisclaimerText:          "text",
		CompensationDisplayRule: "allowed",
		SLAHours:                0,
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/publishing/profiles", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
