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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"hearth/internal/journey"
	"hearth/internal/platform/middleware"
	id "hearth/pkg/domain"
)

type JourneyHandlerSuite struct {
	suite.Suite
	router   chi.Router
	service  *journey.Service
	tenantID id.TenantID
}

func TestJourneyHandlerSuite(t *testing.T) {
	suite.Run(t, new(JourneyHandlerSuite))
}

func (s *JourneyHandlerSuite) SetupTest() {
	s.tenantID = id.TenantID(uuid.New())

	var err error
	s.service, err = journey.NewService(journey.NewInMemoryStore())
	s.Require().NoError(err)

	handler := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *JourneyHandlerSuite) authed(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyTenantID, s.tenantID.String())
	return req.WithContext(ctx)
}

func (s *JourneyHandlerSuite) seedJourney() journey.Definition {
	definition, err := s.service.Save(context.Background(), journey.Definition{
		TenantID: s.tenantID,
		Name:     "zillow leads",
		Trigger:  journey.TriggerLeadCreated,
		Conditions: []journey.Condition{
			{Field: "source", Operator: journey.OpEquals, Value: journey.Scalar("zillow")},
		},
		Actions:  []journey.Action{{Type: journey.ActionAssign, Params: map[string]string{"team": "inbound"}}},
		IsActive: true,
	})
	s.Require().NoError(err)
	return definition
}

func (s *JourneyHandlerSuite) TestSaveAndList() {
	body := []byte(`{
		"name": "tour follow-up",
		"trigger": "tour.kept",
		"conditions": [{"field": "consentStatus", "operator": "equals", "value": "GRANTED"}],
		"actions": [{"type": "create_task", "params": {"title": "call"}}],
		"is_active": true
	}`)

	req := httptest.NewRequest(http.MethodPost, "/journeys/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	require.Equal(s.T(), http.StatusCreated, w.Code)
	var saved journey.Definition
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &saved))
	assert.NotEqual(s.T(), id.JourneyID{}, saved.ID)
	assert.Equal(s.T(), s.tenantID, saved.TenantID, "ownership comes from auth, not the body")

	req = httptest.NewRequest(http.MethodGet, "/journeys/", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var listed []journey.Definition
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(s.T(), listed, 1)
}

func (s *JourneyHandlerSuite) TestSave_InvalidDefinition() {
	body := []byte(`{"name": "broken", "trigger": "lead.created", "actions": [], "is_active": true}`)

	req := httptest.NewRequest(http.MethodPost, "/journeys/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *JourneyHandlerSuite) TestGet() {
	definition := s.seedJourney()

	req := httptest.NewRequest(http.MethodGet, "/journeys/"+definition.ID.String(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var got journey.Definition
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(s.T(), definition.ID, got.ID)
}

func (s *JourneyHandlerSuite) TestGet_Unknown() {
	req := httptest.NewRequest(http.MethodGet, "/journeys/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *JourneyHandlerSuite) TestSimulate() {
	definition := s.seedJourney()

	body, err := json.Marshal(SimulateRequest{
		JourneyID: definition.ID.String(),
		Trigger:   "lead.created",
		Context:   map[string]string{"source": "referral"},
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/journeys/simulate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var result journey.SimulationResult
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(s.T(), result.Matched)
	assert.Len(s.T(), result.FailedConditions, 1)
}

func (s *JourneyHandlerSuite) TestSimulate_InvalidTrigger() {
	definition := s.seedJourney()

	body, err := json.Marshal(SimulateRequest{
		JourneyID: definition.ID.String(),
		Trigger:   "lead.deleted",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/journeys/simulate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *JourneyHandlerSuite) TestEvent() {
	s.seedJourney()

	body, err := json.Marshal(EventRequest{
		Trigger: "lead.created",
		Context: map[string]string{"source": "zillow"},
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/journeys/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.authed(req))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var matches []journey.Match
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(s.T(), matches, 1)
	assert.Equal(s.T(), "zillow leads", matches[0].Name)
	require.Len(s.T(), matches[0].Actions, 1)
	assert.Equal(s.T(), journey.ActionAssign, matches[0].Actions[0].Type)
}

func (s *JourneyHandlerSuite) TestEvent_Unauthenticated() {
	body, err := json.Marshal(EventRequest{Trigger: "lead.created"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/journeys/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}
