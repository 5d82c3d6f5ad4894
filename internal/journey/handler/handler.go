package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hearth/internal/journey"
	"hearth/internal/platform/middleware"
	"hearth/internal/transport/http/shared"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Service defines the interface for journey operations.
type Service interface {
	Save(ctx context.Context, definition journey.Definition) (journey.Definition, error)
	Get(ctx context.Context, journeyID id.JourneyID) (journey.Definition, error)
	List(ctx context.Context, tenantID id.TenantID) ([]journey.Definition, error)
	SimulateStored(ctx context.Context, journeyID id.JourneyID, input journey.SimulationInput) (journey.SimulationResult, error)
	EvaluateEvent(ctx context.Context, tenantID id.TenantID, input journey.SimulationInput) ([]journey.Match, error)
}

// Handler handles journey automation endpoints.
type Handler struct {
	logger   *slog.Logger
	journeys Service
}

// New creates a new journey Handler.
func New(journeys Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		journeys: journeys,
	}
}

// Register registers the journey routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/journeys", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSave)
		r.Get("/{journeyID}", h.handleGet)
		r.Post("/simulate", h.handleSimulate)
		r.Post("/events", h.handleEvent)
	})
}

func (h *Handler) callerTenant(ctx context.Context) (id.TenantID, error) {
	raw := middleware.GetTenantID(ctx)
	if raw == "" {
		return id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "tenant missing from authentication context")
	}
	return id.ParseTenantID(raw)
}

// SimulateRequest runs one stored journey against a hypothetical event.
type SimulateRequest struct {
	JourneyID string            `json:"journey_id"`
	Trigger   string            `json:"trigger"`
	Context   map[string]string `json:"context,omitempty"`
}

// EventRequest submits one domain event for evaluation against every journey
// of the calling tenant.
type EventRequest struct {
	Trigger string            `json:"trigger"`
	Context map[string]string `json:"context,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	definitions, err := h.journeys.List(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "journey list failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "journey list failed"))
		return
	}
	if definitions == nil {
		definitions = []journey.Definition{}
	}

	shared.WriteJSON(w, http.StatusOK, definitions)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var definition journey.Definition
	if err := json.NewDecoder(r.Body).Decode(&definition); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	// The authenticated tenant owns the journey regardless of the body.
	definition.TenantID = tenantID

	saved, err := h.journeys.Save(ctx, definition)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "journey save failed",
			"request_id", middleware.GetRequestID(ctx),
			"journey", definition.Name,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "journey save failed"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.callerTenant(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}
	journeyID, err := id.ParseJourneyID(chi.URLParam(r, "journeyID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	definition, err := h.journeys.Get(ctx, journeyID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "journey get failed",
			"request_id", middleware.GetRequestID(ctx),
			"journey_id", journeyID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "journey get failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, definition)
}

func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.callerTenant(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}

	var body SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	journeyID, err := id.ParseJourneyID(body.JourneyID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	trigger := journey.Trigger(body.Trigger)
	if !trigger.IsValid() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid trigger: "+body.Trigger))
		return
	}

	result, err := h.journeys.SimulateStored(ctx, journeyID, journey.SimulationInput{
		Trigger: trigger,
		Context: body.Context,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "journey simulate failed",
			"request_id", middleware.GetRequestID(ctx),
			"journey_id", journeyID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "journey simulate failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	trigger := journey.Trigger(body.Trigger)
	if !trigger.IsValid() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid trigger: "+body.Trigger))
		return
	}

	matches, err := h.journeys.EvaluateEvent(ctx, tenantID, journey.SimulationInput{
		Trigger: trigger,
		Context: body.Context,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "journey event evaluation failed",
			"request_id", middleware.GetRequestID(ctx),
			"trigger", body.Trigger,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "journey event evaluation failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, matches)
}
