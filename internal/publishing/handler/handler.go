package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hearth/internal/platform/middleware"
	"hearth/internal/publishing"
	"hearth/internal/transport/http/shared"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Service defines the interface for publishing compliance operations.
type Service interface {
	Preflight(ctx context.Context, req publishing.PreflightRequest) (publishing.PreflightResult, error)
	TimerStatus(ctx context.Context, tenantID id.TenantID, listingID id.ListingID, profileName string) (publishing.TimerStatus, error)
	StartMarketing(ctx context.Context, record publishing.MarketingRecord) error
	SaveProfile(ctx context.Context, profile publishing.MLSProfile) error
	ListProfiles(ctx context.Context, tenantID id.TenantID) ([]publishing.MLSProfile, error)
}

// Handler handles publishing compliance endpoints.
type Handler struct {
	logger     *slog.Logger
	publishing Service
}

// New creates a new publishing Handler.
func New(publishing Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		publishing: publishing,
	}
}

// Register registers the publishing routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/publishing", func(r chi.Router) {
		r.Post("/preflight", h.handlePreflight)
		r.Get("/timers/{listingID}", h.handleTimerStatus)
		r.Post("/marketing", h.handleStartMarketing)
		r.Post("/profiles", h.handleSaveProfile)
		r.Get("/profiles", h.handleListProfiles)
	})
}

func (h *Handler) callerTenant(ctx context.Context) (id.TenantID, error) {
	raw := middleware.GetTenantID(ctx)
	if raw == "" {
		return id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "tenant missing from authentication context")
	}
	return id.ParseTenantID(raw)
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body PreflightRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if body.Profile == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "profile is required"))
		return
	}

	result, err := h.publishing.Preflight(ctx, body.toServiceRequest(tenantID))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "preflight failed",
			"request_id", middleware.GetRequestID(ctx),
			"profile", body.Profile,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "preflight failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	listingID, err := id.ParseListingID(chi.URLParam(r, "listingID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	profile := r.URL.Query().Get("profile")
	if profile == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "profile query parameter is required"))
		return
	}

	status, err := h.publishing.TimerStatus(ctx, tenantID, listingID, profile)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "timer status failed",
			"request_id", middleware.GetRequestID(ctx),
			"listing_id", listingID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "timer status failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleStartMarketing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body StartMarketingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	listingID, err := id.ParseListingID(body.ListingID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record := publishing.MarketingRecord{ListingID: listingID, TenantID: tenantID}
	if body.StartedAt != nil {
		record.StartedAt = *body.StartedAt
	} else {
		record.StartedAt = time.Now()
	}

	if err := h.publishing.StartMarketing(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "start marketing failed",
			"request_id", middleware.GetRequestID(ctx),
			"listing_id", listingID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "start marketing failed"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.publishing.SaveProfile(ctx, body.toProfile(tenantID)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "save profile failed",
			"request_id", middleware.GetRequestID(ctx),
			"profile", body.Name,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "save profile failed"))
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	profiles, err := h.publishing.ListProfiles(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list profiles failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "list profiles failed"))
		return
	}
	if profiles == nil {
		profiles = []publishing.MLSProfile{}
	}

	shared.WriteJSON(w, http.StatusOK, profiles)
}
