package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hearth/internal/platform/middleware"
	"hearth/internal/tenant"
	"hearth/internal/transport/http/shared"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Store persists per-tenant compliance settings.
type Store interface {
	Get(ctx context.Context, tenantID id.TenantID) (tenant.Settings, error)
	Save(ctx context.Context, settings tenant.Settings) error
}

// Handler handles tenant settings endpoints. Settings feed the consent
// evaluator, so writes here change messaging behavior immediately.
type Handler struct {
	logger *slog.Logger
	store  Store

	defaultQuietStart int
	defaultQuietEnd   int
}

// New creates a new tenant settings Handler.
func New(store Store, logger *slog.Logger, defaultQuietStart, defaultQuietEnd int) *Handler {
	return &Handler{
		logger:            logger,
		store:             store,
		defaultQuietStart: defaultQuietStart,
		defaultQuietEnd:   defaultQuietEnd,
	}
}

// Register registers the tenant settings routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/tenant/settings", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleSave)
	})
}

// SettingsRequest updates the calling tenant's messaging compliance settings.
type SettingsRequest struct {
	QuietHoursStart int  `json:"quiet_hours_start"`
	QuietHoursEnd   int  `json:"quiet_hours_end"`
	TenDLCReady     bool `json:"ten_dlc_ready"`
}

func (h *Handler) callerTenant(ctx context.Context) (id.TenantID, error) {
	raw := middleware.GetTenantID(ctx)
	if raw == "" {
		return id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "tenant missing from authentication context")
	}
	return id.ParseTenantID(raw)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	settings, err := h.store.Get(ctx, tenantID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			// An unconfigured tenant reads back the defaults it is governed by.
			shared.WriteJSON(w, http.StatusOK, tenant.DefaultSettings(tenantID, h.defaultQuietStart, h.defaultQuietEnd))
			return
		}
		h.logger.ErrorContext(ctx, "tenant settings read failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "tenant settings read failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	settings := tenant.Settings{
		TenantID:        tenantID,
		QuietHoursStart: body.QuietHoursStart,
		QuietHoursEnd:   body.QuietHoursEnd,
		TenDLCReady:     body.TenDLCReady,
		UpdatedAt:       time.Now(),
	}
	if err := h.store.Save(ctx, settings); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "tenant settings save failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "tenant settings save failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, settings)
}
