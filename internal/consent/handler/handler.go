package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hearth/internal/consent"
	"hearth/internal/platform/middleware"
	"hearth/internal/transport/http/shared"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Service defines the interface for consent operations.
type Service interface {
	Check(ctx context.Context, req consent.CheckRequest) (consent.CheckResult, error)
	Capture(ctx context.Context, input consent.CaptureInput) (consent.Record, error)
	Revoke(ctx context.Context, tenantID id.TenantID, contactID id.ContactID, channel id.Channel, scope id.Scope, source string) (consent.Record, error)
	RecordGlobalStop(ctx context.Context, tenantID id.TenantID, contactID id.ContactID, channel id.Channel) error
	List(ctx context.Context, contactID id.ContactID) ([]consent.Record, error)
}

// Handler handles consent-related endpoints.
type Handler struct {
	logger  *slog.Logger
	consent Service
}

// New creates a new consent Handler.
func New(consent Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		consent: consent,
	}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/consent/{contactID}", func(r chi.Router) {
		r.Post("/check", h.handleCheck)
		r.Post("/", h.handleCapture)
		r.Post("/revoke", h.handleRevoke)
		r.Post("/stop", h.handleGlobalStop)
		r.Get("/", h.handleList)
	})
}

// callerTenant resolves the authenticated tenant from the request context.
func (h *Handler) callerTenant(ctx context.Context) (id.TenantID, error) {
	raw := middleware.GetTenantID(ctx)
	if raw == "" {
		return id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "tenant missing from authentication context")
	}
	return id.ParseTenantID(raw)
}

func contactIDFromPath(r *http.Request) (id.ContactID, error) {
	return id.ParseContactID(chi.URLParam(r, "contactID"))
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	contactID, err := contactIDFromPath(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body CheckConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	req, err := body.toCheckRequest(tenantID, contactID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.consent.Check(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "consent check failed",
			"request_id", middleware.GetRequestID(ctx),
			"contact_id", contactID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "consent check failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	contactID, err := contactIDFromPath(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body CaptureConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := body.toRecord(contactID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	captured, err := h.consent.Capture(ctx, consent.CaptureInput{
		TenantID: tenantID,
		Record:   record,
		Device:   deviceSummary(r.UserAgent()),
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "consent capture failed",
			"request_id", middleware.GetRequestID(ctx),
			"contact_id", contactID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "consent capture failed"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, captured)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	contactID, err := contactIDFromPath(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body RevokeConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	channel, err := id.ParseChannel(body.Channel)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	scope, err := id.ParseScope(body.Scope)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	source := body.Source
	if source == "" {
		source = "api"
	}

	record, err := h.consent.Revoke(ctx, tenantID, contactID, channel, scope, source)
	if err != nil {
		h.logger.ErrorContext(ctx, "consent revoke failed",
			"request_id", middleware.GetRequestID(ctx),
			"contact_id", contactID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "consent revoke failed"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleGlobalStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := h.callerTenant(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	contactID, err := contactIDFromPath(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body GlobalStopRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	channel, err := id.ParseChannel(body.Channel)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.consent.RecordGlobalStop(ctx, tenantID, contactID, channel); err != nil {
		h.logger.ErrorContext(ctx, "global stop failed",
			"request_id", middleware.GetRequestID(ctx),
			"contact_id", contactID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "global stop failed"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.callerTenant(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}
	contactID, err := contactIDFromPath(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	records, err := h.consent.List(ctx, contactID)
	if err != nil {
		h.logger.ErrorContext(ctx, "consent list failed",
			"request_id", middleware.GetRequestID(ctx),
			"contact_id", contactID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "consent list failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, records)
}
