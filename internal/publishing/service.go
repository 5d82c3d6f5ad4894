package publishing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hearth/internal/audit"
	"hearth/internal/publishing/metrics"
	id "hearth/pkg/domain"
)

// AuditPublisher records compliance decisions for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates publishing compliance: it resolves the MLS ruleset,
// runs the pure preflight and timer evaluators, and records the outcome. All
// decision logic lives in RunPreflight and EvaluateClearCooperation.
type Service struct {
	profiles  ProfileStore
	marketing MarketingStore
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func NewService(profiles ProfileStore, marketing MarketingStore, opts ...Option) (*Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if marketing == nil {
		return nil, fmt.Errorf("marketing store is required")
	}

	svc := &Service{
		profiles:  profiles,
		marketing: marketing,
		tracer:    otel.Tracer("hearth/publishing"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// PreflightRequest identifies one piece of content and the MLS board whose
// rules it must satisfy.
type PreflightRequest struct {
	TenantID    id.TenantID
	ProfileName string
	Payload     Payload

	// Now defaults to the current time when zero. Tests pin it.
	Now time.Time
}

// Preflight resolves the MLS profile and checks the content against it.
// Profile lookup failures surface as errors; a resolved profile always yields
// a structured result.
func (s *Service) Preflight(ctx context.Context, req PreflightRequest) (PreflightResult, error) {
	ctx, span := s.tracer.Start(ctx, "publishing.Preflight", trace.WithAttributes(
		attribute.String("content_type", string(req.Payload.ContentType)),
		attribute.String("profile", req.ProfileName),
	))
	defer span.End()

	if err := req.Payload.Validate(); err != nil {
		return PreflightResult{}, err
	}

	profile, err := s.profiles.Get(ctx, req.TenantID, req.ProfileName)
	if err != nil {
		return PreflightResult{}, fmt.Errorf("resolve mls profile: %w", err)
	}

	result := RunPreflight(req.Payload, profile, req.Now)

	span.SetAttributes(attribute.Bool("pass", result.Pass))
	if s.metrics != nil {
		s.metrics.ObservePreflight(string(req.Payload.ContentType), result.Pass, len(result.Violations))
	}
	s.auditPreflight(ctx, req, result)

	return result, nil
}

// TimerStatus classifies a listing's Clear Cooperation countdown against the
// SLA of the named MLS profile.
func (s *Service) TimerStatus(ctx context.Context, tenantID id.TenantID, listingID id.ListingID, profileName string) (TimerStatus, error) {
	ctx, span := s.tracer.Start(ctx, "publishing.TimerStatus")
	defer span.End()

	record, err := s.marketing.GetStart(ctx, listingID)
	if err != nil {
		return TimerStatus{}, fmt.Errorf("resolve marketing start: %w", err)
	}
	profile, err := s.profiles.Get(ctx, tenantID, profileName)
	if err != nil {
		return TimerStatus{}, fmt.Errorf("resolve mls profile: %w", err)
	}

	status := EvaluateClearCooperation(record.StartedAt, profile.SLAHours, time.Time{})

	span.SetAttributes(attribute.String("status", string(status.Status)))
	if s.metrics != nil {
		s.metrics.ObserveTimer(string(status.Status))
	}
	return status, nil
}

// StartMarketing records that public marketing began for a listing. The first
// recorded start wins; the Clear Cooperation clock never resets.
func (s *Service) StartMarketing(ctx context.Context, record MarketingRecord) error {
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}
	if err := s.marketing.RecordStart(ctx, record); err != nil {
		return fmt.Errorf("start marketing: %w", err)
	}
	return nil
}

// SaveProfile upserts an MLS compliance ruleset.
func (s *Service) SaveProfile(ctx context.Context, profile MLSProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("save mls profile: %w", err)
	}
	return nil
}

// ListProfiles returns every MLS profile configured for a tenant.
func (s *Service) ListProfiles(ctx context.Context, tenantID id.TenantID) ([]MLSProfile, error) {
	return s.profiles.ListByTenant(ctx, tenantID)
}

func (s *Service) auditPreflight(ctx context.Context, req PreflightRequest, result PreflightResult) {
	outcome := "fail"
	if result.Pass {
		outcome = "pass"
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventPreflightRun,
		TenantID:  req.TenantID.String(),
		SubjectID: req.Payload.ListingID,
		Outcome:   outcome,
		Metadata: map[string]string{
			"content_type": string(req.Payload.ContentType),
			"profile":      req.ProfileName,
			"violations":   strings.Join(result.Violations, "; "),
			"warnings":     strconv.Itoa(len(result.Warnings)),
		},
	})
}

// emit records an audit event without failing the caller: the decision stands
// even when the trail write fails, but the failure is logged loudly.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"event_type", string(event.Type),
			"error", err.Error(),
		)
	}
}
