package consent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"hearth/internal/audit"
	"hearth/internal/consent/metrics"
	id "hearth/pkg/domain"
)

// snapshotTimeout bounds the parallel snapshot load so a slow store cannot
// stall the messaging path indefinitely.
const snapshotTimeout = 3 * time.Second

// Service orchestrates consent checks: it loads the evaluation snapshot,
// runs the pure evaluator, and records the outcome. All decision logic lives
// in Evaluate; the service only gathers inputs and emits observability.
type Service struct {
	store   Store
	tenants TenantConfigSource
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
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

func NewService(store Store, tenants TenantConfigSource, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("consent store is required")
	}
	if tenants == nil {
		return nil, fmt.Errorf("tenant config source is required")
	}

	svc := &Service{
		store:   store,
		tenants: tenants,
		tracer:  otel.Tracer("hearth/consent"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckRequest identifies one proposed outbound send.
type CheckRequest struct {
	TenantID           id.TenantID
	ContactID          id.ContactID
	Channel            id.Channel
	Scope              id.Scope
	IsTransactional    bool
	OverrideQuietHours bool

	// Now defaults to the current time when zero. Tests pin it.
	Now time.Time
}

// snapshot is the consistent view of state the evaluator runs against.
type snapshot struct {
	records      []Record
	tenantConfig TenantConfig
	globalStop   bool
}

// Check loads the evaluation snapshot and produces a verdict. Storage
// failures surface as errors; a successful load always yields a structured
// result, never an exception.
func (s *Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "consent.Check", trace.WithAttributes(
		attribute.String("channel", string(req.Channel)),
		attribute.String("scope", string(req.Scope)),
	))
	defer span.End()

	start := time.Now()

	snap, err := s.gatherSnapshot(ctx, req)
	if err != nil {
		return CheckResult{}, fmt.Errorf("gather consent snapshot: %w", err)
	}

	result := Evaluate(EvaluateInput{
		Channel:            req.Channel,
		Scope:              req.Scope,
		Records:            snap.records,
		QuietHoursStart:    snap.tenantConfig.QuietHoursStart,
		QuietHoursEnd:      snap.tenantConfig.QuietHoursEnd,
		Now:                req.Now,
		TenantTenDLCReady:  snap.tenantConfig.TenDLCReady,
		IsTransactional:    req.IsTransactional,
		HasGlobalStop:      snap.globalStop,
		OverrideQuietHours: req.OverrideQuietHours,
	})

	span.SetAttributes(attribute.Bool("allowed", result.Allowed))
	if s.metrics != nil {
		s.metrics.ObserveCheck(string(req.Channel), result.Allowed, start)
	}
	s.auditCheck(ctx, req, result)

	return result, nil
}

// gatherSnapshot loads records, tenant config, and global-stop state in
// parallel with shared cancellation.
func (s *Service) gatherSnapshot(ctx context.Context, req CheckRequest) (*snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	snap := &snapshot{}

	g.Go(func() error {
		records, err := s.store.ListByContact(ctx, req.ContactID)
		if err != nil {
			return err
		}
		snap.records = records
		return nil
	})

	g.Go(func() error {
		config, err := s.tenants.ConfigFor(ctx, req.TenantID)
		if err != nil {
			return err
		}
		snap.tenantConfig = config
		return nil
	})

	g.Go(func() error {
		stopped, err := s.store.HasGlobalStop(ctx, req.ContactID, req.Channel)
		if err != nil {
			return err
		}
		snap.globalStop = stopped
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// CaptureInput carries one piece of consent evidence plus capture context.
type CaptureInput struct {
	TenantID id.TenantID
	Record   Record

	// Device summarizes the capturing user agent for the audit trail.
	Device string
}

// Capture validates and appends a consent record. Records are never mutated;
// corrections arrive as new records.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (Record, error) {
	record := input.Record
	if record.CapturedAt.IsZero() {
		record.CapturedAt = time.Now()
	}
	if err := record.Validate(); err != nil {
		return Record{}, err
	}

	if err := s.store.Append(ctx, record); err != nil {
		return Record{}, fmt.Errorf("capture consent: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementCaptured()
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventConsentCaptured,
		TenantID:  input.TenantID.String(),
		SubjectID: record.ContactID.String(),
		Outcome:   string(record.Status),
		Metadata: map[string]string{
			"channel": string(record.Channel),
			"scope":   string(record.Scope),
			"source":  record.Source,
			"device":  input.Device,
		},
	})
	return record, nil
}

// Revoke appends a revocation record for the (channel, scope) pair. The prior
// grant remains on file for audit.
func (s *Service) Revoke(ctx context.Context, tenantID id.TenantID, contactID id.ContactID, channel id.Channel, scope id.Scope, source string) (Record, error) {
	now := time.Now()
	record := Record{
		ContactID:    contactID,
		Channel:      channel,
		Scope:        scope,
		Status:       StatusRevoked,
		VerbatimText: "Consent revoked by contact request",
		CapturedAt:   now,
		RevokedAt:    &now,
		Source:       source,
	}
	if err := record.Validate(); err != nil {
		return Record{}, err
	}

	if err := s.store.Append(ctx, record); err != nil {
		return Record{}, fmt.Errorf("revoke consent: %w", err)
	}

	s.emit(ctx, audit.Event{
		Type:      audit.EventConsentRevoked,
		TenantID:  tenantID.String(),
		SubjectID: contactID.String(),
		Outcome:   string(StatusRevoked),
		Metadata: map[string]string{
			"channel": string(channel),
			"scope":   string(scope),
			"source":  source,
		},
	})
	return record, nil
}

// RecordGlobalStop mutes a channel for a contact in response to STOP or
// unsubscribe. The mute dominates every future check on that channel.
func (s *Service) RecordGlobalStop(ctx context.Context, tenantID id.TenantID, contactID id.ContactID, channel id.Channel) error {
	if err := s.store.SetGlobalStop(ctx, contactID, channel); err != nil {
		return fmt.Errorf("record global stop: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementGlobalStops()
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventGlobalStop,
		TenantID:  tenantID.String(),
		SubjectID: contactID.String(),
		Outcome:   "stopped",
		Metadata:  map[string]string{"channel": string(channel)},
	})
	return nil
}

// List returns the full consent history for a contact.
func (s *Service) List(ctx context.Context, contactID id.ContactID) ([]Record, error) {
	return s.store.ListByContact(ctx, contactID)
}

func (s *Service) auditCheck(ctx context.Context, req CheckRequest, result CheckResult) {
	outcome := "denied"
	if result.Allowed {
		outcome = "allowed"
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventConsentChecked,
		TenantID:  req.TenantID.String(),
		SubjectID: req.ContactID.String(),
		Outcome:   outcome,
		Metadata: map[string]string{
			"channel": string(req.Channel),
			"scope":   string(req.Scope),
			"reason":  result.Reason,
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
