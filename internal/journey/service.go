package journey

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hearth/internal/audit"
	"hearth/internal/journey/metrics"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// AuditPublisher records compliance decisions for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates journey storage and evaluation. All matching logic
// lives in Simulate; the service loads definitions, fans the event across
// them, and records the outcome. It never executes actions.
type Service struct {
	store   Store
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

func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("journey store is required")
	}

	svc := &Service{
		store:  store,
		tracer: otel.Tracer("hearth/journey"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Save validates and upserts a journey definition, minting an id for new ones.
func (s *Service) Save(ctx context.Context, definition Definition) (Definition, error) {
	if definition.ID == (id.JourneyID{}) {
		definition.ID = id.NewJourneyID()
	}
	if definition.TenantID == (id.TenantID{}) {
		return Definition{}, dErrors.New(dErrors.CodeInvalidInput, "tenant_id is required")
	}
	if err := definition.Validate(); err != nil {
		return Definition{}, err
	}
	if err := s.store.Save(ctx, definition); err != nil {
		return Definition{}, fmt.Errorf("save journey: %w", err)
	}
	return definition, nil
}

// Get returns one journey definition.
func (s *Service) Get(ctx context.Context, journeyID id.JourneyID) (Definition, error) {
	return s.store.Get(ctx, journeyID)
}

// List returns every journey configured for a tenant.
func (s *Service) List(ctx context.Context, tenantID id.TenantID) ([]Definition, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

// SimulateStored runs one stored journey against a hypothetical event without
// touching the audit trail. Dry-run tooling for automation authors.
func (s *Service) SimulateStored(ctx context.Context, journeyID id.JourneyID, input SimulationInput) (SimulationResult, error) {
	definition, err := s.store.Get(ctx, journeyID)
	if err != nil {
		return SimulationResult{}, fmt.Errorf("resolve journey: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementSimulations()
	}
	return Simulate(definition, input), nil
}

// Match is one journey an event would fire, with the actions the dispatcher
// should run.
type Match struct {
	JourneyID id.JourneyID `json:"journey_id"`
	Name      string       `json:"name"`
	Actions   []Action     `json:"actions"`
}

// EvaluateEvent fans an incoming domain event across every journey of the
// tenant and returns all matches. Matches are audited; dispatching the
// returned actions belongs to the caller.
func (s *Service) EvaluateEvent(ctx context.Context, tenantID id.TenantID, input SimulationInput) ([]Match, error) {
	ctx, span := s.tracer.Start(ctx, "journey.EvaluateEvent", trace.WithAttributes(
		attribute.String("trigger", string(input.Trigger)),
	))
	defer span.End()

	definitions, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}

	matches := []Match{}
	for _, definition := range definitions {
		result := Simulate(definition, input)
		if !result.Matched {
			continue
		}
		matches = append(matches, Match{
			JourneyID: definition.ID,
			Name:      definition.Name,
			Actions:   result.Actions,
		})
		s.auditMatch(ctx, tenantID, definition, input, result)
	}

	span.SetAttributes(attribute.Int("matches", len(matches)))
	if s.metrics != nil {
		s.metrics.ObserveEvent(string(input.Trigger), len(matches))
	}
	return matches, nil
}

func (s *Service) auditMatch(ctx context.Context, tenantID id.TenantID, definition Definition, input SimulationInput, result SimulationResult) {
	actionTypes := make([]string, 0, len(result.Actions))
	for _, action := range result.Actions {
		actionTypes = append(actionTypes, string(action.Type))
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventJourneyMatched,
		TenantID:  tenantID.String(),
		SubjectID: definition.ID.String(),
		Outcome:   "matched",
		Metadata: map[string]string{
			"journey": definition.Name,
			"trigger": string(input.Trigger),
			"actions": strings.Join(actionTypes, ","),
			"count":   strconv.Itoa(len(result.Actions)),
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
