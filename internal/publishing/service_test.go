package publishing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hearth/internal/audit"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

type PublishingServiceSuite struct {
	suite.Suite
	profiles  *InMemoryProfileStore
	marketing *InMemoryMarketingStore
	audits    *audit.InMemoryStore
	service   *Service
	tenantID  id.TenantID
	listingID id.ListingID
}

func TestPublishingServiceSuite(t *testing.T) {
	suite.Run(t, new(PublishingServiceSuite))
}

func (s *PublishingServiceSuite) SetupTest() {
	s.profiles = NewInMemoryProfileStore()
	s.marketing = NewInMemoryMarketingStore()
	s.audits = audit.NewInMemoryStore()
	s.tenantID = id.TenantID(uuid.New())
	s.listingID = id.ListingID(uuid.New())

	var err error
	s.service, err = NewService(
		s.profiles,
		s.marketing,
		WithAuditor(audit.NewPublisher(s.audits)),
	)
	s.Require().NoError(err)

	s.Require().NoError(s.profiles.Save(context.Background(), MLSProfile{
		TenantID:                 s.tenantID,
		Name:                     "Metro Regional MLS",
		DisclaimerText:           "Listing courtesy of Metro Regional MLS.",
		CompensationDisplayRule:  CompensationProhibited,
		ClearCooperationRequired: true,
		SLAHours:                 72,
	}))
}

func (s *PublishingServiceSuite) TestNew() {
	s.Run("nil profile store returns error", func() {
		_, err := NewService(nil, NewInMemoryMarketingStore())
		s.Error(err)
		s.Contains(err.Error(), "profile store is required")
	})

	s.Run("nil marketing store returns error", func() {
		_, err := NewService(NewInMemoryProfileStore(), nil)
		s.Error(err)
		s.Contains(err.Error(), "marketing store is required")
	})
}

func (s *PublishingServiceSuite) TestPreflight() {
	s.Run("compliant content passes and is audited", func() {
		result, err := s.service.Preflight(context.Background(), PreflightRequest{
			TenantID:    s.tenantID,
			ProfileName: "Metro Regional MLS",
			Payload: Payload{
				ContentType:         ContentFlyer,
				DisplayedDisclaimer: "Listing courtesy of Metro Regional MLS.",
				ListingID:           s.listingID.String(),
			},
		})
		s.Require().NoError(err)
		s.True(result.Pass)

		events := s.audits.Events()
		s.Require().Len(events, 1)
		s.Equal(audit.EventPreflightRun, events[0].Type)
		s.Equal("pass", events[0].Outcome)
	})

	s.Run("violations are recorded in the audit trail", func() {
		result, err := s.service.Preflight(context.Background(), PreflightRequest{
			TenantID:    s.tenantID,
			ProfileName: "Metro Regional MLS",
			Payload: Payload{
				ContentType:       ContentEmail,
				ShowsCompensation: true,
			},
		})
		s.Require().NoError(err)
		s.False(result.Pass)
		s.Len(result.Violations, 2)

		events := s.audits.Events()
		last := events[len(events)-1]
		s.Equal("fail", last.Outcome)
		s.Contains(last.Metadata["violations"], "disclaimer")
		s.Contains(last.Metadata["violations"], "Compensation")
	})

	s.Run("unknown profile surfaces not found", func() {
		_, err := s.service.Preflight(context.Background(), PreflightRequest{
			TenantID:    s.tenantID,
			ProfileName: "Nonexistent Board",
			Payload:     Payload{ContentType: ContentFlyer},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid content type rejects before lookup", func() {
		_, err := s.service.Preflight(context.Background(), PreflightRequest{
			TenantID:    s.tenantID,
			ProfileName: "Metro Regional MLS",
			Payload:     Payload{ContentType: "billboard"},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *PublishingServiceSuite) TestTimerStatus() {
	s.Run("fresh marketing start reads green", func() {
		s.Require().NoError(s.service.StartMarketing(context.Background(), MarketingRecord{
			ListingID: s.listingID,
			TenantID:  s.tenantID,
			StartedAt: time.Now().Add(-2 * time.Hour),
		}))

		status, err := s.service.TimerStatus(context.Background(), s.tenantID, s.listingID, "Metro Regional MLS")
		s.Require().NoError(err)
		s.Equal(TimerGreen, status.Status)
		s.Equal(2, status.HoursElapsed)
	})

	s.Run("unknown listing surfaces not found", func() {
		_, err := s.service.TimerStatus(context.Background(), s.tenantID, id.ListingID(uuid.New()), "Metro Regional MLS")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PublishingServiceSuite) TestStartMarketing_FirstStartWins() {
	ctx := context.Background()
	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	s.Require().NoError(s.service.StartMarketing(ctx, MarketingRecord{
		ListingID: s.listingID, TenantID: s.tenantID, StartedAt: first,
	}))
	s.Require().NoError(s.service.StartMarketing(ctx, MarketingRecord{
		ListingID: s.listingID, TenantID: s.tenantID, StartedAt: later,
	}))

	record, err := s.marketing.GetStart(ctx, s.listingID)
	s.Require().NoError(err)
	s.True(record.StartedAt.Equal(first), "re-announcing marketing must not reset the clock")
}

func (s *PublishingServiceSuite) TestSaveAndListProfiles() {
	ctx := context.Background()
	s.Require().NoError(s.service.SaveProfile(ctx, MLSProfile{
		TenantID:                s.tenantID,
		Name:                    "Coastal MLS",
		DisclaimerText:          "Provided by Coastal MLS.",
		CompensationDisplayRule: CompensationAllowed,
		SLAHours:                48,
	}))

	profiles, err := s.service.ListProfiles(ctx, s.tenantID)
	s.Require().NoError(err)
	s.Len(profiles, 2)

	s.Run("invalid profile rejected", func() {
		err := s.service.SaveProfile(ctx, MLSProfile{
			TenantID:                s.tenantID,
			Name:                    "Broken",
			CompensationDisplayRule: CompensationAllowed,
			SLAHours:                0,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
