package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

// BillingScheduler runs periodic billing maintenance:
// - renews subscriptions whose period has ended and auto-renew is on
// - converts trials that have expired
type BillingScheduler struct {
	tenants  tenant.Repository
	renewUC  *subscriptionUsecases.RenewSubscriptionUseCase
	endTrial *subscriptionUsecases.EndTrialUseCase
	clock    clock.Clock
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
}

// NewBillingScheduler creates a new BillingScheduler
func NewBillingScheduler(
	tenants tenant.Repository,
	renewUC *subscriptionUsecases.RenewSubscriptionUseCase,
	endTrial *subscriptionUsecases.EndTrialUseCase,
	interval time.Duration,
	clk clock.Clock,
	logger logger.Interface,
) *BillingScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BillingScheduler{
		tenants:  tenants,
		renewUC:  renewUC,
		endTrial: endTrial,
		clock:    clk,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start starts the scheduler
func (s *BillingScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting billing scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *BillingScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping billing scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("billing scheduler stopped")
	})
}

func (s *BillingScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to catch up on anything due while down.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("billing scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *BillingScheduler) runOnce(ctx context.Context) {
	s.processRenewals(ctx)
	s.processExpiredTrials(ctx)
}

func (s *BillingScheduler) processRenewals(ctx context.Context) {
	startTime := time.Now()
	now := s.clock.Now()

	due, err := s.tenants.ListDueForRenewal(ctx, now)
	if err != nil {
		s.logger.Errorw("failed to list tenants due for renewal", "error", err)
		return
	}

	renewed := 0
	for _, t := range due {
		_, err := s.renewUC.Execute(ctx, subscriptionUsecases.RenewSubscriptionCommand{
			TenantID: t.ID(),
			ActorID:  tenant.SystemActor,
		})
		if err != nil {
			// One bad tenant must not block the rest of the batch.
			s.logger.Errorw("failed to renew subscription", "tenant_id", t.ID(), "error", err)
			continue
		}
		renewed++
	}

	if len(due) > 0 {
		s.logger.Infow("renewal batch processed",
			"due", len(due),
			"renewed", renewed,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no subscriptions due for renewal", "duration", time.Since(startTime))
	}
}

func (s *BillingScheduler) processExpiredTrials(ctx context.Context) {
	startTime := time.Now()
	now := s.clock.Now()

	expired, err := s.tenants.ListExpiredTrials(ctx, now)
	if err != nil {
		s.logger.Errorw("failed to list expired trials", "error", err)
		return
	}

	converted := 0
	for _, t := range expired {
		err := s.endTrial.Execute(ctx, subscriptionUsecases.EndTrialCommand{
			TenantID: t.ID(),
		})
		if err != nil {
			s.logger.Errorw("failed to end expired trial", "tenant_id", t.ID(), "error", err)
			continue
		}
		converted++
	}

	if len(expired) > 0 {
		s.logger.Infow("expired trial batch processed",
			"expired", len(expired),
			"converted", converted,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired trials to process", "duration", time.Since(startTime))
	}
}
