package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacecworp-pix-gateway/internal/config"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
)

// Poller periodically lists stale pending charges and fans their expiry out
// over the worker pool
type Poller struct {
	chargeRepo   charge.Repository
	expirer      Service
	pool         *WorkerPool
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	window       time.Duration
}

func NewPoller(
	cfg *config.ExpiryConfig,
	chargeRepo charge.Repository,
	expirer Service,
	pool *WorkerPool,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		chargeRepo:   chargeRepo,
		expirer:      expirer,
		pool:         pool,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
		window:       cfg.Window,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting expiry poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"window", p.window.String(),
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Expiry poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			p.logger.Debug("Expiry poller tick: sweeping stale charges")
			if err := p.sweep(ctx); err != nil {
				p.logger.Error("Error during expiry sweep", "error", err)
			}
		}
	}
}

// sweep expires one batch of stale pending charges and waits for the batch
// to finish before returning
func (p *Poller) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-p.window)

	stale, err := p.chargeRepo.ListPendingOlderThan(ctx, cutoff, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale pending charges: %w", err)
	}

	if len(stale) == 0 {
		p.logger.Debug("No stale pending charges found.")
		return nil
	}

	p.logger.Info("Fetched stale pending charges", "count", len(stale), "cutoff", cutoff)

	var wg sync.WaitGroup
	for _, c := range stale {
		chargeID := c.ID
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.expirer.ExpireCharge(ctx, chargeID); err != nil {
				p.logger.Error("Failed to expire charge", "charge_id", chargeID, "error", err)
			}
		})
		if err != nil {
			wg.Done()
			p.logger.Error("Failed to submit expiry job to worker pool", "charge_id", chargeID, "error", err)
		}
	}
	wg.Wait()

	return nil
}
