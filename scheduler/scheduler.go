// Package scheduler runs periodic AI provider connectivity probes and
// publishes the results to the status store consumed by health checks.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
)

// Compile-time check to ensure ProbeScheduler implements Scheduler interface
var _ interfaces.Scheduler = (*ProbeScheduler)(nil)

// ProbeScheduler periodically tests each AI provider connection and stores
// the resulting statuses.
type ProbeScheduler struct {
	scheduler    *gocron.Scheduler
	orchestrator interfaces.Orchestrator
	store        interfaces.StatusStore
	interval     time.Duration
	probeTimeout time.Duration
}

// NewProbeScheduler creates a scheduler probing every interval
func NewProbeScheduler(orchestrator interfaces.Orchestrator, store interfaces.StatusStore, interval time.Duration) *ProbeScheduler {
	return &ProbeScheduler{
		scheduler:    gocron.NewScheduler(time.Local),
		orchestrator: orchestrator,
		store:        store,
		interval:     interval,
		probeTimeout: 10 * time.Second,
	}
}

// Start runs an initial probe then schedules recurring probes
func (ps *ProbeScheduler) Start() error {
	// Initial probe so health responses have data right away
	ps.Probe()

	_, err := ps.scheduler.Every(ps.interval).Do(ps.Probe)
	if err != nil {
		return fmt.Errorf("failed to schedule provider probe: %w", err)
	}

	ps.scheduler.StartAsync()
	logging.Info("Provider probe scheduler started", "interval", ps.interval.String())

	return nil
}

// Stop stops the scheduler
func (ps *ProbeScheduler) Stop() {
	ps.scheduler.Stop()
	logging.Info("Provider probe scheduler stopped")
}

// Probe tests every provider connection and updates the status store.
// Skips silently if another probe is already running.
func (ps *ProbeScheduler) Probe() {
	if !ps.store.BeginProbe() {
		logging.Warn("Provider probe already in progress, skipping")
		return
	}
	defer ps.store.EndProbe()

	providers := ps.orchestrator.Providers()
	statuses := make([]interfaces.ProviderStatus, 0, len(providers))

	for _, provider := range providers {
		statuses = append(statuses, ps.probeProvider(provider))
	}

	ps.store.UpdateStatuses(statuses)
}

func (ps *ProbeScheduler) probeProvider(provider interfaces.AIProvider) interfaces.ProviderStatus {
	ctx, cancel := context.WithTimeout(context.Background(), ps.probeTimeout)
	defer cancel()

	start := time.Now()
	err := provider.TestConnection(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logging.Warn("Provider connection test failed",
			"provider", provider.Name(),
			"duration", elapsed.String(),
			"error", err.Error(),
		)
		return interfaces.ProviderStatus{
			Name:    provider.Name(),
			Status:  "error",
			Message: err.Error(),
		}
	}

	logging.Debug("Provider connection test succeeded",
		"provider", provider.Name(),
		"duration", elapsed.String(),
	)
	return interfaces.ProviderStatus{
		Name:   provider.Name(),
		Status: "operational",
	}
}
