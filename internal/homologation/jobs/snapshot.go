// Package jobs holds scheduled background work for the homologation service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
)

const DefaultSnapshotSpec = "@every 1m"

type StatusCounter interface {
	StatusCounts(ctx context.Context) (map[models.Status]int, error)
}

type StatusGauge interface {
	SetStatusCounts(counts map[string]int)
}

// StatusSnapshot periodically publishes how many homologations sit in each
// status.
type StatusSnapshot struct {
	counter StatusCounter
	gauge   StatusGauge
	logger  *slog.Logger
	timeout time.Duration
	cron    *cron.Cron
}

func NewStatusSnapshot(counter StatusCounter, gauge StatusGauge, logger *slog.Logger) *StatusSnapshot {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusSnapshot{
		counter: counter,
		gauge:   gauge,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Run takes one snapshot.
func (j *StatusSnapshot) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	counts, err := j.counter.StatusCounts(ctx)
	if err != nil {
		return fmt.Errorf("count homologations: %w", err)
	}
	byName := make(map[string]int, len(counts))
	for status, n := range counts {
		byName[status.String()] = n
	}
	j.gauge.SetStatusCounts(byName)
	return nil
}

// Start schedules Run on spec and takes a first snapshot right away. Runs
// that overlap a slow predecessor are skipped.
func (j *StatusSnapshot) Start(spec string) error {
	if spec == "" {
		spec = DefaultSnapshotSpec
	}
	j.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := j.cron.AddFunc(spec, j.tick); err != nil {
		return fmt.Errorf("schedule status snapshot %q: %w", spec, err)
	}
	j.cron.Start()
	go j.tick()
	return nil
}

// Stop waits for a running snapshot to finish or ctx to end.
func (j *StatusSnapshot) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (j *StatusSnapshot) tick() {
	if err := j.Run(context.Background()); err != nil {
		j.logger.Warn("status snapshot failed", "error", err)
	}
}
