package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
)

type stubCounter struct {
	counts map[models.Status]int
	err    error
}

func (c stubCounter) StatusCounts(context.Context) (map[models.Status]int, error) {
	return c.counts, c.err
}

type recordingGauge struct {
	mu    sync.Mutex
	calls []map[string]int
}

func (g *recordingGauge) SetStatusCounts(counts map[string]int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, counts)
}

func (g *recordingGauge) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func TestStatusSnapshotRun(t *testing.T) {
	gauge := &recordingGauge{}
	job := NewStatusSnapshot(stubCounter{counts: map[models.Status]int{
		models.StatusPending:  3,
		models.StatusApproved: 1,
	}}, gauge, nil)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, gauge.calls, 1)
	assert.Equal(t, map[string]int{"PENDING": 3, "APPROVED": 1}, gauge.calls[0])
}

func TestStatusSnapshotRunError(t *testing.T) {
	gauge := &recordingGauge{}
	job := NewStatusSnapshot(stubCounter{err: errors.New("db down")}, gauge, nil)

	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Zero(t, gauge.len())
}

func TestStatusSnapshotStart(t *testing.T) {
	t.Run("invalid spec", func(t *testing.T) {
		job := NewStatusSnapshot(stubCounter{}, &recordingGauge{}, nil)
		assert.Error(t, job.Start("not a schedule"))
	})

	t.Run("first snapshot runs immediately", func(t *testing.T) {
		gauge := &recordingGauge{}
		job := NewStatusSnapshot(stubCounter{counts: map[models.Status]int{}}, gauge, nil)
		require.NoError(t, job.Start("@every 1h"))
		defer job.Stop(context.Background())

		assert.Eventually(t, func() bool { return gauge.len() == 1 }, time.Second, 10*time.Millisecond)
	})
}
