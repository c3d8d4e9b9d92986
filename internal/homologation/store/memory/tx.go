package memory

import (
	"context"
	"sync"
)

// TxRunner serializes units of work against the in-memory stores. It does not
// roll back; callers compensate the way they would after a failed commit.
type TxRunner struct {
	mu sync.Mutex
}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
