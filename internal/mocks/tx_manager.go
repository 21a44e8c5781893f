package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/newsdesk/internal/store"
)

// MockTxManager implements store.TxManager without a database. The function
// runs with a nil *sql.Tx, which the in-memory stores accept in WithTx.
type MockTxManager struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	calls atomic.Int32
}

var _ store.TxManager = (*MockTxManager)(nil)

// RunInTransaction implements store.TxManager.
func (m *MockTxManager) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.calls.Add(1)
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// Calls returns the number of transactions run.
func (m *MockTxManager) Calls() int {
	return int(m.calls.Load())
}
