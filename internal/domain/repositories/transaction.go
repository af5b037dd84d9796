package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. The cycle-check-then-write
// sequence of a reparent and the recursive merge/cascade deletes run inside
// ExecTx so concurrent mutations cannot interleave between check and commit.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
