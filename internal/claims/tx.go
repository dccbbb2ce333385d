package claims

import (
	"context"
	"sync"
	"time"

	dErrors "coverline/pkg/domain-errors"
)

// TxRunner serializes the multi-step claim sequences (load, collaborator
// call, conditional commit) so each runs as one logical operation, the
// equivalent of the hosting ledger's operation serialization. Keyed by claim
// id so unrelated claims proceed concurrently.
type TxRunner interface {
	RunInTx(ctx context.Context, key uint64, fn func(ctx context.Context) error) error
}

// shardedTx distributes claim operations across N mutex shards based on the
// claim id. Reads outside RunInTx see the last-committed snapshot.
const numClaimShards = 64

// defaultTxTimeout bounds a claim transaction, collaborator calls included.
const defaultTxTimeout = 5 * time.Second

type shardedTx struct {
	shards  [numClaimShards]sync.Mutex
	timeout time.Duration
}

// NewShardedTx builds the in-process transaction runner.
func NewShardedTx() TxRunner {
	return &shardedTx{timeout: defaultTxTimeout}
}

func (t *shardedTx) RunInTx(ctx context.Context, key uint64, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := key % numClaimShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}
