package claims

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
)

func TestInMemoryStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	t.Run("allocates sequential ids", func(t *testing.T) {
		first, err := store.Create(ctx, New(1, "claimant-1", 100, time.Now()))
		require.NoError(t, err)
		second, err := store.Create(ctx, New(2, "claimant-2", 100, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, uint64(first)+1, uint64(second))
	})

	t.Run("second claim for a policy conflicts", func(t *testing.T) {
		_, err := store.Create(ctx, New(1, "claimant-3", 100, time.Now()))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("concurrent submissions admit exactly one", func(t *testing.T) {
		const attempts = 32
		policyID := id.PolicyID(777)

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := range attempts {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.Create(ctx, New(policyID, "claimant", 100, time.Now()))
			}(i)
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			if err == nil {
				created++
			} else {
				assert.ErrorIs(t, err, sentinel.ErrConflict)
			}
		}
		assert.Equal(t, 1, created)
	})
}

func TestInMemoryStoreUpdateIf(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	claimID, err := store.Create(ctx, New(1, "claimant-1", 100, time.Now()))
	require.NoError(t, err)

	c, err := store.Get(ctx, claimID)
	require.NoError(t, err)

	t.Run("commit with matching expected state", func(t *testing.T) {
		require.NoError(t, c.StartReview())
		assert.NoError(t, store.UpdateIf(ctx, c, StateSubmitted))

		got, err := store.Get(ctx, claimID)
		require.NoError(t, err)
		assert.Equal(t, StateUnderReview, got.State)
	})

	t.Run("stale expected state is rejected", func(t *testing.T) {
		err := store.UpdateIf(ctx, c, StateSubmitted)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("unknown claim", func(t *testing.T) {
		missing := New(9, "claimant", 100, time.Now())
		missing.ID = id.ClaimID(9999)
		assert.ErrorIs(t, store.UpdateIf(ctx, missing, StateSubmitted), sentinel.ErrNotFound)
	})
}

func TestInMemoryStoreClaimIDForPolicy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	claimID, err := store.Create(ctx, New(5, "claimant-1", 100, time.Now()))
	require.NoError(t, err)

	got, err := store.ClaimIDForPolicy(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, claimID, got)

	_, err = store.ClaimIDForPolicy(ctx, 6)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
