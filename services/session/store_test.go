package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"concierge/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetCreatesEmptyContext(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	dlg, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", dlg.SessionID)
	assert.Equal(t, models.StateIdle, dlg.State)
	assert.NotNil(t, dlg.CollectedSlots)
}

func TestMemoryStoreUpdatePersists(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	updated, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		dlg.CollectedSlots[models.SlotDate] = "2025-03-04"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, updated.State)
	assert.False(t, updated.LastActive.IsZero())

	// Mutating the returned copy must not leak into the store.
	updated.CollectedSlots[models.SlotDate] = "tampered"

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, got.State)
	assert.Equal(t, "2025-03-04", got.CollectedSlots[models.SlotDate])
}

func TestMemoryStoreUpdateErrorDiscardsChanges(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}

func TestMemoryStoreEvictsIdleSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateAwaitingConfirmation
		return nil
	})
	require.NoError(t, err)

	store.evictIdle(time.Now().Add(2 * time.Minute))

	// An evicted session reads back as a fresh context.
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	ctx := context.Background()

	updated, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		dlg.CollectedSlots[models.SlotTime] = "10:00"
		dlg.Record("book a slot", models.ActionAskClarify, time.Now())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, updated.State)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, got.State)
	assert.Equal(t, "10:00", got.CollectedSlots[models.SlotTime])
	require.Len(t, got.History, 1)
	assert.Equal(t, "book a slot", got.History[0].Text)
}

func TestRedisStoreExpiryYieldsFreshContext(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateAwaitingConfirmation
		return nil
	})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
	assert.Nil(t, got.AwaitingConfirm)
}

func TestRedisStoreUpdateRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		return nil
	})
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	_, err = store.Update(ctx, "s1", func(dlg *models.DialogContext) error { return nil })
	require.NoError(t, err)

	// The first TTL alone would have expired by now.
	mr.FastForward(40 * time.Second)
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, got.State)
}

func TestRedisStoreClear(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Update(ctx, "a", func(dlg *models.DialogContext) error {
		dlg.State = models.StateCollecting
		return nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}
