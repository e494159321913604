package pebble_test

import (
	"context"
	"testing"

	"github.com/aretw0/fieldline/pkg/adapters/pebble"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleStore_Contract(t *testing.T) {
	store, err := pebble.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ports.RunResultStoreContract(t, store)
}

func TestPebbleStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := pebble.Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.TraceRecord{
		ID:     "persisted",
		Result: &domain.TraceResult{Reason: domain.ReasonCapacityExhausted, Steps: 12},
	}))
	require.NoError(t, store.Close())

	store, err = pebble.Open(dir)
	require.NoError(t, err)
	defer store.Close()

	record, err := store.Load(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, 12, record.Result.Steps)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, ids)
}
