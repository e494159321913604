package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/fieldline/pkg/adapters/memory"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunResultStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	record := &domain.TraceRecord{
		ID:     "abc",
		Result: &domain.TraceResult{Points: []domain.Vec3{{X: 3}}, Reason: domain.ReasonInnerBoundary},
	}
	require.NoError(t, store.Save(ctx, record))

	record.Result.Points[0].X = 99

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3.0, loaded.Result.Points[0].X)
}
