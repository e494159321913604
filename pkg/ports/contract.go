package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRecord(id string) *domain.TraceRecord {
	return &domain.TraceRecord{
		ID: id,
		Request: domain.TraceRequest{
			Config:   domain.NewTraceConfig(domain.Vec3{X: 3}, domain.Forward),
			Internal: domain.ModelSpec{Name: "dipole"},
			External: domain.ModelSpec{Name: "uniform", Params: map[string]any{"bz": -5.0}},
		},
		Result: &domain.TraceResult{
			Points:   []domain.Vec3{{X: 3}, {X: 2.5, Z: 1}},
			Endpoint: domain.Vec3{X: 0.6, Z: 0.8},
			Reason:   domain.ReasonInnerBoundary,
			Steps:    2,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		record := contractRecord(id)

		err := store.Save(ctx, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record.ID, loaded.ID)
		require.NotNil(t, loaded.Result)
		assert.Equal(t, record.Result.Reason, loaded.Result.Reason)
		assert.Equal(t, record.Result.Points, loaded.Result.Points)
		assert.Equal(t, record.Result.Endpoint, loaded.Result.Endpoint)
		assert.True(t, record.CreatedAt.Equal(loaded.CreatedAt))
		// JSON persistence turns numbers into float64, which is what we stored.
		assert.Equal(t, -5.0, loaded.Request.External.Params["bz"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		record := contractRecord(id)
		record.Result.Reason = domain.ReasonOuterBoundary
		require.NoError(t, store.Save(ctx, record))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonOuterBoundary, loaded.Result.Reason)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRecord(id)))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound, "Load after Delete should return ErrTraceNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, contractRecord(id1))
		_ = store.Save(ctx, contractRecord(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
