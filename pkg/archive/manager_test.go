package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/pkg/adapters/memory"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSaveStore struct {
	*memory.Store
}

func (failingSaveStore) Save(context.Context, *domain.TraceRecord) error {
	return errors.New("disk full")
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("trace-%d", i)
		_, _, _ = mgr.LoadOrCreate(ctx, id, func(context.Context) (*domain.TraceRecord, error) {
			return &domain.TraceRecord{ID: id}, nil
		})
		_ = mgr.Delete(ctx, id)
	}

	assert.Empty(t, mgr.locks, "locks must be released after use")
}

func TestManager_LoadOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Concurrent callers create once", func(t *testing.T) {
		mgr := NewManager(memory.NewStore())
		var calls atomic.Int32

		var wg sync.WaitGroup
		created := make([]bool, 16)
		for i := range created {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec, c, err := mgr.LoadOrCreate(ctx, "same", func(context.Context) (*domain.TraceRecord, error) {
					calls.Add(1)
					return &domain.TraceRecord{ID: "same"}, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, "same", rec.ID)
				created[i] = c
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		n := 0
		for _, c := range created {
			if c {
				n++
			}
		}
		assert.Equal(t, 1, n)
	})

	t.Run("Create error is not stored", func(t *testing.T) {
		mgr := NewManager(memory.NewStore())
		boom := errors.New("boom")

		_, _, err := mgr.LoadOrCreate(ctx, "x", func(context.Context) (*domain.TraceRecord, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = mgr.Load(ctx, "x")
		assert.ErrorIs(t, err, domain.ErrTraceNotFound)
	})

	t.Run("Save failure is logged", func(t *testing.T) {
		var buf bytes.Buffer
		mgr := NewManager(failingSaveStore{memory.NewStore()}, WithLogger(logging.NewJSON(&buf, 0)))

		rec, created, err := mgr.LoadOrCreate(ctx, "y", func(context.Context) (*domain.TraceRecord, error) {
			return &domain.TraceRecord{ID: "y"}, nil
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "y", rec.ID)
		assert.Contains(t, buf.String(), "disk full")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		mgr := NewManager(memory.NewStore())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := mgr.LoadOrCreate(cctx, "z", func(context.Context) (*domain.TraceRecord, error) {
			t.Fatal("create must not run")
			return nil, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
