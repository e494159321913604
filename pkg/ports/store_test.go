package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
)

// MockStore is an in-memory implementation of ResultStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.TraceRecord
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.TraceRecord),
	}
}

func (m *MockStore) Save(ctx context.Context, record *domain.TraceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[record.ID] = *record
	return nil
}

func (m *MockStore) Load(ctx context.Context, id string) (*domain.TraceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.data[id]
	if !ok {
		return nil, domain.ErrTraceNotFound
	}
	return &record, nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestResultStore_Contract(t *testing.T) {
	// The mock doubles as a check that the contract itself is consistent.
	ports.RunResultStoreContract(t, NewMockStore())
}

func TestEvaluatorFunc(t *testing.T) {
	var f ports.FieldEvaluator = ports.EvaluatorFunc(func(pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error) {
		return pos.Mul(float64(params.Index)), nil
	})
	got, err := f.Evaluate(domain.Vec3{X: 1, Y: 2}, domain.ModelParams{Index: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (domain.Vec3{X: 3, Y: 6}) {
		t.Errorf("got %+v", got)
	}
}
