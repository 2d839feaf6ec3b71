package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"freightbroker/apperrors"
	"freightbroker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequenceRepo mimics the store's atomic counter with a mutex.
type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	inUse    map[string]map[int64]bool
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{
		counters: make(map[string]int64),
		inUse:    make(map[string]map[int64]bool),
	}
}

func (f *fakeSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[name]++
	return f.counters[name], nil
}

func (f *fakeSequenceRepo) Raise(ctx context.Context, name string, value int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value > f.counters[name] {
		f.counters[name] = value
	}
	return nil
}

func (f *fakeSequenceRepo) ValueInUse(ctx context.Context, name string, value int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inUse[name][value], nil
}

func (f *fakeSequenceRepo) markInUse(name string, value int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[name] == nil {
		f.inUse[name] = make(map[int64]bool)
	}
	f.inUse[name][value] = true
}

func TestNext_UniqueUnderConcurrency(t *testing.T) {
	const n = 1000
	alloc := NewAllocator(newFakeSequenceRepo())

	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := alloc.Next(context.Background(), models.SeqLoadNumber)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		if seen[v] {
			t.Fatalf("duplicate identifier %d", v)
		}
		seen[v] = true
	}
	require.Len(t, seen, n)
}

func TestNext_UnknownSequence(t *testing.T) {
	alloc := NewAllocator(newFakeSequenceRepo())
	_, err := alloc.Next(context.Background(), "bogus")

	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestReserve_Success(t *testing.T) {
	repo := newFakeSequenceRepo()
	alloc := NewAllocator(repo)

	err := alloc.Reserve(context.Background(), models.SeqReferenceNumber, 500)
	require.NoError(t, err)

	// The counter moved past the reserved value.
	next, err := alloc.Next(context.Background(), models.SeqReferenceNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(501), next)
}

func TestReserve_ConflictCarriesSuggestion(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.markInUse(models.SeqLoadNumber, 42)
	repo.counters[models.SeqLoadNumber] = 100
	alloc := NewAllocator(repo)

	err := alloc.Reserve(context.Background(), models.SeqLoadNumber, 42)

	var conflict *apperrors.IdentifierConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(42), conflict.Value)
	assert.Equal(t, int64(101), conflict.Suggested)
	assert.Equal(t, "loadNumber 42 is already in use, next available is 101", err.Error())
}

func TestReserve_RejectsNonPositive(t *testing.T) {
	alloc := NewAllocator(newFakeSequenceRepo())

	var ve *apperrors.ValidationError
	require.True(t, errors.As(alloc.Reserve(context.Background(), models.SeqWONumber, 0), &ve))
	require.True(t, errors.As(alloc.Reserve(context.Background(), models.SeqWONumber, -7), &ve))
}
