package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freightbroker/apperrors"
	"freightbroker/models"
	"freightbroker/query"
	"freightbroker/repository"
	"freightbroker/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatchRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Dispatch
}

func newFakeDispatchRepo(dispatches ...*models.Dispatch) *fakeDispatchRepo {
	f := &fakeDispatchRepo{byID: make(map[string]*models.Dispatch)}
	for _, d := range dispatches {
		cp := *d
		f.byID[d.ID] = &cp
	}
	return f
}

func (f *fakeDispatchRepo) Create(ctx context.Context, d *models.Dispatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDispatchRepo) GetByID(ctx context.Context, id string) (*models.Dispatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDispatchRepo) List(ctx context.Context, q *query.Query) ([]*models.Dispatch, int64, error) {
	return nil, 0, nil
}

func (f *fakeDispatchRepo) ApplyTransition(ctx context.Context, id string, from models.LoadStatus, upd repository.TransitionUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = upd.Status
	d.UpdatedAt = &upd.UpdatedAt
	if upd.LoadNumber != nil {
		d.LoadNumber = upd.LoadNumber
	}
	if upd.InvoiceNumber != nil {
		d.InvoiceNumber = upd.InvoiceNumber
	}
	if upd.InvoiceDate != nil {
		d.InvoiceDate = upd.InvoiceDate
	}
	return true, nil
}

func (f *fakeDispatchRepo) Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Dispatch, error) {
	return nil, nil
}

func (f *fakeDispatchRepo) RefreshAge(ctx context.Context, id string, t time.Time) (bool, error) {
	return false, nil
}

func (f *fakeDispatchRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
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
	return false, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
	fail   error
}

func (n *recordingNotifier) Notify(ctx context.Context, event models.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.events = append(n.events, event)
	return nil
}

func draftDispatch(id string, status models.LoadStatus) *models.Dispatch {
	d := &models.Dispatch{
		ID:        id,
		Status:    status,
		Equipment: "Flatbed",
		Shipper: models.Stop{
			Location:    models.GeoPoint{Str: "Houston, TX", Lat: 29.7604, Lng: -95.3698},
			WindowStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Weight:      40000,
		},
		Consignee: models.Stop{
			Location: models.GeoPoint{Str: "Dallas, TX", Lat: 32.7767, Lng: -96.7970},
		},
		PostedBy: "broker-1",
	}
	return d
}

func newTestMachine(dispatches ...*models.Dispatch) (*StateMachine, *fakeDispatchRepo, *recordingNotifier) {
	repo := newFakeDispatchRepo(dispatches...)
	notifier := &recordingNotifier{}
	m := NewStateMachine(repo, sequence.NewAllocator(newFakeSequenceRepo()), notifier)
	return m, repo, notifier
}

var allStatuses = []models.LoadStatus{
	models.StatusDraft, models.StatusPublished, models.StatusInTransit,
	models.StatusDelivered, models.StatusCompleted, models.StatusInvoiced,
	models.StatusInvoicedPaid, models.StatusCancelled,
}

// Every pair outside the whitelist must be rejected with the status left
// untouched; every pair inside must succeed.
func TestTransition_WhitelistMatrix(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			m, repo, _ := newTestMachine()
			d := draftDispatch("d1", from)
			if from != models.StatusDraft {
				n := int64(77)
				d.LoadNumber = &n
			}
			require.NoError(t, repo.Create(context.Background(), d))

			updated, err := m.Transition(context.Background(), "d1", to)
			stored, _ := repo.GetByID(context.Background(), "d1")

			if CanTransition(from, to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, updated.Status)
				assert.Equal(t, to, stored.Status)
			} else {
				var it *apperrors.InvalidTransitionError
				require.True(t, errors.As(err, &it), "%s -> %s should be invalid", from, to)
				assert.Equal(t, from, stored.Status, "%s -> %s must not change status", from, to)
			}
		}
	}
}

func TestTransition_CancelledOnlyFromPublishedAndInTransit(t *testing.T) {
	assert.True(t, CanTransition(models.StatusPublished, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusInTransit, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusDraft, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusDelivered, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusInvoiced, models.StatusCancelled))
}

func TestTransition_AssignsLoadNumberOnLeavingDraft(t *testing.T) {
	m, repo, _ := newTestMachine(draftDispatch("d1", models.StatusDraft))

	updated, err := m.Transition(context.Background(), "d1", models.StatusPublished)
	require.NoError(t, err)
	require.NotNil(t, updated.LoadNumber)
	assert.Equal(t, int64(1), *updated.LoadNumber)

	stored, _ := repo.GetByID(context.Background(), "d1")
	require.NotNil(t, stored.LoadNumber)
	assert.Equal(t, int64(1), *stored.LoadNumber)

	// A second attempt at the same edge fails and cannot reassign.
	_, err = m.Transition(context.Background(), "d1", models.StatusPublished)
	var it *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &it))
	stored, _ = repo.GetByID(context.Background(), "d1")
	assert.Equal(t, int64(1), *stored.LoadNumber)
}

func TestTransition_KeepsExistingLoadNumber(t *testing.T) {
	d := draftDispatch("d1", models.StatusPublished)
	n := int64(123)
	d.LoadNumber = &n
	m, repo, _ := newTestMachine(d)

	updated, err := m.Transition(context.Background(), "d1", models.StatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, int64(123), *updated.LoadNumber)

	stored, _ := repo.GetByID(context.Background(), "d1")
	assert.Equal(t, int64(123), *stored.LoadNumber)
}

func TestTransition_AssignsInvoiceNumberOnInvoiced(t *testing.T) {
	d := draftDispatch("d1", models.StatusCompleted)
	n := int64(9)
	d.LoadNumber = &n
	m, repo, _ := newTestMachine(d)

	updated, err := m.Transition(context.Background(), "d1", models.StatusInvoiced)
	require.NoError(t, err)
	require.NotNil(t, updated.InvoiceNumber)
	assert.Equal(t, int64(1), *updated.InvoiceNumber)
	require.NotNil(t, updated.InvoiceDate)

	stored, _ := repo.GetByID(context.Background(), "d1")
	require.NotNil(t, stored.InvoiceNumber)
	require.NotNil(t, stored.InvoiceDate)
	// The load number was already present and stays untouched.
	assert.Equal(t, int64(9), *stored.LoadNumber)
}

func TestTransition_NotFound(t *testing.T) {
	m, _, _ := newTestMachine()

	_, err := m.Transition(context.Background(), "missing", models.StatusPublished)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestTransition_EmitsStatusChanged(t *testing.T) {
	m, _, notifier := newTestMachine(draftDispatch("d1", models.StatusDraft))

	_, err := m.Transition(context.Background(), "d1", models.StatusPublished)
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	ev := notifier.events[0]
	assert.Equal(t, models.EventStatusChanged, ev.Type)
	assert.Equal(t, "Draft", ev.TemplateData["previous_status"])
	assert.Equal(t, "Published", ev.TemplateData["new_status"])
	assert.Contains(t, ev.Recipients, "broker-1")
}

func TestTransition_NotificationFailureIsNonFatal(t *testing.T) {
	repo := newFakeDispatchRepo(draftDispatch("d1", models.StatusDraft))
	notifier := &recordingNotifier{fail: errors.New("smtp down")}
	m := NewStateMachine(repo, sequence.NewAllocator(newFakeSequenceRepo()), notifier)

	updated, err := m.Transition(context.Background(), "d1", models.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)

	stored, _ := repo.GetByID(context.Background(), "d1")
	assert.Equal(t, models.StatusPublished, stored.Status)
}

func TestTransition_RacingWriterLosesCleanly(t *testing.T) {
	m, repo, _ := newTestMachine(draftDispatch("d1", models.StatusPublished))

	// Simulate a concurrent transition landing between read and update.
	repo.mu.Lock()
	repo.byID["d1"].Status = models.StatusCancelled
	repo.mu.Unlock()

	_, err := m.Transition(context.Background(), "d1", models.StatusInTransit)
	var it *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &it))
	assert.Equal(t, "Cancelled", it.From)
}

func TestInitializeNew_DraftGetsNoLoadNumber(t *testing.T) {
	m, _, _ := newTestMachine()
	d := draftDispatch("d1", "")

	require.NoError(t, m.InitializeNew(context.Background(), d))
	assert.Equal(t, models.StatusDraft, d.Status)
	assert.Nil(t, d.LoadNumber)
}

func TestInitializeNew_NonDraftAllocatesImmediately(t *testing.T) {
	m, _, _ := newTestMachine()
	d := draftDispatch("d1", models.StatusPublished)

	require.NoError(t, m.InitializeNew(context.Background(), d))
	require.NotNil(t, d.LoadNumber)
	assert.Equal(t, int64(1), *d.LoadNumber)
}
