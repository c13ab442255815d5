package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"reader-booking/internal/models"
	"reader-booking/internal/modules/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI scripts mutation responses and counts calls. The optional gate
// blocks Assign until released, to model an in-flight request.
type fakeAPI struct {
	mu      sync.Mutex
	calls   int
	respond func(orderID int64) (models.Order, error)
	gate    chan struct{}
}

func (f *fakeAPI) record() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) Assign(_ context.Context, orderID, readerID int64) (models.Order, error) {
	f.record()
	if f.gate != nil {
		<-f.gate
	}
	return f.respond(orderID)
}

func (f *fakeAPI) Accept(_ context.Context, orderID, _ int64) (models.Order, error) {
	f.record()
	return f.respond(orderID)
}

func (f *fakeAPI) Update(_ context.Context, orderID int64, _ models.UpdateOrderRequest) (models.Order, error) {
	f.record()
	return f.respond(orderID)
}

func (f *fakeAPI) Cancel(_ context.Context, orderID int64) (models.Order, error) {
	f.record()
	return f.respond(orderID)
}

func (f *fakeAPI) Reject(_ context.Context, orderID int64) (models.Order, error) {
	f.record()
	return f.respond(orderID)
}

func seededStore(t *testing.T, os ...models.Order) *orders.Store {
	t.Helper()
	s := orders.NewStore()
	s.ReplacePage(models.NewPage(os, len(os), models.LimitSmall), models.Query{Page: 1, Limit: 10})
	return s
}

func TestMutateAssignPatchesCache(t *testing.T) {
	cached := models.Order{ID: 7, ClientID: 11, City: "Reykjavik"}
	store := seededStore(t, cached)

	readerID := int64(3)
	api := &fakeAPI{respond: func(orderID int64) (models.Order, error) {
		confirmed := cached
		confirmed.ReaderID = &readerID
		return confirmed, nil
	}}
	coord := orders.NewCoordinator(store, api, orders.Actor{UserID: 1, Role: models.RoleAdmin})

	_, err := coord.Mutate(context.Background(), 7, orders.MutationAssign, orders.MutationPayload{ReaderID: 3})
	require.NoError(t, err)

	got, ok := store.Get(7)
	require.True(t, ok)
	require.NotNil(t, got.ReaderID)
	assert.EqualValues(t, 3, *got.ReaderID)
	assert.Equal(t, models.StatusAssigned, got.Status())

	notice, ok := coord.Notice()
	require.True(t, ok)
	assert.Equal(t, orders.MutationAssign, notice.Kind)

	coord.ClearNotice()
	_, ok = coord.Notice()
	assert.False(t, ok)
}

func TestMutateWhileInFlightIsConcurrentMutation(t *testing.T) {
	cached := models.Order{ID: 7, ClientID: 11}
	store := seededStore(t, cached)

	readerID := int64(3)
	gate := make(chan struct{})
	api := &fakeAPI{
		gate: gate,
		respond: func(orderID int64) (models.Order, error) {
			confirmed := cached
			confirmed.ReaderID = &readerID
			return confirmed, nil
		},
	}
	coord := orders.NewCoordinator(store, api, orders.Actor{UserID: 1, Role: models.RoleAdmin})

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := coord.Mutate(context.Background(), 7, orders.MutationAssign, orders.MutationPayload{ReaderID: 3})
		done <- err
	}()
	<-started
	require.Eventually(t, func() bool { return store.InFlight(7) },
		time.Second, time.Millisecond, "first mutation never took the in-flight mark")

	// Second assign while the first is still on the wire: guarded locally,
	// no second network call.
	_, err := coord.Mutate(context.Background(), 7, orders.MutationAssign, orders.MutationPayload{ReaderID: 9})
	assert.ErrorIs(t, err, models.ErrConcurrentMutation)
	assert.Equal(t, 1, api.callCount())

	close(gate)
	require.NoError(t, <-done)
}

func TestMutateUncachedOrderIsConcurrentMutation(t *testing.T) {
	store := seededStore(t, models.Order{ID: 1, ClientID: 11})
	api := &fakeAPI{respond: func(int64) (models.Order, error) { return models.Order{}, nil }}
	coord := orders.NewCoordinator(store, api, orders.Actor{UserID: 1, Role: models.RoleAdmin})

	_, err := coord.Mutate(context.Background(), 404, orders.MutationAssign, orders.MutationPayload{ReaderID: 3})
	assert.ErrorIs(t, err, models.ErrConcurrentMutation)
	assert.Zero(t, api.callCount())
}

func TestMutateIllegalTransitionSkipsNetwork(t *testing.T) {
	cached := models.Order{ID: 5, ClientID: 11}
	readerID := int64(3)
	cached.ReaderID = &readerID
	cached.IsAccepted = true
	store := seededStore(t, cached)

	api := &fakeAPI{respond: func(int64) (models.Order, error) { return models.Order{}, nil }}
	coord := orders.NewCoordinator(store, api, orders.Actor{UserID: 11, Role: models.RoleClient})

	_, err := coord.Mutate(context.Background(), 5, orders.MutationCancel, orders.MutationPayload{})
	assert.ErrorIs(t, err, models.ErrTransitionNotAllowed)
	assert.Zero(t, api.callCount())

	// The cached order is unchanged and free for the next attempt.
	got, _ := store.Get(5)
	assert.False(t, got.IsDeleted)
	assert.False(t, store.InFlight(5))
}

func TestMutateServerFailureLeavesCacheUntouched(t *testing.T) {
	cached := models.Order{ID: 7, ClientID: 11, City: "Reykjavik"}
	store := seededStore(t, cached)

	api := &fakeAPI{respond: func(int64) (models.Order, error) {
		return models.Order{}, &models.ServerError{StatusCode: 409, Message: "reader unavailable"}
	}}
	coord := orders.NewCoordinator(store, api, orders.Actor{UserID: 1, Role: models.RoleAdmin})

	_, err := coord.Mutate(context.Background(), 7, orders.MutationAssign, orders.MutationPayload{ReaderID: 3})
	require.Error(t, err)
	assert.Equal(t, "reader unavailable", models.UserMessage(err))

	got, _ := store.Get(7)
	assert.Nil(t, got.ReaderID)
	assert.False(t, store.InFlight(7))

	_, ok := coord.Notice()
	assert.False(t, ok)
}

func TestUserMessageFallback(t *testing.T) {
	err := &models.ServerError{StatusCode: 500}
	assert.Equal(t, "Something went wrong, please try again", models.UserMessage(err))
}
