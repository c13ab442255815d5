package orders

import (
	"context"
	"fmt"
	"sync"

	"reader-booking/internal/models"
)

// MutationAPI is the slice of the backend client the coordinator needs.
type MutationAPI interface {
	Assign(ctx context.Context, orderID, readerID int64) (models.Order, error)
	Accept(ctx context.Context, orderID, readerID int64) (models.Order, error)
	Update(ctx context.Context, orderID int64, fields models.UpdateOrderRequest) (models.Order, error)
	Cancel(ctx context.Context, orderID int64) (models.Order, error)
	Reject(ctx context.Context, orderID int64) (models.Order, error)
}

// Notice is the transient success signal a mutation leaves behind. The
// coordinator never expires it; the consuming view clears it after showing
// its toast.
type Notice struct {
	Kind    MutationKind
	Message string
}

var noticeMessages = map[MutationKind]string{
	MutationAssign: "Reader assigned",
	MutationAccept: "Order accepted",
	MutationCancel: "Order cancelled",
	MutationUpdate: "Order updated",
	MutationReject: "Order rejected",
}

// Coordinator orchestrates order mutations for one view: it guards against
// duplicate in-flight mutations, validates the transition locally, sends the
// request, and on success patches the view's cache with the
// server-confirmed fields.
type Coordinator struct {
	store *Store
	api   MutationAPI
	actor Actor

	mu     sync.Mutex
	notice *Notice
}

// NewCoordinator wires a coordinator to a view's store and the backend
// client, acting on behalf of the logged-in user.
func NewCoordinator(store *Store, api MutationAPI, actor Actor) *Coordinator {
	return &Coordinator{store: store, api: api, actor: actor}
}

// Mutate runs one lifecycle mutation against the order with the given id.
// It fails with ErrConcurrentMutation before any network call when the
// order is absent from the cache or already has a mutation in flight, and
// with a transition error when the order's status forbids the operation. On
// success the cache is patched from the server's response and a notice is
// recorded.
func (c *Coordinator) Mutate(ctx context.Context, orderID int64, kind MutationKind, payload MutationPayload) (models.OrderPatch, error) {
	cached, ok := c.store.Get(orderID)
	if !ok {
		return models.OrderPatch{}, fmt.Errorf("order %d not in view: %w", orderID, models.ErrConcurrentMutation)
	}
	if err := c.store.BeginMutation(orderID); err != nil {
		return models.OrderPatch{}, fmt.Errorf("order %d: %w", orderID, err)
	}
	defer c.store.EndMutation(orderID)

	// Local guard first so illegal transitions never hit the network.
	if _, err := Transition(cached, kind, c.actor, payload); err != nil {
		return models.OrderPatch{}, err
	}

	confirmed, err := c.send(ctx, orderID, kind, payload)
	if err != nil {
		// The cached order stays untouched; the caller surfaces the
		// message (server text verbatim when present).
		return models.OrderPatch{}, err
	}

	patch := models.ConfirmedPatch(confirmed)
	c.store.PatchOne(orderID, patch)
	c.setNotice(kind)
	return patch, nil
}

func (c *Coordinator) send(ctx context.Context, orderID int64, kind MutationKind, payload MutationPayload) (models.Order, error) {
	switch kind {
	case MutationAssign:
		return c.api.Assign(ctx, orderID, payload.ReaderID)
	case MutationAccept:
		return c.api.Accept(ctx, orderID, c.actor.UserID)
	case MutationUpdate:
		return c.api.Update(ctx, orderID, payload.Fields)
	case MutationCancel:
		return c.api.Cancel(ctx, orderID)
	case MutationReject:
		return c.api.Reject(ctx, orderID)
	default:
		return models.Order{}, fmt.Errorf("mutation %q has no endpoint: %w", kind, models.ErrTransitionNotAllowed)
	}
}

func (c *Coordinator) setNotice(kind MutationKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = &Notice{Kind: kind, Message: noticeMessages[kind]}
}

// Notice returns the pending success signal, if any.
func (c *Coordinator) Notice() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

// ClearNotice dismisses the success signal. Auto-dismiss timing is the
// view's concern, not the coordinator's.
func (c *Coordinator) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}
