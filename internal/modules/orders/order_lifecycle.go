package orders

import (
	"fmt"

	"reader-booking/internal/models"
)

// MutationKind tags the lifecycle operation a mutation performs.
type MutationKind string

const (
	MutationAssign   MutationKind = "assign"
	MutationAccept   MutationKind = "accept"
	MutationCancel   MutationKind = "cancel"
	MutationUpdate   MutationKind = "update"
	MutationReject   MutationKind = "reject"
	MutationComplete MutationKind = "complete"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	UserID int64
	Role   models.Role
}

// MutationPayload carries the kind-specific input: the reader to assign, or
// the field edits for an update. Unused fields are ignored.
type MutationPayload struct {
	ReaderID int64
	Fields   models.UpdateOrderRequest
}

// Transition decides whether actor may apply the given mutation to the
// order in its current state, and if so, which fields it would change. It is
// pure: no I/O, no clock, no cache access. The returned patch describes the
// expected effect; callers still patch the cache from server-confirmed state
// only.
//
// Assignment and acceptance are distinct transitions on purpose: assigning
// attaches a reader without their consent, accepting records the reader's
// confirmation. Neither implies the other.
func Transition(o models.Order, kind MutationKind, actor Actor, payload MutationPayload) (models.OrderPatch, error) {
	status := o.Status()
	if status.IsTerminal() {
		return models.OrderPatch{}, fmt.Errorf("%s on %s order: %w", kind, status, models.ErrTransitionNotAllowed)
	}

	switch kind {
	case MutationAssign:
		return transitionAssign(o, status, actor, payload.ReaderID)
	case MutationAccept:
		return transitionAccept(o, status, actor)
	case MutationCancel:
		return transitionCancel(o, status, actor)
	case MutationUpdate:
		return transitionUpdate(o, status, actor, payload.Fields)
	case MutationReject:
		return transitionReject(o, status, actor)
	case MutationComplete:
		return transitionComplete(status)
	default:
		return models.OrderPatch{}, fmt.Errorf("unknown mutation %q: %w", kind, models.ErrTransitionNotAllowed)
	}
}

// transitionAssign: admin binds a reader to a pending order. Re-assigning an
// order that already has a reader is disallowed.
func transitionAssign(o models.Order, status models.OrderStatus, actor Actor, readerID int64) (models.OrderPatch, error) {
	if actor.Role != models.RoleAdmin {
		return models.OrderPatch{}, fmt.Errorf("assign requires admin role: %w", models.ErrTransitionNotAllowed)
	}
	if readerID <= 0 {
		return models.OrderPatch{}, fmt.Errorf("assign requires a selected reader: %w", models.ErrTransitionNotAllowed)
	}
	if status != models.StatusPending || o.ReaderID != nil {
		return models.OrderPatch{}, fmt.Errorf("assign on %s order: %w", status, models.ErrTransitionNotAllowed)
	}
	return models.OrderPatch{ReaderID: &readerID}, nil
}

// transitionAccept: the assigned reader confirms, or a reader claims a
// still-unassigned pending order.
func transitionAccept(o models.Order, status models.OrderStatus, actor Actor) (models.OrderPatch, error) {
	if actor.Role != models.RoleReader {
		return models.OrderPatch{}, fmt.Errorf("accept requires reader role: %w", models.ErrTransitionNotAllowed)
	}
	switch status {
	case models.StatusPending:
	case models.StatusAssigned:
		if o.ReaderID == nil || *o.ReaderID != actor.UserID {
			return models.OrderPatch{}, models.ErrNotAssignedReader
		}
	default:
		return models.OrderPatch{}, fmt.Errorf("accept on %s order: %w", status, models.ErrTransitionNotAllowed)
	}
	accepted := true
	readerID := actor.UserID
	return models.OrderPatch{ReaderID: &readerID, IsAccepted: &accepted}, nil
}

// transitionCancel: the owning client withdraws an order that is still
// pending. Once a reader is attached the client can no longer cancel.
func transitionCancel(o models.Order, status models.OrderStatus, actor Actor) (models.OrderPatch, error) {
	if actor.Role != models.RoleClient || o.ClientID != actor.UserID {
		return models.OrderPatch{}, models.ErrNotOrderOwner
	}
	if status != models.StatusPending {
		return models.OrderPatch{}, fmt.Errorf("cancel on %s order: %w", status, models.ErrTransitionNotAllowed)
	}
	deleted := true
	return models.OrderPatch{IsDeleted: &deleted}, nil
}

// transitionUpdate: address/date/coordinate edits are permitted only while
// the order is still pending.
func transitionUpdate(o models.Order, status models.OrderStatus, actor Actor, fields models.UpdateOrderRequest) (models.OrderPatch, error) {
	if actor.Role != models.RoleClient || o.ClientID != actor.UserID {
		return models.OrderPatch{}, models.ErrNotOrderOwner
	}
	if status != models.StatusPending {
		return models.OrderPatch{}, fmt.Errorf("update on %s order: %w", status, models.ErrTransitionNotAllowed)
	}
	return fields.Patch(), nil
}

// transitionReject: the assigned reader declines from any non-terminal state.
func transitionReject(o models.Order, status models.OrderStatus, actor Actor) (models.OrderPatch, error) {
	if actor.Role != models.RoleReader {
		return models.OrderPatch{}, fmt.Errorf("reject requires reader role: %w", models.ErrTransitionNotAllowed)
	}
	if o.ReaderID == nil || *o.ReaderID != actor.UserID {
		return models.OrderPatch{}, models.ErrNotAssignedReader
	}
	rejected := true
	return models.OrderPatch{IsRejected: &rejected}, nil
}

// transitionComplete: accepted orders are closed out by the backend, not by
// a user-facing control.
func transitionComplete(status models.OrderStatus) (models.OrderPatch, error) {
	if status != models.StatusAccepted {
		return models.OrderPatch{}, fmt.Errorf("complete on %s order: %w", status, models.ErrTransitionNotAllowed)
	}
	completed := true
	return models.OrderPatch{IsCompleted: &completed}, nil
}
