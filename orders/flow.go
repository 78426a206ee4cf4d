package orders

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the cancellation flow's position.
type State int

const (
	// StateIdle - no cancellation in progress.
	StateIdle State = iota
	// StateConfirmPending - the shopper clicked cancel; awaiting the
	// confirm/decline choice. No server call has been made.
	StateConfirmPending
	// StateCancelling - confirmed; the server call is in flight.
	StateCancelling
	// StateResolved - the backend acknowledged the cancellation.
	StateResolved
	// StateFailed - the backend rejected or the call failed; the order
	// is unchanged and the shopper may retry.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirmPending:
		return "confirm-pending"
	case StateCancelling:
		return "cancelling"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Flow guards the one destructive transition a shopper can trigger on an
// order. Unlike cart mutations it is pessimistic: the local status flips to
// CANCELLED only after the backend acknowledges, never before.
type Flow struct {
	list *List
	log  zerolog.Logger

	mu      sync.Mutex
	state   State
	orderID int64
	lastErr error
}

// NewFlow builds an idle cancellation flow over the order list.
func NewFlow(list *List, log zerolog.Logger) (*Flow, error) {
	if list == nil {
		return nil, errors.New("[NewFlow] order list is required")
	}
	return &Flow{list: list, log: log}, nil
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OrderID returns the order the flow is acting on, when not idle.
func (f *Flow) OrderID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// Err returns the failure from the last attempt, when in StateFailed.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Request starts a cancellation for orderID. Only an idle flow accepts it,
// and only for an order that is still NOT DELIVERED.
func (f *Flow) Request(orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return errors.Wrapf(ErrInvalidTransition, "request from %s", f.state)
	}

	order, ok := f.list.Get(orderID)
	if !ok {
		return errors.Wrapf(ErrOrderNotFound, "order %d", orderID)
	}
	if !order.Cancellable() {
		return errors.Wrapf(ErrNotCancellable, "order %d is %s", orderID, order.OrderStatus)
	}

	f.orderID = orderID
	f.state = StateConfirmPending
	return nil
}

// Decline abandons a pending confirmation. No server call was made, so
// nothing needs undoing.
func (f *Flow) Decline() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateConfirmPending {
		return errors.Wrapf(ErrInvalidTransition, "decline from %s", f.state)
	}
	f.state = StateIdle
	f.orderID = 0
	return nil
}

// Confirm issues the cancellation to the backend. On acknowledgment the
// order's local status becomes CANCELLED and the flow resolves; on failure
// the status is untouched and the flow parks in StateFailed until the
// shopper acknowledges.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateConfirmPending {
		f.mu.Unlock()
		return errors.Wrapf(ErrInvalidTransition, "confirm from %s", f.state)
	}
	orderID := f.orderID
	f.state = StateCancelling
	f.mu.Unlock()

	err := f.list.gateway.CancelOrder(ctx, orderID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		f.log.Warn().Err(err).Int64("order_id", orderID).Msg("cancellation failed")
		return errors.Wrapf(err, "[Flow.Confirm] order %d", orderID)
	}

	f.list.markCancelled(orderID)
	f.state = StateResolved
	f.lastErr = nil
	f.log.Info().Int64("order_id", orderID).Msg("order cancelled")
	return nil
}

// Acknowledge returns the flow to idle after a resolved or failed attempt,
// letting the shopper retry or move on.
func (f *Flow) Acknowledge() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateFailed && f.state != StateResolved {
		return errors.Wrapf(ErrInvalidTransition, "acknowledge from %s", f.state)
	}
	f.state = StateIdle
	f.orderID = 0
	f.lastErr = nil
	return nil
}
