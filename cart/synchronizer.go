package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/azcart/storefront-client/api"
)

// Synchronizer holds the client's view of the cart: an ordered list of
// lines plus a keyed map of product snapshots joined in by independent
// fetches. Quantity updates and deletes apply locally first and roll back
// if the backend rejects them; the total is always derived from current
// state, never cached.
//
// A Synchronizer is scoped to one view's lifetime. All fetches honour the
// view's context, and a fetch that resolves after cancellation never
// writes into state.
type Synchronizer struct {
	gateway Gateway
	log     zerolog.Logger

	mu       sync.Mutex
	items    []api.CartItem
	products map[int64]api.Product
}

// NewSynchronizer builds an empty Synchronizer over gateway.
func NewSynchronizer(gateway Gateway, log zerolog.Logger) (*Synchronizer, error) {
	if gateway == nil {
		return nil, errors.New("[NewSynchronizer] gateway is required")
	}
	return &Synchronizer{
		gateway:  gateway,
		log:      log,
		products: make(map[int64]api.Product),
	}, nil
}

// Load fetches the cart lines, then fans out one product-detail fetch per
// distinct product id. The fetches run concurrently and may complete in any
// order; each merges into the keyed snapshot map independently, so the
// result is the same for every interleaving. A failed detail fetch is
// logged and leaves its lines unresolved - the rest of the cart still loads.
func (s *Synchronizer) Load(ctx context.Context) error {
	items, err := s.gateway.CartItems(ctx)
	if err != nil {
		return errors.Wrap(err, "[Synchronizer.Load] cart items")
	}

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = items
	distinct := make(map[int64]struct{}, len(items))
	for _, item := range items {
		distinct[item.ProductID] = struct{}{}
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for productID := range distinct {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.mergeProduct(ctx, id)
		}(productID)
	}
	wg.Wait()

	return ctx.Err()
}

// mergeProduct fetches one snapshot and folds it into the keyed map. The
// merge is idempotent: the last server snapshot for a product id wins.
func (s *Synchronizer) mergeProduct(ctx context.Context, productID int64) {
	product, err := s.gateway.ProductDetails(ctx, productID)
	if err != nil {
		s.log.Warn().Err(err).Int64("product_id", productID).Msg("product detail fetch failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		// The owning view has been torn down; drop the result.
		return
	}
	s.products[productID] = product
}

// Add puts a product into the cart and reloads, since the backend assigns
// the new line id. This is the one cart mutation that is not optimistic.
func (s *Synchronizer) Add(ctx context.Context, productID int64, quantity int) (string, error) {
	msg, err := s.gateway.AddToCart(ctx, productID, quantity)
	if err != nil {
		return "", errors.Wrap(err, "[Synchronizer.Add]")
	}
	if err := s.Load(ctx); err != nil {
		return msg, errors.Wrap(err, "[Synchronizer.Add] reload")
	}
	return msg, nil
}

// UpdateQuantity sets a line's quantity, applying locally before the
// backend call. Quantities below 1 are rejected locally with no network
// call: a line that should vanish must be deleted, not zeroed. If the
// backend rejects the update, the previous quantity is restored.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return errors.Wrapf(ErrLineNotFound, "line %d", lineID)
	}
	previous := s.items[idx].Quantity
	s.items[idx].Quantity = quantity
	updated := s.items[idx]
	s.mu.Unlock()

	if err := s.gateway.UpdateQuantity(ctx, updated); err != nil {
		s.rollbackQuantity(lineID, previous)
		return errors.Wrapf(err, "[Synchronizer.UpdateQuantity] line %d", lineID)
	}
	return nil
}

func (s *Synchronizer) rollbackQuantity(lineID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(lineID); idx >= 0 {
		s.items[idx].Quantity = quantity
		s.log.Warn().Int64("line_id", lineID).Int("quantity", quantity).Msg("quantity update rejected, rolled back")
	}
}

// Delete removes a line locally, then tells the backend. A rejected delete
// reinstates the line at its original position.
func (s *Synchronizer) Delete(ctx context.Context, lineID int64) error {
	s.mu.Lock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return errors.Wrapf(ErrLineNotFound, "line %d", lineID)
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	if err := s.gateway.DeleteCartItem(ctx, lineID); err != nil {
		s.reinstate(removed, idx)
		return errors.Wrapf(err, "[Synchronizer.Delete] line %d", lineID)
	}
	return nil
}

func (s *Synchronizer) reinstate(item api.CartItem, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx > len(s.items) {
		idx = len(s.items)
	}
	s.items = append(s.items[:idx], append([]api.CartItem{item}, s.items[idx:]...)...)
	s.log.Warn().Int64("line_id", item.ID).Msg("delete rejected, line reinstated")
}

// Lines returns the merged view in cart order.
func (s *Synchronizer) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, 0, len(s.items))
	for _, item := range s.items {
		line := Line{Item: item, ImageURL: s.gateway.ProductImageURL(item.ProductID)}
		if product, ok := s.products[item.ProductID]; ok {
			p := product
			line.Product = &p
		}
		lines = append(lines, line)
	}
	return lines
}

// Total derives the cart total from current state. Lines whose product
// snapshot has not resolved yet contribute 0.
func (s *Synchronizer) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		if product, ok := s.products[item.ProductID]; ok {
			total += float64(item.Quantity) * product.Price
		}
	}
	return total
}

// Len returns the number of lines currently held.
func (s *Synchronizer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// indexOf must be called with the lock held.
func (s *Synchronizer) indexOf(lineID int64) int {
	for i, item := range s.items {
		if item.ID == lineID {
			return i
		}
	}
	return -1
}
