// Package cart is the persisted shopping cart: an ordered list of
// quantity-keyed line items. It lives beside the session controller, not
// under it: the cart survives login and logout cycles on its own key and is
// only wiped when the session controller clears the whole store.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/riarumoda/hjslamet-frontend/internal/clientstore"
	"github.com/riarumoda/hjslamet-frontend/internal/events"
	"github.com/riarumoda/hjslamet-frontend/internal/logging"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
)

type Store struct {
	store  clientstore.Store
	events *events.Producer
	log    *slog.Logger

	mu    sync.Mutex
	lines []models.CartLine
}

// New loads the persisted cart. A corrupt cart row is dropped and the cart
// starts empty, matching how every other client-store reader recovers.
func New(store clientstore.Store, ev *events.Producer, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{store: store, events: ev, log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the persisted snapshot, picking up external changes such
// as the session controller clearing the cart key on logout.
func (s *Store) Reload() error {
	var lines []models.CartLine
	_, err := clientstore.ReadJSON(s.store, clientstore.KeyCart, &lines)
	if err != nil {
		if !errors.Is(err, clientstore.ErrCorrupt) {
			return err
		}
		s.log.Warn("persisted cart corrupt, starting empty", "error", err)
		if derr := s.store.Delete(clientstore.KeyCart); derr != nil {
			return derr
		}
		lines = nil
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Add merges by product id: an existing line has its quantity incremented,
// a new product is appended. Quantities below one count as one.
func (s *Store) Add(ctx context.Context, line models.CartLine) error {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID {
			s.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, line)
	}
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return err
	}
	s.publish(ctx, map[string]any{"type": "add_cart_items", "productID": line.ProductID, "quantity": line.Quantity})
	return nil
}

// Remove deletes the line for productID; removing an absent product is a
// no-op.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return err
	}
	s.publish(ctx, map[string]any{"type": "cart_item_deleted", "productID": productID})
	return nil
}

// SetQuantity overwrites the quantity as given. It does not clamp; enforcing
// a minimum of one is the caller's job.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return err
	}
	s.publish(ctx, map[string]any{"type": "cart_quantity_set", "productID": productID, "quantity": quantity})
	return nil
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return err
	}
	s.publish(ctx, map[string]any{"type": "cart_cleared"})
	return nil
}

// persist writes the full snapshot synchronously after every mutation. Carts
// are small; simplicity beats write batching here.
func (s *Store) persist() error {
	s.mu.Lock()
	snapshot := make([]models.CartLine, len(s.lines))
	copy(snapshot, s.lines)
	s.mu.Unlock()
	return clientstore.PutJSON(s.store, clientstore.KeyCart, snapshot)
}

func (s *Store) publish(ctx context.Context, event map[string]any) {
	s.events.Publish(ctx, events.TopicCartEvents, "cart", event)
}
