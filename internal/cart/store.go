package cart

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Store is the cart state container. All operations are synchronous and
// cannot fail; every mutation persists the full snapshot through the
// configured Storage. The store is owned by a single session goroutine,
// last writer wins on the persisted snapshot.
type Store struct {
	log     *slog.Logger
	storage Storage
	state   State
}

// NewStore rehydrates the cart from storage. A malformed or unreadable
// snapshot yields an empty cart instead of an error.
func NewStore(log *slog.Logger, storage Storage) *Store {
	s := &Store{log: log, storage: storage}

	state, err := storage.Load()
	if err != nil {
		log.Warn("failed to load cart snapshot, starting empty", slog.Any("error", err))
		return s
	}
	s.state = state
	return s
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []Item {
	items := make([]Item, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

func (s *Store) IsOpen() bool {
	return s.state.IsOpen
}

// AddToCart merges the incoming item into an existing line when product id
// and customization both match, otherwise appends a new line.
func (s *Store) AddToCart(item Item) {
	for i := range s.state.Items {
		if sameLine(s.state.Items[i], item.ID, item.Customization) {
			s.state.Items[i].Quantity += item.Quantity
			s.persist()
			return
		}
	}
	s.state.Items = append(s.state.Items, item)
	s.persist()
}

// RemoveFromCart removes the line identified by the compound
// (id, customization) key. Other customized variants of the same product
// are left untouched.
func (s *Store) RemoveFromCart(id int64, cust *Customization) {
	kept := s.state.Items[:0]
	for _, item := range s.state.Items {
		if !sameLine(item, id, cust) {
			kept = append(kept, item)
		}
	}
	s.state.Items = kept
	s.persist()
}

// UpdateQuantity sets (not adds) the quantity of the matching line. A
// quantity of zero or below removes the line entirely.
func (s *Store) UpdateQuantity(id int64, cust *Customization, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(id, cust)
		return
	}
	for i := range s.state.Items {
		if sameLine(s.state.Items[i], id, cust) {
			s.state.Items[i].Quantity = quantity
			break
		}
	}
	s.persist()
}

// ClearCart drops every line, e.g. once the order confirmation page is
// reached.
func (s *Store) ClearCart() {
	s.state.Items = nil
	s.persist()
}

func (s *Store) OpenCart() {
	s.state.IsOpen = true
	s.persist()
}

func (s *Store) CloseCart() {
	s.state.IsOpen = false
	s.persist()
}

func (s *Store) ToggleCart() {
	s.state.IsOpen = !s.state.IsOpen
	s.persist()
}

// Subtotal sums price*quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.state.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Store) persist() {
	if err := s.storage.Save(s.state); err != nil {
		s.log.Error("failed to persist cart snapshot", slog.Any("error", err))
	}
}
