// Package memory is an in-process implementation of the store repositories.
// It backs STORE_DB_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/online-store/store-service/internal/domain"
)

// Store holds every table as a map of values. Repositories copy rows in and
// out so callers never share memory with the store.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	categories   map[uint]domain.Category
	products     map[uint]domain.Product
	discounts    map[uint]domain.Discount
	reservations map[uint]domain.Reservation
	sales        map[uint]domain.Sale
	seq          sequences

	now func() time.Time
}

type sequences struct {
	category, product, discount, reservation, sale uint
}

func NewStore() *Store {
	return &Store{
		categories:   map[uint]domain.Category{},
		products:     map[uint]domain.Product{},
		discounts:    map[uint]domain.Discount{},
		reservations: map[uint]domain.Reservation{},
		sales:        map[uint]domain.Sale{},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type snapshot struct {
	categories   map[uint]domain.Category
	products     map[uint]domain.Product
	discounts    map[uint]domain.Discount
	reservations map[uint]domain.Reservation
	sales        map[uint]domain.Sale
	seq          sequences
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		categories:   maps.Clone(s.categories),
		products:     maps.Clone(s.products),
		discounts:    maps.Clone(s.discounts),
		reservations: maps.Clone(s.reservations),
		sales:        maps.Clone(s.sales),
		seq:          s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = snap.categories
	s.products = snap.products
	s.discounts = snap.discounts
	s.reservations = snap.reservations
	s.sales = snap.sales
	s.seq = snap.seq
}

type txKey struct{}

// Transactor serialises transactions on the store and restores the state
// seen at the start when fn fails.
type Transactor struct {
	store *Store
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func sortedIDs[T any](rows map[uint]T) []uint {
	ids := make([]uint, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// page returns the rows past the cursor that satisfy keep, in id order.
func page[T any](rows map[uint]T, p domain.Page, keep func(T) bool) []T {
	out := []T{}
	for _, id := range sortedIDs(rows) {
		if len(out) == p.Limit {
			break
		}
		row := rows[id]
		if p.After(id) && (keep == nil || keep(row)) {
			out = append(out, row)
		}
	}
	return out
}

func cloneUint(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func contains(ids []uint, id uint) bool {
	return slices.Contains(ids, id)
}

// Row copies. Associations are stripped on the way in and rebuilt on the way
// out; callers hold s.mu.

func (s *Store) categoryOut(c domain.Category) *domain.Category {
	c.ParentID = cloneUint(c.ParentID)
	c.Parent = nil
	c.Subcategories = nil
	return &c
}

func (s *Store) discountOut(d domain.Discount) *domain.Discount {
	d.Description = cloneString(d.Description)
	return &d
}

func (s *Store) productOut(p domain.Product) *domain.Product {
	p.DiscountID = cloneUint(p.DiscountID)
	p.Category = nil
	if category, ok := s.categories[p.CategoryID]; ok {
		p.Category = s.categoryOut(category)
	}
	p.Discount = nil
	if p.DiscountID != nil {
		if discount, ok := s.discounts[*p.DiscountID]; ok {
			p.Discount = s.discountOut(discount)
		}
	}
	p.Reservations = nil
	for _, id := range sortedIDs(s.reservations) {
		reservation := s.reservations[id]
		if reservation.ProductID == p.ID && reservation.Active {
			p.Reservations = append(p.Reservations, reservation)
		}
	}
	return &p
}

func (s *Store) saleOut(sale domain.Sale) *domain.Sale {
	sale.DiscountID = cloneUint(sale.DiscountID)
	sale.Product = nil
	if product, ok := s.products[sale.ProductID]; ok {
		sale.Product = s.productOut(product)
	}
	sale.Discount = nil
	if sale.DiscountID != nil {
		if discount, ok := s.discounts[*sale.DiscountID]; ok {
			sale.Discount = s.discountOut(discount)
		}
	}
	return &sale
}
