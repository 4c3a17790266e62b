package store

import (
	"sync"

	"github.com/dbreno/mugiwaradb/internal/models"
)

// Store is the single owner of all client state: session, product cache,
// filter configuration and cart. Views are never kept here; callers derive
// them on read with the catalog selectors.
//
// The controller is single-writer: one interaction mutates state at a time.
// The mutex only protects snapshot consistency for readers.
type Store struct {
	mu       sync.RWMutex
	session  *models.Session
	products []models.Product
	filter   models.FilterState
	cart     []models.CartLine
	loading  bool
	lastErr  string
}

func New() *Store {
	return &Store{filter: models.DefaultFilterState()}
}

func (s *Store) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

func (s *Store) SetSession(session *models.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

func (s *Store) ClearSession() {
	s.SetSession(nil)
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// SetProducts replaces the whole cache; partial merges never happen.
func (s *Store) SetProducts(products []models.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

func (s *Store) ProductByID(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Store) Filter() models.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) SetFilter(filter models.FilterState) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

func (s *Store) Cart() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) SetCart(cart []models.CartLine) {
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
}

func (s *Store) ClearCart() {
	s.SetCart(nil)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) SetLastError(message string) {
	s.mu.Lock()
	s.lastErr = message
	s.mu.Unlock()
}
