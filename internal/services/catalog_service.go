package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/store"
)

// CatalogService keeps the client-side product cache in sync with the store
// backend. Each fetch carries a generation number; a response belonging to a
// superseded generation is discarded so the cache always reflects the most
// recently issued request, not merely the last one to arrive.
type CatalogService struct {
	store  *store.Store
	client *api.Client
	logger zerolog.Logger

	gen atomic.Uint64
	mu  sync.Mutex
}

func NewCatalogService(st *store.Store, client *api.Client, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:  st,
		client: client,
		logger: logger,
	}
}

// Refresh replaces the whole cache from GET /api/produtos.
func (s *CatalogService) Refresh(ctx context.Context) error {
	gen := s.begin()
	products, err := s.client.ListProducts(ctx)
	return s.apply(gen, products, err)
}

// Search fetches a server-side filtered subset by product name. A blank term
// behaves exactly like Refresh. Results replace the cache; they are never
// merged with the full listing.
func (s *CatalogService) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.Refresh(ctx)
	}

	gen := s.begin()
	products, err := s.client.SearchProducts(ctx, term)
	return s.apply(gen, products, err)
}

func (s *CatalogService) StockReport(ctx context.Context) (*models.StockReport, error) {
	return s.client.StockReport(ctx)
}

// View derives the current product listing from cache and filter state.
func (s *CatalogService) View() []models.Product {
	return DeriveView(s.store.Products(), s.store.Filter())
}

func (s *CatalogService) Categories() []string {
	return UniqueCategories(s.store.Products())
}

func (s *CatalogService) begin() uint64 {
	gen := s.gen.Add(1)
	s.store.SetLoading(true)
	s.store.SetLastError("")
	return gen
}

func (s *CatalogService) apply(gen uint64, products []models.Product, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen.Load() {
		// Superseded by a newer fetch; its outcome owns the cache now.
		s.logger.Debug().Uint64("generation", gen).Msg("Discarding stale catalog response")
		return nil
	}

	s.store.SetLoading(false)
	if err != nil {
		s.logger.Error().Err(err).Msg("Catalog fetch failed")
		s.store.SetLastError(err.Error())
		return err
	}

	s.store.SetProducts(products)
	s.logger.Info().Int("count", len(products)).Msg("Catalog cache replaced")
	return nil
}

// Name ordering is locale-aware; the catalog is Brazilian Portuguese.
var (
	collatorMu   sync.Mutex
	nameCollator = collate.New(language.BrazilianPortuguese)
)

func compareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return nameCollator.CompareString(a, b)
}

// DeriveView filters by exact category, then by inclusive price bounds, then
// sorts by the chosen key. It is pure: the input cache is never mutated and
// equal inputs always yield the same ordering.
func DeriveView(cache []models.Product, filter models.FilterState) []models.Product {
	view := make([]models.Product, 0, len(cache))
	for _, p := range cache {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.PriceMin != nil && p.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && p.Price > *filter.PriceMax {
			continue
		}
		view = append(view, p)
	}

	sort.SliceStable(view, func(i, j int) bool {
		switch filter.Sort {
		case models.SortNameDesc:
			return compareNames(view[i].Name, view[j].Name) > 0
		case models.SortPriceAsc:
			return view[i].Price < view[j].Price
		case models.SortPriceDesc:
			return view[i].Price > view[j].Price
		default:
			return compareNames(view[i].Name, view[j].Name) < 0
		}
	})
	return view
}

// UniqueCategories lists the distinct category values across the cache in
// alphabetical order.
func UniqueCategories(cache []models.Product) []string {
	seen := make(map[string]struct{}, len(cache))
	categories := make([]string, 0, len(cache))
	for _, p := range cache {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}
