package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/store"
)

// CartService maintains the client-local cart. The cart lives only on this
// side until checkout commits it server-side.
type CartService struct {
	store   *store.Store
	client  *api.Client
	catalog *CatalogService
	logger  zerolog.Logger
}

func NewCartService(st *store.Store, client *api.Client, catalog *CatalogService, logger zerolog.Logger) *CartService {
	return &CartService{
		store:   st,
		client:  client,
		catalog: catalog,
		logger:  logger,
	}
}

// Add puts one unit of the product in the cart. Requires an active customer
// session; quantities are capped at the product's last-known stock.
func (s *CartService) Add(product models.Product) error {
	if !s.store.Session().IsCustomer() {
		return models.NewValidationFailure("Você precisa estar logado como cliente para adicionar itens ao carrinho!")
	}

	cart := s.store.Cart()
	for i, line := range cart {
		if line.ID != product.ID {
			continue
		}
		if line.Quantity >= product.StockQuantity {
			return models.NewValidationFailure("Você já selecionou a quantidade máxima em estoque!")
		}
		cart[i].Quantity++
		s.store.SetCart(cart)
		return nil
	}

	if product.StockQuantity <= 0 {
		return models.NewValidationFailure("Este tesouro está esgotado!")
	}

	s.store.SetCart(append(cart, models.CartLine{Product: product, Quantity: 1}))
	return nil
}

// Remove drops the whole line for the product id; absent ids are a no-op.
func (s *CartService) Remove(productID int) {
	cart := s.store.Cart()
	kept := cart[:0]
	for _, line := range cart {
		if line.ID != productID {
			kept = append(kept, line)
		}
	}
	s.store.SetCart(kept)
}

func (s *CartService) Total() float64 {
	var total float64
	for _, line := range s.store.Cart() {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (s *CartService) ItemCount() int {
	var count int
	for _, line := range s.store.Cart() {
		count += line.Quantity
	}
	return count
}

// Checkout submits the cart as an order. On success the cart is cleared and
// the catalog refreshed, since stock levels changed server-side. On failure
// the cart is left intact for the user to retry or edit.
func (s *CartService) Checkout(ctx context.Context, paymentMethod string) (*models.OrderConfirmation, error) {
	cart := s.store.Cart()
	if len(cart) == 0 {
		return nil, models.NewValidationFailure("Seu carrinho está vazio!")
	}

	req := models.OrderRequest{PaymentMethod: paymentMethod}
	for _, line := range cart {
		req.Items = append(req.Items, models.OrderItem{ProductID: line.ID, Quantity: line.Quantity})
	}

	confirmation, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Checkout failed")
		return nil, err
	}

	s.store.ClearCart()
	s.logger.Info().Int("order_id", confirmation.OrderID).Msg("Order placed")

	if err := s.catalog.Refresh(ctx); err != nil {
		// The order went through; a failed refresh only leaves the cache stale.
		s.logger.Warn().Err(err).Msg("Catalog refresh after checkout failed")
	}
	return confirmation, nil
}
