package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbreno/mugiwaradb/internal/models"
)

func TestAddRequiresCustomerSession(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	product := models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 2}

	err := env.cart.Add(product)

	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))
	assert.Empty(t, env.store.Cart(), "cart must stay untouched without a session")

	// staff accounts cannot buy either
	env.store.SetSession(&models.Session{UserID: 2, Role: models.RoleStaff})
	require.Error(t, env.cart.Add(product))
	assert.Empty(t, env.store.Cart())
}

func TestAddCapsQuantityAtStock(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	env.store.SetSession(customerSession())
	product := models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 2}

	require.NoError(t, env.cart.Add(product))
	require.NoError(t, env.cart.Add(product))

	err := env.cart.Add(product)
	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))

	cart := env.store.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddOutOfStockProduct(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	env.store.SetSession(customerSession())

	err := env.cart.Add(models.Product{ID: 4, Name: "Chapéu de Palha", StockQuantity: 0})

	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))
	assert.Empty(t, env.store.Cart())
}

func TestCartTotalsAndCounts(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	env.store.SetSession(customerSession())

	logPose := models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 5}
	climaTact := models.Product{ID: 3, Name: "Clima Tact", Price: 300, StockQuantity: 3}

	require.NoError(t, env.cart.Add(logPose))
	require.NoError(t, env.cart.Add(logPose))
	require.NoError(t, env.cart.Add(climaTact))

	assert.Equal(t, 3, env.cart.ItemCount())
	assert.InDelta(t, 400.0, env.cart.Total(), 1e-9)

	// invariants hold against the raw lines too
	var wantCount int
	var wantTotal float64
	for _, line := range env.store.Cart() {
		wantCount += line.Quantity
		wantTotal += line.Price * float64(line.Quantity)
	}
	assert.Equal(t, wantCount, env.cart.ItemCount())
	assert.InDelta(t, wantTotal, env.cart.Total(), 1e-9)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	env.store.SetSession(customerSession())
	require.NoError(t, env.cart.Add(models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 2}))

	env.cart.Remove(999)
	assert.Len(t, env.store.Cart(), 1)

	env.cart.Remove(1)
	assert.Empty(t, env.store.Cart())
}

func TestCheckoutEmptyCartSendsNoRequest(t *testing.T) {
	var orderCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		orderCalls++
	})

	env := newTestEnv(t, mux)
	env.store.SetSession(customerSession())

	_, err := env.cart.Checkout(context.Background(), "Berries")

	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))
	assert.Zero(t, orderCalls)
}

func TestCheckoutSuccessClearsCartAndRefreshes(t *testing.T) {
	var refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		var req models.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Cartão de Crédito", req.PaymentMethod)
		require.Len(t, req.Items, 1)
		assert.Equal(t, models.OrderItem{ProductID: 1, Quantity: 2}, req.Items[0])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.OrderConfirmation{OrderID: 77, Message: "Pedido realizado com sucesso!"})
	})
	mux.HandleFunc("/api/produtos", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		json.NewEncoder(w).Encode([]models.Product{{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 0}})
	})

	env := newTestEnv(t, mux)
	env.store.SetSession(customerSession())
	product := models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 2}
	require.NoError(t, env.cart.Add(product))
	require.NoError(t, env.cart.Add(product))

	confirmation, err := env.cart.Checkout(context.Background(), "Cartão de Crédito")

	require.NoError(t, err)
	assert.Equal(t, 77, confirmation.OrderID)
	assert.Empty(t, env.store.Cart())
	assert.Equal(t, 1, refreshCalls, "stock changed server-side, catalog must refresh")
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"mensagem": "Estoque insuficiente para um dos itens."})
	})

	env := newTestEnv(t, mux)
	env.store.SetSession(customerSession())
	require.NoError(t, env.cart.Add(models.Product{ID: 1, Name: "Log Pose", Price: 50, StockQuantity: 2}))

	_, err := env.cart.Checkout(context.Background(), "Berries")

	require.Error(t, err)
	assert.EqualError(t, err, "Estoque insuficiente para um dos itens.")
	assert.Len(t, env.store.Cart(), 1, "failed checkout leaves the cart for retry")
}
