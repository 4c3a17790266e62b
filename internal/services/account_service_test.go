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

func TestAccountReadsRequireSession(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { calls++ })

	env := newTestEnv(t, mux)

	_, err := env.account.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))

	_, err = env.account.OrderHistory(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsValidationFailure(err))

	assert.Zero(t, calls, "no request leaves the client while logged out")
}

func TestProfileAndHistoryReads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cliente/perfil", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Profile{ID: 7, Name: "Monkey D. Luffy", HasDiscount: true})
	})
	mux.HandleFunc("/api/pedidos/historico", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.OrderHistoryEntry{
			{OrderID: 77, PaymentMethod: "Berries", Total: 100},
		})
	})

	env := newTestEnv(t, mux)
	env.store.SetSession(customerSession())

	profile, err := env.account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Monkey D. Luffy", profile.Name)
	assert.True(t, profile.HasDiscount)

	history, err := env.account.OrderHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 77, history[0].OrderID)
}
