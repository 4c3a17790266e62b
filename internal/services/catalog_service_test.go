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

func sampleCache() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Mapa da Grand Line", Price: 120.5, StockQuantity: 7, Category: "Mapas"},
		{ID: 2, Name: "Log Pose", Price: 50, StockQuantity: 2, Category: "Mapas"},
		{ID: 3, Name: "Clima Tact", Price: 300, StockQuantity: 3, Category: "Armas"},
	}
}

func TestDeriveViewIsPure(t *testing.T) {
	cache := sampleCache()
	filter := models.FilterState{Sort: models.SortPriceDesc}

	first := DeriveView(cache, filter)
	second := DeriveView(cache, filter)

	assert.Equal(t, first, second)
	// applying the selector to its own output changes nothing
	assert.Equal(t, first, DeriveView(first, filter))
	// the input cache keeps its original order
	assert.Equal(t, sampleCache(), cache)
}

func TestDeriveViewCategoryFilter(t *testing.T) {
	view := DeriveView(sampleCache(), models.FilterState{Category: "Mapas", Sort: models.SortNameAsc})

	require.Len(t, view, 2)
	assert.Equal(t, "Log Pose", view[0].Name)
	assert.Equal(t, "Mapa da Grand Line", view[1].Name)
	for _, p := range view {
		assert.Equal(t, "Mapas", p.Category)
	}
}

func TestDeriveViewPriceBounds(t *testing.T) {
	min, max := 60.0, 300.0
	view := DeriveView(sampleCache(), models.FilterState{PriceMin: &min, PriceMax: &max, Sort: models.SortPriceAsc})

	require.Len(t, view, 2)
	assert.Equal(t, "Mapa da Grand Line", view[0].Name)
	assert.Equal(t, "Clima Tact", view[1].Name)
}

func TestDeriveViewBoundsAreInclusive(t *testing.T) {
	min, max := 50.0, 50.0
	view := DeriveView(sampleCache(), models.FilterState{PriceMin: &min, PriceMax: &max})

	require.Len(t, view, 1)
	assert.Equal(t, "Log Pose", view[0].Name)
}

func TestDeriveViewSortOptions(t *testing.T) {
	cache := sampleCache()

	names := func(view []models.Product) []string {
		out := make([]string, len(view))
		for i, p := range view {
			out[i] = p.Name
		}
		return out
	}

	assert.Equal(t, []string{"Clima Tact", "Log Pose", "Mapa da Grand Line"},
		names(DeriveView(cache, models.FilterState{Sort: models.SortNameAsc})))
	assert.Equal(t, []string{"Mapa da Grand Line", "Log Pose", "Clima Tact"},
		names(DeriveView(cache, models.FilterState{Sort: models.SortNameDesc})))
	assert.Equal(t, []string{"Log Pose", "Mapa da Grand Line", "Clima Tact"},
		names(DeriveView(cache, models.FilterState{Sort: models.SortPriceAsc})))
	assert.Equal(t, []string{"Clima Tact", "Mapa da Grand Line", "Log Pose"},
		names(DeriveView(cache, models.FilterState{Sort: models.SortPriceDesc})))
}

func TestUniqueCategories(t *testing.T) {
	categories := UniqueCategories(sampleCache())
	assert.Equal(t, []string{"Armas", "Mapas"}, categories)

	assert.Empty(t, UniqueCategories(nil))
}

func TestRefreshReplacesCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/produtos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleCache())
	})

	env := newTestEnv(t, mux)
	env.store.SetProducts([]models.Product{{ID: 99, Name: "Velho"}})

	require.NoError(t, env.catalog.Refresh(context.Background()))

	assert.Len(t, env.store.Products(), 3)
	assert.False(t, env.store.Loading())
	assert.Empty(t, env.store.LastError())
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/produtos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "Den Den Mushi quebrado"})
	})

	env := newTestEnv(t, mux)
	previous := sampleCache()
	env.store.SetProducts(previous)

	err := env.catalog.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, previous, env.store.Products())
	assert.False(t, env.store.Loading())
	assert.Equal(t, "Den Den Mushi quebrado", env.store.LastError())
}

func TestSearchBlankTermBehavesLikeRefresh(t *testing.T) {
	var listCalls, searchCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/produtos", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		json.NewEncoder(w).Encode(sampleCache())
	})
	mux.HandleFunc("/api/produtos/buscar", func(w http.ResponseWriter, r *http.Request) {
		searchCalls++
		json.NewEncoder(w).Encode([]models.Product{})
	})

	env := newTestEnv(t, mux)
	require.NoError(t, env.catalog.Search(context.Background(), "   "))

	assert.Equal(t, 1, listCalls)
	assert.Zero(t, searchCalls)
}

func TestSearchReplacesCacheWithSubset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/produtos/buscar", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Log Pose", r.URL.Query().Get("nome"))
		json.NewEncoder(w).Encode([]models.Product{sampleCache()[1]})
	})

	env := newTestEnv(t, mux)
	env.store.SetProducts(sampleCache())

	require.NoError(t, env.catalog.Search(context.Background(), "Log Pose"))

	products := env.store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Log Pose", products[0].Name)
}

func TestStaleCatalogResponseIsDiscarded(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	older := env.catalog.begin()
	newer := env.catalog.begin()

	// older response arrives last but must not win
	require.NoError(t, env.catalog.apply(newer, sampleCache(), nil))
	require.NoError(t, env.catalog.apply(older, []models.Product{{ID: 42, Name: "Atrasado"}}, nil))

	assert.Equal(t, sampleCache(), env.store.Products())
}
