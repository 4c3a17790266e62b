package devserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dbreno/mugiwaradb/internal/models"
)

func CORS() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})
	return c.Handler
}

// NewRouter wires the full API surface the client consumes.
func NewRouter(server *Server, secret string, logger zerolog.Logger) *mux.Router {
	r := mux.NewRouter()

	rateLimiter := NewRateLimiter(rate.Limit(50), 100)
	r.Use(Recovery(logger))
	r.Use(RequestLogging(logger))
	r.Use(CORS())
	r.Use(rateLimiter.Middleware())

	staffOnly := func(h http.HandlerFunc) http.Handler {
		return TokenAuth(secret, logger)(RequireRole(models.RoleStaff, "Acesso negado!")(h))
	}
	customerOnly := func(h http.HandlerFunc) http.Handler {
		return TokenAuth(secret, logger)(RequireRole(models.RoleCustomer, "Acesso negado: apenas clientes podem fazer compras.")(h))
	}

	r.HandleFunc("/api/produtos", server.ListProducts).Methods("GET")
	r.Handle("/api/produtos", staffOnly(server.CreateProduct)).Methods("POST")
	r.HandleFunc("/api/produtos/buscar", server.SearchProducts).Methods("GET")
	r.HandleFunc("/api/produtos/relatorio", server.StockReport).Methods("GET")
	r.Handle("/api/produtos/{id:[0-9]+}", staffOnly(server.UpdateProduct)).Methods("PUT")
	r.Handle("/api/produtos/{id:[0-9]+}", staffOnly(server.DeleteProduct)).Methods("DELETE")

	r.HandleFunc("/api/login", server.Login).Methods("POST")
	r.HandleFunc("/api/registrar", server.Register).Methods("POST")
	r.Handle("/api/upload", staffOnly(server.Upload)).Methods("POST")

	r.Handle("/api/pedidos", customerOnly(server.CreateOrder)).Methods("POST")
	r.Handle("/api/cliente/perfil", customerOnly(server.Profile)).Methods("GET")
	r.Handle("/api/pedidos/historico", customerOnly(server.OrderHistory)).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
