package services

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/credstore"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/store"
)

type testEnv struct {
	store   *store.Store
	client  *api.Client
	creds   *credstore.Store
	session *SessionService
	catalog *CatalogService
	cart    *CartService
	editor  *EditorService
	account *AccountService
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	st := store.New()
	client := api.NewClient(srv.URL, 5*time.Second, 1000, log)
	viacep := api.NewViaCEPClient(srv.URL, 5*time.Second, log)

	creds, err := credstore.Open(filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { creds.Close() })

	catalog := NewCatalogService(st, client, log)
	return &testEnv{
		store:   st,
		client:  client,
		creds:   creds,
		session: NewSessionService(st, client, creds, viacep, log),
		catalog: catalog,
		cart:    NewCartService(st, client, catalog, log),
		editor:  NewEditorService(client, catalog, log),
		account: NewAccountService(st, client, log),
	}
}

// signedToken builds a decodable token; DecodeSession never checks the
// signature, so the signing key is irrelevant here.
func signedToken(t *testing.T, userID int, role models.UserRole, discount bool, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"id":           userID,
		"tipo":         string(role),
		"tem_desconto": discount,
		"exp":          expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func customerSession() *models.Session {
	return &models.Session{
		UserID:    7,
		Role:      models.RoleCustomer,
		ExpiresAt: time.Now().Add(time.Hour),
		Token:     "cart-test-token",
	}
}
