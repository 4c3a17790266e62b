package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/credstore"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/store"
)

// SessionService owns the login lifecycle: restoring a persisted credential
// at startup, logging in and out, and registering new customers.
type SessionService struct {
	store  *store.Store
	client *api.Client
	creds  *credstore.Store
	viacep *api.ViaCEPClient
	logger zerolog.Logger
}

func NewSessionService(st *store.Store, client *api.Client, creds *credstore.Store, viacep *api.ViaCEPClient, logger zerolog.Logger) *SessionService {
	return &SessionService{
		store:  st,
		client: client,
		creds:  creds,
		viacep: viacep,
		logger: logger,
	}
}

type tokenClaims struct {
	UserID      int    `json:"id"`
	Role        string `json:"tipo"`
	HasDiscount bool   `json:"tem_desconto"`
	jwt.RegisteredClaims
}

// DecodeSession derives a Session from a raw token payload without any
// network call or signature check; the server remains the authority on
// validity. It reports false for malformed tokens and for expiry timestamps
// that are not in the future.
func DecodeSession(token string, now time.Time) (*models.Session, bool) {
	if token == "" {
		return nil, false
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return nil, false
	}

	return &models.Session{
		UserID:      claims.UserID,
		Role:        models.UserRole(claims.Role),
		HasDiscount: claims.HasDiscount,
		ExpiresAt:   claims.ExpiresAt.Time,
		Token:       token,
	}, true
}

// Restore loads the persisted credential, if any, and accepts it only while
// its embedded expiry is in the future. Expired or malformed credentials are
// cleared so the next start does not retry them.
func (s *SessionService) Restore() error {
	token, err := s.creds.Load()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if token == "" {
		s.store.ClearSession()
		s.client.ClearToken()
		return nil
	}

	session, ok := DecodeSession(token, time.Now())
	if !ok {
		s.logger.Warn().Msg("Stored credential expired or malformed, clearing it")
		if err := s.creds.Clear(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to clear stored credential")
		}
		s.store.ClearSession()
		s.client.ClearToken()
		return nil
	}

	s.store.SetSession(session)
	s.client.SetToken(token)
	s.logger.Info().Int("user_id", session.UserID).Str("role", string(session.Role)).Msg("Session restored")
	return nil
}

// Login is a single attempt; retries are left to the user.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return models.NewValidationFailure("Email e senha são obrigatórios.")
	}

	token, err := s.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Warn().Str("email", email).Msg("Login failed")
		return err
	}

	session, ok := DecodeSession(token, time.Now())
	if !ok {
		return models.NewAuthFailure("Falha no login.", nil)
	}

	if err := s.creds.Save(token); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist credential")
	}
	s.store.SetSession(session)
	s.client.SetToken(token)
	s.logger.Info().Int("user_id", session.UserID).Str("role", string(session.Role)).Msg("Logged in")
	return nil
}

// Logout takes effect locally without any server call.
func (s *SessionService) Logout() {
	s.store.ClearSession()
	s.client.ClearToken()
	if err := s.creds.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear stored credential")
	}
	s.logger.Info().Msg("Logged out")
}

func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return models.NewValidationFailure("Dados essenciais (nome, email, senha) são obrigatórios.")
	}

	if err := s.client.Register(ctx, req); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Registration failed")
		return err
	}

	s.logger.Info().Str("email", req.Email).Msg("Account registered")
	return nil
}

// LookupAddress prefills the registration address from a postal code.
func (s *SessionService) LookupAddress(ctx context.Context, cep string) (*models.Address, error) {
	return s.viacep.Lookup(ctx, cep)
}
