package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/store"
)

// AccountService serves the authenticated customer reads: profile and order
// history. Both go straight to the server; nothing is cached client-side.
type AccountService struct {
	store  *store.Store
	client *api.Client
	logger zerolog.Logger
}

func NewAccountService(st *store.Store, client *api.Client, logger zerolog.Logger) *AccountService {
	return &AccountService{
		store:  st,
		client: client,
		logger: logger,
	}
}

func (s *AccountService) Profile(ctx context.Context) (*models.Profile, error) {
	if s.store.Session() == nil {
		return nil, models.NewValidationFailure("Você precisa estar logado para ver o perfil.")
	}
	return s.client.Profile(ctx)
}

func (s *AccountService) OrderHistory(ctx context.Context) ([]models.OrderHistoryEntry, error) {
	if s.store.Session() == nil {
		return nil, models.NewValidationFailure("Você precisa estar logado para ver o histórico.")
	}
	return s.client.OrderHistory(ctx)
}
