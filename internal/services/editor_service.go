package services

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/models"
)

// EditorService backs the staff product form. Editing always happens on a
// scratch draft; the cached catalog is only touched through the refresh that
// follows a successful save or delete.
type EditorService struct {
	client  *api.Client
	catalog *CatalogService
	logger  zerolog.Logger
}

func NewEditorService(client *api.Client, catalog *CatalogService, logger zerolog.Logger) *EditorService {
	return &EditorService{
		client:  client,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *EditorService) OpenCreate() *models.ProductDraft {
	return &models.ProductDraft{
		Product: models.Product{Price: 0.01, StockQuantity: 1},
	}
}

// OpenEdit snapshots an existing product; later edits never reach the cache.
func (s *EditorService) OpenEdit(product models.Product) *models.ProductDraft {
	return &models.ProductDraft{Product: product}
}

// Save validates locally, uploads a selected image first when present, then
// dispatches create or update. A failed upload aborts the save before any
// product mutation request is sent.
func (s *EditorService) Save(ctx context.Context, draft *models.ProductDraft) error {
	if draft.Price <= 0 {
		return models.NewValidationFailure("O preço deve ser maior que zero!")
	}
	if draft.StockQuantity < 0 {
		return models.NewValidationFailure("A quantidade em estoque não pode ser negativa!")
	}

	if draft.ImageFile != "" {
		content, err := os.ReadFile(draft.ImageFile)
		if err != nil {
			return models.NewValidationFailure("Não foi possível ler o arquivo de imagem selecionado.")
		}
		path, err := s.client.Upload(ctx, draft.ImageFile, content)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", draft.ImageFile).Msg("Image upload failed, aborting save")
			return err
		}
		draft.ImageURL = path
		draft.ImageFile = ""
	}

	var err error
	if draft.IsNew() {
		err = s.client.CreateProduct(ctx, draft.Product)
	} else {
		err = s.client.UpdateProduct(ctx, draft.Product)
	}
	if err != nil {
		return err
	}

	s.logger.Info().Int("product_id", draft.ID).Str("name", draft.Name).Msg("Product saved")
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Catalog refresh after save failed")
	}
	return nil
}

// Delete issues the request only after the confirmation callback approves;
// a declined confirmation is a silent no-op.
func (s *EditorService) Delete(ctx context.Context, id int, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int("product_id", id).Msg("Product deleted")
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Catalog refresh after delete failed")
	}
	return nil
}
