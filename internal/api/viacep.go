package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/models"
)

// ViaCEPClient prefills the registration address form from a postal code.
// Lookups are best-effort: failures are reported to the user, never retried.
type ViaCEPClient struct {
	baseURL string
	g       *dataflow.Gout
	logger  zerolog.Logger
}

func NewViaCEPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *ViaCEPClient {
	return &ViaCEPClient{
		baseURL: baseURL,
		g:       gout.New(&http.Client{Timeout: timeout}),
		logger:  logger,
	}
}

type viaCEPResponse struct {
	Street   string      `json:"logradouro"`
	District string      `json:"bairro"`
	City     string      `json:"localidade"`
	State    string      `json:"uf"`
	Error    interface{} `json:"erro"`
}

// Lookup resolves a CEP to a partial address. Non-digit characters are
// stripped first; anything other than 8 digits is rejected locally.
func (c *ViaCEPClient) Lookup(ctx context.Context, cep string) (*models.Address, error) {
	digits := digitsOnly(cep)
	if len(digits) != 8 {
		return nil, models.NewValidationFailure("CEP deve ter 8 dígitos.")
	}

	var (
		code int
		body string
	)
	df := c.g.GET(c.baseURL + "/ws/" + digits + "/json/")
	if err := df.WithContext(ctx).Code(&code).BindBody(&body).Do(); err != nil {
		c.logger.Error().Err(err).Str("cep", digits).Msg("CEP lookup failed")
		return nil, models.NewExternalLookupFailure("CEP não encontrado.", err)
	}
	if code < 200 || code >= 300 {
		return nil, models.NewExternalLookupFailure("CEP não encontrado.", nil)
	}

	var resp viaCEPResponse
	if err := json.UnmarshalFromString(body, &resp); err != nil {
		return nil, models.NewExternalLookupFailure("CEP não encontrado.", err)
	}
	if resp.Error != nil {
		return nil, models.NewExternalLookupFailure("CEP não encontrado.", nil)
	}

	return &models.Address{
		CEP:      digits,
		Street:   resp.Street,
		District: resp.District,
		City:     resp.City,
		State:    resp.State,
	}, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
