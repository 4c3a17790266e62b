package api

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dbreno/mugiwaradb/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AuthHeader carries the credential on authenticated requests.
const AuthHeader = "x-access-token"

const fallbackMessage = "Falha ao contactar a loja. O Den Den Mushi pode estar fora de alcance!"

// Client talks to the store backend. It holds the current credential and
// attaches it to the endpoints that require one; while logged out those
// endpoints send an empty credential and the server rejects them.
type Client struct {
	baseURL string
	g       *dataflow.Gout
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration, requestsPerSec float64, logger zerolog.Logger) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 10
	}
	burst := int(requestsPerSec)
	if burst < 1 {
		burst = 1
	}
	hc := &http.Client{Timeout: timeout}
	return &Client{
		baseURL: baseURL,
		g:       gout.New(hc),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), burst),
		logger:  logger,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) authHeaders() gout.H {
	return gout.H{AuthHeader: c.Token()}
}

// exec runs a prepared request, maps transport and status errors onto the
// failure taxonomy, and decodes a 2xx body into out when out is non-nil.
func (c *Client) exec(ctx context.Context, df *dataflow.DataFlow, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.NewNetworkFailure(fallbackMessage, err)
	}

	var (
		code int
		body string
	)
	if err := df.WithContext(ctx).Code(&code).BindBody(&body).Do(); err != nil {
		c.logger.Error().Err(err).Msg("Request failed")
		return models.NewNetworkFailure(fallbackMessage, err)
	}

	if code < 200 || code >= 300 {
		return failureFromStatus(code, body)
	}

	if out != nil && body != "" {
		if err := json.UnmarshalFromString(body, out); err != nil {
			c.logger.Error().Err(err).Int("status", code).Msg("Malformed response body")
			return models.NewNetworkFailure(fallbackMessage, err)
		}
	}
	return nil
}

// apiError covers both error body shapes the backend uses.
type apiError struct {
	Message  string `json:"message"`
	Mensagem string `json:"mensagem"`
}

func failureFromStatus(code int, body string) error {
	message := fallbackMessage
	var payload apiError
	if err := json.UnmarshalFromString(body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Mensagem != "" {
			message = payload.Mensagem
		}
	}

	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return models.NewAuthFailure(message, nil)
	}
	return models.NewNetworkFailure(message, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.exec(ctx, c.g.GET(c.url("/api/produtos")), &products)
	return products, err
}

func (c *Client) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	df := c.g.GET(c.url("/api/produtos/buscar")).SetQuery(gout.H{"nome": name})
	err := c.exec(ctx, df, &products)
	return products, err
}

func (c *Client) StockReport(ctx context.Context) (*models.StockReport, error) {
	var report models.StockReport
	if err := c.exec(ctx, c.g.GET(c.url("/api/produtos/relatorio")), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) CreateProduct(ctx context.Context, product models.Product) error {
	df := c.g.POST(c.url("/api/produtos")).
		SetHeader(c.authHeaders()).
		SetJSON(product)
	return c.exec(ctx, df, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, product models.Product) error {
	df := c.g.PUT(c.url("/api/produtos/"+strconv.Itoa(product.ID))).
		SetHeader(c.authHeaders()).
		SetJSON(product)
	return c.exec(ctx, df, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	df := c.g.DELETE(c.url("/api/produtos/" + strconv.Itoa(id))).
		SetHeader(c.authHeaders())
	return c.exec(ctx, df, nil)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp models.LoginResponse
	df := c.g.POST(c.url("/api/login")).SetJSON(req)
	if err := c.exec(ctx, df, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	df := c.g.POST(c.url("/api/registrar")).SetJSON(req)
	return c.exec(ctx, df, nil)
}

type uploadResponse struct {
	Filepath string `json:"filepath"`
}

// Upload sends one image file and returns the server-side path to reference
// in the product record.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (string, error) {
	var resp uploadResponse
	df := c.g.POST(c.url("/api/upload")).
		SetHeader(c.authHeaders()).
		SetForm(gout.H{
			"file": gout.FormType{
				FileName:    filepath.Base(filename),
				ContentType: "application/octet-stream",
				File:        gout.FormMem(content),
			},
		})
	if err := c.exec(ctx, df, &resp); err != nil {
		return "", err
	}
	return resp.Filepath, nil
}

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	var confirmation models.OrderConfirmation
	df := c.g.POST(c.url("/api/pedidos")).
		SetHeader(c.authHeaders()).
		SetJSON(req)
	if err := c.exec(ctx, df, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	df := c.g.GET(c.url("/api/cliente/perfil")).SetHeader(c.authHeaders())
	if err := c.exec(ctx, df, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) OrderHistory(ctx context.Context) ([]models.OrderHistoryEntry, error) {
	var history []models.OrderHistoryEntry
	df := c.g.GET(c.url("/api/pedidos/historico")).SetHeader(c.authHeaders())
	err := c.exec(ctx, df, &history)
	return history, err
}
