package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dbreno/mugiwaradb/internal/models"
)

// Server implements the store API contract in memory for development and
// integration tests.
type Server struct {
	data      *DataStore
	secret    string
	uploadDir string
	logger    zerolog.Logger
}

func NewServer(data *DataStore, secret, uploadDir string, logger zerolog.Logger) *Server {
	return &Server{
		data:      data,
		secret:    secret,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

func (s *Server) issueToken(acc *Account) (string, error) {
	claims := &tokenClaims{
		UserID:      acc.ID,
		Role:        string(acc.Role),
		HasDiscount: acc.HasDiscount,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.ListProducts())
}

func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("nome")
	if name == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"status": "erro", "mensagem": "Parâmetro 'nome' é obrigatório."})
		return
	}
	respondJSON(w, http.StatusOK, s.data.SearchProducts(name))
}

func (s *Server) StockReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.StockReport())
}

func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondMessage(w, http.StatusBadRequest, "Dados do produto inválidos.")
		return
	}
	id := s.data.InsertProduct(product)
	s.logger.Info().Int("product_id", id).Str("name", product.Name).Msg("Product created")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":     "sucesso",
		"mensagem":   "Produto criado!",
		"id_produto": id,
	})
}

func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "ID inválido.")
		return
	}
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondMessage(w, http.StatusBadRequest, "Dados do produto inválidos.")
		return
	}
	if err := s.data.UpdateProduct(id, product); err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"status": "erro", "mensagem": "Produto não encontrado."})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "sucesso", "mensagem": "Produto alterado!"})
}

func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "ID inválido.")
		return
	}
	if err := s.data.DeleteProduct(id); err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"status": "erro", "mensagem": "Produto não encontrado."})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "sucesso", "mensagem": "Produto removido!"})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusUnauthorized, "Não foi possível verificar")
		return
	}

	acc, err := s.data.Authenticate(req.Email, req.Password)
	switch err {
	case nil:
	case ErrUnknownEmail:
		respondMessage(w, http.StatusUnauthorized, "Email não encontrado!")
		return
	default:
		respondMessage(w, http.StatusUnauthorized, "Senha incorreta!")
		return
	}

	token, err := s.issueToken(acc)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token signing failed")
		respondMessage(w, http.StatusInternalServerError, "Erro no servidor.")
		return
	}
	respondJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Dados de registro inválidos.")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Dados essenciais (nome, email, senha) são obrigatórios.")
		return
	}

	id, err := s.data.RegisterCustomer(req)
	if err == ErrEmailTaken {
		respondMessage(w, http.StatusConflict, "Já existe uma conta com este email.")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Registration failed")
		respondMessage(w, http.StatusInternalServerError, "Erro no servidor ao registrar.")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Cliente registrado com sucesso!",
		"id_cliente": id,
	})
}

var allowedImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"status": "erro", "mensagem": "Nenhum arquivo enviado."})
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." {
		respondJSON(w, http.StatusBadRequest, map[string]string{"status": "erro", "mensagem": "Nenhum arquivo selecionado."})
		return
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(name))] {
		respondJSON(w, http.StatusBadRequest, map[string]string{"status": "erro", "mensagem": "Tipo de arquivo não permitido."})
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Erro no servidor.")
		return
	}
	dest := filepath.Join(s.uploadDir, name)
	out, err := os.Create(dest)
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "Erro no servidor.")
		return
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Erro no servidor.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"status":   "sucesso",
		"filepath": "/" + filepath.ToSlash(dest),
	})
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token é inválido!")
		return
	}

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		respondMessage(w, http.StatusBadRequest, "Carrinho vazio ou dados inválidos.")
		return
	}

	order, err := s.data.CreateOrder(userID, req.PaymentMethod, req.Items)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"mensagem": orderFailureMessage(err)})
		return
	}

	s.logger.Info().Int("order_id", order.ID).Int("user_id", userID).Msg("Order created")
	respondJSON(w, http.StatusCreated, models.OrderConfirmation{
		OrderID: order.ID,
		Message: "Pedido realizado com sucesso!",
	})
}

func orderFailureMessage(err error) string {
	switch err {
	case ErrProductNotFound:
		return "Produto não encontrado."
	case ErrInsufficientStock:
		return "Estoque insuficiente para um dos itens."
	default:
		return "Falha ao finalizar o pedido."
	}
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token é inválido!")
		return
	}
	acc, ok := s.data.AccountByID(userID)
	if !ok {
		respondMessage(w, http.StatusNotFound, "Cliente não encontrado.")
		return
	}
	respondJSON(w, http.StatusOK, models.Profile{
		ID:          acc.ID,
		Name:        acc.Name,
		Email:       acc.Email,
		Phone:       acc.Phone,
		Address:     acc.Address,
		HasDiscount: acc.HasDiscount,
	})
}

func (s *Server) OrderHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token é inválido!")
		return
	}

	orders := s.data.OrdersFor(userID)
	history := make([]models.OrderHistoryEntry, 0, len(orders))
	for _, o := range orders {
		history = append(history, models.OrderHistoryEntry{
			OrderID:       o.ID,
			PlacedAt:      o.PlacedAt.Format(time.RFC3339),
			PaymentMethod: o.PaymentMethod,
			Total:         o.Total,
			Items:         o.Items,
		})
	}
	respondJSON(w, http.StatusOK, history)
}
