package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dbreno/mugiwaradb/internal/models"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrUnknownEmail      = errors.New("unknown email")
	ErrWrongPassword     = errors.New("wrong password")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Account struct {
	ID           int
	Name         string
	Email        string
	PasswordHash []byte
	Phone        string
	Address      models.Address
	Role         models.UserRole
	HasDiscount  bool
}

type Order struct {
	ID            int
	UserID        int
	PaymentMethod string
	PlacedAt      time.Time
	Total         float64
	Items         []models.OrderItem
}

// DataStore is the in-memory backing of the dev stub server. It mimics the
// real backend's behavior closely enough for the client to be developed and
// tested against it, nothing more.
type DataStore struct {
	mu            sync.Mutex
	products      map[int]models.Product
	nextProductID int
	accounts      map[string]*Account
	nextAccountID int
	orders        []Order
	nextOrderID   int
}

func NewDataStore() *DataStore {
	return &DataStore{
		products:      make(map[int]models.Product),
		nextProductID: 1,
		accounts:      make(map[string]*Account),
		nextAccountID: 1,
		nextOrderID:   1,
	}
}

// Seed loads the demo catalog and two accounts: a customer and a staff
// member, both with password "senha123".
func (d *DataStore) Seed() error {
	seedProducts := []models.Product{
		{Name: "Log Pose", Description: "Aponta sempre para a próxima ilha.", Price: 50, StockQuantity: 2, Category: "Mapas", ImageURL: "/static/uploads/produtos/log-pose.png"},
		{Name: "Mapa da Grand Line", Description: "Edição de navegador, levemente rasgado.", Price: 120.5, StockQuantity: 7, Category: "Mapas"},
		{Name: "Clima Tact", Description: "Três estágios, assistência de tempestade inclusa.", Price: 300, StockQuantity: 3, Category: "Armas", MadeInMari: true},
		{Name: "Chapéu de Palha", Description: "Réplica do original. Não trocar por nada.", Price: 75, StockQuantity: 0, Category: "Vestuário"},
	}
	for _, p := range seedProducts {
		d.InsertProduct(p)
	}

	accounts := []Account{
		{Name: "Monkey D. Luffy", Email: "luffy@mugiwara.com", Role: models.RoleCustomer, HasDiscount: true, Phone: "(83) 99999-0001"},
		{Name: "Nami", Email: "nami@mugiwara.com", Role: models.RoleStaff, Phone: "(83) 99999-0002"},
	}
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		acc.PasswordHash = hash
		if err := d.addAccount(acc); err != nil {
			return err
		}
	}
	return nil
}

func (d *DataStore) addAccount(acc Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[acc.Email]; exists {
		return ErrEmailTaken
	}
	acc.ID = d.nextAccountID
	d.nextAccountID++
	d.accounts[acc.Email] = &acc
	return nil
}

func (d *DataStore) ListProducts() []models.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Product, 0, len(d.products))
	for _, p := range d.products {
		out = append(out, p)
	}
	// the real backend lists ORDER BY nome
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (d *DataStore) SearchProducts(name string) []models.Product {
	needle := strings.ToLower(name)
	all := d.ListProducts()
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (d *DataStore) GetProduct(id int) (models.Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.products[id]
	return p, ok
}

func (d *DataStore) InsertProduct(p models.Product) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.ID = d.nextProductID
	d.nextProductID++
	d.products[p.ID] = p
	return p.ID
}

func (d *DataStore) UpdateProduct(id int, p models.Product) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[id]; !ok {
		return ErrProductNotFound
	}
	p.ID = id
	d.products[id] = p
	return nil
}

func (d *DataStore) DeleteProduct(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(d.products, id)
	return nil
}

func (d *DataStore) StockReport() models.StockReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	report := models.StockReport{DistinctProducts: len(d.products)}
	for _, p := range d.products {
		report.TotalStockValue += p.Price * float64(p.StockQuantity)
	}
	return report
}

func (d *DataStore) Authenticate(email, password string) (*Account, error) {
	d.mu.Lock()
	acc, ok := d.accounts[email]
	d.mu.Unlock()
	if !ok {
		return nil, ErrUnknownEmail
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return acc, nil
}

func (d *DataStore) RegisterCustomer(req models.RegisterRequest) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	acc := Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleCustomer,
		HasDiscount:  req.RootsForFlamengo || req.WatchesOnePiece || req.BornInSousa,
	}
	if err := d.addAccount(acc); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accounts[req.Email].ID, nil
}

func (d *DataStore) AccountByID(id int) (*Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, acc := range d.accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return nil, false
}

// CreateOrder checks and decrements stock for every item atomically; any
// failing item aborts the whole order.
func (d *DataStore) CreateOrder(userID int, paymentMethod string, items []models.OrderItem) (Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var total float64
	for _, item := range items {
		p, ok := d.products[item.ProductID]
		if !ok {
			return Order{}, ErrProductNotFound
		}
		if item.Quantity <= 0 || item.Quantity > p.StockQuantity {
			return Order{}, ErrInsufficientStock
		}
		total += p.Price * float64(item.Quantity)
	}

	for _, item := range items {
		p := d.products[item.ProductID]
		p.StockQuantity -= item.Quantity
		d.products[item.ProductID] = p
	}

	order := Order{
		ID:            d.nextOrderID,
		UserID:        userID,
		PaymentMethod: paymentMethod,
		PlacedAt:      time.Now(),
		Total:         total,
		Items:         items,
	}
	d.nextOrderID++
	d.orders = append(d.orders, order)
	return order, nil
}

func (d *DataStore) OrdersFor(userID int) []Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Order, 0)
	for _, o := range d.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}
