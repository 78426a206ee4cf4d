// Package testutil provides an in-memory storefront backend implementing
// the HTTP contract the client is built against, so tests can exercise the
// real transport without a running server.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * time.Minute

// Account is one registered backend user.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PhoneNo      string
	PasswordHash []byte
	Role         string
}

// Product is a catalog entry served by the fake backend.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// CartItem is one stored cart line.
type CartItem struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productId"`
	UserID    int64 `json:"userId"`
	Quantity  int   `json:"quantity"`
}

// Order is one stored order.
type Order struct {
	OrderID       int64  `json:"orderid"`
	ProductID     int64  `json:"productid"`
	UserID        int64  `json:"userid"`
	PaymentStatus string `json:"payment_Status"`
	OrderStatus   string `json:"order_status"`
	OrderDate     string `json:"orderdate"`
	OrderTime     string `json:"ordertime"`
}

// Backend is the fake storefront server. All fields guarded by lock may be
// adjusted by tests between requests.
type Backend struct {
	Server *httptest.Server

	lock     sync.Mutex
	signKey  []byte
	accounts map[string]*Account
	products map[int64]Product
	cart     []CartItem
	orders   []Order
	nextID   int64

	// RotateNextResponse makes the next authorized response carry a fresh
	// token in the Authorization header.
	RotateNextResponse bool
	// ExpireSessions makes every protected call answer 401, simulating
	// token expiry on the server side.
	ExpireSessions bool

	// LastRotatedToken records the most recently issued rotation token.
	LastRotatedToken string
}

// NewBackend starts the fake backend with no accounts or catalog.
func NewBackend() *Backend {
	b := &Backend{
		signKey:  []byte(uuid.New().String()),
		accounts: make(map[string]*Account),
		products: make(map[int64]Product),
		nextID:   1,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", b.handleLogin)
	mux.HandleFunc("POST /register", b.handleRegister)
	mux.HandleFunc("POST /forgot-password", b.handleForgotPassword)
	mux.HandleFunc("POST /reset-password", b.handleResetPassword)
	mux.HandleFunc("/api/", b.handleProtected)
	b.Server = httptest.NewServer(mux)
	return b
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.Server.Close()
}

// URL returns the backend root.
func (b *Backend) URL() string {
	return b.Server.URL
}

// AddAccount registers an account with a bcrypt-hashed password.
func (b *Backend) AddAccount(name, email, password, role string) *Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	account := &Account{
		ID:           b.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	b.nextID++
	b.accounts[email] = account
	return account
}

// AddProduct seeds a catalog entry.
func (b *Backend) AddProduct(p Product) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.products[p.ID] = p
}

// AddCartItem seeds a cart line and returns its id.
func (b *Backend) AddCartItem(userID, productID int64, quantity int) int64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := b.nextID
	b.nextID++
	b.cart = append(b.cart, CartItem{ID: id, ProductID: productID, UserID: userID, Quantity: quantity})
	return id
}

// AddOrder seeds an order.
func (b *Backend) AddOrder(o Order) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.orders = append(b.orders, o)
}

// CartItems returns a copy of the stored cart.
func (b *Backend) CartItems() []CartItem {
	b.lock.Lock()
	defer b.lock.Unlock()
	out := make([]CartItem, len(b.cart))
	copy(out, b.cart)
	return out
}

// OrderStatus returns the stored status for an order.
func (b *Backend) OrderStatus(orderID int64) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, o := range b.orders {
		if o.OrderID == orderID {
			return o.OrderStatus
		}
	}
	return ""
}

// MintToken issues a signed token for the account, as login would.
func (b *Backend) MintToken(account *Account) string {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(account.ID, 10),
		"role": account.Role,
		"jti":  uuid.New().String(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signKey)
	if err != nil {
		panic(err)
	}
	return token
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	account, ok := b.accounts[creds.Email]
	b.lock.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(creds.Password)) != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	fmt.Fprint(w, b.MintToken(account))
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		PhoneNo  string `json:"phoneno"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	_, exists := b.accounts[reg.Email]
	b.lock.Unlock()
	if exists {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	b.AddAccount(reg.Name, reg.Email, reg.Password, "ROLE_USER")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, "Account created")
}

func (b *Backend) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Reset link sent")
}

func (b *Backend) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Password updated")
}

// handleProtected authenticates the bearer token, applies the rotation and
// expiry knobs, then dispatches to the contract handlers.
func (b *Backend) handleProtected(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	expired := b.ExpireSessions
	rotate := b.RotateNextResponse
	b.RotateNextResponse = false
	b.lock.Unlock()

	account := b.authenticate(r)
	if account == nil || expired {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if rotate {
		fresh := b.MintToken(account)
		b.lock.Lock()
		b.LastRotatedToken = fresh
		b.lock.Unlock()
		w.Header().Set("Authorization", "Bearer "+fresh)
	}

	switch {
	case r.URL.Path == "/api/user/home":
		fmt.Fprintf(w, "Welcome to AZCART, %s", account.Name)
	case r.URL.Path == "/api/admin/home":
		if account.Role != "ROLE_ADMIN" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, "Welcome back, %s", account.Name)
	case r.URL.Path == "/api/user/logout":
		fmt.Fprint(w, "Logged out")
	case r.URL.Path == "/api/user/getcartitem":
		b.lock.Lock()
		items := make([]CartItem, 0)
		for _, item := range b.cart {
			if item.UserID == account.ID {
				items = append(items, item)
			}
		}
		b.lock.Unlock()
		writeJSON(w, items)
	case r.URL.Path == "/api/user/addtocart":
		b.handleAddToCart(w, r, account)
	case r.URL.Path == "/api/user/updatequantity":
		b.handleUpdateQuantity(w, r)
	case r.URL.Path == "/api/user/deletecartitem":
		b.handleDeleteCartItem(w, r)
	case r.URL.Path == "/api/user/fetchorder":
		b.lock.Lock()
		out := make([]Order, 0)
		for _, o := range b.orders {
			if o.UserID == account.ID {
				out = append(out, o)
			}
		}
		b.lock.Unlock()
		writeJSON(w, out)
	case strings.HasPrefix(r.URL.Path, "/api/user/cancelorder/"):
		b.handleCancelOrder(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/products/details/"):
		b.handleProductDetails(w, r)
	case r.URL.Path == "/api/user/accountdeletion":
		b.handleAccountDeletion(w, r, account)
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) authenticate(r *http.Request) *Account {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
		return b.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for _, account := range b.accounts {
		if account.ID == id {
			return account
		}
	}
	return nil
}

func (b *Backend) handleAddToCart(w http.ResponseWriter, r *http.Request, account *Account) {
	var payload struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity < 1 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	id := b.nextID
	b.nextID++
	b.cart = append(b.cart, CartItem{ID: id, ProductID: payload.ProductID, UserID: account.ID, Quantity: payload.Quantity})
	b.lock.Unlock()
	fmt.Fprint(w, "Added to cart")
}

func (b *Backend) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var item CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.Quantity < 1 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for i := range b.cart {
		if b.cart[i].ID == item.ID {
			b.cart[i].Quantity = item.Quantity
			fmt.Fprint(w, "Quantity updated")
			return
		}
	}
	http.Error(w, "cart item not found", http.StatusNotFound)
}

func (b *Backend) handleDeleteCartItem(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for i := range b.cart {
		if b.cart[i].ID == id {
			b.cart = append(b.cart[:i], b.cart[i+1:]...)
			fmt.Fprint(w, "Item removed")
			return
		}
	}
	http.Error(w, "cart item not found", http.StatusNotFound)
}

func (b *Backend) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/user/cancelorder/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "malformed order id", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for i := range b.orders {
		if b.orders[i].OrderID == id {
			if b.orders[i].OrderStatus != "NOT DELIVERED" {
				http.Error(w, "order cannot be cancelled", http.StatusConflict)
				return
			}
			b.orders[i].OrderStatus = "CANCELLED"
			fmt.Fprint(w, "Order cancelled")
			return
		}
	}
	http.Error(w, "order not found", http.StatusNotFound)
}

func (b *Backend) handleProductDetails(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/products/details/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "malformed product id", http.StatusBadRequest)
		return
	}

	b.lock.Lock()
	product, ok := b.products[id]
	b.lock.Unlock()
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, product)
}

func (b *Backend) handleAccountDeletion(w http.ResponseWriter, r *http.Request, account *Account) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(strings.TrimSpace(string(data)))) != nil {
		http.Error(w, "incorrect password", http.StatusForbidden)
		return
	}

	b.lock.Lock()
	delete(b.accounts, account.Email)
	b.lock.Unlock()
	fmt.Fprint(w, "Account deleted")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
