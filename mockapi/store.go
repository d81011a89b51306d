package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/storefront/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrOutOfStock    = errors.New("out of stock")
)

type userRecord struct {
	models.User
	PasswordHash []byte
}

type orderRecord struct {
	models.Order
	UserID string
}

type resetToken struct {
	UserID  string
	Expires time.Time
}

// Store keeps the whole backend state in memory. Every accessor hands out
// copies so handlers can encode them after the lock is released.
type Store struct {
	mu         sync.RWMutex
	users      []*userRecord
	products   []*models.Product
	categories []*models.Category
	carts      map[string]*models.Cart
	orders     []*orderRecord
	resets     map[string]resetToken
	uploads    map[string][]byte
}

func NewStore() *Store {
	return &Store{
		carts:   make(map[string]*models.Cart),
		resets:  make(map[string]resetToken),
		uploads: make(map[string][]byte),
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// --- users ---

func (s *Store) CreateUser(u models.User, hash []byte) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByEmailLocked(u.Email) != nil {
		return models.User{}, ErrAlreadyExists
	}
	u.ID = newID()
	s.users = append(s.users, &userRecord{User: u, PasswordHash: hash})
	return u, nil
}

func (s *Store) userByEmailLocked(email string) *userRecord {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) userLocked(id string) *userRecord {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserByEmail returns the user and its password hash.
func (s *Store) UserByEmail(email string) (models.User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.userByEmailLocked(email)
	if u == nil {
		return models.User{}, nil, ErrNotFound
	}
	return u.User, append([]byte(nil), u.PasswordHash...), nil
}

func (s *Store) User(id string) (models.User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.userLocked(id)
	if u == nil {
		return models.User{}, nil, ErrNotFound
	}
	return u.User, append([]byte(nil), u.PasswordHash...), nil
}

func (s *Store) Users(query string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if query == "" ||
			strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query) {
			out = append(out, u.User)
		}
	}
	return out
}

// UpdateUser applies fn to the stored record. Changing the email to one that
// another account holds fails with ErrAlreadyExists.
func (s *Store) UpdateUser(id string, fn func(u *models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.userLocked(id)
	if rec == nil {
		return models.User{}, ErrNotFound
	}
	next := rec.User
	fn(&next)
	next.ID = rec.ID
	if !strings.EqualFold(next.Email, rec.Email) {
		if other := s.userByEmailLocked(next.Email); other != nil {
			return models.User{}, ErrAlreadyExists
		}
	}
	rec.User = next
	return next, nil
}

func (s *Store) SetPassword(id string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.userLocked(id)
	if rec == nil {
		return ErrNotFound
	}
	rec.PasswordHash = hash
	return nil
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			delete(s.carts, id)
			return nil
		}
	}
	return ErrNotFound
}

// IssueResetToken stores a single-use token for userID.
func (s *Store) IssueResetToken(userID string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.resets[token] = resetToken{UserID: userID, Expires: time.Now().Add(ttl)}
	return token
}

// ConsumeResetToken returns the owner of token and invalidates it.
func (s *Store) ConsumeResetToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.resets[token]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.resets, token)
	if time.Now().After(rt.Expires) {
		return "", ErrNotFound
	}
	return rt.UserID, nil
}

// --- categories ---

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out
}

func (s *Store) CreateCategory(name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return models.Category{}, ErrAlreadyExists
		}
	}
	c := &models.Category{ID: newID(), Name: name}
	s.categories = append(s.categories, c)
	return *c, nil
}

func (s *Store) RenameCategory(id, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *models.Category
	for _, c := range s.categories {
		if c.ID == id {
			target = c
		} else if strings.EqualFold(c.Name, name) {
			return models.Category{}, ErrAlreadyExists
		}
	}
	if target == nil {
		return models.Category{}, ErrNotFound
	}
	target.Name = name
	return *target, nil
}

// DeleteCategory refuses while products still reference the category.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Category == id {
			return ErrAlreadyExists
		}
	}
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) categoryExistsLocked(id string) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// --- products ---

func copyProduct(p *models.Product) models.Product {
	out := *p
	out.Reviews = append([]models.Review(nil), p.Reviews...)
	return out
}

func (s *Store) productLocked(id string) *models.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Products filters by case-insensitive name keyword and exact category id.
func (s *Store) Products(keyword, category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, copyProduct(p))
	}
	return out
}

func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.productLocked(id)
	if p == nil {
		return models.Product{}, ErrNotFound
	}
	return copyProduct(p), nil
}

func (s *Store) CreateProduct(p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Category != "" && !s.categoryExistsLocked(p.Category) {
		return models.Product{}, ErrNotFound
	}
	now := time.Now().UTC()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Reviews = nil
	p.NumReviews = 0
	s.products = append(s.products, &p)
	return copyProduct(&p), nil
}

func (s *Store) UpdateProduct(id string, fn func(p *models.Product)) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.productLocked(id)
	if p == nil {
		return models.Product{}, ErrNotFound
	}
	next := copyProduct(p)
	fn(&next)
	if next.Category != "" && !s.categoryExistsLocked(next.Category) {
		return models.Product{}, ErrNotFound
	}
	next.ID = p.ID
	next.UpdatedAt = time.Now().UTC()
	*p = next
	return copyProduct(p), nil
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// AddReview appends a review and recomputes the average rating. A user may
// review a product once.
func (s *Store) AddReview(productID string, r models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.productLocked(productID)
	if p == nil {
		return ErrNotFound
	}
	for _, existing := range p.Reviews {
		if existing.User == r.User {
			return ErrAlreadyExists
		}
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	p.Reviews = append(p.Reviews, r)
	p.NumReviews = len(p.Reviews)
	sum := 0
	for _, rv := range p.Reviews {
		sum += rv.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
	return nil
}

func (s *Store) SaveUpload(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[name] = data
}

func (s *Store) Upload(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.uploads[name]
	return data, ok
}

// --- carts ---

func copyCart(c *models.Cart) models.Cart {
	out := *c
	out.CartItems = append([]models.CartItem{}, c.CartItems...)
	return out
}

func (s *Store) cartLocked(userID string) *models.Cart {
	c, ok := s.carts[userID]
	if !ok {
		now := time.Now().UTC()
		c = &models.Cart{ID: newID(), User: userID, CartItems: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
		s.carts[userID] = c
	}
	return c
}

// Cart returns the user's cart with product snapshots refreshed from the
// catalog. Lines whose product was deleted are dropped.
func (s *Store) Cart(userID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartLocked(userID)
	items := c.CartItems[:0]
	for _, item := range c.CartItems {
		p := s.productLocked(item.Product.ID)
		if p == nil {
			continue
		}
		item.Product = snapshot(p)
		items = append(items, item)
	}
	c.CartItems = items
	return copyCart(c)
}

func snapshot(p *models.Product) models.CartProduct {
	return models.CartProduct{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, CountInStock: p.CountInStock}
}

// SetCartQuantity adds delta to the line (add=true) or sets it outright.
// The resulting quantity may not exceed stock.
func (s *Store) SetCartQuantity(userID, productID string, quantity int, add bool) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.productLocked(productID)
	if p == nil {
		return models.Cart{}, ErrNotFound
	}
	c := s.cartLocked(userID)

	idx := -1
	for i, item := range c.CartItems {
		if item.Product.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 && !add {
		return models.Cart{}, ErrNotFound
	}

	next := quantity
	if add && idx >= 0 {
		next += c.CartItems[idx].Quantity
	}
	if next > p.CountInStock {
		return models.Cart{}, ErrOutOfStock
	}

	if idx >= 0 {
		c.CartItems[idx].Quantity = next
		c.CartItems[idx].Product = snapshot(p)
	} else {
		c.CartItems = append(c.CartItems, models.CartItem{Product: snapshot(p), Quantity: next})
	}
	c.UpdatedAt = time.Now().UTC()
	return copyCart(c), nil
}

func (s *Store) RemoveCartItem(userID, productID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartLocked(userID)
	for i, item := range c.CartItems {
		if item.Product.ID == productID {
			c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return copyCart(c), nil
		}
	}
	return models.Cart{}, ErrNotFound
}

// --- orders ---

// PlaceOrder prices the items from the catalog, takes them out of stock and
// out of the buyer's cart, and records the order.
func (s *Store) PlaceOrder(userID string, payload models.OrderPayload) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buyer := s.userLocked(userID)
	if buyer == nil {
		return models.Order{}, ErrNotFound
	}

	items := make([]models.OrderItem, 0, len(payload.OrderItems))
	lines := make([]models.CartItem, 0, len(payload.OrderItems))
	for _, in := range payload.OrderItems {
		p := s.productLocked(in.Product)
		if p == nil {
			return models.Order{}, ErrNotFound
		}
		if in.Quantity > p.CountInStock {
			return models.Order{}, &stockError{Name: p.Name}
		}
		items = append(items, models.OrderItem{
			Name: p.Name, Quantity: in.Quantity, Image: p.Image, Price: p.Price, Product: p.ID,
		})
		lines = append(lines, models.CartItem{Product: snapshot(p), Quantity: in.Quantity})
	}

	for _, it := range items {
		s.productLocked(it.Product).CountInStock -= it.Quantity
	}
	if c, ok := s.carts[userID]; ok {
		keep := c.CartItems[:0]
		for _, line := range c.CartItems {
			if !orderedProduct(items, line.Product.ID) {
				keep = append(keep, line)
			}
		}
		c.CartItems = keep
	}

	id := newID()
	o := &orderRecord{
		UserID: userID,
		Order: models.Order{
			ID:              id,
			OrderCode:       "ORD-" + strings.ToUpper(id[len(id)-8:]),
			User:            &models.OrderUser{Name: buyer.Name, Email: buyer.Email},
			OrderItems:      items,
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   payload.PaymentMethod,
			TotalPrice:      PriceItems(lines).TotalPrice,
			CreatedAt:       time.Now().UTC(),
		},
	}
	s.orders = append(s.orders, o)
	return copyOrder(o), nil
}

func orderedProduct(items []models.OrderItem, productID string) bool {
	for _, it := range items {
		if it.Product == productID {
			return true
		}
	}
	return false
}

type stockError struct {
	Name string
}

func (e *stockError) Error() string {
	return e.Name + " is out of stock"
}

func (e *stockError) Unwrap() error {
	return ErrOutOfStock
}

func copyOrder(o *orderRecord) models.Order {
	out := o.Order
	out.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	if o.User != nil {
		u := *o.User
		out.User = &u
	}
	return out
}

func (s *Store) orderLocked(id string) *orderRecord {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Orders lists orders, optionally only those of ownerID and/or whose buyer
// name contains userName.
func (s *Store) Orders(ownerID, userName string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userName = strings.ToLower(strings.TrimSpace(userName))
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if ownerID != "" && o.UserID != ownerID {
			continue
		}
		if userName != "" && (o.User == nil || !strings.Contains(strings.ToLower(o.User.Name), userName)) {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out
}

// Order returns the order and the id of the user who placed it.
func (s *Store) Order(id string) (models.Order, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o := s.orderLocked(id)
	if o == nil {
		return models.Order{}, "", ErrNotFound
	}
	return copyOrder(o), o.UserID, nil
}

func (s *Store) UpdateOrder(id string, fn func(o *models.Order)) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orderLocked(id)
	if o == nil {
		return models.Order{}, ErrNotFound
	}
	fn(&o.Order)
	return copyOrder(o), nil
}

// CancelOrder removes the order and puts its items back in stock.
func (s *Store) CancelOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		for _, it := range o.OrderItems {
			if p := s.productLocked(it.Product); p != nil {
				p.CountInStock += it.Quantity
			}
		}
		s.orders = append(s.orders[:i], s.orders[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// CartSummary is the cart plus prices, as GET /cart returns it.
func (s *Store) CartSummary(userID string) models.CartSummary {
	c := s.Cart(userID)
	sum := PriceItems(c.CartItems)
	sum.Cart = c
	return sum
}

var (
	freeShippingFrom = decimal.NewFromInt(100)
	flatShipping     = decimal.NewFromInt(10)
	taxRate          = decimal.RequireFromString("0.10")
)

// PriceItems computes items, shipping, tax and total prices. Shipping is free
// from 100 upwards; tax is 10% rounded to cents.
func PriceItems(items []models.CartItem) models.CartSummary {
	itemsPrice := decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(it.LineTotal())
	}
	shipping := flatShipping
	if itemsPrice.GreaterThanOrEqual(freeShippingFrom) || len(items) == 0 {
		shipping = decimal.Zero
	}
	tax := itemsPrice.Mul(taxRate).Round(2)
	return models.CartSummary{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    itemsPrice.Add(shipping).Add(tax),
	}
}
