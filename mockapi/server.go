// Package mockapi is an in-memory stand-in for the storefront REST backend.
// It implements the endpoints the client SDK calls so the SDK, the screens
// and the console can run end to end without the real service.
package mockapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/storefront/models"
)

type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	AdminName      string
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins []string
	// Requests per second per client IP; zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
	PageSize  int
	ResetTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost; tests lower it.
	BcryptCost int
	Logger     *zap.Logger
}

type Server struct {
	cfg    Config
	store  *Store
	tokens *TokenService
	log    *zap.Logger
	// hash turns a plaintext password into the stored hash.
	hash func(password string) ([]byte, error)
}

// New builds a server and seeds the admin account.
func New(cfg Config) (*Server, error) {
	tokens, err := NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 10 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 50
	}
	if cfg.AdminName == "" {
		cfg.AdminName = "Admin"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{cfg: cfg, store: NewStore(), tokens: tokens, log: log}
	s.hash = func(password string) ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	}
	if cfg.AdminEmail != "" {
		if _, err := s.createUser(models.User{Name: cfg.AdminName, Email: cfg.AdminEmail, IsAdmin: true}, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	return s, nil
}

// Store exposes the backing state, mostly for tests and seeding.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) createUser(u models.User, password string) (models.User, error) {
	if len(password) < 6 {
		return models.User{}, errors.New("password must be at least 6 characters")
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.store.CreateUser(u, hash)
}

func (s *Server) hashPassword(password string) ([]byte, error) {
	return s.hash(password)
}

// SeedDemoCatalog fills an empty store with a few categories and products.
func (s *Server) SeedDemoCatalog() error {
	phones, err := s.store.CreateCategory("Phones")
	if err != nil {
		return err
	}
	audio, err := s.store.CreateCategory("Audio")
	if err != nil {
		return err
	}

	demo := []models.Product{
		{Name: "iPhone 15", Price: decimal.RequireFromString("999.00"), Category: phones.ID, Rating: 5, CountInStock: 7,
			Image: "/images/iphone-15.png", Description: "Apple smartphone with a 6.1-inch display."},
		{Name: "Samsung Galaxy S24", Price: decimal.RequireFromString("849.50"), Category: phones.ID, Rating: 4, CountInStock: 12,
			Image: "/images/galaxy-s24.png", Description: "Android flagship with a 120Hz screen."},
		{Name: "Samsung Galaxy A15", Price: decimal.RequireFromString("199.90"), Category: phones.ID, Rating: 4, CountInStock: 0,
			Image: "", Description: "Budget phone with a large battery."},
		{Name: "AirPods Pro", Price: decimal.RequireFromString("249.00"), Category: audio.ID, Rating: 5, CountInStock: 3,
			Image: "/images/airpods-pro.png", Description: "Noise-cancelling earbuds."},
		{Name: "USB-C Cable", Price: decimal.RequireFromString("9.99"), Category: audio.ID, Rating: 3, CountInStock: 100,
			Image: "/images/usb-c.png", Description: "1m braided charging cable."},
	}
	for _, p := range demo {
		if _, err := s.store.CreateProduct(p); err != nil {
			return err
		}
	}
	return nil
}
