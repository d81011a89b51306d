package controllers

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

// ProductManager is the admin product table.
type ProductManager struct {
	products services.ProductService
	search   *Searcher[models.Product]

	mu   sync.RWMutex
	list []models.Product
}

func NewProductManager(products services.ProductService, opts ...SearchOption) *ProductManager {
	m := &ProductManager{products: products}
	m.search = NewSearcher(
		func(ctx context.Context) ([]models.Product, error) { return m.fetchAll(ctx, "") },
		m.fetchAll,
		func(_ string, results []models.Product) { m.replace(results) },
		opts...,
	)
	return m
}

// fetchAll walks every page of the listing.
func (m *ProductManager) fetchAll(ctx context.Context, keyword string) ([]models.Product, error) {
	var all []models.Product
	for page := 1; ; page++ {
		res, err := m.products.List(ctx, models.ProductQuery{Keyword: keyword, Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Products...)
		if page >= res.Pages || len(res.Products) == 0 {
			return all, nil
		}
	}
}

func (m *ProductManager) replace(list []models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append([]models.Product{}, list...)
}

func (m *ProductManager) Load(ctx context.Context) error {
	return m.search.Reload(ctx)
}

func (m *ProductManager) Products() []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Product{}, m.list...)
}

func (m *ProductManager) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return m.search.Search(ctx, keyword)
}

func (m *ProductManager) Create(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	p, err := m.products.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.list = append(m.list, *p)
	m.mu.Unlock()
	logger.Info(ctx, "product created", zap.String("product_id", p.ID))
	return p, nil
}

// Update replaces the edited product with what the backend returned.
func (m *ProductManager) Update(ctx context.Context, id string, form models.ProductForm) (*models.Product, error) {
	p, err := m.products.Update(ctx, id, form)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i] = *p
		}
	}
	m.mu.Unlock()
	return p, nil
}

func (m *ProductManager) Delete(ctx context.Context, id string) error {
	if err := m.products.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	m.list = removeByID(m.list, id, func(p models.Product) string { return p.ID })
	m.mu.Unlock()
	logger.Info(ctx, "product deleted", zap.String("product_id", id))
	return nil
}
