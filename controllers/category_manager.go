package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

type CategoryManager struct {
	categories services.CategoryService

	mu   sync.RWMutex
	list []models.Category
}

func NewCategoryManager(categories services.CategoryService) *CategoryManager {
	return &CategoryManager{categories: categories}
}

func (m *CategoryManager) Load(ctx context.Context) error {
	list, err := m.categories.List(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.list = append([]models.Category{}, list...)
	m.mu.Unlock()
	return nil
}

func (m *CategoryManager) Categories() []models.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Category{}, m.list...)
}

// Name resolves a category id for display, falling back to the id itself.
func (m *CategoryManager) Name(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.list {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func (m *CategoryManager) Create(ctx context.Context, name string) (*models.Category, error) {
	c, err := m.categories.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.list = append(m.list, *c)
	m.mu.Unlock()
	return c, nil
}

// Rename patches the cached row with the submitted name, not the server's echo.
func (m *CategoryManager) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if _, err := m.categories.Update(ctx, id, name); err != nil {
		return err
	}
	m.mu.Lock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i].Name = name
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *CategoryManager) Delete(ctx context.Context, id string) error {
	if err := m.categories.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	m.list = removeByID(m.list, id, func(c models.Category) string { return c.ID })
	m.mu.Unlock()
	return nil
}
