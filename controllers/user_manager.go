package controllers

import (
	"context"
	"sync"

	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

// UserManager is the admin user list.
type UserManager struct {
	users  services.UserService
	search *Searcher[models.User]

	mu   sync.RWMutex
	list []models.User
}

func NewUserManager(users services.UserService, opts ...SearchOption) *UserManager {
	m := &UserManager{users: users}
	m.search = NewSearcher(
		users.List,
		users.Search,
		func(_ string, results []models.User) { m.replace(results) },
		opts...,
	)
	return m
}

func (m *UserManager) replace(list []models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append([]models.User{}, list...)
}

func (m *UserManager) Load(ctx context.Context) error {
	return m.search.Reload(ctx)
}

func (m *UserManager) Users() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.User{}, m.list...)
}

func (m *UserManager) Search(ctx context.Context, query string) ([]models.User, error) {
	return m.search.Search(ctx, query)
}

func (m *UserManager) Delete(ctx context.Context, id string) error {
	if err := m.users.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	m.list = removeByID(m.list, id, func(u models.User) string { return u.ID })
	m.mu.Unlock()
	return nil
}

// SetAdmin grants or revokes admin rights and patches only that flag.
func (m *UserManager) SetAdmin(ctx context.Context, id string, admin bool) error {
	if _, err := m.users.Update(ctx, id, models.AdminUserUpdate{IsAdmin: &admin}); err != nil {
		return err
	}
	m.mu.Lock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i].IsAdmin = admin
		}
	}
	m.mu.Unlock()
	return nil
}
