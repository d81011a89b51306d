package controllers

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

// OrderManager is the admin order list. Actions patch the local list on
// success instead of re-fetching it.
type OrderManager struct {
	orders services.OrderService
	search *Searcher[models.Order]

	mu   sync.RWMutex
	list []models.Order
}

func NewOrderManager(orders services.OrderService, opts ...SearchOption) *OrderManager {
	m := &OrderManager{orders: orders}
	m.search = NewSearcher(
		orders.ListAll,
		func(ctx context.Context, q string) ([]models.Order, error) {
			return orders.Search(ctx, models.OrderSearch{UserName: q})
		},
		func(_ string, results []models.Order) { m.replace(results) },
		opts...,
	)
	return m
}

func (m *OrderManager) replace(list []models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append([]models.Order{}, list...)
}

// Load fetches every order. It competes with Search: a search issued after
// it wins.
func (m *OrderManager) Load(ctx context.Context) error {
	return m.search.Reload(ctx)
}

func (m *OrderManager) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Order{}, m.list...)
}

// Search filters by customer name; an empty name lists everything.
func (m *OrderManager) Search(ctx context.Context, userName string) ([]models.Order, error) {
	return m.search.Search(ctx, userName)
}

// Details fetches the full order for the details view.
func (m *OrderManager) Details(ctx context.Context, id string) (*models.Order, error) {
	return m.orders.Get(ctx, id)
}

func (m *OrderManager) MarkPaid(ctx context.Context, id string) error {
	if _, err := m.orders.MarkPaid(ctx, id); err != nil {
		return err
	}
	m.patch(id, func(o *models.Order) { o.IsPaid = true })
	logger.Info(ctx, "order marked paid", zap.String("order_id", id))
	return nil
}

func (m *OrderManager) MarkDelivered(ctx context.Context, id string) error {
	if _, err := m.orders.MarkDelivered(ctx, id); err != nil {
		return err
	}
	m.patch(id, func(o *models.Order) { o.IsDelivered = true })
	logger.Info(ctx, "order marked delivered", zap.String("order_id", id))
	return nil
}

// Cancel removes exactly the cancelled order from the list.
func (m *OrderManager) Cancel(ctx context.Context, id string) error {
	if err := m.orders.Cancel(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	m.list = removeByID(m.list, id, func(o models.Order) string { return o.ID })
	m.mu.Unlock()
	logger.Info(ctx, "order cancelled", zap.String("order_id", id))
	return nil
}

func (m *OrderManager) patch(id string, fn func(o *models.Order)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			fn(&m.list[i])
		}
	}
}

// removeByID returns list without the entries whose id matches.
func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
