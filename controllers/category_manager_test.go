package controllers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
)

type mockCategoryService struct {
	mock.Mock
}

func categoryOrNil(args mock.Arguments) *models.Category {
	if c, ok := args.Get(0).(*models.Category); ok {
		return c
	}
	return nil
}

func (m *mockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Category)
	return list, args.Error(1)
}
func (m *mockCategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	return categoryOrNil(args), args.Error(1)
}
func (m *mockCategoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	args := m.Called(ctx, id, name)
	return categoryOrNil(args), args.Error(1)
}
func (m *mockCategoryService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCategoryManager_RenameKeepsSubmittedName(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("List", mock.Anything).Return([]models.Category{
		{ID: "c1", Name: "Phones"},
		{ID: "c2", Name: "Laptops"},
	}, nil)
	// an empty echo must not blank the cached name
	svc.On("Update", mock.Anything, "c1", "Smartphones").Return(&models.Category{}, nil)

	m := controllers.NewCategoryManager(svc)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	require.NoError(t, m.Rename(ctx, "c1", "  Smartphones "))
	assert.Equal(t, "Smartphones", m.Name("c1"))
	assert.Equal(t, "Laptops", m.Name("c2"))
	svc.AssertExpectations(t)
}
