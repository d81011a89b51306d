package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id, name string) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	api *clients.APIClient
}

func NewCategoryService(api *clients.APIClient) CategoryService {
	return &categoryService{api: api}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/categories",
		Fallback: "Could not load categories!",
	}, &out)
	return out, err
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	in := models.CategoryInput{Name: strings.TrimSpace(name)}
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out models.Category
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/categories", Body: in, Auth: true,
		Fallback: "Could not create the category!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *categoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	if err := requireID("category", id); err != nil {
		return nil, err
	}
	in := models.CategoryInput{Name: strings.TrimSpace(name)}
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out models.Category
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/categories/" + url.PathEscape(id), Body: in, Auth: true,
		Fallback: "Could not update the category!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := requireID("category", id); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodDelete, Path: "/categories/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not delete the category!",
	}, nil)
}
