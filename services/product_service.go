package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yashrajoria/storefront/clients"
	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/models"
)

type ProductService interface {
	List(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, form models.ProductForm) (*models.Product, error)
	Update(ctx context.Context, id string, form models.ProductForm) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, id string, review models.ReviewInput) error
	ListReviews(ctx context.Context, id string) ([]models.Review, error)
}

type productService struct {
	api *clients.APIClient
}

func NewProductService(api *clients.APIClient) ProductService {
	return &productService{api: api}
}

// List fetches one page of the catalog. The backend may answer either with
// the paginated envelope or with a bare array.
func (s *productService) List(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error) {
	query := url.Values{}
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}

	var raw json.RawMessage
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/products", Query: query,
		Fallback: "Could not load products!",
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(raw)
}

func decodeProductPage(raw json.RawMessage) (*models.ProductPage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &models.ProductPage{Products: []models.Product{}, Page: 1, Pages: 1}, nil
	}
	if raw[0] == '[' {
		var list []models.Product
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, apperrors.Decode("Could not load products!", err)
		}
		return &models.ProductPage{Products: list, Page: 1, Pages: 1, Total: len(list)}, nil
	}
	var page models.ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, apperrors.Decode("Could not load products!", err)
	}
	if page.Products == nil {
		page.Products = []models.Product{}
	}
	return &page, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := requireID("product", id); err != nil {
		return nil, err
	}
	var out models.Product
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/products/" + url.PathEscape(id),
		Fallback: "Could not load the product!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *productService) Create(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	fields, files, err := productFormParts(form)
	if err != nil {
		return nil, err
	}
	var out models.Product
	err = s.api.Multipart(ctx, clients.Call{
		Method: http.MethodPost, Path: "/products", Auth: true,
		Fallback: "Could not create the product!",
	}, fields, files, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *productService) Update(ctx context.Context, id string, form models.ProductForm) (*models.Product, error) {
	if err := requireID("product", id); err != nil {
		return nil, err
	}
	fields, files, err := productFormParts(form)
	if err != nil {
		return nil, err
	}
	var out models.Product
	err = s.api.Multipart(ctx, clients.Call{
		Method: http.MethodPut, Path: "/products/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not update the product!",
	}, fields, files, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// productFormParts validates the form and splits it into multipart fields.
func productFormParts(form models.ProductForm) (map[string]string, []clients.FilePart, error) {
	if err := Validate(form); err != nil {
		return nil, nil, err
	}
	if !form.Price.IsPositive() {
		return nil, nil, apperrors.Validation("Price must be greater than 0")
	}

	fields := map[string]string{
		"name":         form.Name,
		"price":        form.Price.String(),
		"description":  form.Description,
		"category":     form.Category,
		"rating":       strconv.Itoa(form.Rating),
		"countInStock": strconv.Itoa(form.CountInStock),
	}
	var files []clients.FilePart
	if form.ImageName != "" && len(form.Image) > 0 {
		files = append(files, clients.FilePart{Field: "image", Filename: form.ImageName, Content: form.Image})
	}
	return fields, files, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := requireID("product", id); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodDelete, Path: "/products/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not delete the product!",
	}, nil)
}

func (s *productService) AddReview(ctx context.Context, id string, review models.ReviewInput) error {
	if err := requireID("product", id); err != nil {
		return err
	}
	if err := Validate(review); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/products/" + url.PathEscape(id) + "/reviews", Body: review, Auth: true,
		Fallback: "Could not submit the review!",
	}, nil)
}

func (s *productService) ListReviews(ctx context.Context, id string) ([]models.Review, error) {
	if err := requireID("product", id); err != nil {
		return nil, err
	}
	var out []models.Review
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/products/" + url.PathEscape(id) + "/reviews",
		Fallback: "Could not load reviews!",
	}, &out)
	return out, err
}
