package mockapi

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
)

const maxUploadSize = 5 << 20

// placeholderPNG is a 1x1 transparent image served as the fallback asset.
var placeholderPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func (s *Server) ListProducts(c *gin.Context) {
	all := s.store.Products(c.Query("keyword"), c.Query("category"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size := s.cfg.PageSize
	pages := (len(all) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	c.JSON(http.StatusOK, models.ProductPage{
		Products: all[start:end],
		Page:     page,
		Pages:    pages,
		Total:    len(all),
	})
}

func (s *Server) GetProduct(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

// productForm reads the multipart product form. On create every field is
// required; on update absent fields keep their stored value.
type productForm struct {
	name, description, category string
	price                       *decimal.Decimal
	rating, countInStock        *int
	image                       string
}

func (s *Server) readProductForm(c *gin.Context, create bool) (*productForm, string) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "Invalid form data"
	}

	f := &productForm{
		name:        strings.TrimSpace(c.PostForm("name")),
		description: strings.TrimSpace(c.PostForm("description")),
		category:    strings.TrimSpace(c.PostForm("category")),
	}
	if create && (f.name == "" || f.description == "" || f.category == "") {
		return nil, "Name, description and category are required"
	}

	if raw := c.PostForm("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || !price.IsPositive() {
			return nil, "Price must be greater than 0"
		}
		f.price = &price
	} else if create {
		return nil, "Price must be greater than 0"
	}

	for _, field := range []struct {
		key      string
		dst      **int
		min, max int
		msg      string
	}{
		{"rating", &f.rating, 1, 5, "Rating must be between 1 and 5"},
		{"countInStock", &f.countInStock, 0, 1 << 30, "Count in stock must not be negative"},
	} {
		raw := c.PostForm(field.key)
		if raw == "" {
			if create && field.key == "countInStock" {
				return nil, field.msg
			}
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < field.min || n > field.max {
			return nil, field.msg
		}
		*field.dst = &n
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "Could not read the image"
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		s.store.SaveUpload(name, data)
		f.image = "/uploads/" + name
	}
	return f, ""
}

func (f *productForm) apply(p *models.Product) {
	if f.name != "" {
		p.Name = f.name
	}
	if f.description != "" {
		p.Description = f.description
	}
	if f.category != "" {
		p.Category = f.category
	}
	if f.price != nil {
		p.Price = *f.price
	}
	if f.rating != nil {
		p.Rating = float64(*f.rating)
	}
	if f.countInStock != nil {
		p.CountInStock = *f.countInStock
	}
	if f.image != "" {
		p.Image = f.image
	}
}

func (s *Server) CreateProduct(c *gin.Context) {
	form, msg := s.readProductForm(c, true)
	if form == nil {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	var p models.Product
	form.apply(&p)

	created, err := s.store.CreateProduct(p)
	if err != nil {
		fail(c, http.StatusBadRequest, "Category not found")
		return
	}
	logger.Info(c.Request.Context(), "product created")
	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	form, msg := s.readProductForm(c, false)
	if form == nil {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if _, err := s.store.Product(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	updated, err := s.store.UpdateProduct(c.Param("id"), form.apply)
	if err != nil {
		fail(c, http.StatusBadRequest, "Category not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.store.DeleteProduct(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Product removed"})
}

func (s *Server) AddReview(c *gin.Context) {
	var req models.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 || strings.TrimSpace(req.Comment) == "" {
		fail(c, http.StatusBadRequest, "Rating (1-5) and comment are required")
		return
	}
	u, _, err := s.store.User(c.GetString(ctxUserID))
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	err = s.store.AddReview(c.Param("id"), models.Review{
		User: u.ID, Name: u.Name, Rating: req.Rating, Comment: strings.TrimSpace(req.Comment),
	})
	switch {
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrAlreadyExists):
		fail(c, http.StatusBadRequest, "Product already reviewed")
	case err != nil:
		fail(c, http.StatusInternalServerError, "Could not add the review")
	default:
		c.JSON(http.StatusCreated, models.MessageResponse{Message: "Review added"})
	}
}

func (s *Server) ListReviews(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, p.Reviews)
}

// ServeUpload serves images posted with the product form.
func (s *Server) ServeUpload(c *gin.Context) {
	data, ok := s.store.Upload(c.Param("name"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (s *Server) ServePlaceholder(c *gin.Context) {
	c.Data(http.StatusOK, "image/png", placeholderPNG)
}
