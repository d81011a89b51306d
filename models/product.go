package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend expects prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Review is embedded in Product.
type Review struct {
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	Rating       float64         `json:"rating"`
	CountInStock int             `json:"countInStock"`
	Description  string          `json:"description"`
	NumReviews   int             `json:"numReviews"`
	Reviews      []Review        `json:"reviews,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool {
	return p.CountInStock > 0
}

// ProductForm is the admin create/update form. It is sent as multipart.
type ProductForm struct {
	Name         string          `validate:"required"`
	Price        decimal.Decimal `validate:"-"`
	Description  string          `validate:"required"`
	Category     string          `validate:"required"`
	Rating       int             `validate:"gte=1,lte=5"`
	CountInStock int             `validate:"gte=0"`
	// ImageName and Image are optional; both must be set to upload a file.
	ImageName string
	Image     []byte
}

// ReviewInput is posted to /products/:id/reviews.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// ProductQuery filters the catalog list. Zero values are omitted.
type ProductQuery struct {
	Keyword  string
	Category string
	Page     int
}

// ProductPage is the paginated list envelope; bare arrays are also accepted.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Total    int       `json:"total"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}
