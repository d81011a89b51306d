package controllers

import (
	"context"
	"math"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

// hotRating earns a product the "HOT" badge.
const hotRating = 5

// imageProbeLimit bounds concurrent image probes per catalog page.
const imageProbeLimit = 4

// ProductCard is one entry of the storefront grid.
type ProductCard struct {
	Product models.Product
	Image   *ImageLoader
	Stars   string
	Hot     bool
}

// Stars renders a 0-5 rating as filled and empty stars, rounding to the
// nearest whole star.
func Stars(rating float64) string {
	n := int(math.Round(rating))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// Catalog is the storefront product listing.
type Catalog struct {
	products  services.ProductService
	client    *http.Client
	assetBase string
	fallback  string

	mu    sync.RWMutex
	query models.ProductQuery
	page  models.ProductPage
	cards []*ProductCard
}

func NewCatalog(products services.ProductService, client *http.Client, assetBase, fallback string) *Catalog {
	return &Catalog{products: products, client: client, assetBase: assetBase, fallback: fallback}
}

// Load fetches one page and builds a card per product.
func (c *Catalog) Load(ctx context.Context, q models.ProductQuery) ([]*ProductCard, error) {
	page, err := c.products.List(ctx, q)
	if err != nil {
		return nil, err
	}

	cards := make([]*ProductCard, 0, len(page.Products))
	for _, p := range page.Products {
		cards = append(cards, &ProductCard{
			Product: p,
			Image:   NewImageLoader(c.client, c.assetBase, p.Image, c.fallback),
			Stars:   Stars(p.Rating),
			Hot:     p.Rating == hotRating,
		})
	}

	c.mu.Lock()
	c.query = q
	c.page = *page
	c.cards = cards
	c.mu.Unlock()
	return cards, nil
}

func (c *Catalog) Cards() []*ProductCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*ProductCard(nil), c.cards...)
}

// Pagination returns the current page, the page count and the total.
func (c *Catalog) Pagination() (page, pages, total int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page.Page, c.page.Pages, c.page.Total
}

// NextPage loads the page after the current one; it is a no-op on the last
// page.
func (c *Catalog) NextPage(ctx context.Context) ([]*ProductCard, error) {
	c.mu.RLock()
	q, page, pages := c.query, c.page.Page, c.page.Pages
	c.mu.RUnlock()
	if page >= pages {
		return c.Cards(), nil
	}
	q.Page = page + 1
	return c.Load(ctx, q)
}

// LoadImages probes every card's image. Each loader settles on its own; a
// failed image never fails the page.
func (c *Catalog) LoadImages(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imageProbeLimit)
	for _, card := range c.Cards() {
		img := card.Image
		g.Go(func() error {
			img.Load(ctx)
			return nil
		})
	}
	_ = g.Wait()
}
