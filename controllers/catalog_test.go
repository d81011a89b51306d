package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★★★", controllers.Stars(5))
	assert.Equal(t, "★★★★☆", controllers.Stars(3.6))
	assert.Equal(t, "☆☆☆☆☆", controllers.Stars(0))
	assert.Equal(t, "★★★★★", controllers.Stars(7))
}

func TestCatalog_OneCardPerProductWithFallbacks(t *testing.T) {
	b := newBackend(t)
	catalog := controllers.NewCatalog(services.NewProductService(b.api), http.DefaultClient, b.url, fallbackImage)

	cards, err := catalog.Load(context.Background(), models.ProductQuery{})
	require.NoError(t, err)
	require.Len(t, cards, 5)

	page, pages, total := catalog.Pagination()
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 5, total)

	catalog.LoadImages(context.Background())
	for _, c := range catalog.Cards() {
		// demo images are not uploaded, so every card ends on the fallback
		assert.Equal(t, controllers.ImageErrored, c.Image.State(), c.Product.Name)
		assert.Equal(t, b.url+fallbackImage, c.Image.Src())
		assert.Equal(t, c.Product.Rating == 5, c.Hot)
	}
}

func TestCatalog_FilterAndNextPage(t *testing.T) {
	b := newBackend(t)
	catalog := controllers.NewCatalog(services.NewProductService(b.api), nil, b.url, fallbackImage)

	cards, err := catalog.Load(context.Background(), models.ProductQuery{Keyword: "samsung"})
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	// single page: NextPage keeps the current cards
	again, err := catalog.NextPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 2)
}
