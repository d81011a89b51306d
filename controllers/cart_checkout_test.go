package controllers_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

func TestCartController_GuestCannotAdd(t *testing.T) {
	b := newBackend(t)
	cart := controllers.NewCartController(services.NewCartService(b.api), b.store)

	err := cart.AddToCart(context.Background(), b.product(t, "iphone"), 1)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	assert.Equal(t, "Please log in to add products to your cart", apperrors.MessageOf(err))
}

func TestCartController_StockChecks(t *testing.T) {
	b := newBackend(t)
	b.registerCustomer(t)
	cart := controllers.NewCartController(services.NewCartService(b.api), b.store)
	ctx := context.Background()

	err := cart.AddToCart(ctx, b.product(t, "a15"), 1)
	assert.Equal(t, "Samsung Galaxy A15 is out of stock", apperrors.MessageOf(err))

	err = cart.AddToCart(ctx, b.product(t, "airpods"), 4)
	assert.Equal(t, "Only 3 of AirPods Pro left in stock", apperrors.MessageOf(err))

	sum, err := cart.Load(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Empty())

	_, err = cart.CheckoutIntent()
	assert.Equal(t, "Your cart is empty", apperrors.MessageOf(err))
}

func TestCartController_TotalsComeFromBackend(t *testing.T) {
	b := newBackend(t)
	b.registerCustomer(t)
	cart := controllers.NewCartController(services.NewCartService(b.api), b.store)
	ctx := context.Background()

	cable := b.product(t, "cable")
	require.NoError(t, cart.AddToCart(ctx, cable, 2))

	sum, err := cart.Load(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Cart.CartItems, 1)
	assert.Equal(t, "19.98", sum.ItemsPrice.StringFixed(2))
	assert.Equal(t, "10.00", sum.ShippingPrice.StringFixed(2))
	assert.Equal(t, "2.00", sum.TaxPrice.StringFixed(2))
	assert.True(t, cart.Total().Equal(sum.TotalPrice), "total %s vs %s", cart.Total(), sum.TotalPrice)

	sum, err = cart.SetQuantity(ctx, cable.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Cart.CartItems[0].Quantity)

	_, err = cart.SetQuantity(ctx, cable.ID, 101)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	sum, err = cart.Remove(ctx, cable.ID)
	require.NoError(t, err)
	assert.True(t, sum.Empty())
}

func TestCheckout_FromCartSubmitsOnce(t *testing.T) {
	b := newBackend(t)
	b.registerCustomer(t)
	ctx := context.Background()
	cart := controllers.NewCartController(services.NewCartService(b.api), b.store)
	orders := services.NewOrderService(b.api)

	require.NoError(t, cart.AddToCart(ctx, b.product(t, "cable"), 2))
	require.NoError(t, cart.AddToCart(ctx, b.product(t, "airpods"), 1))
	_, err := cart.Load(ctx)
	require.NoError(t, err)

	intent, err := cart.CheckoutIntent()
	require.NoError(t, err)
	assert.Equal(t, controllers.IntentCart, intent.Kind)
	assert.Len(t, intent.Items, 2)

	co, err := controllers.NewCheckout(orders, intent)
	require.NoError(t, err)
	assert.Equal(t, "268.98", co.Subtotal().StringFixed(2))

	order, err := co.Submit(ctx, shipping, "")
	require.NoError(t, err)
	assert.Equal(t, controllers.CheckoutSucceeded, co.State())
	assert.Equal(t, models.DefaultPaymentMethod, order.PaymentMethod)
	assert.Same(t, order, co.Order())

	_, err = co.Submit(ctx, shipping, "")
	assert.Equal(t, "This order has already been placed", apperrors.MessageOf(err))

	mine, err := orders.ListMine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	sum, err := cart.Load(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Empty())
}

func TestCheckout_BuyNowFailureReturnsToEditing(t *testing.T) {
	b := newBackend(t)
	b.registerCustomer(t)
	ctx := context.Background()

	intent := controllers.BuyNow(b.product(t, "iphone"))
	assert.Equal(t, controllers.IntentBuyNow, intent.Kind)
	require.Len(t, intent.Items, 1)
	assert.Equal(t, 1, intent.Items[0].Quantity)

	co, err := controllers.NewCheckout(services.NewOrderService(b.api), intent)
	require.NoError(t, err)

	_, err = co.Submit(ctx, models.ShippingAddress{Fullname: "  "}, "Cash")
	require.Error(t, err)
	assert.Equal(t, controllers.CheckoutEditing, co.State())

	order, err := co.Submit(ctx, shipping, "Cash")
	require.NoError(t, err)
	assert.Equal(t, "Cash", order.PaymentMethod)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("1098.90")), order.TotalPrice.String())
}

func TestNewCheckout_RequiresItems(t *testing.T) {
	_, err := controllers.NewCheckout(nil, controllers.Intent{Kind: controllers.IntentCart})
	assert.Equal(t, "Nothing to check out", apperrors.MessageOf(err))
}
