package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/config"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/routes"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/session"
)

// app is everything a command needs, built once per invocation.
type app struct {
	verbose bool

	cfg     *config.Config
	session *session.Store
	api     *clients.APIClient
	closers []func() error

	users      services.UserService
	products   services.ProductService
	categories services.CategoryService
	orders     services.OrderService
	chatbot    services.ChatbotService

	auth *controllers.AuthController
	cart *controllers.CartController
}

func (a *app) setup(ctx context.Context) (context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg

	var sink io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return ctx, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		sink = f
	}
	logger.InitializeWithWriter(cfg.Env, sink)
	if !a.verbose {
		logger.SetLevel(zapcore.WarnLevel)
	}
	ctx = logger.WithContext(ctx, uuid.NewString())

	storage, err := a.openStorage(ctx)
	if err != nil {
		return ctx, err
	}
	a.session = session.NewStore(storage)
	if err := a.session.Restore(ctx); err != nil {
		return ctx, err
	}

	a.api = clients.NewAPIClient(cfg.APIBaseURL, cfg.RequestTimeout, a.session,
		clients.WithTransport(middleware.NewLoggingTransport(nil, logger.Log)))

	a.users = services.NewUserService(a.api)
	a.products = services.NewProductService(a.api)
	a.categories = services.NewCategoryService(a.api)
	a.orders = services.NewOrderService(a.api)
	a.chatbot = services.NewChatbotService(a.api)
	a.auth = controllers.NewAuthController(a.users, a.session)
	a.cart = controllers.NewCartController(services.NewCartService(a.api), a.session)
	return ctx, nil
}

func (a *app) openStorage(ctx context.Context) (session.Storage, error) {
	switch a.cfg.SessionBackend {
	case config.SessionBackendRedis:
		client, err := session.NewRedisClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return session.NewRedisStorage(client, a.cfg.SessionProfile, a.cfg.SessionTTL), nil
	default:
		if err := os.MkdirAll(filepath.Dir(a.cfg.SessionFile), 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		return session.NewFileStorage(a.cfg.SessionFile), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	logger.Sync()
}

// guard refuses a command whose screen the current user may not open.
func (a *app) guard(path string) error {
	switch routes.Guard(path, a.session.User()) {
	case path:
		return nil
	case routes.Login:
		return apperrors.ErrNotAuthenticated
	default:
		return apperrors.FromStatus(http.StatusForbidden, "Not authorized as an admin")
	}
}

// fail routes auth failures through the session before reporting them.
func (a *app) fail(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if route, handled := a.auth.HandleAuthFailure(ctx, err); handled {
		logger.Info(ctx, "auth failure handled", zap.String("route", route), zap.Error(err))
		if route == routes.Login {
			return fmt.Errorf("%s; run `storefront login` first", apperrors.MessageOf(err))
		}
	}
	return err
}

func (a *app) assets() (*http.Client, string, string) {
	return a.api.HTTPClient(), a.cfg.AssetBaseURL, a.cfg.FallbackImage
}

func (a *app) searchOpts() []controllers.SearchOption {
	return []controllers.SearchOption{controllers.WithSearchRate(a.cfg.SearchRatePerSecond)}
}
