// Package app assembles the client from configuration: the session
// backend and store, the API client with its middleware chain, the domain
// services, and the session controller.
package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/config"
	"github.com/roach88/smartfarm/internal/errors"
	"github.com/roach88/smartfarm/internal/kv"
	"github.com/roach88/smartfarm/internal/service"
	"github.com/roach88/smartfarm/internal/session"
	"github.com/roach88/smartfarm/internal/store"
)

// App holds the wired client.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Backend  kv.Backend
	Store    *store.Store
	Client   *api.Client
	Registry *prometheus.Registry
	Metrics  *api.Metrics

	Auth    *service.AuthService
	Users   *service.UserService
	Farmers *service.FarmerService
	Buyers  *service.BuyerService
	Crops   *service.CropService
	Orders  *service.OrderService
	Admin   *service.AdminService

	Session *session.Controller
}

// Options tune New.
type Options struct {
	Log zerolog.Logger
	// Transport replaces http.DefaultTransport under the middleware chain.
	Transport http.RoundTripper
}

// OpenBackend opens the session backend named by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (kv.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return kv.OpenSQLite(cfg.Path)
	case config.BackendRedis:
		return kv.ConnectRedis(ctx, kv.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// New opens the configured backend and wires the client over it.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	backend, err := OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s session store", cfg.Store.Backend)
	}
	return NewWithBackend(cfg, backend, opts), nil
}

// NewWithBackend wires the client over an already open backend. The App
// takes ownership of backend.
func NewWithBackend(cfg *config.Config, backend kv.Backend, opts Options) *App {
	log := opts.Log
	a := &App{
		Config:   cfg,
		Log:      log,
		Backend:  backend,
		Store:    store.New(backend, store.WithNamespace(cfg.Store.Namespace), store.WithLogger(log)),
		Registry: prometheus.NewRegistry(),
	}
	a.Metrics = api.NewMetrics(a.Registry)

	// Outermost first: every request gets an id and is logged and measured
	// with its final status; the bearer token is read from the store per
	// request; a 401 purges the stored session.
	a.Client = api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: opts.Transport,
	},
		api.RequestID(),
		api.Logging(log),
		api.Instrument(a.Metrics),
		api.Unauthorized(a.purgeSession),
		api.BearerAuth(a.Store),
	)

	a.Auth = service.NewAuthService(a.Client)
	a.Users = service.NewUserService(a.Client)
	a.Farmers = service.NewFarmerService(a.Client)
	a.Buyers = service.NewBuyerService(a.Client)
	a.Crops = service.NewCropService(a.Client)
	a.Orders = service.NewOrderService(a.Client)
	a.Admin = service.NewAdminService(a.Client)

	a.Session = session.NewController(a.Store, a.Auth, a.Users, session.WithLogger(log))
	return a
}

func (a *App) purgeSession(ctx context.Context) {
	if err := a.Store.ClearAll(ctx); err != nil {
		a.Log.Error().Err(err).Msg("clear session after 401")
		return
	}
	a.Log.Warn().Msg("received 401, stored session cleared")
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
