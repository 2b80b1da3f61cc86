package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresreyes/spotlists-backend/api/controllers"
	"github.com/andresreyes/spotlists-backend/api/middleware"
	"github.com/andresreyes/spotlists-backend/internal/lists"
	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/internal/users"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/metrics"
	"github.com/andresreyes/spotlists-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. Nil optional
// fields (redis, metrics) disable the middleware that needs them.
type Deps struct {
	Resolver     middleware.IdentityResolver
	UsersService users.Service
	PlacesSvc    places.Service
	ListsSvc     lists.Service

	DBPinger    db.Pinger
	RedisClient *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	softAuth := middleware.ResolveRequestor(deps.Resolver, logg)
	hardAuth := middleware.RequireUser(deps.Resolver, logg)

	var registerStore middleware.RateLimiterStore
	if deps.RedisClient != nil {
		registerStore = deps.RedisClient
	}
	registerLimit := middleware.RegisterRateLimit(cfg.RateLimit, registerStore, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger(deps.RedisClient)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	baseURL := cfg.HTTP.BaseURL
	defaultLimit := cfg.Pagination.DefaultLimit
	userListsLimit := cfg.Pagination.UserListsLimit

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", controllers.UsersList(deps.UsersService, baseURL, defaultLimit, logg))
		r.With(registerLimit).Post("/", controllers.UsersCreate(deps.UsersService, logg))
		r.With(softAuth).Get("/{id}", controllers.UsersGet(deps.UsersService, logg))
		r.With(hardAuth).Put("/{id}", controllers.UsersUpdate(deps.UsersService, logg))
		r.With(hardAuth).Delete("/{id}", controllers.UsersDelete(deps.UsersService, logg))
		r.With(softAuth).Get("/{id}/lists", controllers.UserListsIndex(deps.ListsSvc, baseURL, userListsLimit, logg))
	})

	r.Route("/api/places", func(r chi.Router) {
		r.Get("/", controllers.PlacesList(deps.PlacesSvc, baseURL, defaultLimit, logg))
		r.Get("/{id}", controllers.PlacesGet(deps.PlacesSvc, logg))
	})

	r.Route("/api/lists", func(r chi.Router) {
		r.Get("/", controllers.ListsList(deps.ListsSvc, baseURL, defaultLimit, logg))
		r.With(softAuth).Get("/{id}", controllers.ListsGet(deps.ListsSvc, logg))
		r.With(hardAuth).Post("/", controllers.ListsCreate(deps.ListsSvc, logg))
		r.With(hardAuth).Put("/{id}", controllers.ListsUpdate(deps.ListsSvc, logg))
		r.With(hardAuth).Delete("/{id}", controllers.ListsDelete(deps.ListsSvc, logg))
		r.With(hardAuth).Post("/{id}/spots", controllers.ListsAddPlace(deps.ListsSvc, logg))
		r.With(hardAuth).Delete("/{id}/spots/{placeId}", controllers.ListsRemovePlace(deps.ListsSvc, logg))
	})

	return r
}

// redisPinger keeps the readiness probe nil-safe: a typed-nil *redis.Client
// must read as "skipped", not "down".
func redisPinger(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
