package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estilosboom/boom-backend/api/controllers"
	"github.com/estilosboom/boom-backend/api/middleware"
	clientsvc "github.com/estilosboom/boom-backend/internal/clients"
	identitysvc "github.com/estilosboom/boom-backend/internal/identity"
	productsvc "github.com/estilosboom/boom-backend/internal/products"
	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/estilosboom/boom-backend/pkg/identity"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/redis"
)

// NewRouter wires middleware, controllers and services into the API handler.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	provider identity.Provider,
	identityService identitysvc.Service,
	clientService clientsvc.Service,
	productService productsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	forgotPolicy := middleware.NewAuthRateLimitPolicy(
		"forgot",
		cfg.AuthRateLimit.ForgotWindow,
		cfg.AuthRateLimit.ForgotIPLimit,
		cfg.AuthRateLimit.ForgotEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps(dbClient, redisClient)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Auth(provider, logg)).Post("/sync", controllers.AuthSync(identityService, logg))
	})

	r.Route("/api/v1/client", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.ClientRegister(clientService, logg))
		r.Get("/validate-email/{email}", controllers.ClientValidateEmail(clientService, logg))
		r.With(middleware.AuthRateLimit(forgotPolicy, redisClient, logg)).
			Post("/forgot-password", controllers.ClientForgotPassword(clientService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(provider, logg))

			r.With(middleware.RequireRole(enums.RoleAdministrador, logg)).
				Post("/client-admin", controllers.ClientCreateAdmin(clientService, logg))
			r.With(middleware.RequireRole(enums.RoleCliente, logg)).
				Patch("/extra-data/{uid}", controllers.ClientUpdateExtraData(clientService, logg))
			r.With(middleware.RequireRole(enums.RoleAdministrador, logg)).
				Patch("/reset-password-flag/{id}", controllers.ClientResetPasswordFlag(clientService, logg))
			r.With(middleware.RequireRole(enums.RoleAdministrador, logg)).
				Get("/customers", controllers.ClientListCustomers(clientService, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.Auth(provider, logg))

		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{id}", controllers.ProductGet(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdministrador, logg))
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Patch("/{id}/stock", controllers.ProductUpdateStock(productService, logg))
			r.Delete("/{id}", controllers.ProductDeactivate(productService, logg))
		})
	})

	return r
}

func readyDeps(dbClient *db.Client, redisClient *redis.Client) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if dbClient != nil {
		deps["postgres"] = dbClient
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
