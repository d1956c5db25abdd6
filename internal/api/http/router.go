package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/api/http/handlers"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Parcels  *handlers.ParcelsHandler
	Payments *handlers.PaymentsHandler
	Stats    *handlers.StatsHandler
	Verifier *auth.Verifier
	Gates    *auth.Gates
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

type router struct {
	app      *fiber.App
	verifier *auth.Verifier
	logger   *zap.Logger
}

// secure registers a route behind the verifier and the AND-composed gates. Extra handlers
// run after the gates and before the endpoint.
func (r router) secure(method, path string, gates []auth.Gate, handlers ...fiber.Handler) {
	chain := []fiber.Handler{r.verifier.Handle}
	chain = append(chain, auth.Chain(r.logger, method+" "+path, gates...)...)
	chain = append(chain, handlers...)
	r.app.Add(method, path, chain...)
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/jwt", cfg.Users.IssueToken)
	app.Post("/users", cfg.Users.Register)

	r := router{app: app, verifier: cfg.Verifier, logger: cfg.Logger}
	admin := []auth.Gate{cfg.Gates.RequireRole(domain.RoleAdmin)}
	deliveryPerson := []auth.Gate{cfg.Gates.RequireRole(domain.RoleDeliveryPerson)}
	staff := []auth.Gate{cfg.Gates.RequireAnyRole(domain.RoleAdmin, domain.RoleDeliveryPerson)}
	ownerOf := func(param string, bypass ...domain.Role) fiber.Handler {
		return cfg.Gates.RequireOwner(auth.FromParam(param), bypass...)
	}
	parcelOwner := cfg.Gates.RequireResourceOwner(cfg.Parcels.Owner, domain.RoleAdmin)

	r.secure(fiber.MethodGet, "/users", admin, cfg.Users.List)
	r.secure(fiber.MethodGet, "/users/deliverers", admin, cfg.Users.ListDeliverers)
	r.secure(fiber.MethodGet, "/users/admin/:email", nil, ownerOf("email"), cfg.Users.IsAdmin)
	r.secure(fiber.MethodGet, "/users/deliverer/:email", nil, ownerOf("email"), cfg.Users.IsDeliveryPerson)
	r.secure(fiber.MethodPatch, "/users/admin/:id", admin, cfg.Users.MakeAdmin)
	r.secure(fiber.MethodPatch, "/users/deliverer/:id", admin, cfg.Users.MakeDeliverer)
	r.secure(fiber.MethodDelete, "/users/:id", admin, cfg.Users.Delete)

	r.secure(fiber.MethodGet, "/parcels", admin, cfg.Parcels.List)
	r.secure(fiber.MethodGet, "/parcels/search", admin, cfg.Parcels.Search)
	r.secure(fiber.MethodGet, "/parcels/user/:email", nil, ownerOf("email", domain.RoleAdmin), cfg.Parcels.ListByUser)
	r.secure(fiber.MethodPost, "/parcels", nil, cfg.Parcels.Create)
	r.secure(fiber.MethodPatch, "/parcels/:id/assign", admin, cfg.Parcels.Assign)
	r.secure(fiber.MethodDelete, "/parcels/:id", nil, parcelOwner, cfg.Parcels.Delete)
	r.secure(fiber.MethodGet, "/parcel/:id", nil, parcelOwner, cfg.Parcels.Get)
	r.secure(fiber.MethodPatch, "/parcel/:id", nil, parcelOwner, cfg.Parcels.Update)

	r.secure(fiber.MethodGet, "/deliveries/:email", staff, ownerOf("email", domain.RoleAdmin), cfg.Parcels.ListDeliveries)
	r.secure(fiber.MethodPatch, "/deliveries/:id", deliveryPerson, cfg.Parcels.CompleteDelivery)

	r.secure(fiber.MethodPost, "/create-payment-intent", nil, cfg.Payments.CreateIntent)
	r.secure(fiber.MethodGet, "/payments/:email", nil, ownerOf("email"), cfg.Payments.History)
	r.secure(fiber.MethodPost, "/payments", nil, cfg.Payments.Record)

	r.secure(fiber.MethodGet, "/admin-stats", admin, cfg.Stats.AdminStats)
	r.secure(fiber.MethodGet, "/booking-stats", admin, cfg.Stats.BookingStats)
}
