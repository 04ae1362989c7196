// Package routes binds URLs to controllers.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/nexus/app/controllers"
	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/middleware"
	"github.com/shashiranjanraj/nexus/pkg/rbac"
	"github.com/shashiranjanraj/nexus/pkg/router"
)

// Handlers is everything the route table points at.
type Handlers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Admin    *controllers.AdminController
	Web      *controllers.WebController
	Health   *controllers.HealthController

	GraphQL http.HandlerFunc
	Metrics http.HandlerFunc
	// Storage serves uploaded files; nil when the disk serves its own URLs.
	Storage http.Handler

	// AuthLimit throttles login and register.
	AuthLimit router.Middleware
}

// RegisterAPI mounts the JSON API. middleware.Authenticate must already be
// installed on r.
func RegisterAPI(r *router.Router, h Handlers) {
	api := r.Group("/api")

	guest := api.Group("")
	if h.AuthLimit != nil {
		guest = api.Group("", h.AuthLimit)
	}
	guest.Post("/register", "auth.register", ctx.Wrap(h.Auth.Register))
	guest.Post("/login", "auth.login", ctx.Wrap(h.Auth.Login))
	api.Post("/logout", "auth.logout", ctx.Wrap(h.Auth.Logout))
	api.Get("/session/{sessionId}", "auth.session", ctx.Wrap(h.Auth.Session))

	api.Get("/products", "products.index", ctx.Wrap(h.Products.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(h.Products.Show))

	api.Get("/orders", "orders.index", ctx.Wrap(h.Orders.Index), middleware.RequireAuth("Please login to view orders"))
	api.Post("/orders", "orders.store", ctx.Wrap(h.Orders.Store), middleware.RequireAuth("Please login to place an order"))
	api.Get("/orders/{id}", "orders.show", ctx.Wrap(h.Orders.Show), middleware.RequireAuth(""))

	admin := api.Group("/admin", rbac.HasRole(models.RoleAdmin))
	admin.Post("/products", "admin.products.store", ctx.Wrap(h.Products.Store))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(h.Products.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(h.Products.Destroy))
	admin.Post("/products/{id}/image", "admin.products.image", ctx.Wrap(h.Products.UploadImage))
	admin.Get("/users", "admin.users", ctx.Wrap(h.Admin.Users))
	admin.Get("/orders", "admin.orders", ctx.Wrap(h.Admin.Orders))
	admin.Put("/orders/{id}/status", "admin.orders.status", ctx.Wrap(h.Admin.UpdateOrderStatus))
	admin.Get("/stats", "admin.stats", ctx.Wrap(h.Admin.Stats))

	if h.GraphQL != nil {
		r.Post("/graphql", "graphql", h.GraphQL)
	}
}
