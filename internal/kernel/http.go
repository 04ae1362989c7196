// Package kernel assembles the storefront's HTTP handler: repositories,
// services, controllers, the global middleware stack and the route table.
package kernel

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/controllers"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/app/routes"
	"github.com/shashiranjanraj/nexus/app/schema"
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/database"
	"github.com/shashiranjanraj/nexus/pkg/event"
	"github.com/shashiranjanraj/nexus/pkg/graphql"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/metrics"
	"github.com/shashiranjanraj/nexus/pkg/middleware"
	"github.com/shashiranjanraj/nexus/pkg/reqid"
	"github.com/shashiranjanraj/nexus/pkg/response"
	"github.com/shashiranjanraj/nexus/pkg/router"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/storage"
)

// Deps are the long-lived collaborators the kernel wires together.
type Deps struct {
	DB       *gorm.DB
	Sessions session.Store
	// SessionDriver labels session lookup metrics ("memory", "redis").
	SessionDriver string
	// Disk stores product images. Nil disables uploads.
	Disk   storage.Disk
	Events *event.Dispatcher

	// AuthRateLimit is requests per minute per IP on login and register.
	// Zero disables the limit.
	AuthRateLimit int
	CORSOrigins   []string
}

// Kernel is the built HTTP application.
type Kernel struct {
	router  *router.Router
	limiter *middleware.RateLimiter
	events  *event.Dispatcher
}

// New wires d into a ready handler. Global middleware, outermost first:
// metrics, request id, logger, recovery, CORS, session resolution.
func New(d Deps) (*Kernel, error) {
	if d.Events == nil {
		d.Events = event.New()
	}
	metrics.ObserveEvents(d.Events)
	auditLog(d.Events)

	users := repositories.NewUserRepository(d.DB)
	products := repositories.NewProductRepository(d.DB)
	orders := repositories.NewOrderRepository(d.DB)

	authSvc := services.NewAuthService(users, d.Sessions, d.Events)
	catalog := services.NewCatalogService(products, d.Disk)
	orderSvc := services.NewOrderService(d.DB, products, orders, d.Events)
	adminSvc := services.NewAdminService(users, products, orders)

	gqlSchema, err := schema.Catalogue(catalog)
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewRateLimiter(d.AuthRateLimit, time.Minute)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(d.CORSOrigins...)))
	r.Use(middleware.Authenticate(countingResolver{store: d.Sessions, driver: d.SessionDriver}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	h := routes.Handlers{
		Auth:      controllers.NewAuthController(authSvc),
		Products:  controllers.NewProductController(catalog),
		Orders:    controllers.NewOrderController(orderSvc),
		Admin:     controllers.NewAdminController(adminSvc, orderSvc),
		Web:       controllers.NewWebController(catalog),
		Health:    controllers.NewHealthController(func(ctx context.Context) error { return database.Ping(ctx, d.DB) }),
		GraphQL:   graphql.Handler(gqlSchema),
		Metrics:   metrics.Handler(),
		AuthLimit: limiter.Middleware,
	}
	if local, ok := d.Disk.(*storage.LocalDisk); ok {
		h.Storage = files(local.Root())
	}

	routes.RegisterAPI(r, h)
	routes.RegisterWeb(r, h)

	return &Kernel{router: r, limiter: limiter, events: d.Events}, nil
}

// Handler is the root http.Handler.
func (k *Kernel) Handler() http.Handler { return k.router.Handler() }

// Routes returns the route table.
func (k *Kernel) Routes() []router.Route { return k.router.Routes() }

// Limiter is the login/register rate limiter; run its eviction loop
// alongside the server.
func (k *Kernel) Limiter() *middleware.RateLimiter { return k.limiter }

// countingResolver records a metric for every session lookup.
type countingResolver struct {
	store  session.Resolver
	driver string
}

func (c countingResolver) Resolve(ctx context.Context, token string) (session.Identity, bool, error) {
	id, ok, err := c.store.Resolve(ctx, token)
	metrics.RecordSessionLookup(c.driver, ok, err)
	return id, ok, err
}

// files serves uploads from root without directory listings.
func files(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			response.Fail(w, http.StatusNotFound, "Not found")
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}

// auditLog writes security-relevant events to the request logger.
func auditLog(d *event.Dispatcher) {
	d.Listen(event.LoginFailed, func(ctx context.Context, p any) {
		if e, ok := p.(services.AuthEvent); ok {
			logger.WithCtx(ctx).Warn("login failed", "user_id", e.UserID)
		}
	})
	d.Listen(event.OrderRejected, func(ctx context.Context, p any) {
		if e, ok := p.(services.OrderEvent); ok {
			logger.WithCtx(ctx).Info("order rejected", "user_id", e.UserID, "product_id", e.ProductID, "reason", e.Reason)
		}
	})
}
