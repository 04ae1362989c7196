package routes

import (
	"net/http"

	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/router"
)

// RegisterWeb mounts the HTML pages, uploaded files and operational
// endpoints.
func RegisterWeb(r *router.Router, h Handlers) {
	r.Get("/", "web.index", ctx.Wrap(h.Web.Index))
	r.Get("/products/{id}", "web.products.show", ctx.Wrap(h.Web.Show))

	if h.Storage != nil {
		r.Handle("/storage", "storage", http.StripPrefix("/storage", h.Storage))
	}
	if h.Metrics != nil {
		r.Get("/metrics", "metrics", h.Metrics)
	}
	r.Get("/healthz", "health", ctx.Wrap(h.Health.Check))
}
