// Package ctx provides the request context used by storefront controllers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a controller
// receives a single *Context:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    if !ok {
//	        return
//	    }
//	    p, err := pc.catalog.GetProduct(c.Context(), id)
//	    if err != nil {
//	        c.Err(err)
//	        return
//	    }
//	    c.OK(response.Fields{"product": p})
//	}
//
//	router.Get("/api/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/bind"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/response"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a positive integer path parameter. On failure it writes
// 404 with notFound (or "Not found") and returns false.
func (c *Context) ParamID(key string, notFound ...string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		msg := "Not found"
		if len(notFound) > 0 {
			msg = notFound[0]
		}
		c.Fail(http.StatusNotFound, msg)
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// SessionToken returns the X-Session-Id request header.
func (c *Context) SessionToken() string {
	return strings.TrimSpace(c.R.Header.Get("X-Session-Id"))
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the caller resolved by the Authenticate middleware.
func (c *Context) Identity() (session.Identity, bool) {
	return session.FromContext(c.R.Context())
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the JSON body into dest. On failure it
// writes a 400 and returns false.
//
//	var in createOrderRequest
//	if !c.BindJSON(&in) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.W, c.R, dest); err != nil {
		c.Err(err)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// OK sends 200 {"success":true, ...fields}.
func (c *Context) OK(fields response.Fields) { response.OK(c.W, fields) }

// Message sends 200 {"success":true,"message":msg}.
func (c *Context) Message(msg string) { response.Message(c.W, msg) }

// Fail sends {"success":false,"message":msg}.
func (c *Context) Fail(code int, msg string) { response.Fail(c.W, code, msg) }

// Err maps an application error to its status and envelope.
func (c *Context) Err(err error) { response.Err(c.W, c.R, err) }

// HTML executes the named template into the response. Values are
// contextually escaped by html/template.
func (c *Context) HTML(code int, t *template.Template, name string, data any) {
	c.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.W.WriteHeader(code)
	if err := t.ExecuteTemplate(c.W, name, data); err != nil {
		logger.WithCtx(c.Context()).Error("template render failed", "template", name, "error", err)
	}
}

// NotFound sends a 404 envelope for a missing entity.
func (c *Context) NotFound(msg string) { c.Err(apperr.NotFound(msg)) }
