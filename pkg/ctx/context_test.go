package ctx_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	appctx "github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/response"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

func TestWrapAndOK(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.OK(response.Fields{"ok": 1})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"ok":1`)
}

func TestParamID(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	r.Get("/p/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamID("id", "Product not found")
		if !ok {
			return
		}
		got = id
		c.Message("found")
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), got)

	for _, bad := range []string{"/p/abc", "/p/0", "/p/-3"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, bad, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, bad)
		assert.Contains(t, rec.Body.String(), "Product not found")
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":""}`))

	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Status string `json:"status" validate:"required"`
		}
		assert.False(t, c.BindJSON(&in))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "The status field is required.")
}

func TestIdentityAndToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", " tok ")
	want := session.Identity{UserID: 3, Role: "admin"}
	req = req.WithContext(session.WithIdentity(req.Context(), want))

	appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.Identity()
		assert.True(t, ok)
		assert.Equal(t, want, id)
		assert.Equal(t, "tok", c.SessionToken())
	})(rec, req)
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
	})(rec, req)
}

func TestHTMLEscapes(t *testing.T) {
	tmpl := template.Must(template.New("p").Parse(`{{define "p"}}<p>{{.}}</p>{{end}}`))
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.HTML(http.StatusOK, tmpl, "p", "<script>alert(1)</script>")
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}
