package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nexus/pkg/middleware"
	"github.com/shashiranjanraj/nexus/pkg/rbac"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(id.Name))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(middleware.SessionHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateResolvesToken(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	tok, err := store.Create(context.Background(), session.Identity{UserID: 1, Name: "Ann", Role: "user"})
	require.NoError(t, err)

	h := middleware.Authenticate(store)(http.HandlerFunc(whoami))

	assert.Equal(t, "Ann", serve(h, tok).Body.String())
	assert.Equal(t, "anonymous", serve(h, "").Body.String())
	assert.Equal(t, "anonymous", serve(h, "forged").Body.String())
}

func TestRequireAuthAndHasRole(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	ctx := context.Background()
	userTok, _ := store.Create(ctx, session.Identity{UserID: 1, Name: "Ann", Role: "user"})
	adminTok, _ := store.Create(ctx, session.Identity{UserID: 2, Name: "Root", Role: "admin"})

	authn := middleware.Authenticate(store)
	user := authn(middleware.RequireAuth("Please login to view orders")(http.HandlerFunc(whoami)))
	admin := authn(rbac.HasRole("admin")(http.HandlerFunc(whoami)))

	rec := serve(user, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Please login to view orders"}`, rec.Body.String())
	assert.Equal(t, http.StatusOK, serve(user, userTok).Code)

	rec = serve(admin, userTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Access denied"}`, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, serve(admin, "").Code)
	assert.Equal(t, "Root", serve(admin, adminTok).Body.String())
}

func TestRateLimiter(t *testing.T) {
	l := middleware.NewRateLimiter(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(whoami))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "buckets are per IP")
	assert.Zero(t, l.Evict(), "windows still open")
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"An error occurred"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions("https://shop.example.com"))(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), middleware.SessionHeader)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "anonymous", rec.Body.String())
}
