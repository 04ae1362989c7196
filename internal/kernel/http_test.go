package kernel_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/internal/kernel"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/storage"
	"github.com/shashiranjanraj/nexus/pkg/testkit"
)

type app struct {
	db     *gorm.DB
	client *testkit.Client
	k      *kernel.Kernel
}

func newApp(t *testing.T, rateLimit int) *app {
	t.Helper()
	db := testkit.DB(t)
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	k, err := kernel.New(kernel.Deps{
		DB:            db,
		Sessions:      session.NewMemoryStore(time.Hour),
		SessionDriver: "memory",
		Disk:          disk,
		AuthRateLimit: rateLimit,
	})
	require.NoError(t, err)
	return &app{db: db, client: testkit.NewClient(t, k.Handler()), k: k}
}

func (a *app) login(t *testing.T, email, password string) string {
	t.Helper()
	res := a.client.Do(http.MethodPost, "/api/login", map[string]any{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	return res.String("sessionId")
}

func (a *app) admin(t *testing.T) string {
	t.Helper()
	testkit.CreateUser(t, a.db, "Root", "root@nexus.test", "admin123", models.RoleAdmin)
	return a.login(t, "root@nexus.test", "admin123")
}

func path(format string, v ...any) string { return fmt.Sprintf(format, v...) }

func TestRegisterLoginSessionLogout(t *testing.T) {
	a := newApp(t, 0)

	res := a.client.Do(http.MethodPost, "/api/register", map[string]any{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.True(t, res.Success())
	assert.Equal(t, "Account created successfully", res.Message())
	assert.Equal(t, map[string]any{"id": 1.0, "name": "Ann", "email": "ann@example.com", "role": "user"}, res.Object("user"))
	assert.NotContains(t, string(res.Raw), "password")

	res = a.client.Do(http.MethodPost, "/api/register", map[string]any{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.False(t, res.Success())

	token := a.login(t, "ann@example.com", "secret1")

	res = a.client.Do(http.MethodGet, "/api/session/"+token, nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ann@example.com", res.Object("user")["email"])

	res = a.client.Do(http.MethodPost, "/api/logout", map[string]any{"sessionId": token}, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Logged out successfully", res.Message())

	res = a.client.Do(http.MethodGet, "/api/session/"+token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Session expired", res.Message())

	res = a.client.Do(http.MethodGet, "/api/orders", nil, token)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginRejectsInjection(t *testing.T) {
	a := newApp(t, 0)
	testkit.CreateUser(t, a.db, "Ann", "ann@example.com", "secret1", models.RoleUser)

	res := a.client.Do(http.MethodPost, "/api/login", map[string]any{
		"email": "' OR '1'='1' --", "password": "anything",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid credentials", res.Message())

	res = a.client.Do(http.MethodPost, "/api/login", map[string]any{"email": "ann@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Please provide email and password", res.Message())
}

func TestGuards(t *testing.T) {
	a := newApp(t, 0)
	testkit.CreateUser(t, a.db, "Ann", "ann@example.com", "secret1", models.RoleUser)
	user := a.login(t, "ann@example.com", "secret1")

	res := a.client.Do(http.MethodGet, "/api/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Please login to view orders", res.Message())

	res = a.client.Do(http.MethodPost, "/api/orders", map[string]any{"productId": 1}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Please login to place an order", res.Message())

	res = a.client.Do(http.MethodGet, "/api/orders/1", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Please login to continue", res.Message())

	for _, p := range []string{"/api/admin/users", "/api/admin/orders", "/api/admin/stats"} {
		res = a.client.Do(http.MethodGet, p, nil, user)
		assert.Equal(t, http.StatusForbidden, res.Code, p)
		assert.Equal(t, "Access denied", res.Message(), p)

		res = a.client.Do(http.MethodGet, p, nil, "")
		assert.Equal(t, http.StatusForbidden, res.Code, p)
	}

	res = a.client.Do(http.MethodPost, "/api/admin/products", map[string]any{"name": "X", "price": 1}, user)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestProductAdminFlow(t *testing.T) {
	a := newApp(t, 0)
	admin := a.admin(t)

	res := a.client.Do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": "Keyboard", "description": "Clicky", "price": 49.9, "stock": 3, "category": "input", "image": "",
	}, admin)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "Product added successfully", res.Message())
	id := int(res.Number("productId"))
	require.NotZero(t, id)

	res = a.client.Do(http.MethodGet, path("/api/products/%d", id), nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	p := res.Object("product")
	assert.Equal(t, 49.9, p["price"], "prices are JSON numbers")
	assert.Equal(t, models.DefaultProductImage, p["image"])

	res = a.client.Do(http.MethodPost, "/api/admin/products", map[string]any{"name": "No price"}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Name and price are required", res.Message())

	res = a.client.Do(http.MethodPut, path("/api/admin/products/%d", id), map[string]any{"stock": 10}, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Product updated", res.Message())

	res = a.client.Do(http.MethodGet, "/api/products?category=input", nil, "")
	require.Len(t, res.List("products"), 1)
	assert.Equal(t, 10.0, res.List("products")[0]["stock"])

	res = a.client.Do(http.MethodGet, "/api/products?category=other", nil, "")
	assert.Empty(t, res.List("products"))
	assert.Contains(t, string(res.Raw), `"products":[]`)

	res = a.client.Do(http.MethodDelete, path("/api/admin/products/%d", id), nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Product deleted", res.Message())

	res = a.client.Do(http.MethodGet, path("/api/products/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Product not found", res.Message())

	res = a.client.Do(http.MethodGet, "/api/products/abc", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestOrderFlowAndOwnership(t *testing.T) {
	a := newApp(t, 0)
	admin := a.admin(t)
	testkit.CreateUser(t, a.db, "Ann", "ann@example.com", "secret1", models.RoleUser)
	testkit.CreateUser(t, a.db, "Bob", "bob@example.com", "secret1", models.RoleUser)
	ann := a.login(t, "ann@example.com", "secret1")
	bob := a.login(t, "bob@example.com", "secret1")
	p := testkit.CreateProduct(t, a.db, models.Product{Name: "Headset", Price: decimal.RequireFromString("100.00"), Stock: 5})

	res := a.client.Do(http.MethodPost, "/api/orders", map[string]any{
		"productId": p.ID, "quantity": 2, "shippingAddress": "1 Main St",
	}, ann)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "Order placed successfully", res.Message())
	orderID := int(res.Number("orderId"))

	res = a.client.Do(http.MethodGet, path("/api/orders/%d", orderID), nil, ann)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 200.0, res.Object("order")["total"])
	assert.Equal(t, "processing", res.Object("order")["status"])

	res = a.client.Do(http.MethodGet, path("/api/orders/%d", orderID), nil, bob)
	assert.Equal(t, http.StatusNotFound, res.Code, "another user's order reads as missing")
	assert.Equal(t, "Order not found", res.Message())

	res = a.client.Do(http.MethodGet, "/api/orders", nil, bob)
	assert.Empty(t, res.List("orders"))

	res = a.client.Do(http.MethodGet, path("/api/orders/%d", orderID), nil, admin)
	assert.Equal(t, http.StatusOK, res.Code)

	res = a.client.Do(http.MethodPost, "/api/orders", map[string]any{"productId": p.ID, "quantity": 4}, bob)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Insufficient stock", res.Message())

	res = a.client.Do(http.MethodPost, "/api/orders", map[string]any{"productId": 999}, bob)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.client.Do(http.MethodPut, path("/api/admin/orders/%d/status", orderID), map[string]any{"status": "delivered"}, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Order status updated", res.Message())

	res = a.client.Do(http.MethodGet, "/api/admin/orders", nil, admin)
	require.Len(t, res.List("orders"), 1)
	o := res.List("orders")[0]
	assert.Equal(t, "delivered", o["status"])
	assert.Equal(t, "Ann", o["user_name"])
	assert.Equal(t, "ann@example.com", o["user_email"])

	res = a.client.Do(http.MethodGet, "/api/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]any{
		"totalUsers": 3.0, "totalOrders": 1.0, "totalRevenue": 200.0, "totalProducts": 1.0,
	}, res.Object("stats"))

	res = a.client.Do(http.MethodGet, "/api/admin/users", nil, admin)
	require.Len(t, res.List("users"), 3)
	assert.NotContains(t, string(res.Raw), "password")
}

func TestConcurrentCheckoutOverHTTP(t *testing.T) {
	a := newApp(t, 0)
	testkit.CreateUser(t, a.db, "Ann", "ann@example.com", "secret1", models.RoleUser)
	testkit.CreateUser(t, a.db, "Bob", "bob@example.com", "secret1", models.RoleUser)
	tokens := []string{a.login(t, "ann@example.com", "secret1"), a.login(t, "bob@example.com", "secret1")}
	p := testkit.CreateProduct(t, a.db, models.Product{Name: "Last", Price: decimal.NewFromInt(10), Stock: 5})

	codes := make([]int, len(tokens))
	var wg sync.WaitGroup
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			codes[i] = a.client.Do(http.MethodPost, "/api/orders", map[string]any{"productId": p.ID, "quantity": 3}, tok).Code
		}(i, tok)
	}
	wg.Wait()
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, codes)
}

func TestStoredMarkupIsEscaped(t *testing.T) {
	a := newApp(t, 0)
	admin := a.admin(t)
	evil := `<script>alert("pwned")</script>`

	res := a.client.Do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": `<img src=x onerror=alert(1)>`, "description": evil, "price": 5,
	}, admin)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	id := int(res.Number("productId"))

	res = a.client.Do(http.MethodGet, path("/api/products/%d", id), nil, "")
	assert.NotContains(t, string(res.Raw), "<script>")
	assert.Contains(t, string(res.Raw), `\u003cscript\u003e`)
	assert.Equal(t, evil, res.Object("product")["description"], "stored verbatim")

	for _, p := range []string{"/", path("/products/%d", id)} {
		res = a.client.Do(http.MethodGet, p, nil, "")
		require.Equal(t, http.StatusOK, res.Code, p)
		assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
		body := string(res.Raw)
		assert.NotContains(t, body, "<script>alert", p)
		assert.NotContains(t, body, "<img src=x", p)
		assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;", p)
	}

	res = a.client.Do(http.MethodGet, path("/products/%d", id), nil, "")
	assert.Contains(t, string(res.Raw), "&lt;script&gt;")
}

func TestWebNotFound(t *testing.T) {
	a := newApp(t, 0)
	res := a.client.Do(http.MethodGet, "/products/404", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, string(res.Raw), "Product not found")

	res = a.client.Do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Not found", res.Message())
}

func TestImageUploadIsServed(t *testing.T) {
	a := newApp(t, 0)
	admin := a.admin(t)
	p := testkit.CreateProduct(t, a.db, models.Product{Name: "Mouse", Price: decimal.NewFromInt(10)})

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 64)...)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "mouse.png")
	require.NoError(t, err)
	_, _ = fw.Write(png)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path("/api/admin/products/%d/image", p.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Session-Id", admin)
	res := a.client.Send(req)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

	url := res.String("image")
	require.True(t, strings.HasPrefix(url, "/storage/products/"), url)

	served := a.client.Do(http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, png, served.Raw)

	listing := a.client.Do(http.MethodGet, "/storage/products/", nil, "")
	assert.Equal(t, http.StatusNotFound, listing.Code)
}

func TestAuthRateLimit(t *testing.T) {
	a := newApp(t, 2)
	creds := map[string]any{"email": "x@example.com", "password": "wrong-pass"}

	assert.Equal(t, http.StatusUnauthorized, a.client.Do(http.MethodPost, "/api/login", creds, "").Code)
	assert.Equal(t, http.StatusUnauthorized, a.client.Do(http.MethodPost, "/api/login", creds, "").Code)
	res := a.client.Do(http.MethodPost, "/api/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))

	assert.Equal(t, http.StatusOK, a.client.Do(http.MethodGet, "/api/products", nil, "").Code, "other routes unthrottled")
}

func TestHealthMetricsAndGraphQL(t *testing.T) {
	a := newApp(t, 0)
	testkit.CreateProduct(t, a.db, models.Product{Name: "Mouse", Price: decimal.NewFromInt(10), Category: "mice"})

	res := a.client.Do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.String("status"))

	res = a.client.Do(http.MethodPost, "/graphql", map[string]any{"query": `{ products { name category } }`}, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []any{map[string]any{"name": "Mouse", "category": "mice"}}, res.Object("data")["products"])

	res = a.client.Do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Raw), "nexus_http_requests_total")

	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestRouteTable(t *testing.T) {
	a := newApp(t, 0)
	names := map[string]bool{}
	for _, r := range a.k.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{
		"auth.register", "auth.login", "auth.logout", "auth.session",
		"products.index", "products.show", "orders.index", "orders.store", "orders.show",
		"admin.products.store", "admin.products.update", "admin.products.destroy", "admin.products.image",
		"admin.users", "admin.orders", "admin.orders.status", "admin.stats",
		"graphql", "web.index", "web.products.show", "storage", "metrics", "health",
	} {
		assert.True(t, names[want], want)
	}
}
