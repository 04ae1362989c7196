package schema_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/app/schema"
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/graphql"
	"github.com/shashiranjanraj/nexus/pkg/testkit"
)

func query(t *testing.T, h http.Handler, q string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": q})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCatalogueQueries(t *testing.T) {
	db := testkit.DB(t)
	testkit.CreateProduct(t, db, models.Product{Name: "Headset", Price: decimal.RequireFromString("79.99"), Stock: 4, Category: "audio"})
	mouse := testkit.CreateProduct(t, db, models.Product{Name: "Mouse", Price: decimal.NewFromInt(25), Stock: 9, Category: "mice"})

	s, err := schema.Catalogue(services.NewCatalogService(repositories.NewProductRepository(db), nil))
	require.NoError(t, err)
	h := graphql.Handler(s)

	out := query(t, h, `{ products(category: "audio") { name price stock } }`)
	assert.Nil(t, out["errors"])
	products := out["data"].(map[string]any)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, map[string]any{"name": "Headset", "price": 79.99, "stock": 4.0}, products[0])

	out = query(t, h, `{ product(id: `+itoa(mouse.ID)+`) { name category } categories }`)
	data := out["data"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Mouse", "category": "mice"}, data["product"])
	assert.Equal(t, []any{"audio", "mice"}, data["categories"])

	out = query(t, h, `{ product(id: 999) { name } }`)
	assert.Nil(t, out["data"].(map[string]any)["product"])
}

func TestCatalogueRejectsMutationsAndBadBodies(t *testing.T) {
	db := testkit.DB(t)
	s, err := schema.Catalogue(services.NewCatalogService(repositories.NewProductRepository(db), nil))
	require.NoError(t, err)
	h := graphql.Handler(s)

	out := query(t, h, `mutation { deleteProduct(id: 1) }`)
	assert.NotEmpty(t, out["errors"])

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
