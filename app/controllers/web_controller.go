package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/app/views"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
)

// WebController renders the HTML storefront.
type WebController struct {
	catalog *services.CatalogService
}

func NewWebController(catalog *services.CatalogService) *WebController {
	return &WebController{catalog: catalog}
}

type page struct {
	Title      string
	Message    string
	Category   string
	Categories []string
	Products   []models.Product
	Product    *models.Product
	Fallback   string
}

func newPage(title string) page {
	return page{Title: title, Fallback: models.DefaultProductImage}
}

// Index renders GET /.
func (wc *WebController) Index(c *ctx.Context) {
	category := c.Query("category")
	products, err := wc.catalog.ListProducts(c.Context(), category)
	if err != nil {
		wc.fail(c, err)
		return
	}
	cats, err := wc.catalog.Categories(c.Context())
	if err != nil {
		wc.fail(c, err)
		return
	}

	p := newPage("Shop")
	if category != "all" {
		p.Category = category
	}
	p.Categories = cats
	p.Products = products
	c.HTML(http.StatusOK, views.Pages, "index.html", p)
}

// Show renders GET /products/{id}.
func (wc *WebController) Show(c *ctx.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		wc.fail(c, apperr.NotFound("Product not found"))
		return
	}
	prod, err := wc.catalog.GetProduct(c.Context(), id)
	if err != nil {
		wc.fail(c, err)
		return
	}
	p := newPage(prod.Name)
	p.Product = &prod
	c.HTML(http.StatusOK, views.Pages, "product.html", p)
}

func (wc *WebController) fail(c *ctx.Context, err error) {
	p := newPage("Something went wrong")
	p.Message = apperr.Message(err)
	if errors.Is(err, apperr.ErrNotFound) {
		p.Title = "Not found"
	}
	c.HTML(apperr.Status(err), views.Pages, "not_found.html", p)
}
