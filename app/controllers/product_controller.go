package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/response"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index handles GET /api/products?category=.
func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.catalog.ListProducts(c.Context(), c.Query("category"))
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"products": products})
}

// Show handles GET /api/products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id", "Product not found")
	if !ok {
		return
	}
	p, err := pc.catalog.GetProduct(c.Context(), id)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"product": p})
}

// Store handles POST /api/admin/products.
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	caller, _ := c.Identity()
	id, err := pc.catalog.CreateProduct(c.Context(), caller, in)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"message": "Product added successfully", "productId": id})
}

// Update handles PUT /api/admin/products/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id", "Product not found")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	caller, _ := c.Identity()
	if err := pc.catalog.UpdateProduct(c.Context(), caller, id, in); err != nil {
		c.Err(err)
		return
	}
	c.Message("Product updated")
}

// Destroy handles DELETE /api/admin/products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id", "Product not found")
	if !ok {
		return
	}
	caller, _ := c.Identity()
	if err := pc.catalog.DeleteProduct(c.Context(), caller, id); err != nil {
		c.Err(err)
		return
	}
	c.Message("Product deleted")
}

// UploadImage handles POST /api/admin/products/{id}/image with a multipart
// "image" field.
func (pc *ProductController) UploadImage(c *ctx.Context) {
	id, ok := c.ParamID("id", "Product not found")
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, services.MaxImageBytes+1<<20)
	if err := c.R.ParseMultipartForm(1 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Err(apperr.Validation("Image must be at most 5 MB"))
			return
		}
		c.Err(apperr.Validation("Expected a multipart form with an image field"))
		return
	}
	defer c.R.MultipartForm.RemoveAll() //nolint:errcheck

	file, _, err := c.R.FormFile("image")
	if err != nil {
		c.Err(apperr.Validation("Image is required"))
		return
	}
	defer file.Close()

	caller, _ := c.Identity()
	url, err := pc.catalog.AttachImage(c.Context(), caller, id, file)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"message": "Image uploaded", "image": url})
}
