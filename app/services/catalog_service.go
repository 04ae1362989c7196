package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/orm"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/storage"
	"github.com/shashiranjanraj/nexus/pkg/validate"
)

// MaxImageBytes caps uploaded product images.
const MaxImageBytes = 5 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProductInput carries product fields. Nil fields are "not supplied": on
// create they take defaults, on update they are left unchanged.
type ProductInput struct {
	Name        *string          `json:"name"        validate:"max=255"`
	Description *string          `json:"description" validate:"max=10000"`
	Price       *decimal.Decimal `json:"price"       validate:"gte=0,lte=99999999"`
	Image       *string          `json:"image"       validate:"nullable,url,max=1024"`
	Stock       *int             `json:"stock"       validate:"gte=0"`
	Category    *string          `json:"category"    validate:"max=100"`
}

// CatalogService manages the product catalogue.
type CatalogService struct {
	products *repositories.ProductRepository
	disk     storage.Disk
}

// NewCatalogService wires the catalogue. disk may be nil, in which case
// image uploads are refused.
func NewCatalogService(products *repositories.ProductRepository, disk storage.Disk) *CatalogService {
	return &CatalogService{products: products, disk: disk}
}

// ListProducts returns every product, or only those in category when it is
// set and not "all".
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	if category == "all" {
		category = ""
	}
	products, err := s.products.List(ctx, category)
	if err != nil {
		return nil, apperr.Internal("Failed to load products", err)
	}
	return products, nil
}

// Categories returns the categories currently in use.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.products.Categories(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load products", err)
	}
	return cats, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if orm.IsNotFound(err) {
		return models.Product{}, apperr.NotFound("Product not found")
	}
	if err != nil {
		return models.Product{}, apperr.Internal("Failed to load product", err)
	}
	return p, nil
}

// CreateProduct adds a product and returns its id.
func (s *CatalogService) CreateProduct(ctx context.Context, caller session.Identity, in ProductInput) (uint, error) {
	if err := requireAdmin(caller); err != nil {
		return 0, err
	}
	if in.Name == nil || blank(*in.Name) || in.Price == nil {
		return 0, apperr.Validation("Name and price are required")
	}
	if err := validate.Check(in); err != nil {
		return 0, err
	}

	p := models.Product{
		Name:     *in.Name,
		Price:    in.Price.Round(2),
		Image:    models.DefaultProductImage,
		Category: models.DefaultCategory,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil && !blank(*in.Image) {
		p.Image = *in.Image
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil && !blank(*in.Category) {
		p.Category = *in.Category
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return 0, apperr.Internal("Failed to add product", err)
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "by", caller.UserID)
	return p.ID, nil
}

// UpdateProduct writes the supplied fields of product id.
func (s *CatalogService) UpdateProduct(ctx context.Context, caller session.Identity, id uint, in ProductInput) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if in.Name != nil && blank(*in.Name) {
		return apperr.Validation("Name cannot be empty")
	}
	if err := validate.Check(in); err != nil {
		return err
	}

	if _, err := s.products.FindByID(ctx, id); err != nil {
		if orm.IsNotFound(err) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Internal("Failed to update product", err)
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = in.Price.Round(2)
	}
	if in.Image != nil {
		img := *in.Image
		if blank(img) {
			img = models.DefaultProductImage
		}
		fields["image"] = img
	}
	if in.Stock != nil {
		fields["stock"] = *in.Stock
	}
	if in.Category != nil {
		cat := *in.Category
		if blank(cat) {
			cat = models.DefaultCategory
		}
		fields["category"] = cat
	}

	if err := s.products.Update(ctx, id, fields); err != nil {
		return apperr.Internal("Failed to update product", err)
	}
	logger.WithCtx(ctx).Info("product updated", "product_id", id, "fields", len(fields), "by", caller.UserID)
	return nil
}

// DeleteProduct removes product id. Existing orders keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, caller session.Identity, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete product", err)
	}
	if !deleted {
		return apperr.NotFound("Product not found")
	}
	logger.WithCtx(ctx).Info("product deleted", "product_id", id, "by", caller.UserID)
	return nil
}

// AttachImage stores an uploaded image for product id on the disk and
// points the product at it. Only JPEG, PNG, GIF and WebP are accepted,
// judged by content rather than by the client's declared type.
func (s *CatalogService) AttachImage(ctx context.Context, caller session.Identity, id uint, r io.Reader) (string, error) {
	if err := requireAdmin(caller); err != nil {
		return "", err
	}
	if s.disk == nil {
		return "", apperr.Internal("Image storage is not configured", nil)
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", apperr.Validation("Failed to read image")
	}
	if len(data) == 0 {
		return "", apperr.Validation("Image is required")
	}
	if len(data) > MaxImageBytes {
		return "", apperr.Validation("Image must be at most 5 MB")
	}

	contentType := http.DetectContentType(data)
	contentType, _, _ = strings.Cut(contentType, ";")
	ext, ok := imageExt[contentType]
	if !ok {
		return "", apperr.Validation("Image must be a JPEG, PNG, GIF or WebP file")
	}

	key := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", apperr.Internal("Failed to store image", err)
	}

	url := s.disk.URL(key)
	if err := s.products.SetImage(ctx, id, url); err != nil {
		_ = s.disk.Delete(ctx, key)
		return "", apperr.Internal("Failed to update product", err)
	}
	logger.WithCtx(ctx).Info("product image stored", "product_id", id, "key", key, "bytes", len(data))
	return url, nil
}
