package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// List returns products ordered by id. A non-empty category restricts the
// result to an exact match.
func (r *ProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	products := []models.Product{}
	q := r.db.WithContext(ctx).Order("id")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&products).Error
	return products, err
}

// Categories returns the distinct categories in use, sorted.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").Order("category").Pluck("category", &out).Error
	return out, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update writes the given columns on product id.
func (r *ProductRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes product id and reports whether a row went.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected > 0, res.Error
}

// DecrementStock takes qty units from product id in a single conditional
// UPDATE. It reports false when the product has fewer than qty left, so two
// concurrent buyers can never both take the last unit.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected == 1, res.Error
}

// SetImage points product id at url.
func (r *ProductRepository) SetImage(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).UpdateColumn("image", url).Error
}

// Count returns the number of products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}
