package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// ListByUser returns the orders owned by userID, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// FindByID looks up an order by primary key with no ownership check.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	return o, err
}

// FindOwned looks up order id only if it belongs to userID.
func (r *OrderRepository) FindOwned(ctx context.Context, id, userID uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&o).Error
	return o, err
}

// ListWithUsers returns every order joined with its owner, newest first.
func (r *OrderRepository) ListWithUsers(ctx context.Context) ([]models.OrderWithUser, error) {
	orders := []models.OrderWithUser{}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.date DESC").Order("orders.id DESC").
		Scan(&orders).Error
	return orders, err
}

// UpdateStatus sets the status column of order id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).UpdateColumn("status", status).Error
}

// Count returns the number of orders.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// Revenue sums every order total regardless of status.
func (r *OrderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&sum)
	return sum.Round(2), err
}
