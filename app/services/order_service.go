package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/event"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/orm"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/validate"
)

var errInsufficientStock = apperr.Validation("Insufficient stock")

// OrderInput is the checkout form.
type OrderInput struct {
	ProductID       uint   `json:"productId"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shippingAddress" validate:"max=1000"`
}

// StatusInput is the admin status change form.
type StatusInput struct {
	Status string `json:"status" validate:"max=50"`
}

// OrderEvent is the payload of order.* events.
type OrderEvent struct {
	OrderID   uint
	UserID    uint
	ProductID uint
	Quantity  int
	Total     decimal.Decimal
	Status    string
	Reason    string
}

// OrderService places and tracks orders.
type OrderService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	events   *event.Dispatcher
}

func NewOrderService(db *gorm.DB, products *repositories.ProductRepository, orders *repositories.OrderRepository, events *event.Dispatcher) *OrderService {
	return &OrderService{db: db, products: products, orders: orders, events: events}
}

// CreateOrder buys in.Quantity units of a product for caller. The stock
// check, the decrement and the insert commit together or not at all.
func (s *OrderService) CreateOrder(ctx context.Context, caller session.Identity, in OrderInput) (uint, error) {
	if caller.UserID == 0 {
		return 0, apperr.Unauthorized("Please login to place an order")
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if err := validate.Check(in); err != nil {
		return 0, err
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		p, err := products.FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}

		ok, err := products.DecrementStock(ctx, p.ID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return errInsufficientStock
		}

		order = models.Order{
			UserID:          caller.UserID,
			ProductName:     p.Name,
			Quantity:        in.Quantity,
			Total:           p.Price.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
			Status:          models.StatusProcessing,
			ShippingAddress: in.ShippingAddress,
		}
		return s.orders.WithTx(tx).Create(ctx, &order)
	})

	switch {
	case err == nil:
	case orm.IsNotFound(err):
		return 0, apperr.NotFound("Product not found")
	case errors.Is(err, errInsufficientStock):
		s.events.Fire(ctx, event.OrderRejected, OrderEvent{
			UserID: caller.UserID, ProductID: in.ProductID, Quantity: in.Quantity, Reason: "insufficient_stock",
		})
		return 0, err
	default:
		return 0, apperr.Internal("Failed to create order", err)
	}

	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID, "user_id", caller.UserID, "product_id", in.ProductID,
		"quantity", order.Quantity, "total", order.Total.StringFixed(2))
	s.events.Fire(ctx, event.OrderPlaced, OrderEvent{
		OrderID: order.ID, UserID: caller.UserID, ProductID: in.ProductID,
		Quantity: order.Quantity, Total: order.Total, Status: order.Status,
	})
	return order.ID, nil
}

// ListOwnOrders returns caller's orders, newest first.
func (s *OrderService) ListOwnOrders(ctx context.Context, caller session.Identity) ([]models.Order, error) {
	if caller.UserID == 0 {
		return nil, apperr.Unauthorized("Please login to view orders")
	}
	orders, err := s.orders.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Internal("Failed to load orders", err)
	}
	return orders, nil
}

// GetOrder returns order id. Non-admins only see their own orders; someone
// else's order reads as missing.
func (s *OrderService) GetOrder(ctx context.Context, caller session.Identity, id uint) (models.Order, error) {
	if caller.UserID == 0 {
		return models.Order{}, apperr.Unauthorized("Please login to continue")
	}

	var (
		o   models.Order
		err error
	)
	if caller.IsAdmin() {
		o, err = s.orders.FindByID(ctx, id)
	} else {
		o, err = s.orders.FindOwned(ctx, id, caller.UserID)
	}
	if orm.IsNotFound(err) {
		return models.Order{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return models.Order{}, apperr.Internal("Failed to load order", err)
	}
	return o, nil
}

// ListAllOrders returns every order with its owner's name and email.
func (s *OrderService) ListAllOrders(ctx context.Context, caller session.Identity) ([]models.OrderWithUser, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListWithUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load orders", err)
	}
	return orders, nil
}

// SetOrderStatus stores any non-empty status on order id. There is no
// transition graph.
func (s *OrderService) SetOrderStatus(ctx context.Context, caller session.Identity, id uint, in StatusInput) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if blank(in.Status) {
		return apperr.Validation("Status is required")
	}
	if err := validate.Check(in); err != nil {
		return err
	}

	o, err := s.orders.FindByID(ctx, id)
	if orm.IsNotFound(err) {
		return apperr.NotFound("Order not found")
	}
	if err != nil {
		return apperr.Internal("Failed to update order", err)
	}

	if err := s.orders.UpdateStatus(ctx, id, in.Status); err != nil {
		return apperr.Internal("Failed to update order", err)
	}

	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "from", o.Status, "to", in.Status, "by", caller.UserID)
	s.events.Fire(ctx, event.OrderStatusChanged, OrderEvent{
		OrderID: id, UserID: o.UserID, Quantity: o.Quantity, Total: o.Total, Status: in.Status,
	})
	return nil
}
