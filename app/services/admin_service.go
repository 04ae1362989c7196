package services

import (
	"context"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

// AdminService serves the dashboard aggregates.
type AdminService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewAdminService(users *repositories.UserRepository, products *repositories.ProductRepository, orders *repositories.OrderRepository) *AdminService {
	return &AdminService{users: users, products: products, orders: orders}
}

// GetStats counts users, orders and products and sums every order total.
func (s *AdminService) GetStats(ctx context.Context, caller session.Identity) (models.Stats, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Stats{}, err
	}

	var (
		st  models.Stats
		err error
	)
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return models.Stats{}, apperr.Internal("Failed to load stats", err)
	}
	if st.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return models.Stats{}, apperr.Internal("Failed to load stats", err)
	}
	if st.TotalRevenue, err = s.orders.Revenue(ctx); err != nil {
		return models.Stats{}, apperr.Internal("Failed to load stats", err)
	}
	if st.TotalProducts, err = s.products.Count(ctx); err != nil {
		return models.Stats{}, apperr.Internal("Failed to load stats", err)
	}
	return st, nil
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context, caller session.Identity) ([]models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load users", err)
	}
	return users, nil
}
