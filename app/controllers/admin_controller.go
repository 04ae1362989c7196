package controllers

import (
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/response"
)

// AdminController serves the admin panel's users, orders and stats.
type AdminController struct {
	admin  *services.AdminService
	orders *services.OrderService
}

func NewAdminController(admin *services.AdminService, orders *services.OrderService) *AdminController {
	return &AdminController{admin: admin, orders: orders}
}

func (ac *AdminController) Users(c *ctx.Context) {
	caller, _ := c.Identity()
	users, err := ac.admin.ListUsers(c.Context(), caller)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"users": users})
}

func (ac *AdminController) Orders(c *ctx.Context) {
	caller, _ := c.Identity()
	orders, err := ac.orders.ListAllOrders(c.Context(), caller)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"orders": orders})
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status.
func (ac *AdminController) UpdateOrderStatus(c *ctx.Context) {
	id, ok := c.ParamID("id", "Order not found")
	if !ok {
		return
	}
	var in services.StatusInput
	if !c.BindJSON(&in) {
		return
	}
	caller, _ := c.Identity()
	if err := ac.orders.SetOrderStatus(c.Context(), caller, id, in); err != nil {
		c.Err(err)
		return
	}
	c.Message("Order status updated")
}

func (ac *AdminController) Stats(c *ctx.Context) {
	caller, _ := c.Identity()
	st, err := ac.admin.GetStats(c.Context(), caller)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"stats": st})
}
