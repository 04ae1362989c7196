package controllers

import (
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store handles POST /api/orders.
func (oc *OrderController) Store(c *ctx.Context) {
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	caller, _ := c.Identity()
	id, err := oc.orders.CreateOrder(c.Context(), caller, in)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"message": "Order placed successfully", "orderId": id})
}

// Index handles GET /api/orders.
func (oc *OrderController) Index(c *ctx.Context) {
	caller, _ := c.Identity()
	orders, err := oc.orders.ListOwnOrders(c.Context(), caller)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"orders": orders})
}

// Show handles GET /api/orders/{id}.
func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id", "Order not found")
	if !ok {
		return
	}
	caller, _ := c.Identity()
	o, err := oc.orders.GetOrder(c.Context(), caller, id)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{"order": o})
}
