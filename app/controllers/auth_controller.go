package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/services"
	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// userView is the account shape returned by register and login.
func userView(u models.User) response.Fields {
	return response.Fields{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

// Register handles POST /api/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := ac.auth.Register(c.Context(), in)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{
		"message":   "Account created successfully",
		"sessionId": res.Token,
		"user":      userView(res.User),
	})
}

// Login handles POST /api/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := ac.auth.Login(c.Context(), in)
	if err != nil {
		c.Err(err)
		return
	}
	c.OK(response.Fields{
		"message":   "Login successful",
		"sessionId": res.Token,
		"user":      userView(res.User),
	})
}

// Logout handles POST /api/logout. The token may come in the body as
// sessionId or in the session header.
func (ac *AuthController) Logout(c *ctx.Context) {
	var in struct {
		SessionID string `json:"sessionId"`
	}
	if !c.BindJSON(&in) {
		return
	}
	token := in.SessionID
	if token == "" {
		token = c.SessionToken()
	}
	if err := ac.auth.Logout(c.Context(), token); err != nil {
		c.Err(err)
		return
	}
	c.Message("Logged out successfully")
}

// Session handles GET /api/session/{sessionId}.
func (ac *AuthController) Session(c *ctx.Context) {
	id, ok, err := ac.auth.ResolveSession(c.Context(), c.Param("sessionId"))
	if err != nil {
		c.Err(err)
		return
	}
	if !ok {
		c.Fail(http.StatusUnauthorized, "Session expired")
		return
	}
	c.OK(response.Fields{"user": id})
}
