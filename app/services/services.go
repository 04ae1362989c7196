// Package services holds the storefront business logic. Services take the
// caller's session identity explicitly and re-check roles themselves, so
// route guards are never the only authorization layer.
package services

import (
	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

const msgAccessDenied = "Access denied"

func requireAdmin(id session.Identity) error {
	if id.UserID == 0 || id.Role != models.RoleAdmin {
		return apperr.Forbidden(msgAccessDenied)
	}
	return nil
}

func identityOf(u models.User) session.Identity {
	return session.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
