// Package testkit holds helpers shared by package tests: a migrated
// throwaway database and a small JSON client for exercising handlers.
package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
	_ "github.com/shashiranjanraj/nexus/database/migrations" // register schema
	"github.com/shashiranjanraj/nexus/pkg/auth"
	"github.com/shashiranjanraj/nexus/pkg/database"
	"github.com/shashiranjanraj/nexus/pkg/migration"
)

// DB opens a temp-file sqlite database with every registered migration
// applied. bcrypt runs at minimum cost for the rest of the test.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	prev := auth.Cost
	auth.Cost = bcrypt.MinCost
	t.Cleanup(func() { auth.Cost = prev })

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "nexus_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)
	return db
}

// CreateUser inserts a user with the given role and password.
func CreateUser(t testing.TB, db *gorm.DB, name, email, password, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := models.User{Name: name, Email: email, Password: hash, Role: role}
	require.NoError(t, db.WithContext(context.Background()).Create(&u).Error)
	return u
}

// CreateProduct inserts p and returns it with its id set.
func CreateProduct(t testing.TB, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&p).Error)
	return p
}
