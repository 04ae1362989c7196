package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/config"
	"github.com/shashiranjanraj/nexus/pkg/auth"
	"github.com/shashiranjanraj/nexus/pkg/logger"
)

func init() {
	Register("storefront", SeedStorefront)
}

var demoProducts = []models.Product{
	{
		Name:        "NVIDIA GeForce RTX 4090 Founders Edition",
		Description: "The ultimate graphics card for enthusiasts. Featuring 24GB GDDR6X memory.",
		Price:       decimal.RequireFromString("1599.99"),
		Image:       "https://images.unsplash.com/photo-1591488320449-011701bb6704?w=800&q=80",
		Stock:       8,
		Category:    "graphics",
	},
	{
		Name:        "Phantom Elite Mechanical Keyboard",
		Description: "Premium 65% mechanical keyboard with hot-swappable switches.",
		Price:       decimal.RequireFromString("349.99"),
		Image:       "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?w=800&q=80",
		Stock:       24,
		Category:    "keyboards",
	},
	{
		Name:        "Apex Pro Wireless Gaming Mouse",
		Description: "Ultra-lightweight wireless gaming mouse at just 58g.",
		Price:       decimal.RequireFromString("179.99"),
		Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=800&q=80",
		Stock:       42,
		Category:    "mice",
	},
	{
		Name:        `UltraView OLED 27" 240Hz Monitor`,
		Description: "Professional-grade OLED gaming monitor with 2560x1440 resolution.",
		Price:       decimal.RequireFromString("999.99"),
		Image:       "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=800&q=80",
		Stock:       12,
		Category:    "monitors",
	},
	{
		Name:        "Nova Pro Wireless Headset",
		Description: "Premium wireless gaming headset with active noise cancellation.",
		Price:       decimal.RequireFromString("279.99"),
		Image:       "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?w=800&q=80",
		Stock:       35,
		Category:    "audio",
	},
	{
		Name:        "StreamDeck Pro Controller",
		Description: "Professional streaming controller with 15 customizable LCD keys.",
		Price:       decimal.RequireFromString("249.99"),
		Image:       "https://images.unsplash.com/photo-1616588589676-62b3bd4ff6d2?w=800&q=80",
		Stock:       18,
		Category:    "accessories",
	},
}

// SeedStorefront inserts the admin account and the demo catalogue when the
// users table is empty. It is a no-op on an already populated database.
func SeedStorefront(ctx context.Context, db *gorm.DB) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		logger.Debug("seed: storefront already populated", "users", users)
		return nil
	}

	hash, err := auth.HashPassword(config.SeedAdminPassword())
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			Name:     "System Administrator",
			Email:    config.SeedAdminEmail(),
			Password: hash,
			Role:     models.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		products := make([]models.Product, len(demoProducts))
		copy(products, demoProducts)
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		logger.Info("seed: storefront populated", "products", len(products))
		return nil
	})
}
