package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/storefront-api/config"
	"github.com/oksasatya/storefront-api/internal/application"
	mongoinfra "github.com/oksasatya/storefront-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/mailer"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	validation.Init()
	ctx := context.Background()

	client, err := mongoinfra.NewClient(ctx, cfg.MongoURI(), cfg.DBConnTimeout, logger)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mongoinfra.Disconnect(client) }()
	if err := mongoinfra.RunMigrations(client, cfg.DBName, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	db := client.Database(cfg.DBName)

	if cfg.AdminEmail != "" {
		users := mongoinfra.NewUserRepository(db)
		auth := application.NewAuthService(users, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
			mailer.LogMailer{Logger: logger}, logger, cfg.AdminEmail, cfg.ResetPasswordURL, cfg.ResetTokenTTL)
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			password = "password123"
		}
		res, err := auth.Register(ctx, application.RegisterInput{
			FirstName: "Store",
			LastName:  "Admin",
			Email:     cfg.AdminEmail,
			Password:  password,
		})
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			logger.WithField("email", cfg.AdminEmail).Info("admin already seeded")
		case err != nil:
			log.Fatalf("failed to seed admin: %v", err)
		default:
			logger.WithField("user_id", res.UserID).Info("seeded admin user")
		}
	}

	products := application.NewProductService(mongoinfra.NewProductRepository(db), nil, nil, nil, logger)
	for _, in := range sampleProducts() {
		if _, err := products.GetByTitle(ctx, in.Title); err == nil {
			continue
		} else if !errors.Is(err, application.ErrNotFound) {
			log.Fatalf("lookup %q: %v", in.Title, err)
		}
		p, err := products.Create(ctx, in)
		if err != nil {
			log.Fatalf("failed to seed %q: %v", in.Title, err)
		}
		logger.WithField("product_id", p.ID.Hex()).Infof("seeded product %q", p.Title)
	}
}

func price(v float64) *float64 { return &v }

func sampleProducts() []application.CreateProductInput {
	return []application.CreateProductInput{
		{
			Title:       "Paimio Lounge Chair",
			Designer:    "Alvar Aalto",
			ProductType: "Chair",
			ColorVariants: []application.ColorVariantInput{
				{Color: "Birch", MainImage: "https://images.example.com/paimio-birch.jpg", HoverImage: "https://images.example.com/paimio-birch-side.jpg"},
				{Color: "Black", MainImage: "https://images.example.com/paimio-black.jpg", HoverImage: "https://images.example.com/paimio-black-side.jpg"},
			},
			Dimensions:       "W 60 x D 80 x H 64 cm",
			Material:         "Bent birch plywood",
			Currency:         "EUR",
			Price:            price(2450),
			OldPrice:         price(2900),
			Rating:           4.8,
			IsNewProduct:     false,
			AvailableUnits:   12,
			DescriptionTitle: "A sanatorium classic",
			DescriptionText:  "Designed for patients who needed to sit upright and breathe easily.",
		},
		{
			Title:       "Arco Floor Lamp",
			Designer:    "Achille Castiglioni",
			ProductType: "Lamp",
			ColorVariants: []application.ColorVariantInput{
				{Color: "White", MainImage: "https://images.example.com/arco-white.jpg", HoverImage: "https://images.example.com/arco-white-detail.jpg"},
			},
			Material:       "Carrara marble, stainless steel",
			Currency:       "EUR",
			Price:          price(3100),
			Rating:         4.6,
			IsNewProduct:   true,
			AvailableUnits: 4,
		},
		{
			Title:       "Tulip Side Table",
			Designer:    "Eero Saarinen",
			ProductType: "Table",
			ColorVariants: []application.ColorVariantInput{
				{Color: "White", MainImage: "https://images.example.com/tulip-white.jpg", HoverImage: "https://images.example.com/tulip-white-top.jpg"},
			},
			Currency:  "EUR",
			Price:     price(1490),
			Rating:    4.2,
			IsSoldOut: true,
		},
	}
}
