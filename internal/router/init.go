package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/container"
	esinfra "github.com/oksasatya/storefront-api/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/storefront-api/internal/infrastructure/gcs"
	mongoinfra "github.com/oksasatya/storefront-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/storefront-api/internal/infrastructure/payment"
	redisinfra "github.com/oksasatya/storefront-api/internal/infrastructure/redis"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/router/modules"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/mailer"
	"github.com/oksasatya/storefront-api/pkg/response"
)

// Services groups the application services behind the HTTP modules
type Services struct {
	Products *application.ProductService
	Auth     *application.AuthService
	Carts    *application.CartService
	Checkout *application.CheckoutService
}

// BuildServices wires repositories and optional adapters from the container.
// Adapters whose client is nil are left out and the services degrade.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetDB()

	products := mongoinfra.NewProductRepository(db)
	users := mongoinfra.NewUserRepository(db)

	var cache application.ProductCache
	if rdb := container.GetRedis(); rdb != nil {
		cache = redisinfra.NewProductCache(rdb, cfg.ProductCacheTTL)
	}
	var index application.ProductIndex
	if es := container.GetES(); es != nil {
		index = esinfra.NewProductIndex(es, cfg.ESProductsIndex)
	}
	var images application.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = gcsinfra.NewImageStore(gcs, cfg.GCSBucket)
	}
	var gateway application.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey)
	}
	var resetMailer application.PasswordResetMailer = mailer.LogMailer{Logger: logger}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		resetMailer = mailer.NewQueueMailer(pub, cfg, logger)
	}

	return Services{
		Products: application.NewProductService(products, cache, index, images, logger),
		Auth: application.NewAuthService(users, container.GetJWT(), resetMailer, logger,
			cfg.AdminEmail, cfg.ResetPasswordURL, cfg.ResetTokenTTL),
		Carts:    application.NewCartService(users, users, logger),
		Checkout: application.NewCheckoutService(gateway, logger, cfg.FrontendURL, cfg.CheckoutCurrency),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure())

	r.Engine.GET("/", func(c *gin.Context) {
		response.Send(c, response.Success[any](c, http.StatusOK, nil, "Welcome to the backend API", nil))
	})

	products := modules.NewProductModule(handlers.NewProductHandler(svc.Products, logger))
	if cfg.ProductWritesAdminOnly {
		products.WithAdminWrites(container.GetJWT())
	}
	r.Add(products)
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cookies), container.GetJWT()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Carts, logger)))
	r.Add(modules.NewCheckoutModule(handlers.NewCheckoutHandler(svc.Checkout, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
