package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

// ProductModule registers the catalog routes. Static segments (all, search,
// add, delete, images) are matched before the :title wildcard.
type ProductModule struct {
	Handler *handlers.ProductHandler
	// AdminJWT, when set, puts the write routes behind an admin token
	AdminJWT *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler) *ProductModule {
	return &ProductModule{Handler: h}
}

// WithAdminWrites requires an admin session for add, update, delete and image upload
func (m *ProductModule) WithAdminWrites(jwt *helpers.JWTManager) *ProductModule {
	m.AdminJWT = jwt
	return m
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	{
		g.GET("/all", m.Handler.List)
		g.GET("/all/:id", m.Handler.GetByID)
		g.GET("/search", m.Handler.Search)
		g.GET("/:title", m.Handler.GetByTitle)
	}

	w := g
	if m.AdminJWT != nil {
		w = g.Group("", middleware.JWTAuth(m.AdminJWT), middleware.RequireRole(string(entity.RoleAdmin)))
	}
	w.POST("/add", m.Handler.Create)
	w.POST("/images", m.Handler.UploadImage)
	w.PUT("/:id", m.Handler.Update)
	w.DELETE("/delete/:id", m.Handler.Delete)
}
