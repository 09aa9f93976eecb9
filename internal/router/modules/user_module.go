package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
)

// UserModule serves user lookups and the cart embedded in each user.
// Every segment after /users uses :id so the wildcard names agree.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	{
		g.GET("/:id", m.Handler.GetUser)
		g.GET("/:id/cart", m.Handler.GetCart)
		g.POST("/:id/cart", m.Handler.AddItems)
		g.PUT("/:id/cart/:cartItemId", m.Handler.UpdateQuantity)
		g.DELETE("/:id/cart/:cartItemId", m.Handler.RemoveItem)
	}
}
