package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/testimonial-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix. Mutating routes run behind protect.
func (r *Routes) Register(router gin.IRouter, protect ...gin.HandlerFunc) {
	group := router.Group("/v1/testimonials")
	group.GET("", r.handlers.Testimonial.List)
	group.GET("/:id", r.handlers.Testimonial.Get)

	writes := group.Group("", protect...)
	writes.POST("", r.handlers.Testimonial.Create)
	writes.PATCH("/:id", r.handlers.Testimonial.Update)
	writes.DELETE("/:id", r.handlers.Testimonial.Delete)
}
