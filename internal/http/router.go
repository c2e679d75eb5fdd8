package httpx

import (
	"net/http"

	"github.com/abdullharslan/ProductManager/internal/http/handlers"
	"github.com/abdullharslan/ProductManager/internal/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouterOptions controls the behaviour shared by every route
type RouterOptions struct {
	IsProduction bool
	Logger       *logrus.Logger
}

func BuildRouter(opts RouterOptions, ah *handlers.AuthHandlers, prh *handlers.ProductHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(opts.IsProduction, opts.Logger),
		middleware.RequestLogger(opts.Logger),
		middleware.ErrorHandler(opts.IsProduction, opts.Logger),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/two-factor", ah.TwoFactor)
	auth.POST("/refresh-token", ah.RefreshToken)
	auth.GET("/confirm-email", ah.ConfirmEmail)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	products := api.Group("/products")
	products.GET("", prh.GetAll)
	products.GET("/active", prh.GetActive)
	products.GET("/search", prh.Search)
	products.GET("/:id", prh.GetByID)

	writes := products.Group("", jwtmw.WithJWT(), cb.Enforce())
	writes.POST("", prh.Create)
	writes.PUT("/:id", prh.Update)
	writes.DELETE("/:id", prh.Delete)

	adm := api.Group("/admin", jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
