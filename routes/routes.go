package routes

import (
	"net/http"
	"time"

	"garagio/handlers"
	"garagio/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the catalog browsing endpoints.
func RegisterCatalogRoutes(r *gin.Engine, ch *handlers.CatalogHandler) {
	api := r.Group("/api/catalog")
	{
		api.GET("/offerings", ch.GetOfferings)
		api.GET("/search", ch.Search)
		api.GET("/categories", ch.GetCategories)
		api.GET("/cities", ch.GetCities)
		api.PUT("/filter", ch.ApplyFilter)
		api.DELETE("/filter", ch.ResetFilter)
		api.PUT("/filter/category", ch.SelectCategory)
		api.PUT("/filter/subcategory", ch.SelectSubcategory)
		api.PUT("/tab", ch.SelectCategoryTab)
		api.PUT("/offerings/:offeringID/size", ch.ChangeSize)
		api.POST("/retry", ch.Retry)
	}
}

// RegisterBookingRoutes registers the checkout workflow endpoints. All of
// them require an authenticated customer.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/booking")
	api.Use(middleware.CustomerAuthMiddleware())
	{
		api.POST("/checkout", bh.StartCheckout)
		api.GET("/address", bh.ResolveAddress)
		api.GET("/:bookingID", bh.GetSession)
		api.POST("/:bookingID/kyc", bh.ConfirmKyc)
		api.PUT("/:bookingID/details", bh.SubmitDetails)
		api.POST("/:bookingID/gateway", bh.GatewayCallback)
		api.DELETE("/:bookingID", bh.CloseSession)
	}
}

// RegisterHealthRoute registers a simple liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes applies CORS and mounts every route group.
func RegisterRoutes(r *gin.Engine, ch *handlers.CatalogHandler, bh *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCatalogRoutes(r, ch)
	RegisterBookingRoutes(r, bh)
	RegisterHealthRoute(r)
}
