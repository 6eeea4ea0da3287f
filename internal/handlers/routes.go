package handlers

import (
	"admin-console/internal/middleware"
	"admin-console/internal/models"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the console API on api. Everything except login
// needs an admin session.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, sessions *session.Manager) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.OptionalSession(sessions), h.Logout)
		auth.GET("/me", middleware.RequireSession(sessions), h.Me)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireSession(sessions), middleware.RequireRole(models.RoleAdmin))

	categories := admin.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/tree", h.GetCategoryTree)
		categories.POST("/tree/toggle/:id", h.ToggleCategory)
		categories.POST("/tree/expand", h.ExpandAllCategories)
		categories.POST("", h.CreateCategory)
		categories.POST("/:id/children", h.CreateChildCategory)
		categories.PUT("/:id", h.RenameCategory)
		categories.DELETE("/:id", h.DeleteCategory)
		categories.POST("/modal", h.OpenCategoryModal)
		categories.POST("/modal/submit", h.SubmitCategoryModal)
		categories.DELETE("/modal", h.CloseCategoryModal)
	}

	products := admin.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id/form", h.GetProductForm)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)

		products.GET("/:id/variations", h.ListVariations)
		products.POST("/:id/variations", h.CreateVariation)
		products.PUT("/:id/variations/:sku/price-modifier", h.SetPriceModifier)
		products.DELETE("/:id/variations/:sku", h.DeleteVariation)
	}
	admin.PUT("/variations/:rowId", h.UpdateVariationRow)

	orders := admin.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/packing-slip.pdf", h.GetPackingSlip)
		orders.POST("/:id/:action", h.OrderAction)
		orders.PUT("/:id/status", h.SetOrderStatus)
		orders.DELETE("/:id", h.DeleteOrder)
	}

	inventory := admin.Group("/inventory")
	{
		inventory.GET("", h.ListInventory)
		inventory.POST("", h.CreateInventory)
		inventory.PUT("/:id", h.UpdateInventory)
		inventory.DELETE("/:id", h.DeleteInventory)
	}

	banners := admin.Group("/banners")
	{
		banners.GET("", h.ListBanners)
		banners.POST("", h.CreateBanner)
		banners.PUT("/:id", h.UpdateBanner)
		banners.DELETE("/:id", h.DeleteBanner)
	}

	bulk := admin.Group("/bulk-upload")
	{
		bulk.POST("", h.BulkUpload)
		bulk.GET("/template", h.BulkUploadTemplate)
	}
}
