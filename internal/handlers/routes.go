package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"noirstore/internal/middleware"
	"noirstore/internal/models"
	"noirstore/internal/realtime"
	"noirstore/internal/repository"
	"noirstore/internal/storage"
)

type Deps struct {
	Repos     *repository.Set
	Hub       *realtime.Hub
	Store     *storage.Store
	UploadDir string
	Log       *logrus.Entry
}

// Register mounts the storefront API under /api and the back office under /admin/api.
func Register(r *gin.Engine, d Deps) {
	repos := d.Repos
	can := middleware.RequirePermission

	r.Static("/public/uploads", d.UploadDir)
	r.GET("/healthz", Health(d.Store))

	api := r.Group("/api")
	{
		api.POST("/auth/login", Login(repos.Auth))
		api.POST("/auth/logout", Logout(repos.Auth))

		api.GET("/products", GetPublicProducts(repos.Products))
		api.GET("/products/:id", GetPublicProduct(repos.Products))
	}

	account := api.Group("")
	account.Use(middleware.AuthGuard(repos.Auth, d.Log))
	{
		account.GET("/auth/me", Me())
		account.PUT("/auth/me", UpdateMe(repos.Auth))
		account.POST("/auth/password", ChangePassword(repos.Auth))

		account.GET("/cart", GetCart(repos.Carts))
		account.DELETE("/cart", ClearCart(repos.Carts))
		account.POST("/cart/items", AddToCart(repos.Carts))
		account.PUT("/cart/items", UpdateCartItem(repos.Carts))
		account.DELETE("/cart/items", RemoveCartItem(repos.Carts))

		account.POST("/orders", CreateOrder(repos.Carts))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(repos.Auth, d.Log))
	{
		admin.GET("/me", Me())

		admin.GET("/products", can(models.PermProductsRead), AdminGetProducts(repos.Products))
		admin.GET("/products/:id", can(models.PermProductsRead), AdminGetProduct(repos.Products))
		admin.POST("/products", can(models.PermProductsWrite), AdminCreateProduct(repos.Products))
		admin.PUT("/products/:id", can(models.PermProductsWrite), AdminUpdateProduct(repos.Products, d.UploadDir))
		admin.PATCH("/products/:id/stock", can(models.PermProductsWrite), AdminUpdateStock(repos.Products))
		admin.DELETE("/products/:id", can(models.PermProductsDelete), AdminDeleteProduct(repos.Products, d.UploadDir))
		admin.POST("/uploads", can(models.PermProductsWrite), UploadProductImage(d.UploadDir))

		admin.GET("/orders", can(models.PermOrdersRead), AdminGetOrders(repos.Orders))
		admin.GET("/orders/stats", can(models.PermOrdersRead), AdminOrderStats(repos.Orders))
		admin.GET("/orders/:id", can(models.PermOrdersRead), AdminGetOrder(repos.Orders))
		admin.PATCH("/orders/:id/status", can(models.PermOrdersWrite), AdminUpdateOrderStatus(repos.Orders))
		admin.PATCH("/orders/:id/payment", can(models.PermOrdersWrite), AdminUpdatePaymentStatus(repos.Orders))
		admin.DELETE("/orders/:id", can(models.PermOrdersDelete), AdminDeleteOrder(repos.Orders))

		admin.GET("/customers", can(models.PermCustomersRead), AdminGetCustomers(repos.Customers))
		admin.GET("/customers/stats", can(models.PermCustomersRead), AdminCustomerStats(repos.Customers))
		admin.GET("/customers/:id", can(models.PermCustomersRead), AdminGetCustomer(repos.Customers))
		admin.POST("/customers", can(models.PermCustomersWrite), AdminCreateCustomer(repos.Customers))
		admin.PUT("/customers/:id", can(models.PermCustomersWrite), AdminUpdateCustomer(repos.Customers))
		admin.DELETE("/customers/:id", can(models.PermCustomersDelete), AdminDeleteCustomer(repos.Customers))

		admin.GET("/settings", can(models.PermSettingsRead), AdminGetSettings(repos.Settings))
		admin.PUT("/settings", can(models.PermSettingsWrite), AdminUpdateSettings(repos.Settings))
		admin.GET("/site-content", can(models.PermSettingsRead), AdminGetSiteContent(repos.Content))
		admin.PUT("/site-content", can(models.PermSettingsWrite), AdminUpdateSiteContent(repos.Content))

		admin.GET("/dashboard/stats", can(models.PermAnalyticsRead), AdminDashboardStats(repos.Dashboard))
		admin.GET("/dashboard/revenue", can(models.PermAnalyticsRead), AdminDashboardRevenue(repos.Dashboard))
		admin.GET("/dashboard/categories", can(models.PermAnalyticsRead), AdminDashboardCategories(repos.Dashboard))
		admin.GET("/dashboard/top-products", can(models.PermAnalyticsRead), AdminDashboardTopProducts(repos.Dashboard))

		admin.GET("/activities", can(models.PermAnalyticsRead), AdminRecentActivities(repos.Activities))
		admin.GET("/activities/stream", can(models.PermAnalyticsRead), AdminActivityStream(d.Hub))
	}
}
