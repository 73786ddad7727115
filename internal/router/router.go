package router

import (
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/config"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/handler"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/middleware"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, supplierRepo)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerRepo, movementRepo, dispatcher)
	poSvc := service.NewPurchaseOrderService(poRepo, productRepo, supplierRepo, movementRepo)
	reportSvc := service.NewReportService(reportRepo, saleRepo, customerRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	posH := handler.NewPurchaseOrdersHandler(poSvc)
	reportsH := handler.NewReportsHandler(reportSvc, poSvc, cfg.BusinessName)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleCashier)
	staffUp := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — every role can register and read; voiding needs staff or admin
		v1.POST("/sales", anyStaff, salesH.RegisterSale)
		v1.GET("/sales", anyStaff, salesH.List)
		v1.GET("/sales/:id", anyStaff, salesH.GetByID)
		v1.DELETE("/sales/:id", staffUp, salesH.VoidSale)

		// Products — all roles read, staff adjust stock, admin writes
		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:id", anyStaff, productsH.GetByID)
		v1.POST("/products/:id/stock", staffUp, inventoryH.AdjustStock)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		inv := v1.Group("/inventory", staffUp)
		{
			inv.GET("/movements", inventoryH.ListMovements)
			inv.GET("/alerts", inventoryH.LowStockAlerts)
		}

		customers := v1.Group("/customers", anyStaff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.GetByID)
			customers.PUT("/:id", customersH.Update)
		}
		v1.DELETE("/customers/:id", adminOnly, customersH.Delete)

		suppliers := v1.Group("/suppliers", adminOnly)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.GetByID)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		pos := v1.Group("/purchase-orders", staffUp)
		{
			pos.POST("", posH.Issue)
			pos.GET("", posH.List)
			pos.GET("/:id", posH.GetByID)
			pos.GET("/:id/document", reportsH.PurchaseOrderDocument)
			pos.POST("/:id/approve", adminOnly, posH.Approve)
			pos.POST("/:id/cancel", adminOnly, posH.Cancel)
			pos.POST("/:id/deliver", posH.MarkDelivered)
		}

		reports := v1.Group("/reports", adminOnly)
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/sales-summary", reportsH.SalesSummary)
			reports.GET("/sales/export", reportsH.ExportSales)
			reports.GET("/inventory/export", reportsH.ExportInventory)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
