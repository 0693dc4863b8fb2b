package router

import (
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/handler"
	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/middleware"
	"github.com/st9-8/mouegne/internal/repository"
	"github.com/st9-8/mouegne/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built in main.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client // nil disables the Redis health check

	// Dispatcher queues receipts; nil disables printing.
	Dispatcher service.ReceiptDispatcher
	Printers   service.PrinterLister
	PrinterCB  *infra.CircuitBreaker

	// Registerer receives the ledger metrics; nil turns them and /metrics off.
	Registerer prometheus.Registerer
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewItemRepository(d.DB)
	movementRepo := repository.NewStockMovementRepository(d.DB)
	categoryRepo := repository.NewCategoryRepository(d.DB)
	vendorRepo := repository.NewVendorRepository(d.DB)
	customerRepo := repository.NewCustomerRepository(d.DB)
	saleRepo := repository.NewSaleRepository(d.DB)
	deliveryRepo := repository.NewDeliveryRepository(d.DB)
	purchaseRepo := repository.NewPurchaseRepository(d.DB)
	receiptRepo := repository.NewReceiptRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewLedger(itemRepo, movementRepo, metrics.NewLedgerMetrics(d.Registerer))

	saleSvc := service.NewSaleService(saleRepo, customerRepo, ledger, d.Dispatcher)
	deliverySvc := service.NewDeliveryService(deliveryRepo, saleRepo, customerRepo, ledger, d.Dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, itemRepo, vendorRepo, ledger)
	itemSvc := service.NewItemService(itemRepo, categoryRepo, vendorRepo, movementRepo, cfg.LowStockThreshold)
	catalogSvc := service.NewCatalogService(categoryRepo, vendorRepo, customerRepo, saleRepo)
	receiptSvc := service.NewReceiptService(receiptRepo, d.Dispatcher, d.Printers, cfg.ReceiptStoragePath)
	dashboardSvc := service.NewDashboardService(saleRepo, itemRepo, deliveryRepo, purchaseRepo, cfg.LowStockThreshold)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc, receiptSvc)
	deliveriesH := handler.NewDeliveriesHandler(deliverySvc, receiptSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	itemsH := handler.NewItemsHandler(itemSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	receiptsH := handler.NewReceiptsHandler(receiptSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.PrinterCB))
	if d.Registerer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Every authenticated role reads; staff and superuser write;
	// removing a transaction is reserved to superuser.
	anyRole := middleware.RequireRole(middleware.RoleUser, middleware.RoleStaff, middleware.RoleSuperuser)
	writer := middleware.RequireRole(middleware.RoleStaff, middleware.RoleSuperuser)
	superuser := middleware.RequireRole(middleware.RoleSuperuser)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", writer, salesH.Create)
			sales.GET("", anyRole, salesH.List)
			sales.GET("/:id", anyRole, salesH.Get)
			sales.GET("/:id/receipt", anyRole, salesH.Receipt)
			sales.DELETE("/:id", superuser, salesH.Delete)
		}

		deliveries := v1.Group("/deliveries")
		{
			deliveries.POST("", writer, deliveriesH.Create)
			deliveries.GET("", anyRole, deliveriesH.List)
			deliveries.GET("/:id", anyRole, deliveriesH.Get)
			deliveries.GET("/:id/receipt", anyRole, deliveriesH.Receipt)
			deliveries.PUT("/:id", writer, deliveriesH.Update)
			deliveries.POST("/:id/confirm", writer, deliveriesH.Confirm)
			deliveries.DELETE("/:id", superuser, deliveriesH.Delete)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", writer, purchasesH.Create)
			purchases.GET("", anyRole, purchasesH.List)
			purchases.GET("/:id", anyRole, purchasesH.Get)
			purchases.PUT("/:id", writer, purchasesH.Update)
			purchases.DELETE("/:id", superuser, purchasesH.Delete)
		}

		items := v1.Group("/items")
		{
			items.GET("", anyRole, itemsH.List)
			items.GET("/low-stock", anyRole, itemsH.LowStock)
			items.GET("/:id", anyRole, itemsH.Get)
			items.POST("", writer, itemsH.Create)
			items.PUT("/:id", writer, itemsH.Update)
			items.DELETE("/:id", writer, itemsH.Delete)
		}
		v1.GET("/stock-movements", anyRole, itemsH.Movements)

		categories := v1.Group("/categories")
		{
			categories.GET("", anyRole, catalogH.ListCategories)
			categories.POST("", writer, catalogH.CreateCategory)
			categories.PUT("/:id", writer, catalogH.UpdateCategory)
			categories.DELETE("/:id", writer, catalogH.DeleteCategory)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.GET("", anyRole, catalogH.ListVendors)
			vendors.GET("/:id", anyRole, catalogH.GetVendor)
			vendors.POST("", writer, catalogH.CreateVendor)
			vendors.PUT("/:id", writer, catalogH.UpdateVendor)
			vendors.DELETE("/:id", writer, catalogH.DeleteVendor)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", anyRole, catalogH.ListCustomers)
			customers.GET("/:id", anyRole, catalogH.GetCustomer)
			customers.POST("", writer, catalogH.CreateCustomer)
			customers.PUT("/:id", writer, catalogH.UpdateCustomer)
			customers.DELETE("/:id", writer, catalogH.DeleteCustomer)
		}

		receipts := v1.Group("/receipts", anyRole)
		{
			receipts.GET("/:id", receiptsH.Get)
			receipts.GET("/:id/pdf", receiptsH.PDF)
			receipts.POST("/:id/print", receiptsH.Reprint)
		}
		v1.GET("/printers", anyRole, receiptsH.Printers)

		v1.GET("/dashboard", anyRole, dashboardH.Summary)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
