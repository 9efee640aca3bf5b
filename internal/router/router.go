package router

import (
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/config"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/handler"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/middleware"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewLedger(auditRepo)
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, saleRepo, ledger, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo, saleRepo)
	saleSvc := service.NewSaleService(service.NewTxManager(db), saleRepo, productRepo, customerRepo, receiptRepo, customerSvc, ledger, dispatcher)
	receiptSvc := service.NewReceiptService(receiptRepo, dispatcher, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	receiptsH := handler.NewReceiptsHandler(receiptSvc)
	auditH := handler.NewAuditHandler(ledger)

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
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleSeller)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — any authenticated role can sell and browse history
		v1.POST("/sales", anyRole, salesH.Checkout)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id/items", anyRole, salesH.Items)

		// Catalog — reads for everyone, writes for admin
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/search", anyRole, productsH.Search)
		v1.GET("/products/:id", anyRole, productsH.Get)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/:id/stock", productsH.AdjustStock)
		}

		// Customers — lookup at the till, admin manages discounts
		v1.GET("/customers/lookup", anyRole, customersH.Lookup)
		v1.GET("/customers", adminOnly, customersH.List)
		v1.GET("/customers/:id/purchases", anyRole, customersH.Purchases)
		v1.PUT("/customers/:id/discount", adminOnly, customersH.UpdateDiscount)

		// Receipts — immutable snapshots, read-only
		v1.GET("/receipts", anyRole, receiptsH.List)
		v1.GET("/receipts/:number", anyRole, receiptsH.Get)
		v1.GET("/receipts/:number/pdf", anyRole, receiptsH.PDF)
		v1.POST("/receipts/:number/email", anyRole, receiptsH.Email)

		// Audit trail — admin only
		v1.GET("/audit", adminOnly, auditH.List)

		// User management — admin only
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
