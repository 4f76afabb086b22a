package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"debt-ledger-backend/internal/config"
	handler "debt-ledger-backend/internal/handlers"
	"debt-ledger-backend/internal/ledger"
	"debt-ledger-backend/internal/repository"
	"debt-ledger-backend/internal/services/auth"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	customerRepo := repository.NewCustomerRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	ledgerService := ledger.NewService(customerRepo, debtRepo, paymentRepo, auditRepo)
	ledgerService.SetStoreTimeout(cfg.StoreTimeout)
	authService := auth.NewService(userRepo, cfg.SecretKey)

	customerHandler := handler.NewCustomerHandler(ledgerService)
	debtHandler := handler.NewDebtHandler(ledgerService)
	paymentHandler := handler.NewPaymentHandler(ledgerService)
	dashboardHandler := handler.NewDashboardHandler(ledgerService)
	authHandler := handler.NewAuthHandler(authService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	customers := api.Group("/customers")
	customers.POST("", customerHandler.Create)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Delete)
	customers.DELETE("/:id/paid-debts", customerHandler.PurgePaidDebts)

	debts := api.Group("/debts")
	debts.POST("", debtHandler.Create)
	debts.GET("", debtHandler.List)
	debts.GET("/overdue", debtHandler.ListOverdue)
	debts.GET("/:id", debtHandler.Get)
	debts.DELETE("/:id", debtHandler.Delete)

	payments := api.Group("/payments")
	payments.POST("", paymentHandler.Create)
	payments.GET("", paymentHandler.List)
	payments.DELETE("/:id", paymentHandler.Delete)

	api.GET("/dashboard/stats", dashboardHandler.Stats)
	api.GET("/reports/export", dashboardHandler.Export)
}
