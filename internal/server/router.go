package server

import (
	"net/http"

	"utilityledger/internal/handlers"
	"utilityledger/internal/middleware"
	"utilityledger/internal/models"
	"utilityledger/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "utilityledger/internal/docs" // Import swagger docs
)

// Services bundles the service layer the HTTP surface depends on.
type Services struct {
	Users        services.UserServicer
	Owners       services.OwnerServicer
	Complexes    services.ComplexServicer
	Transactions services.TransactionServicer
	Reports      services.ReportServicer
	Imports      services.ImportServicer
	Ledger       services.ImportLedgerServicer
}

// NewServices wires every service against a single store handle.
func NewServices(db *gorm.DB) Services {
	ledger := services.NewImportLedgerService(db)
	return Services{
		Users:        services.NewUserService(db),
		Owners:       services.NewOwnerService(db),
		Complexes:    services.NewComplexService(db),
		Transactions: services.NewTransactionService(db),
		Reports:      services.NewReportService(db),
		Imports:      services.NewImportService(db, ledger),
		Ledger:       ledger,
	}
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(svc Services, uploadMaxBytes int64) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	importHandler := handlers.NewImportHandler(svc.Imports, svc.Ledger, uploadMaxBytes)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	referenceHandler := handlers.NewReferenceHandler(svc.Owners, svc.Complexes)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/users", middleware.RequireRole(models.RoleAdmin), authHandler.ListUsers)

	imports := protected.Group("/imports")
	imports.POST("", importHandler.CreateImport)
	imports.GET("", importHandler.ListImports)
	imports.GET("/:id", importHandler.GetImport)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)

	reports := protected.Group("/reports")
	reports.GET("/utility", reportHandler.TotalsByUtility)
	reports.GET("/owners", reportHandler.TotalsByOwner)
	reports.GET("/complexes", reportHandler.TotalsByComplex)

	owners := protected.Group("/owners")
	owners.POST("", referenceHandler.EnsureOwner)
	owners.GET("", referenceHandler.ListOwners)

	complexes := protected.Group("/complexes")
	complexes.POST("", referenceHandler.EnsureComplex)
	complexes.GET("", referenceHandler.ListComplexes)

	return router
}
