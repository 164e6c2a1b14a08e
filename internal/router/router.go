package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lennonalatorre/claimflow/internal/handler"
	"github.com/lennonalatorre/claimflow/internal/middleware"
	"github.com/lennonalatorre/claimflow/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	claimH *handler.ClaimHandler,
	refH *handler.ReferenceHandler,
	ledgerH *handler.LedgerHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Claim routes
	claims := protected.Group("/claims")
	claims.POST("/process", claimH.Process)
	claims.POST("/batch", claimH.ProcessBatch)
	claims.GET("", claimH.List)
	claims.GET("/totals", claimH.CounselorTotals)
	claims.GET("/export", claimH.ExportCSV)
	claims.GET("/:id", claimH.GetByID)
	claims.DELETE("/:id", claimH.Delete)

	// Counselor reference list
	counselors := protected.Group("/counselors")
	counselors.POST("", refH.CreateCounselor)
	counselors.GET("", refH.ListCounselors)
	counselors.DELETE("/:id", refH.DeactivateCounselor)

	// Insurer reference list
	insurers := protected.Group("/insurers")
	insurers.POST("", refH.CreateInsurer)
	insurers.GET("", refH.ListInsurers)
	insurers.DELETE("/:id", refH.DeleteInsurer)

	// Payout workbooks
	protected.GET("/ledger/:counselor", ledgerH.Download)

	return r
}
