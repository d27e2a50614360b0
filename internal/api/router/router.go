package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ykrishnateja01/job-portal/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "job-portal-api",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handler.NewAuthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	paymentHandler := handler.NewPaymentHandler(deps)
	applicationHandler := handler.NewApplicationHandler(deps)

	authRequired := AuthMiddleware(deps.Tokens, deps.Users)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/verify", authHandler.VerifyEmail)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authRequired, authHandler.Me)
		}

		jobs := v1.Group("/jobs")
		{
			// Public browsing
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)

			// Employer actions
			jobs.POST("", authRequired, jobHandler.CreateJob)
			jobs.POST("/:job_id/close", authRequired, jobHandler.CloseJob)
			jobs.GET("/:job_id/applications", authRequired, applicationHandler.ListApplicants)

			// Applicant actions
			jobs.POST("/:job_id/apply", authRequired, applicationHandler.Apply)
		}

		v1.GET("/applications/me", authRequired, applicationHandler.MyApplications)

		payments := v1.Group("/payments", authRequired)
		{
			payments.POST("/verify", paymentHandler.VerifyPayment)
			payments.GET("/status/:hash", paymentHandler.GetPaymentStatus)
			payments.GET("/history", paymentHandler.ListPayments)
		}
	}

	return r
}
