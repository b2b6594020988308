package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/controllers"
	"github.com/nutrixpro/nutrix-backend/middlewares"
	"github.com/nutrixpro/nutrix-backend/services"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Ledger    *services.LedgerService
	Summary   *services.SummaryService
	Analytics *services.AnalyticsService
	Estimator *services.EstimatorService
	Weights   *services.WeightService
	Tips      *services.TipsService

	JWTSecret []byte
	Log       zerolog.Logger
	// Health is optional; it reports whether the database is reachable.
	Health func(ctx context.Context) error
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log))

	authCtl := controllers.NewAuthController(d.Auth)
	userCtl := controllers.NewUserController(d.Profiles, d.Tips)
	ledgerCtl := controllers.NewLedgerController(d.Ledger, d.Profiles, d.Summary)
	liveCtl := controllers.NewRealtimeController(ledgerCtl, d.Log)
	analyticsCtl := controllers.NewAnalyticsController(d.Analytics, d.Profiles)
	estimateCtl := controllers.NewEstimateController(d.Estimator)
	weightCtl := controllers.NewWeightController(d.Weights)

	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	r.POST("/goal/calculate", controllers.CalculateGoal)

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware(d.JWTSecret))

	user := protected.Group("/user")
	{
		user.GET("/profile", userCtl.GetProfile)
		user.PUT("/profile", userCtl.UpdateProfile)
		user.POST("/profile/image", userCtl.UploadProfileImage)
		user.POST("/questionnaire", userCtl.SubmitQuestionnaire)
		user.POST("/goal/recompute", userCtl.RecomputeGoal)
		user.GET("/tips", userCtl.GetTips)
	}

	logs := protected.Group("/logs")
	{
		logs.GET("", analyticsCtl.GetRange)
		logs.GET("/:date", ledgerCtl.GetDay)
		logs.GET("/:date/summary", ledgerCtl.DaySummary)
		logs.GET("/:date/live", liveCtl.LiveDay)
		logs.POST("/:date/meals", ledgerCtl.AddMeal)
		logs.PUT("/:date/meals/:id", ledgerCtl.EditMeal)
		logs.DELETE("/:date/meals/:id", ledgerCtl.DeleteMeal)
	}

	protected.POST("/estimate", estimateCtl.Estimate)
	protected.POST("/weight", weightCtl.LogWeight)
	protected.GET("/weight", weightCtl.GetWeights)

	return r
}
