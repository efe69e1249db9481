package routes

import (
	"net/http"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/controllers"
	"github.com/soumaisfe-svg/vida-fit-control-1/middlewares"
	"github.com/soumaisfe-svg/vida-fit-control-1/services"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(utils.RequestLogger(), gin.Recovery())

	hub := services.NewRealtimeHub()
	push := services.NewPushService(config.DB)
	services.InitAlertDeps(config.DB, hub, push)
	rt := controllers.NewRealtimeController(hub)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "VivaFit API online",
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
		auth.GET("/me", middlewares.AuthMiddleware(), controllers.Me)
	}

	// payment-gateway callbacks authenticate via their own tokens
	r.POST("/api/webhook/pagseguro", controllers.PagSeguroWebhook)
	r.POST("/api/webhooks/mercadopago", controllers.MercadoPagoWebhook)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		habits := api.Group("/habits")
		{
			habits.POST("/track", controllers.TrackHabit)
			habits.GET("", controllers.GetHabits)
			habits.GET("/summary/:userId", controllers.GetHabitSummary)
		}

		steps := api.Group("/steps")
		{
			steps.GET("/session", controllers.GetStepSession)
			steps.POST("/permission", controllers.RequestStepPermission)
			steps.POST("/permission/reset", controllers.ResetStepPermission)
			steps.POST("/estimate", controllers.ManualStepEstimate)
			steps.GET("/stream", controllers.StreamSteps)
		}

		subs := api.Group("/subscriptions")
		{
			subs.POST("/create", controllers.CreateSubscription)
			subs.POST("/confirm", controllers.ConfirmSubscription)
			subs.GET("/status/:userId", controllers.SubscriptionStatus)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/research", controllers.ResearchAdvice)
			ai.GET("/history/:userId", controllers.AdviceHistory)
		}

		api.POST("/food/analyze", controllers.AnalyzeFood)
		api.GET("/reports/weekly/:userId", controllers.GetWeeklyReport)

		api.GET("/user/profile", controllers.GetProfile)
		api.PUT("/user/profile", controllers.UpdateProfile)
		api.POST("/devices", controllers.RegisterDevice)

		api.GET("/realtime", rt.Connect)

		admin := api.Group("/admin")
		admin.Use(middlewares.RequireAdmin())
		{
			admin.GET("/stats", controllers.AdminStats)
			admin.GET("/users", controllers.AdminListUsers)
			admin.POST("/create-user", controllers.AdminCreateUser)
			admin.POST("/update-password", controllers.AdminUpdatePassword)
		}
	}

	return r
}
