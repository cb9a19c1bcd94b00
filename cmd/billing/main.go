package main

import (
	"os"
	"time"

	"sakuranet-billing/pterodactyl"
	"sakuranet-billing/utils"
	"sakuranet-billing/web/controllers"
	"sakuranet-billing/web/db"
	"sakuranet-billing/web/middleware"
	"sakuranet-billing/web/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func init() {
	utils.LoadEnv()
	db.Connect()
	db.Sync()
}

func main() {
	panel := pterodactyl.New(utils.PanelURL(), utils.PanelAPIKey())
	controllers.Setup(panel)

	tasks.Start()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	authLimiter := middleware.NewRateLimiter(15, 5) // 15 requests/min/IP
	globalLimiter := middleware.NewRateLimiter(120, 30)
	authLimiter.StartCleanup(10 * time.Minute)
	globalLimiter.StartCleanup(10 * time.Minute)

	r.GET("/ping", controllers.Ping)

	r.POST("/register", authLimiter.Middleware(), controllers.Register)
	r.POST("/login", authLimiter.Middleware(), controllers.Login)
	r.POST("/forgot-password", authLimiter.Middleware(), controllers.ForgotPassword)
	r.POST("/reset-password", authLimiter.Middleware(), controllers.ResetPassword)

	r.GET("/products", globalLimiter.Middleware(), controllers.ListProducts)
	r.GET("/products/:id", globalLimiter.Middleware(), controllers.GetProduct)
	r.GET("/eggs/tree", globalLimiter.Middleware(), controllers.EggTree)

	user := r.Group("/", globalLimiter.Middleware(), middleware.RequireAuth)
	{
		user.GET("/user", controllers.Me)
		user.GET("/me", controllers.Me)
		user.PUT("/user", controllers.UpdateProfile)
		user.POST("/user/password-code", controllers.SendPasswordCode)
		user.PUT("/user/password", controllers.UpdatePassword)

		user.POST("/user/two-factor-authentication", controllers.EnableTwoFactor)
		user.POST("/user/confirmed-two-factor-authentication", controllers.ConfirmTwoFactor)
		user.DELETE("/user/two-factor-authentication", controllers.DisableTwoFactor)
		user.GET("/user/two-factor-qr-code", controllers.TwoFactorQRCode)
		user.GET("/user/two-factor-secret-key", controllers.TwoFactorSecretKey)
		user.GET("/user/two-factor-recovery-codes", controllers.TwoFactorRecoveryCodes)

		user.POST("/payment/topup", controllers.Topup)
		user.GET("/payment/status/:order_id", controllers.GetPaymentStatus)
		user.GET("/payment/history", controllers.ListPayments)

		user.GET("/services", controllers.ListServices)
		user.POST("/services", controllers.PurchaseService)
		user.GET("/services/:id", controllers.GetService)
		user.POST("/services/:id/change-core", controllers.ChangeServiceCore)
		user.DELETE("/services/:id", controllers.CancelService)

		user.GET("/tickets", controllers.ListTickets)
		user.POST("/tickets", controllers.CreateTicket)
		user.GET("/tickets/:id", controllers.GetTicket)
		user.POST("/tickets/:id/reply", controllers.ReplyTicket)

		user.GET("/notifications", controllers.ListNotifications)
		user.POST("/notifications/:id/read", controllers.MarkNotificationRead)
		user.PUT("/notifications", controllers.MarkAllNotificationsRead)
		user.DELETE("/notifications/:id", controllers.DeleteNotification)
		user.DELETE("/notifications", controllers.DeleteAllNotifications)
	}

	// Gateway callback, authenticated by admin token rather than a
	// user session.
	r.POST("/payment/callback", middleware.AdminAuth, controllers.PaymentCallback)

	admin := r.Group("/admin", middleware.AdminAuth)
	{
		admin.GET("/users", controllers.AdminListUsers)
		admin.PUT("/users/:id", controllers.AdminUpdateUser)
		admin.DELETE("/users/:id", controllers.AdminDeleteUser)

		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		admin.GET("/services", controllers.AdminListServices)
		admin.GET("/servers", controllers.AdminListPanelServers)

		admin.GET("/tickets", controllers.AdminListTickets)
		admin.GET("/tickets/:id", controllers.AdminGetTicket)
		admin.PUT("/tickets/:id/status", controllers.AdminUpdateTicketStatus)
		admin.POST("/tickets/:id/reply", controllers.AdminReplyTicket)

		admin.POST("/notifications", controllers.AdminSendNotification)
	}

	port := os.Getenv("GIN_PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
