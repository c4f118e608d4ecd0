package router

import (
	"time"

	"adhub/config"
	"adhub/internal/handler"
	"adhub/internal/middleware"
	"adhub/internal/repository"
	"adhub/internal/service"
	"adhub/internal/ws"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators built outside the router. Relay is optional.
type Deps struct {
	Log         *logger.Logger
	Gateway     payment.Gateway
	Networks    service.CampaignSubmitter
	Hub         *ws.Hub
	Relay       *ws.RedisRelay
	RateLimiter *middleware.RateLimiter
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Log
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	if deps.RateLimiter != nil {
		r.Use(middleware.RateLimit(deps.RateLimiter))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Notification sinks
	sinks := []service.OrderStatusSink{deps.Hub}
	if fcm := service.NewFCMService(cfg.Firebase.ServiceAccountPath, userRepo, log); fcm != nil {
		log.Infow("push notifications enabled")
		sinks = append(sinks, fcm)
	}
	if deps.Relay != nil {
		sinks = append(sinks, deps.Relay)
	}
	notifier := service.NewNotificationService(log, sinks...)

	// Services
	settlement := service.NewSettlementService(cfg, db, walletRepo, orderRepo, txRepo, paymentRepo, deps.Gateway, notifier, log)
	orderSvc := service.NewOrderService(settlement, orderRepo, deps.Networks, log)
	authSvc := service.NewAuthService(cfg, db, userRepo, walletRepo, deps.Gateway, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(settlement)
	orderHandler := handler.NewOrderHandler(orderSvc, settlement)
	paymentWebhook := handler.NewPaymentWebhookHandler(deps.Gateway, settlement, log)
	adStatusWebhook := handler.NewAdStatusWebhookHandler(settlement, cfg.Webhook.AdStatusSecret, !cfg.IsProduction(), log)
	if cfg.Webhook.AdStatusSecret == "" {
		if cfg.IsProduction() {
			log.Errorw("AD_STATUS_WEBHOOK_SECRET not set, ad-status webhooks are refused")
		} else {
			log.Warnw("AD_STATUS_WEBHOOK_SECRET not set, ad-status webhooks are accepted unsigned")
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	webhooks := r.Group("/webhook")
	{
		webhooks.POST("", paymentWebhook.Handle)
		webhooks.POST("/ad-status", adStatusWebhook.Handle)
	}

	r.GET("/ws/orders", ws.ServeOrders(&cfg.JWT, deps.Hub))

	user := r.Group("/user", middleware.AuthRequired(&cfg.JWT))
	{
		user.PUT("/fcm-token", authHandler.SetFCMToken)
		user.GET("/wallet", walletHandler.GetWallet)
		user.GET("/wallet/transactions", walletHandler.ListTransactions)

		orders := user.Group("/orders")
		orders.POST("", orderHandler.Create)
		orders.POST("/deposit", orderHandler.Deposit)
		orders.GET("/user/:userId", orderHandler.ListByUser)
		orders.GET("/:orderId", orderHandler.Get)
		orders.PATCH("/:orderId/status", middleware.AdminRequired(), orderHandler.UpdateStatus)
	}

	return r
}
