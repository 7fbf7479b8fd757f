package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	chatHandler "grocery-assistant/internal/api/handlers/chat"
	catalogHandler "grocery-assistant/internal/api/handlers/catalog"
	"grocery-assistant/internal/api/handlers/health"
	"grocery-assistant/internal/api/handlers/llmstatus"
	"grocery-assistant/internal/api/middleware"
	"grocery-assistant/internal/core/catalog"
	chatcore "grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/core/llm"
	llmcache "grocery-assistant/internal/core/llm/cache"
	"grocery-assistant/internal/core/session"
	"grocery-assistant/internal/infrastructure/config"
	"grocery-assistant/internal/pkg/common"
)

const (
	// 超時設置
	timeoutDuration = 60 * time.Second
	// 請求體大小限制 (1MB)，純文字對話不需要更大
	maxBodySize = 1 << 20
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Catalog  *catalog.Catalog
	ChatSvc  *chatcore.Service
	Sessions session.Store
	Backend  llm.Backend
	Cache    *llmcache.Manager
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 全局中間件：設置超時與依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("catalog", deps.Catalog)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	chatH := chatHandler.NewHandler(deps.ChatSvc, deps.Sessions)
	catalogH := catalogHandler.NewHandler(deps.Catalog)
	llmH := llmstatus.NewHandler(deps.Backend, deps.Cache)

	// API 路由組
	api := router.Group("/api")
	{
		chatGroup := api.Group("/chat")
		chatGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		chatGroup.Use(middleware.Deduplication(cfg))
		{
			chatGroup.POST("", chatH.HandleChat)
			chatGroup.DELETE("/:id", chatH.HandleReset)
		}

		api.GET("/products", catalogH.HandleProducts)
		api.GET("/recipes", catalogH.HandleRecipes)
		api.GET("/welcome", catalogH.HandleWelcome)
		api.GET("/llm/health", llmH.HandleHealth)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("products", len(deps.Catalog.Products)),
		zap.Int("recipes", len(deps.Catalog.Recipes)),
		zap.Bool("llm_enabled", deps.Backend != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
