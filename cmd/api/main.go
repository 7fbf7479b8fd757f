package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocery-assistant/internal/api"
	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/core/llm"
	llmcache "grocery-assistant/internal/core/llm/cache"
	"grocery-assistant/internal/core/session"
	"grocery-assistant/internal/infrastructure/config"
	"grocery-assistant/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("session_store", cfg.Session.Store),
	)

	// 載入商品與食譜目錄
	productsPath := catalog.ChooseProductsCSV(cfg.Data.ProductsCSV, "data")
	cat, err := catalog.Load(productsPath, cfg.Data.RecipesCSV)
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	// 初始化 LLM 後端，未啟用時整個流程退回目錄排序
	var backend llm.Backend
	cacheManager := llmcache.NewManager(cfg)
	if cfg.OpenRouter.Enabled && cfg.OpenRouter.APIKey != "" {
		openrouter := llm.NewOpenRouterBackend(cfg, cacheManager)
		defer openrouter.Close()
		backend = openrouter
	} else {
		common.LogWarn("OpenRouter 未啟用，僅提供目錄內建議")
	}
	if cacheManager != nil {
		defer cacheManager.Close()
	}

	// 初始化會話儲存
	sessions, err := session.NewStore(&cfg.Session)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer sessions.Close()

	// 初始化對話服務
	chatSvc := chat.NewService(cat, backend)

	// 設置路由
	router, err := api.SetupRouter(cfg, &api.Dependencies{
		Catalog:  cat,
		ChatSvc:  chatSvc,
		Sessions: sessions,
		Backend:  backend,
		Cache:    cacheManager,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
