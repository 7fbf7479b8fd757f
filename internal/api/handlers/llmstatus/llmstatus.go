package llmstatus

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-assistant/internal/core/llm"
	"grocery-assistant/internal/core/llm/cache"
	"grocery-assistant/internal/pkg/common"
)

// Handler LLM 狀態處理器
type Handler struct {
	backend llm.Backend
	cache   *cache.Manager
}

// NewHandler 創建 LLM 狀態處理器，backend 與 cache 都可為 nil
func NewHandler(backend llm.Backend, cacheManager *cache.Manager) *Handler {
	return &Handler{backend: backend, cache: cacheManager}
}

// HandleHealth 回報 LLM 後端狀態，probe=1 時實際打一次探測請求
func (h *Handler) HandleHealth(c *gin.Context) {
	if h.backend == nil {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
			"status":  "disabled",
			"cache":   h.cache.Stats(),
		})
		return
	}

	if c.Query("probe") != "1" {
		c.JSON(http.StatusOK, gin.H{
			"enabled": true,
			"status":  "configured",
			"cache":   h.cache.Stats(),
		})
		return
	}

	start := time.Now()
	err := h.backend.Ping(c.Request.Context())
	latency := time.Since(start)

	if err != nil {
		common.LogWarn("LLM 探測失敗",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		c.JSON(http.StatusOK, gin.H{
			"enabled":    true,
			"status":     "unreachable",
			"error":      err.Error(),
			"latency_ms": latency.Milliseconds(),
			"cache":      h.cache.Stats(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":    true,
		"status":     "ok",
		"latency_ms": latency.Milliseconds(),
		"cache":      h.cache.Stats(),
	})
}
