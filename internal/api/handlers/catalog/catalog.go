package catalog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/pkg/common"
)

// Handler 目錄查詢處理器
type Handler struct {
	catalog *catalog.Catalog
}

// NewHandler 創建目錄處理器
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

// HandleProducts 回傳全部商品
func (h *Handler) HandleProducts(c *gin.Context) {
	if h.catalog == nil || len(h.catalog.Products) == 0 {
		c.JSON(common.ErrCatalogNotReady.Status, gin.H{
			"error": "Catalog not loaded",
			"code":  common.ErrCatalogNotReady.Code,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": h.catalog.Products,
		"count":    len(h.catalog.Products),
	})
}

// HandleRecipes 回傳全部食譜
func (h *Handler) HandleRecipes(c *gin.Context) {
	if h.catalog == nil || len(h.catalog.Recipes) == 0 {
		c.JSON(common.ErrCatalogNotReady.Status, gin.H{
			"error": "Catalog not loaded",
			"code":  common.ErrCatalogNotReady.Code,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": h.catalog.Recipes,
		"count":   len(h.catalog.Recipes),
	})
}

// HandleWelcome 依時段回傳 Sage 的開場白與吉祥物資訊
func (h *Handler) HandleWelcome(c *gin.Context) {
	hour := time.Now().Hour()

	timeOfDay := "evening"
	greeting := "Good evening"
	suggestion := "how about something cozy for dinner?"
	switch {
	case hour < 12:
		timeOfDay = "morning"
		greeting = "Good morning"
		suggestion = "want some breakfast inspiration?"
	case hour < 17:
		timeOfDay = "afternoon"
		greeting = "Good afternoon"
		suggestion = "looking for lunch ideas?"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s! I'm Sage 🌿, your grocery and recipe sidekick. %s", greeting, suggestion),
		"mascot": gin.H{
			"name":      "Sage",
			"emoji":     "🌿",
			"tagline":   "Fresh ideas, every meal",
			"timeOfDay": timeOfDay,
		},
	})
}
