package chat

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	chatcore "grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/core/session"
	"grocery-assistant/internal/pkg/common"
)

// Handler 對話處理器
type Handler struct {
	service  *chatcore.Service
	sessions session.Store
}

// NewHandler 創建對話處理器
func NewHandler(service *chatcore.Service, sessions session.Store) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

// ChatRequest 對話請求
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// ChatResponse 對話響應，context 讓前端可以還原整段對話
type ChatResponse struct {
	Reply     string                    `json:"reply"`
	Recipes   []chatcore.EnrichedRecipe `json:"recipes,omitempty"`
	SessionID string                    `json:"sessionId"`
	Context   *chatcore.Context         `json:"context,omitempty"`
}

// HandleChat 處理一則對話訊息
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Message,
			"code":  common.ErrInvalidRequest.Code,
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(common.ErrEmptyMessage.Status, gin.H{
			"error": "Message is required",
			"code":  common.ErrEmptyMessage.Code,
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}

	convo, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		common.LogError("讀取會話失敗",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		convo = chatcore.NewContext()
	}

	result := h.service.ProcessMessage(c.Request.Context(), req.Message, convo)

	if err := h.sessions.Set(c.Request.Context(), sessionID, convo); err != nil {
		common.LogWarn("寫回會話失敗",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, ChatResponse{
		Reply:     result.Reply,
		Recipes:   result.Recipes,
		SessionID: sessionID,
		Context:   convo,
	})
}

// HandleReset 清空指定會話
func (h *Handler) HandleReset(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Message,
			"code":  common.ErrInvalidRequest.Code,
		})
		return
	}
	if err := h.sessions.Evict(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": common.ErrInternalError.Message,
			"code":  common.ErrInternalError.Code,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
