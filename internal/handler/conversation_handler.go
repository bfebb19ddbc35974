// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"support-flow-go/internal/catalog"
	"support-flow-go/internal/model"
	"support-flow-go/internal/repository"
	"support-flow-go/internal/service"
	"support-flow-go/pkg/log"
)

// ConversationHandler 处理与支持对话相关的 API 请求。
type ConversationHandler struct {
	chatService service.ChatService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(chatService service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

// StartConversationRequest 是开启会话的请求体。
// mode 为 guided 时必须携带 category；free_text 时 message 为首条描述。
type StartConversationRequest struct {
	Mode     string `json:"mode" binding:"required"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SendMessageRequest 是会话内发送消息的请求体。
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// StartConversation 处理开启新会话的请求。
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "Invalid request body", "data": nil})
		return
	}

	mode := model.SessionMode(req.Mode)
	if mode != model.ModeGuided && mode != model.ModeFreeText {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "mode must be guided or free_text", "data": nil})
		return
	}

	reply, err := h.chatService.Start(c.Request.Context(), mode, model.IssueCategory(req.Category), req.Message)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "Unknown issue category", "data": nil})
			return
		}
		log.Error("开启会话失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to start conversation", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": reply})
}

// SendMessage 处理会话内的一条用户消息。
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	sessionID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "Invalid request body", "data": nil})
		return
	}

	reply, err := h.chatService.HandleMessage(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Conversation not found or expired", "data": nil})
			return
		}
		log.Error("处理会话消息失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to process message", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": reply})
}

// GetConversation 返回会话的当前快照。
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	sessionID := c.Param("id")

	sess, err := h.chatService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Conversation not found or expired", "data": nil})
			return
		}
		log.Error("获取会话失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to retrieve conversation", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": sess})
}

// EndConversation 显式结束并删除一个会话。
func (h *ConversationHandler) EndConversation(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.chatService.EndSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Conversation not found or expired", "data": nil})
			return
		}
		log.Error("结束会话失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to end conversation", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// ListCategories 返回所有可用的问题类别及其展示名。
func (h *ConversationHandler) ListCategories(c *gin.Context) {
	type categoryView struct {
		Category    model.IssueCategory `json:"category"`
		DisplayName string              `json:"displayName"`
	}

	infos := catalog.Categories()
	views := make([]categoryView, 0, len(infos))
	for _, info := range infos {
		views = append(views, categoryView{Category: info.Category, DisplayName: info.DisplayName})
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": views})
}
