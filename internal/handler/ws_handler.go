// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"support-flow-go/internal/repository"
	"support-flow-go/internal/service"
	"support-flow-go/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// WSHandler 负责处理 WebSocket 会话连接。
// 每个连接绑定一个已存在的会话，消息逐条送入对话引擎。
type WSHandler struct {
	chatService service.ChatService
}

// NewWSHandler 创建一个新的 WSHandler。
func NewWSHandler(chatService service.ChatService) *WSHandler {
	return &WSHandler{chatService: chatService}
}

// wsInbound 是客户端发来的消息帧。
type wsInbound struct {
	Message string `json:"message"`
}

// wsError 是统一的错误帧。
type wsError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handle 处理一个传入的 WebSocket 连接。
// 路径参数 id 必须是已通过 REST 接口创建的会话。
func (h *WSHandler) Handle(c *gin.Context) {
	sessionID := c.Param("id")

	// 先验证会话存在再升级连接，无效会话直接以 HTTP 错误拒绝。
	if _, err := h.chatService.GetSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Conversation not found or expired", "data": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to retrieve conversation", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，会话: %s", sessionID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		var in wsInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			// 非 JSON 帧按纯文本消息处理
			in.Message = string(raw)
		}

		reply, err := h.chatService.HandleMessage(c.Request.Context(), sessionID, in.Message)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				h.writeError(conn, "Conversation not found or expired")
				break
			}
			log.Errorf("处理 WebSocket 会话消息失败: %v", err)
			h.writeError(conn, "Failed to process message")
			continue
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warnf("向 WebSocket 写入应答失败: %v", err)
			break
		}
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) {
	b, _ := json.Marshal(wsError{Type: "error", Message: message})
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
