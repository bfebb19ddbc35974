// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"support-flow-go/internal/repository"
	"support-flow-go/pkg/es"
	"support-flow-go/pkg/log"
)

// AdminHandler 提供已归档对话与工单的后台查询接口。
type AdminHandler struct {
	ticketRepo repository.TicketRepository
	esIndex    string
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(ticketRepo repository.TicketRepository, esIndex string) *AdminHandler {
	return &AdminHandler{
		ticketRepo: ticketRepo,
		esIndex:    esIndex,
	}
}

// SearchConversations 在归档索引中全文检索已决议的对话。
func (h *AdminHandler) SearchConversations(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "q parameter is required", "data": nil})
		return
	}

	sizeStr := c.DefaultQuery("size", "10")
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		size = 10
	}

	if es.ESClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "Conversation archive is not configured", "data": nil})
		return
	}

	docs, err := es.SearchConversations(c.Request.Context(), h.esIndex, query, size)
	if err != nil {
		log.Errorf("检索归档对话失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Search failed", "data": nil})
		return
	}

	log.Infof("归档对话检索成功, query: '%s', 返回 %d 条结果", query, len(docs))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": docs})
}

// GetTicket 按工单号查询升级工单。
func (h *AdminHandler) GetTicket(c *gin.Context) {
	number := c.Param("number")

	if h.ticketRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "Ticket storage is not configured", "data": nil})
		return
	}

	ticket, err := h.ticketRepo.FindByNumber(number)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Ticket not found", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": ticket})
}

// ListRecentTickets 返回最近创建的升级工单。
func (h *AdminHandler) ListRecentTickets(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	if h.ticketRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "Ticket storage is not configured", "data": nil})
		return
	}

	tickets, err := h.ticketRepo.FindRecent(limit)
	if err != nil {
		log.Errorf("查询最近工单失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to list tickets", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": tickets})
}
