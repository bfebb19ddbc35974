// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"support-flow-go/internal/model"

	"gorm.io/gorm"
)

// TicketRepository 接口定义了升级工单的持久化操作。
type TicketRepository interface {
	Create(ticket *model.Ticket) error
	FindByNumber(ticketNumber string) (*model.Ticket, error)
	FindRecent(limit int) ([]model.Ticket, error)
}

// ticketRepository 是 TicketRepository 接口的 GORM 实现。
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository 创建一个新的 TicketRepository 实例。
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create 在数据库中创建一条新的工单记录。
func (r *ticketRepository) Create(ticket *model.Ticket) error {
	return r.db.Create(ticket).Error
}

// FindByNumber 根据工单编号查找一条工单记录。
func (r *ticketRepository) FindByNumber(ticketNumber string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.Where("ticket_number = ?", ticketNumber).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindRecent 返回最近创建的若干条工单。
func (r *ticketRepository) FindRecent(limit int) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.Order("created_at DESC").Limit(limit).Find(&tickets).Error
	return tickets, err
}
