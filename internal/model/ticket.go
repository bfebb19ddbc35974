// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Ticket 定义了 support_ticket 表的 ORM 模型。
// 每当决议结果为升级类时落库一条工单记录，供人工团队跟进。
type Ticket struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketNumber string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"ticketNumber"`
	SessionID    string        `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	Category     IssueCategory `gorm:"type:varchar(32);not null" json:"category"`
	Kind         string        `gorm:"type:varchar(32);not null" json:"kind"`
	Team         string        `gorm:"type:varchar(64);not null" json:"team"`
	Priority     string        `gorm:"type:varchar(16);not null" json:"priority"`
	Reason       string        `gorm:"type:text" json:"reason"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Ticket) TableName() string {
	return "support_ticket"
}
