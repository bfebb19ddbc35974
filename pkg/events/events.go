// Package events defines the structure for events that are sent to Kafka.
package events

import (
	"time"

	"support-flow-go/internal/model"
)

// ResolutionEvent 是会话结束时发往 Kafka 的事件，供下游报表与质检消费。
type ResolutionEvent struct {
	SessionID    string               `json:"session_id"`
	Category     model.IssueCategory  `json:"category"`
	Kind         model.ResolutionKind `json:"kind"`
	PathID       string               `json:"path_id"`
	TicketNumber string               `json:"ticket_number,omitempty"`
	Team         string               `json:"team,omitempty"`
	Priority     string               `json:"priority,omitempty"`
	AnswerCount  int                  `json:"answer_count"`
	ResolvedAt   time.Time            `json:"resolved_at"`
}
