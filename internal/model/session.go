// Package model 包含了应用的数据模型定义。
package model

import "time"

// SessionMode 区分会话的发起方式。
type SessionMode string

const (
	// ModeGuided 表示系统引导模式：调用方显式选择类别。
	ModeGuided SessionMode = "guided"
	// ModeFreeText 表示自由文本模式：由分类器推断类别。
	ModeFreeText SessionMode = "free_text"
)

// SessionState 是对话引擎的状态机状态。
type SessionState string

const (
	// StateAwaitingCategory 仅存在于自由文本模式，等待分类结果或澄清。
	StateAwaitingCategory SessionState = "awaiting_category"
	// StateAwaitingConfirmation 表示分类置信度处于中间区间，等待用户确认类别。
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"
	// StateAwaitingAnswer 表示存在待回答的问题。
	StateAwaitingAnswer SessionState = "awaiting_answer"
	// StateResolved 是终态，不再进行任何树导航。
	StateResolved SessionState = "resolved"
)

// ChatMessage 代表会话历史中的单条消息。
type ChatMessage struct {
	Role      string    `json:"role"` // "user"、"assistant" 或 "system"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session 是单次对话的全部可变状态，由会话存储独占持有。
type Session struct {
	ID                 string            `json:"id"`
	Mode               SessionMode       `json:"mode"`
	State              SessionState      `json:"state"`
	Category           IssueCategory     `json:"category,omitempty"`
	Confidence         float64           `json:"confidence,omitempty"`
	RejectedCategories []IssueCategory   `json:"rejectedCategories,omitempty"`
	Answers            map[string]string `json:"answers"`
	History            []ChatMessage     `json:"history"`
	CurrentQuestionID  string            `json:"currentQuestionId,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	LastActivity       time.Time         `json:"lastActivity"`
	Resolved           bool              `json:"resolved"`
	Resolution         *Resolution       `json:"resolution,omitempty"`
}

// Clone 返回会话的深拷贝，避免存储之外的代码持有内部引用。
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		cp.Answers[k] = v
	}
	cp.History = append([]ChatMessage(nil), s.History...)
	cp.RejectedCategories = append([]IssueCategory(nil), s.RejectedCategories...)
	if s.Resolution != nil {
		r := *s.Resolution
		if s.Resolution.Escalation != nil {
			esc := *s.Resolution.Escalation
			r.Escalation = &esc
		}
		r.Steps = append([]string(nil), s.Resolution.Steps...)
		cp.Resolution = &r
	}
	return &cp
}
