// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
	"support-flow-go/internal/repository"
	"support-flow-go/pkg/es"
	"support-flow-go/pkg/events"
	"support-flow-go/pkg/kafka"
	"support-flow-go/pkg/log"
)

// ResolutionService 把匹配出的决议路径构造成终态 Resolution，
// 并完成升级工单落库、决议事件发送与会话转录索引等旁路动作。
// 旁路基础设施的失败只记录日志，绝不影响对话结束。
type ResolutionService interface {
	Build(ctx context.Context, session *model.Session, path *model.ResolutionPath) *model.Resolution
}

type resolutionService struct {
	ticketRepo   repository.TicketRepository
	ticketPrefix string
	esIndex      string
}

// NewResolutionService 创建一个新的 ResolutionService 实例。
// ticketRepo 为 nil 时跳过工单落库（测试环境）；esIndex 为空时跳过转录索引。
func NewResolutionService(ticketRepo repository.TicketRepository, cfg config.TicketConfig, esIndex string) ResolutionService {
	return &resolutionService{
		ticketRepo:   ticketRepo,
		ticketPrefix: cfg.Prefix,
		esIndex:      esIndex,
	}
}

// priorityTeams 是优先级到负责团队的查找表。
var priorityTeams = map[string]string{
	"high":   "Priority Support Team",
	"normal": "Customer Support Team",
	"low":    "Customer Support Team",
}

// specialistTeams 是升级给专家时按类别划分的团队表。
var specialistTeams = map[model.IssueCategory]string{
	model.CategoryPaymentIssue:   "Payments Team",
	model.CategoryBillingInquiry: "Billing Team",
	model.CategoryProductDefect:  "Product Quality Team",
	model.CategoryAccountAccess:  "Account Security Team",
}

// Build 按决议种类构造 Resolution。
func (s *resolutionService) Build(ctx context.Context, session *model.Session, path *model.ResolutionPath) *model.Resolution {
	resolution := &model.Resolution{
		Kind:    path.Kind,
		Message: RenderTemplate(path.Message, session.Answers),
		Steps:   renderSteps(path.Steps, session.Answers),
	}

	switch path.Kind {
	case model.ResolutionSelfService, model.ResolutionInformation:
		// 无需额外产物
	case model.ResolutionAutomatedAction:
		resolution.ReferenceNumber = s.mintNumber("REF")
	case model.ResolutionEscalateAgent, model.ResolutionEscalateSpecialist:
		resolution.Escalation = s.buildEscalation(session, path)
	}

	s.publishOutcome(session, path, resolution)
	return resolution
}

// buildEscalation 铸造工单号、查找负责团队并落库工单记录。
func (s *resolutionService) buildEscalation(session *model.Session, path *model.ResolutionPath) *model.EscalationDetails {
	priority := path.Priority
	if priority == "" {
		priority = "normal"
	}

	team := priorityTeams[priority]
	if team == "" {
		team = priorityTeams["normal"]
	}
	if path.Kind == model.ResolutionEscalateSpecialist {
		if t, ok := specialistTeams[session.Category]; ok {
			team = t
		} else {
			team = "Specialist Support Team"
		}
	}

	estimated := path.EstimatedTime
	if estimated == "" {
		if path.Kind == model.ResolutionEscalateSpecialist {
			estimated = "24 hours"
		} else {
			estimated = "8 hours"
		}
	}

	details := &model.EscalationDetails{
		Team:              team,
		Priority:          priority,
		EstimatedResponse: estimated,
		TicketNumber:      s.mintNumber(s.ticketPrefix),
	}

	if s.ticketRepo != nil {
		ticket := &model.Ticket{
			TicketNumber: details.TicketNumber,
			SessionID:    session.ID,
			Category:     session.Category,
			Kind:         string(path.Kind),
			Team:         team,
			Priority:     priority,
			Reason:       path.Reason,
		}
		if err := s.ticketRepo.Create(ticket); err != nil {
			log.Errorf("工单落库失败, ticket: %s, error: %v", details.TicketNumber, err)
		}
	}

	return details
}

// mintNumber 生成"前缀-日期戳-零填充随机后缀"格式的编号。
// 唯一性是唯一的硬性要求，可读性次之。
func (s *resolutionService) mintNumber(prefix string) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, time.Now().Format("20060102"), rand.Intn(1000000))
}

// publishOutcome 异步发送决议事件并索引会话转录，失败只记日志。
func (s *resolutionService) publishOutcome(session *model.Session, path *model.ResolutionPath, resolution *model.Resolution) {
	event := events.ResolutionEvent{
		SessionID:   session.ID,
		Category:    session.Category,
		Kind:        resolution.Kind,
		PathID:      path.ID,
		AnswerCount: len(session.Answers),
		ResolvedAt:  time.Now(),
	}
	if resolution.Escalation != nil {
		event.TicketNumber = resolution.Escalation.TicketNumber
		event.Team = resolution.Escalation.Team
		event.Priority = resolution.Escalation.Priority
	}

	// 使用后台上下文：即使原始请求结束，旁路动作也应完成。
	go func() {
		if err := kafka.ProduceResolutionEvent(context.Background(), event); err != nil {
			log.Errorf("决议事件发送失败, session: %s, error: %v", session.ID, err)
		}
	}()

	if s.esIndex != "" && es.ESClient != nil {
		doc := es.ConversationDocument{
			SessionID:    session.ID,
			Category:     session.Category,
			Resolution:   string(resolution.Kind),
			TicketNumber: event.TicketNumber,
			Transcript:   buildTranscript(session.History, resolution.Message),
			Answers:      session.Answers,
			ResolvedAt:   event.ResolvedAt,
		}
		go func() {
			if err := es.IndexConversation(context.Background(), s.esIndex, doc); err != nil {
				log.Errorf("会话转录索引失败, session: %s, error: %v", session.ID, err)
			}
		}()
	}
}

func renderSteps(steps []string, answers map[string]string) []string {
	if len(steps) == 0 {
		return nil
	}
	rendered := make([]string, len(steps))
	for i, step := range steps {
		rendered[i] = RenderTemplate(step, answers)
	}
	return rendered
}

func buildTranscript(history []model.ChatMessage, finalMessage string) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("assistant: ")
	b.WriteString(finalMessage)
	return b.String()
}
