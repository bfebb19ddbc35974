// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"strings"

	"support-flow-go/internal/catalog"
	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
	"support-flow-go/internal/repository"
	"support-flow-go/pkg/log"
)

// QuestionPayload 是下发给调用方的问题视图。
type QuestionPayload struct {
	ID      string             `json:"id"`
	Prompt  string             `json:"prompt"`
	Type    model.QuestionType `json:"type"`
	Options []string           `json:"options,omitempty"`
}

// Progress 报告对话进度：已收集的答案数与树深度估计的总问题数。
type Progress struct {
	Answered      int `json:"answered"`
	TotalEstimate int `json:"totalEstimate"`
}

// ChatReply 是引擎每轮交互的统一应答。
// ValidationError 非空表示答案校验失败，问题会原样重发且状态不变。
type ChatReply struct {
	SessionID       string             `json:"sessionId"`
	State           model.SessionState `json:"state"`
	Message         string             `json:"message"`
	Question        *QuestionPayload   `json:"question,omitempty"`
	ValidationError string             `json:"validationError,omitempty"`
	Resolution      *model.Resolution  `json:"resolution,omitempty"`
	Progress        Progress           `json:"progress"`
}

// ChatService 是对话引擎：驱动状态机、校验并记录答案、导航问题树，
// 在树穷尽时触发决议匹配。
type ChatService interface {
	// Start 开启一个新会话。引导模式必须给定类别；自由文本模式先走分类。
	Start(ctx context.Context, mode model.SessionMode, category model.IssueCategory, initialMessage string) (*ChatReply, error)
	// HandleMessage 处理会话中的一条用户消息，按当前状态分派。
	HandleMessage(ctx context.Context, sessionID, text string) (*ChatReply, error)
	// GetSession 返回会话快照。
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	// EndSession 显式删除会话。
	EndSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	sessions    repository.SessionRepository
	classifier  ClassificationService
	phrasing    PhrasingService
	resolutions ResolutionService
	cfg         config.ChatConfig
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	sessions repository.SessionRepository,
	classifier ClassificationService,
	phrasing PhrasingService,
	resolutions ResolutionService,
	cfg config.ChatConfig,
) ChatService {
	return &chatService{
		sessions:    sessions,
		classifier:  classifier,
		phrasing:    phrasing,
		resolutions: resolutions,
		cfg:         cfg,
	}
}

const (
	clarifyMessage  = "I'm not sure I understood your issue yet. Could you describe it in a bit more detail?"
	describeMessage = "Hi! Please describe your issue in a few words and I'll find the right way to help."
	resolvedMessage = "This conversation is already resolved. Please start a new conversation for a different issue."
)

func (s *chatService) Start(ctx context.Context, mode model.SessionMode, category model.IssueCategory, initialMessage string) (*ChatReply, error) {
	switch mode {
	case model.ModeGuided:
		// 引导模式由调用方显式选择类别，不经过分类步骤。
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, category)
		}
		sess, err := s.sessions.Create(ctx, model.ModeGuided, initialMessage)
		if err != nil {
			return nil, err
		}
		if _, err := s.sessions.Update(ctx, sess.ID, func(m *model.Session) {
			m.Category = category
			m.Confidence = 1.0
		}); err != nil {
			return nil, err
		}
		return s.askFirstQuestion(ctx, sess.ID, category)

	case model.ModeFreeText:
		sess, err := s.sessions.Create(ctx, model.ModeFreeText, initialMessage)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(initialMessage) == "" {
			return s.reply(ctx, sess.ID, describeMessage, nil, "")
		}
		result := s.classifier.Classify(ctx, initialMessage, nil, nil)
		log.Infow("自由文本会话分类完成",
			"sessionId", sess.ID,
			"category", result.Category,
			"confidence", result.Confidence,
			"reasoning", result.Reasoning,
		)
		return s.applyClassification(ctx, sess.ID, result)

	default:
		return nil, fmt.Errorf("unknown session mode: %s", mode)
	}
}

func (s *chatService) HandleMessage(ctx context.Context, sessionID, text string) (*ChatReply, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.AppendMessage(ctx, sessionID, "user", text); err != nil {
		return nil, err
	}

	switch sess.State {
	case model.StateResolved:
		// 终态：不再做任何树导航，提示调用方开启新会话。
		return &ChatReply{
			SessionID:  sessionID,
			State:      model.StateResolved,
			Message:    resolvedMessage,
			Resolution: sess.Resolution,
			Progress:   s.progress(sess),
		}, nil

	case model.StateAwaitingCategory:
		result := s.classifier.Classify(ctx, text, sess.History, sess.RejectedCategories)
		log.Infow("澄清消息重新分类完成",
			"sessionId", sessionID,
			"category", result.Category,
			"confidence", result.Confidence,
		)
		return s.applyClassification(ctx, sessionID, result)

	case model.StateAwaitingConfirmation:
		return s.handleConfirmation(ctx, sess, text)

	case model.StateAwaitingAnswer:
		return s.handleAnswer(ctx, sess, text)

	default:
		return nil, fmt.Errorf("session %s is in unknown state %q", sessionID, sess.State)
	}
}

func (s *chatService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *chatService) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// applyClassification 按置信度分档决定下一步：
// 高置信度直接进入问题树；中间档先插入一次类别确认；
// 低置信度请求澄清并记住被排除的类别，避免重复猜测同一类别。
func (s *chatService) applyClassification(ctx context.Context, sessionID string, result ClassificationResult) (*ChatReply, error) {
	switch {
	case result.Confidence >= s.cfg.HighConfidence:
		if _, err := s.sessions.Update(ctx, sessionID, func(m *model.Session) {
			m.Category = result.Category
			m.Confidence = result.Confidence
		}); err != nil {
			return nil, err
		}
		return s.askFirstQuestion(ctx, sessionID, result.Category)

	case result.Confidence >= s.cfg.LowConfidence:
		if _, err := s.sessions.Update(ctx, sessionID, func(m *model.Session) {
			m.Category = result.Category
			m.Confidence = result.Confidence
			m.State = model.StateAwaitingConfirmation
		}); err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("It sounds like your issue is about \"%s\". Is that right? (yes/no)", catalog.DisplayName(result.Category))
		return s.reply(ctx, sessionID, msg, nil, "")

	default:
		// 类别仅作暂定记录，不进入 awaiting_answer。
		if _, err := s.sessions.Update(ctx, sessionID, func(m *model.Session) {
			m.Category = result.Category
			m.Confidence = result.Confidence
			m.State = model.StateAwaitingCategory
			m.RejectedCategories = appendRejected(m.RejectedCategories, result.Category)
		}); err != nil {
			return nil, err
		}
		return s.reply(ctx, sessionID, clarifyMessage, nil, "")
	}
}

// handleConfirmation 处理中间置信度档的类别确认回答。
func (s *chatService) handleConfirmation(ctx context.Context, sess *model.Session, text string) (*ChatReply, error) {
	confirm := &model.Question{ID: "__confirm", Type: model.QuestionYesNo}
	switch NormalizeAnswer(confirm, text) {
	case "yes":
		return s.askFirstQuestion(ctx, sess.ID, sess.Category)
	case "no":
		rejected := sess.Category
		if _, err := s.sessions.Update(ctx, sess.ID, func(m *model.Session) {
			m.RejectedCategories = appendRejected(m.RejectedCategories, rejected)
			m.Category = ""
			m.Confidence = 0
			m.State = model.StateAwaitingCategory
		}); err != nil {
			return nil, err
		}
		return s.reply(ctx, sess.ID, clarifyMessage, nil, "")
	default:
		msg := fmt.Sprintf("Please answer yes or no: is your issue about \"%s\"?", catalog.DisplayName(sess.Category))
		return s.reply(ctx, sess.ID, msg, nil, "")
	}
}

// handleAnswer 处理树导航中的一个答案：校验失败原地重发问题，
// 校验通过则记录归一化答案并前进；没有下一个问题时进入决议匹配。
func (s *chatService) handleAnswer(ctx context.Context, sess *model.Session, text string) (*ChatReply, error) {
	q, ok := catalog.Question(sess.Category, sess.CurrentQuestionID)
	if !ok {
		// 启动校验保证树完整，走到这里说明存储与目录不一致。
		return nil, fmt.Errorf("question %q not found in category %s", sess.CurrentQuestionID, sess.Category)
	}

	if result := ValidateAnswer(q, text, s.cfg.MaxAnswerLength); !result.Valid {
		reply, err := s.reply(ctx, sess.ID, result.Message, q, result.Message)
		if err != nil {
			return nil, err
		}
		return reply, nil
	}

	normalized := NormalizeAnswer(q, text)
	if _, err := s.sessions.RecordAnswer(ctx, sess.ID, q.ID, normalized); err != nil {
		return nil, err
	}

	nextID, ok := catalog.NextQuestionID(sess.Category, q.ID, normalized)
	if !ok {
		// 叶子或未命中任何分支：树穷尽，进入决议匹配。
		return s.resolve(ctx, sess.ID)
	}

	next, ok := catalog.Question(sess.Category, nextID)
	if !ok {
		return nil, fmt.Errorf("question %q not found in category %s", nextID, sess.Category)
	}
	if _, err := s.sessions.Update(ctx, sess.ID, func(m *model.Session) {
		m.CurrentQuestionID = next.ID
	}); err != nil {
		return nil, err
	}
	return s.reply(ctx, sess.ID, s.phrase(ctx, next.Prompt), next, "")
}

// resolve 对已收集的答案做决议匹配并固化终态。
func (s *chatService) resolve(ctx context.Context, sessionID string) (*ChatReply, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	path := catalog.FindResolution(sess.Category, sess.Answers)
	if path == nil {
		return nil, fmt.Errorf("no resolution paths registered for category %s", sess.Category)
	}
	resolution := s.resolutions.Build(ctx, sess, path)

	if _, err := s.sessions.Resolve(ctx, sessionID, resolution); err != nil {
		return nil, err
	}
	message := s.phrase(ctx, resolution.Message)
	if _, err := s.sessions.AppendMessage(ctx, sessionID, "assistant", message); err != nil {
		return nil, err
	}

	final, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &ChatReply{
		SessionID:  sessionID,
		State:      model.StateResolved,
		Message:    message,
		Resolution: resolution,
		Progress:   s.progress(final),
	}, nil
}

// askFirstQuestion 下发类别问题树的根问题并进入 awaiting_answer。
func (s *chatService) askFirstQuestion(ctx context.Context, sessionID string, category model.IssueCategory) (*ChatReply, error) {
	q, err := catalog.FirstQuestion(category)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Update(ctx, sessionID, func(m *model.Session) {
		m.Category = category
		m.State = model.StateAwaitingAnswer
		m.CurrentQuestionID = q.ID
	}); err != nil {
		return nil, err
	}
	return s.reply(ctx, sessionID, s.phrase(ctx, q.Prompt), q, "")
}

// reply 追加助手消息并组装统一应答。
func (s *chatService) reply(ctx context.Context, sessionID, message string, q *model.Question, validationError string) (*ChatReply, error) {
	sess, err := s.sessions.AppendMessage(ctx, sessionID, "assistant", message)
	if err != nil {
		return nil, err
	}
	r := &ChatReply{
		SessionID:       sessionID,
		State:           sess.State,
		Message:         message,
		ValidationError: validationError,
		Progress:        s.progress(sess),
	}
	if q != nil {
		r.Question = &QuestionPayload{ID: q.ID, Prompt: q.Prompt, Type: q.Type, Options: q.Options}
	}
	return r, nil
}

func (s *chatService) phrase(ctx context.Context, text string) string {
	if s.phrasing == nil {
		return text
	}
	return s.phrasing.Phrase(ctx, text, nil, ToneFriendly)
}

func (s *chatService) progress(sess *model.Session) Progress {
	return Progress{
		Answered:      len(sess.Answers),
		TotalEstimate: catalog.TreeDepth(sess.Category),
	}
}

func appendRejected(list []model.IssueCategory, c model.IssueCategory) []model.IssueCategory {
	if c == "" {
		return list
	}
	for _, r := range list {
		if r == c {
			return list
		}
	}
	return append(list, c)
}
