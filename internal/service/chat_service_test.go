package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"support-flow-go/internal/catalog"
	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
	"support-flow-go/internal/repository"
)

// --- stub classifier ---

type stubClassifier struct {
	result ClassificationResult
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, message string, history []model.ChatMessage, rejected []model.IssueCategory) ClassificationResult {
	s.calls++
	return s.result
}

// --- helpers ---

func newTestChatService(classifier ClassificationService) ChatService {
	sessions := repository.NewMemorySessionRepository(config.SessionConfig{
		TTL:         time.Minute,
		MaxSessions: 100,
		MaxHistory:  50,
	})
	resolutions := NewResolutionService(nil, config.TicketConfig{Prefix: "TCK"}, "")
	cfg := config.ChatConfig{
		MaxAnswerLength: 500,
		HighConfidence:  0.8,
		LowConfidence:   0.5,
	}
	return NewChatService(sessions, classifier, nil, resolutions, cfg)
}

// --- tests ---

func TestGuidedConversationFullWalk(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeGuided, model.CategoryAccountAccess, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if reply.State != model.StateAwaitingAnswer {
		t.Fatalf("State = %q, want awaiting_answer", reply.State)
	}
	if reply.Question == nil || reply.Question.ID != "aa_issue" {
		t.Fatalf("Question = %+v, want aa_issue", reply.Question)
	}

	reply, err = svc.HandleMessage(ctx, reply.SessionID, "Forgot password")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Question == nil || reply.Question.ID != "aa_reset_tried" {
		t.Fatalf("Question = %+v, want aa_reset_tried", reply.Question)
	}

	reply, err = svc.HandleMessage(ctx, reply.SessionID, "no")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.State != model.StateResolved {
		t.Fatalf("State = %q, want resolved", reply.State)
	}
	if reply.Resolution == nil {
		t.Fatal("Resolution is nil")
	}
	if reply.Resolution.Kind != model.ResolutionSelfService {
		t.Fatalf("Resolution.Kind = %q, want self_service", reply.Resolution.Kind)
	}
	if len(reply.Resolution.Steps) == 0 {
		t.Fatal("self service resolution must carry steps")
	}
	if reply.Progress.Answered != 2 {
		t.Fatalf("Progress.Answered = %d, want 2", reply.Progress.Answered)
	}
}

func TestGuidedStartRejectsUnknownCategory(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})

	_, err := svc.Start(context.Background(), model.ModeGuided, "pizza", "")
	if !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestInvalidAnswerReposesQuestion(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeGuided, model.CategoryOrderStatus, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	sessionID := reply.SessionID

	// 数字序号选择第一个选项，前进到订单号问题。
	reply, err = svc.HandleMessage(ctx, sessionID, "1")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Question == nil || reply.Question.ID != "os_order_number" {
		t.Fatalf("Question = %+v, want os_order_number", reply.Question)
	}

	// 非法订单号：问题原地重发，状态不变，答案不被记录。
	reply, err = svc.HandleMessage(ctx, sessionID, "12345")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.ValidationError == "" {
		t.Fatal("expected a validation error")
	}
	if reply.State != model.StateAwaitingAnswer {
		t.Fatalf("State = %q, want awaiting_answer", reply.State)
	}
	if reply.Question == nil || reply.Question.ID != "os_order_number" {
		t.Fatalf("Question = %+v, want os_order_number re-posed", reply.Question)
	}
	sess, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if _, ok := sess.Answers["os_order_number"]; ok {
		t.Fatal("invalid answer must not be recorded")
	}

	// 合法订单号被归一化为大写并插入决议消息。
	reply, err = svc.HandleMessage(ctx, sessionID, "ord-12345")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.State != model.StateResolved {
		t.Fatalf("State = %q, want resolved", reply.State)
	}
	if want := "Here is how to check order ORD-12345 yourself."; reply.Resolution.Message != want {
		t.Fatalf("Resolution.Message = %q, want %q", reply.Resolution.Message, want)
	}
}

func TestFreeTextHighConfidenceEntersTree(t *testing.T) {
	classifier := &stubClassifier{result: ClassificationResult{Category: model.CategoryDeliveryProblem, Confidence: 0.95}}
	svc := newTestChatService(classifier)

	reply, err := svc.Start(context.Background(), model.ModeFreeText, "", "my package is a week late")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if reply.State != model.StateAwaitingAnswer {
		t.Fatalf("State = %q, want awaiting_answer", reply.State)
	}
	if reply.Question == nil || reply.Question.ID != "dp_issue" {
		t.Fatalf("Question = %+v, want dp_issue", reply.Question)
	}
	if classifier.calls != 1 {
		t.Fatalf("classifier calls = %d, want 1", classifier.calls)
	}
}

func TestFreeTextMidConfidenceAsksConfirmation(t *testing.T) {
	classifier := &stubClassifier{result: ClassificationResult{Category: model.CategoryDeliveryProblem, Confidence: 0.65}}
	svc := newTestChatService(classifier)
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeFreeText, "", "something about my package maybe")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if reply.State != model.StateAwaitingConfirmation {
		t.Fatalf("State = %q, want awaiting_confirmation", reply.State)
	}

	// 确认后进入对应问题树。
	reply, err = svc.HandleMessage(ctx, reply.SessionID, "yes")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.State != model.StateAwaitingAnswer {
		t.Fatalf("State = %q, want awaiting_answer", reply.State)
	}
	if reply.Question == nil || reply.Question.ID != "dp_issue" {
		t.Fatalf("Question = %+v, want dp_issue", reply.Question)
	}
}

func TestFreeTextConfirmationDeclined(t *testing.T) {
	classifier := &stubClassifier{result: ClassificationResult{Category: model.CategoryDeliveryProblem, Confidence: 0.65}}
	svc := newTestChatService(classifier)
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeFreeText, "", "hmm")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	reply, err = svc.HandleMessage(ctx, reply.SessionID, "no")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.State != model.StateAwaitingCategory {
		t.Fatalf("State = %q, want awaiting_category", reply.State)
	}

	sess, err := svc.GetSession(ctx, reply.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	found := false
	for _, c := range sess.RejectedCategories {
		if c == model.CategoryDeliveryProblem {
			found = true
		}
	}
	if !found {
		t.Fatalf("declined category missing from RejectedCategories: %v", sess.RejectedCategories)
	}
}

func TestFreeTextLowConfidenceAsksClarification(t *testing.T) {
	classifier := &stubClassifier{result: ClassificationResult{Category: model.CategoryOther, Confidence: 0.45}}
	svc := newTestChatService(classifier)

	reply, err := svc.Start(context.Background(), model.ModeFreeText, "", "it is broken or something")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if reply.State != model.StateAwaitingCategory {
		t.Fatalf("State = %q, want awaiting_category", reply.State)
	}
	if reply.Question != nil {
		t.Fatal("low confidence must not pose a tree question")
	}

	sess, err := svc.GetSession(context.Background(), reply.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(sess.RejectedCategories) != 1 || sess.RejectedCategories[0] != model.CategoryOther {
		t.Fatalf("RejectedCategories = %v, want [other]", sess.RejectedCategories)
	}
}

func TestFreeTextEmptyInitialMessage(t *testing.T) {
	classifier := &stubClassifier{}
	svc := newTestChatService(classifier)

	reply, err := svc.Start(context.Background(), model.ModeFreeText, "", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if reply.State != model.StateAwaitingCategory {
		t.Fatalf("State = %q, want awaiting_category", reply.State)
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier calls = %d, want 0 for empty message", classifier.calls)
	}
}

func TestResolvedSessionIsTerminal(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeGuided, model.CategoryAccountAccess, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	sessionID := reply.SessionID

	if _, err = svc.HandleMessage(ctx, sessionID, "Forgot password"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	reply, err = svc.HandleMessage(ctx, sessionID, "no")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.State != model.StateResolved {
		t.Fatalf("State = %q, want resolved", reply.State)
	}

	// 终态后的消息不再触发任何树导航，决议保持不变。
	again, err := svc.HandleMessage(ctx, sessionID, "hello again")
	if err != nil {
		t.Fatalf("HandleMessage after resolve: %v", err)
	}
	if again.State != model.StateResolved {
		t.Fatalf("State = %q, want resolved", again.State)
	}
	if again.Resolution == nil || again.Resolution.Kind != model.ResolutionSelfService {
		t.Fatalf("Resolution = %+v, want the original self_service resolution", again.Resolution)
	}
}

func TestHandleMessageUnknownSession(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})

	_, err := svc.HandleMessage(context.Background(), "missing-id", "hi")
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestEndSession(t *testing.T) {
	svc := newTestChatService(&stubClassifier{})
	ctx := context.Background()

	reply, err := svc.Start(ctx, model.ModeGuided, model.CategoryOther, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.EndSession(ctx, reply.SessionID); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, reply.SessionID); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound after EndSession", err)
	}
}
