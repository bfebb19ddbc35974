package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"support-flow-go/internal/model"
	"support-flow-go/pkg/llm"
)

// --- mock llm client ---

type mockLLMClient struct {
	response string
	err      error
	delay    time.Duration
}

func (m *mockLLMClient) ChatCompletion(ctx context.Context, messages []llm.Message, gen *llm.GenerationParams) (string, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// --- tests ---

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		rejected       []model.IssueCategory
		wantCategory   model.IssueCategory
		wantConfidence float64
	}{
		{
			name:           "no keywords fall back to other",
			message:        "qwertyuiop",
			wantCategory:   model.CategoryOther,
			wantConfidence: 0.4,
		},
		{
			name:           "single hit gives 0.5",
			message:        "I want a refund",
			wantCategory:   model.CategoryRefundRequest,
			wantConfidence: 0.5,
		},
		{
			name:           "more hits raise confidence",
			message:        "my package is delayed and the delivery seems lost",
			wantCategory:   model.CategoryDeliveryProblem,
			wantConfidence: 0.8,
		},
		{
			name:           "rejected category is skipped",
			message:        "I want a refund",
			rejected:       []model.IssueCategory{model.CategoryRefundRequest},
			wantCategory:   model.CategoryOther,
			wantConfidence: 0.4,
		},
		{
			name:           "matching is case insensitive",
			message:        "FORGOT MY PASSWORD",
			wantCategory:   model.CategoryAccountAccess,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordClassify(tt.message, tt.rejected)
			if got.Category != tt.wantCategory {
				t.Fatalf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Confidence != tt.wantConfidence {
				t.Fatalf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestKeywordClassifyConfidenceCap(t *testing.T) {
	// 堆满一个类别的所有关键词，置信度也不允许超过 0.9。
	msg := "delivery delayed late package lost damaged courier missing"
	got := KeywordClassify(msg, nil)
	if got.Category != model.CategoryDeliveryProblem {
		t.Fatalf("Category = %q, want delivery_problem", got.Category)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("Confidence = %v, want 0.9", got.Confidence)
	}
}

func TestClassifyUsesLLMResult(t *testing.T) {
	client := &mockLLMClient{response: `{"category":"payment_issue","confidence":0.92,"reasoning":"card declined"}`}
	svc := NewClassificationService(client, time.Second)

	got := svc.Classify(context.Background(), "my card was declined", nil, nil)
	if got.Category != model.CategoryPaymentIssue {
		t.Fatalf("Category = %q, want payment_issue", got.Category)
	}
	if got.Confidence != 0.92 {
		t.Fatalf("Confidence = %v, want 0.92", got.Confidence)
	}
}

func TestClassifyFallsBackOnError(t *testing.T) {
	client := &mockLLMClient{err: errors.New("upstream unavailable")}
	svc := NewClassificationService(client, time.Second)

	got := svc.Classify(context.Background(), "I want a refund", nil, nil)
	if got.Category != model.CategoryRefundRequest {
		t.Fatalf("Category = %q, want refund_request from keyword fallback", got.Category)
	}
}

func TestClassifyFallsBackOnTimeout(t *testing.T) {
	client := &mockLLMClient{response: `{"category":"payment_issue","confidence":0.9}`, delay: 200 * time.Millisecond}
	svc := NewClassificationService(client, 10*time.Millisecond)

	start := time.Now()
	got := svc.Classify(context.Background(), "I want a refund", nil, nil)
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("classification did not respect the timeout, took %v", elapsed)
	}
	if got.Category != model.CategoryRefundRequest {
		t.Fatalf("Category = %q, want refund_request from keyword fallback", got.Category)
	}
}

func TestClassifyFallsBackOnBadPayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "certainly! here is the category"},
		{name: "unknown category", response: `{"category":"pizza","confidence":0.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClassificationService(&mockLLMClient{response: tt.response}, time.Second)
			got := svc.Classify(context.Background(), "I want a refund", nil, nil)
			if got.Category != model.CategoryRefundRequest {
				t.Fatalf("Category = %q, want refund_request from keyword fallback", got.Category)
			}
		})
	}
}

func TestClassifyRejectsExcludedLLMCategory(t *testing.T) {
	// LLM 返回已被用户否决的类别时同样走兜底。
	client := &mockLLMClient{response: `{"category":"refund_request","confidence":0.95}`}
	svc := NewClassificationService(client, time.Second)

	got := svc.Classify(context.Background(), "something about my card payment", nil, []model.IssueCategory{model.CategoryRefundRequest})
	if got.Category == model.CategoryRefundRequest {
		t.Fatalf("rejected category %q was returned", got.Category)
	}
}

func TestClassifyClampsConfidence(t *testing.T) {
	client := &mockLLMClient{response: `{"category":"payment_issue","confidence":1.7}`}
	svc := NewClassificationService(client, time.Second)

	got := svc.Classify(context.Background(), "card", nil, nil)
	if got.Confidence != 1 {
		t.Fatalf("Confidence = %v, want clamped to 1", got.Confidence)
	}
}

func TestClassifyWithNilClient(t *testing.T) {
	svc := NewClassificationService(nil, time.Second)
	got := svc.Classify(context.Background(), "invoice question", nil, nil)
	if got.Category != model.CategoryBillingInquiry {
		t.Fatalf("Category = %q, want billing_inquiry", got.Category)
	}
}
