// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"support-flow-go/internal/catalog"
	"support-flow-go/internal/model"
	"support-flow-go/pkg/llm"
	"support-flow-go/pkg/log"
)

// ClassificationResult 是分类适配器的输出契约。
// Category 一定来自封闭枚举，Confidence 位于 [0,1]。
type ClassificationResult struct {
	Category   model.IssueCategory `json:"category"`
	Confidence float64             `json:"confidence"`
	Reasoning  string              `json:"reasoning"`
}

// ClassificationService 将自由文本映射到一个预定义类别与置信度。
// 该调用永远返回结果：LLM 超时或失败时透明切换到确定性的关键词兜底，
// 适配器故障绝不以错误形式上抛给对话引擎。
type ClassificationService interface {
	Classify(ctx context.Context, message string, history []model.ChatMessage, rejected []model.IssueCategory) ClassificationResult
}

type classificationService struct {
	llmClient llm.Client
	timeout   time.Duration
}

// NewClassificationService 创建一个新的 ClassificationService 实例。
// llmClient 为 nil 时直接使用关键词兜底分类器。
func NewClassificationService(llmClient llm.Client, timeout time.Duration) ClassificationService {
	return &classificationService{llmClient: llmClient, timeout: timeout}
}

// Classify 调用 LLM 做受约束的 JSON 分类，带硬超时；任何失败走关键词兜底。
func (s *classificationService) Classify(ctx context.Context, message string, history []model.ChatMessage, rejected []model.IssueCategory) ClassificationResult {
	if s.llmClient == nil {
		return KeywordClassify(message, rejected)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := s.buildMessages(message, history, rejected)
	raw, err := s.llmClient.ChatCompletion(ctx, messages, &llm.GenerationParams{JSONMode: true})
	if err != nil {
		log.Warnf("LLM 分类调用失败，切换到关键词兜底: %v", err)
		return KeywordClassify(message, rejected)
	}

	var result ClassificationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		log.Warnf("LLM 分类响应解析失败，切换到关键词兜底: %v", err)
		return KeywordClassify(message, rejected)
	}
	if !result.Category.Valid() || isRejected(result.Category, rejected) {
		log.Warnf("LLM 分类返回非法或已排除的类别 %q，切换到关键词兜底", result.Category)
		return KeywordClassify(message, rejected)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result
}

// buildMessages 构建受约束的分类提示：类别集合封闭，要求 JSON 输出。
func (s *classificationService) buildMessages(message string, history []model.ChatMessage, rejected []model.IssueCategory) []llm.Message {
	var sys strings.Builder
	sys.WriteString("You are a customer support issue classifier. ")
	sys.WriteString("Classify the user's message into exactly one of these categories:\n")
	for _, info := range catalog.Categories() {
		if isRejected(info.Category, rejected) {
			continue
		}
		sys.WriteString(fmt.Sprintf("- %s: %s\n", info.Category, info.DisplayName))
	}
	if len(rejected) > 0 {
		sys.WriteString("The user already indicated these categories are wrong, never pick them: ")
		for i, c := range rejected {
			if i > 0 {
				sys.WriteString(", ")
			}
			sys.WriteString(string(c))
		}
		sys.WriteString("\n")
	}
	sys.WriteString(`Respond with a JSON object: {"category":"<id>","confidence":<0..1>,"reasoning":"<short>"}`)

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: sys.String()})
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: message})
	return msgs
}

// KeywordClassify 是确定性的关键词兜底分类器：
// 统计每个类别的关键词命中数，命中数映射到 [0.4, 0.9] 的置信度；
// 无任何命中时回落到 other 类别，置信度 0.4。
func KeywordClassify(message string, rejected []model.IssueCategory) ClassificationResult {
	lowered := strings.ToLower(message)

	best := model.CategoryOther
	bestHits := 0
	for _, info := range catalog.Categories() {
		if isRejected(info.Category, rejected) {
			continue
		}
		hits := 0
		for _, kw := range info.Keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = info.Category
			bestHits = hits
		}
	}

	confidence := 0.4 + 0.1*float64(bestHits)
	if confidence > 0.9 {
		confidence = 0.9
	}
	reasoning := "keyword fallback: no keywords matched"
	if bestHits > 0 {
		reasoning = fmt.Sprintf("keyword fallback: %d keyword(s) matched", bestHits)
	}
	return ClassificationResult{Category: best, Confidence: confidence, Reasoning: reasoning}
}

func isRejected(c model.IssueCategory, rejected []model.IssueCategory) bool {
	for _, r := range rejected {
		if c == r {
			return true
		}
	}
	return false
}
