// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"strings"
	"time"

	"support-flow-go/pkg/llm"
	"support-flow-go/pkg/log"
)

// Tone 控制措辞改写的语气。
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneFriendly   Tone = "friendly"
	ToneEmpathetic Tone = "empathetic"
)

// PhrasingService 把引擎已经确定的文本改写得更自然。
// 纯装饰用途：引擎的控制流从不依赖它的输出，不可用时回退为字面模板替换。
type PhrasingService interface {
	Phrase(ctx context.Context, guidance string, templateContext map[string]string, tone Tone) string
}

type phrasingService struct {
	llmClient llm.Client
	timeout   time.Duration
	enabled   bool
}

// NewPhrasingService 创建一个新的 PhrasingService 实例。
// enabled 为 false 或 llmClient 为 nil 时只做模板替换。
func NewPhrasingService(llmClient llm.Client, timeout time.Duration, enabled bool) PhrasingService {
	return &phrasingService{llmClient: llmClient, timeout: timeout, enabled: enabled}
}

// Phrase 先做模板替换得到确定性文本，再尝试 LLM 润色；润色失败返回确定性文本。
func (s *phrasingService) Phrase(ctx context.Context, guidance string, templateContext map[string]string, tone Tone) string {
	literal := RenderTemplate(guidance, templateContext)
	if !s.enabled || s.llmClient == nil {
		return literal
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []llm.Message{
		{
			Role: "system",
			Content: "You rephrase customer support messages. Keep the exact meaning, " +
				"all numbers, option texts and identifiers unchanged. Tone: " + string(tone) + ". " +
				"Reply with the rephrased message only.",
		},
		{Role: "user", Content: literal},
	}
	rephrased, err := s.llmClient.ChatCompletion(ctx, messages, nil)
	if err != nil {
		log.Warnf("措辞润色失败，使用字面模板: %v", err)
		return literal
	}
	rephrased = strings.TrimSpace(rephrased)
	if rephrased == "" {
		return literal
	}
	return rephrased
}

// RenderTemplate 将 guidance 中的 {key} 占位符替换为上下文中的值。
// 缺失的键保留原样，便于排查模板与数据的不一致。
func RenderTemplate(guidance string, templateContext map[string]string) string {
	result := guidance
	for key, value := range templateContext {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}
