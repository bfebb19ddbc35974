// Package service 包含了应用的业务逻辑层。
package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"support-flow-go/internal/model"
	"support-flow-go/pkg/log"
)

// ValidationResult 是答案校验的结果。校验失败是正常业务数据而非错误：
// 引擎会携带 Message 重新下发同一个问题。
type ValidationResult struct {
	Valid   bool
	Message string
}

const answerRequiredMessage = "An answer is required."

// ValidateAnswer 按声明顺序校验原始答案：
//  1. 无条件拒绝空白输入；
//  2. 拒绝超过全局最大长度的输入；
//  3. 依次应用问题声明的规则，返回首个失败规则的提示语。
func ValidateAnswer(q *model.Question, rawAnswer string, maxLength int) ValidationResult {
	trimmed := strings.TrimSpace(rawAnswer)
	if trimmed == "" {
		return ValidationResult{Valid: false, Message: answerRequiredMessage}
	}
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		return ValidationResult{Valid: false, Message: "Your answer is too long, please keep it shorter."}
	}

	for _, rule := range q.Rules {
		switch rule.Kind {
		case model.RuleRequired:
			if trimmed == "" {
				return ValidationResult{Valid: false, Message: rule.Message}
			}
		case model.RulePattern:
			matched, err := regexp.MatchString(rule.Value, trimmed)
			if err != nil {
				// 规则表达式本身非法属于配置问题，按规则失败处理并记录。
				log.Errorf("问题 %s 的校验正则非法: %v", q.ID, err)
				return ValidationResult{Valid: false, Message: rule.Message}
			}
			if !matched {
				return ValidationResult{Valid: false, Message: rule.Message}
			}
		case model.RuleMinLength:
			if utf8.RuneCountInString(trimmed) < rule.Length {
				return ValidationResult{Valid: false, Message: rule.Message}
			}
		case model.RuleMaxLength:
			if utf8.RuneCountInString(trimmed) > rule.Length {
				return ValidationResult{Valid: false, Message: rule.Message}
			}
		case model.RuleCustom:
			if rule.Predicate != nil && !rule.Predicate(trimmed) {
				return ValidationResult{Valid: false, Message: rule.Message}
			}
		}
	}
	return ValidationResult{Valid: true}
}

// NormalizeAnswer 按问题类型归一化答案，归一化结果用于树导航与决议匹配。
func NormalizeAnswer(q *model.Question, rawAnswer string) string {
	trimmed := strings.TrimSpace(rawAnswer)

	switch q.Type {
	case model.QuestionYesNo:
		// 未识别的值原样透传：后续树查找不会命中任何分支，
		// 对话按叶子穷尽路径结束。这是兼容原有行为的既定边界情况。
		switch strings.ToLower(trimmed) {
		case "yes", "y", "true":
			return "yes"
		case "no", "n", "false":
			return "no"
		}
		return trimmed
	case model.QuestionSingleChoice:
		// 纯数字视为选项列表的 1-based 序号，替换为对应选项文本。
		if idx, ok := numericIndex(trimmed); ok && idx >= 1 && idx <= len(q.Options) {
			return q.Options[idx-1]
		}
		return trimmed
	case model.QuestionOrderID:
		return strings.ToUpper(trimmed)
	default:
		return trimmed
	}
}

func numericIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		if n > 1000 {
			return 0, false
		}
	}
	return n, true
}
