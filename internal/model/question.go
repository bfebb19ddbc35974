// Package model 包含了应用的数据模型定义。
package model

// QuestionType 是问题的类型标签，决定答案的校验与归一化方式。
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeText       QuestionType = "free_text"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionDate           QuestionType = "date"
	QuestionOrderID        QuestionType = "order_id"
)

// RuleKind 是校验规则的种类，属于封闭枚举。
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RulePattern   RuleKind = "pattern"
	RuleMinLength RuleKind = "min_length"
	RuleMaxLength RuleKind = "max_length"
	RuleCustom    RuleKind = "custom"
)

// ValidationRule 描述一条针对答案的校验规则。
// Message 是规则失败时返回给用户的提示语。
// Predicate 仅在 Kind 为 RuleCustom 时使用，作为声明式规则之外的逃生通道。
type ValidationRule struct {
	Kind      RuleKind          `json:"kind"`
	Value     string            `json:"value,omitempty"`
	Length    int               `json:"length,omitempty"`
	Message   string            `json:"message"`
	Predicate func(string) bool `json:"-"`
}

// Question 是问题树中的一个节点。
// NextQuestionMap 将归一化后的答案映射到下一个问题的 ID；
// 不存在映射即视为叶子节点，对话进入决议匹配阶段。
type Question struct {
	ID              string            `json:"id"`
	Prompt          string            `json:"prompt"`
	Type            QuestionType      `json:"type"`
	Options         []string          `json:"options,omitempty"`
	NextQuestionMap map[string]string `json:"nextQuestionMap,omitempty"`
	Rules           []ValidationRule  `json:"rules,omitempty"`
}

// QuestionTree 是某个类别下由问题节点组成的有向图。
// 每个类别恰好对应一棵树，树之间不共享问题 ID。
type QuestionTree struct {
	Category  IssueCategory        `json:"category"`
	RootID    string               `json:"rootId"`
	Questions map[string]*Question `json:"questions"`
}
