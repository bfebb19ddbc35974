// Package model 包含了应用的数据模型定义。
package model

// ConditionOperator 是决议条件的比较运算符，属于封闭枚举。
// greater_than / less_than 为保留值：数据模型中声明但匹配逻辑未实现，
// 求值时一律视为条件不成立。
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorOneOf       ConditionOperator = "one_of"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
)

// ResolutionCondition 描述决议路径的一个前置条件。
// 会话中缺少对应问题的答案时条件必定不成立。
type ResolutionCondition struct {
	QuestionID string            `json:"questionId"`
	Expected   []string          `json:"expected"`
	Operator   ConditionOperator `json:"operator"`
}

// ResolutionKind 是决议结果的种类。
type ResolutionKind string

const (
	ResolutionSelfService        ResolutionKind = "self_service"
	ResolutionAutomatedAction    ResolutionKind = "automated_action"
	ResolutionInformation        ResolutionKind = "information_provided"
	ResolutionEscalateAgent      ResolutionKind = "escalate_agent"
	ResolutionEscalateSpecialist ResolutionKind = "escalate_specialist"
)

// ResolutionPath 是一条按条件匹配的决议路径。
// 同一类别下的路径按声明顺序求值，首个全部条件满足的路径胜出；
// 每个类别的最后一条路径必须是零条件的兜底路径。
type ResolutionPath struct {
	ID            string                `json:"id"`
	Category      IssueCategory         `json:"category"`
	Kind          ResolutionKind        `json:"kind"`
	Conditions    []ResolutionCondition `json:"conditions,omitempty"`
	Message       string                `json:"message"`
	Steps         []string              `json:"steps,omitempty"`
	Reason        string                `json:"reason,omitempty"`
	Priority      string                `json:"priority,omitempty"`
	EstimatedTime string                `json:"estimatedTime,omitempty"`
	RequiredData  []string              `json:"requiredData,omitempty"`
}

// EscalationDetails 记录升级类决议的工单信息。
type EscalationDetails struct {
	Team              string `json:"team"`
	Priority          string `json:"priority"`
	EstimatedResponse string `json:"estimatedResponse"`
	TicketNumber      string `json:"ticketNumber"`
}

// Resolution 是会话的终态产物，一经生成不再修改。
type Resolution struct {
	Kind            ResolutionKind     `json:"kind"`
	Message         string             `json:"message"`
	Steps           []string           `json:"steps,omitempty"`
	Escalation      *EscalationDetails `json:"escalation,omitempty"`
	ReferenceNumber string             `json:"referenceNumber,omitempty"`
}
