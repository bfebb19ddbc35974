// Package model 包含了应用的数据模型定义。
package model

// IssueCategory 是系统能够处理的问题类别，属于一个封闭的枚举集合。
// 类别在进程启动时静态定义，运行期间不会创建或销毁。
type IssueCategory string

const (
	CategoryOrderStatus     IssueCategory = "order_status"
	CategoryDeliveryProblem IssueCategory = "delivery_problem"
	CategoryPaymentIssue    IssueCategory = "payment_issue"
	CategoryRefundRequest   IssueCategory = "refund_request"
	CategoryProductDefect   IssueCategory = "product_defect"
	CategoryAccountAccess   IssueCategory = "account_access"
	CategoryBillingInquiry  IssueCategory = "billing_inquiry"
	CategoryCancellation    IssueCategory = "cancellation"
	CategoryOther           IssueCategory = "other"
)

// AllCategories 返回全部类别，顺序固定。
func AllCategories() []IssueCategory {
	return []IssueCategory{
		CategoryOrderStatus,
		CategoryDeliveryProblem,
		CategoryPaymentIssue,
		CategoryRefundRequest,
		CategoryProductDefect,
		CategoryAccountAccess,
		CategoryBillingInquiry,
		CategoryCancellation,
		CategoryOther,
	}
}

// Valid 判断给定值是否属于封闭枚举。
func (c IssueCategory) Valid() bool {
	for _, v := range AllCategories() {
		if c == v {
			return true
		}
	}
	return false
}
