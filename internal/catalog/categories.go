// Package catalog 定义了客服系统的静态配置：问题类别、问题树与决议路径表。
// 所有数据在进程启动时构建完成，运行期间只读。
package catalog

import "support-flow-go/internal/model"

// CategoryInfo 描述一个问题类别及其分类关键词。
// Keywords 供关键词兜底分类器使用，命中次数越多置信度越高。
type CategoryInfo struct {
	Category    model.IssueCategory
	DisplayName string
	Keywords    []string
}

// categoryTable 是类别目录，顺序与 model.AllCategories 保持一致。
var categoryTable = []CategoryInfo{
	{
		Category:    model.CategoryOrderStatus,
		DisplayName: "Order status",
		Keywords:    []string{"order", "status", "track", "tracking", "shipped", "arrive", "where is"},
	},
	{
		Category:    model.CategoryDeliveryProblem,
		DisplayName: "Delivery problem",
		Keywords:    []string{"delivery", "delayed", "late", "package", "lost", "damaged", "courier", "missing"},
	},
	{
		Category:    model.CategoryPaymentIssue,
		DisplayName: "Payment issue",
		Keywords:    []string{"payment", "declined", "card", "charge", "charged", "pay", "transaction"},
	},
	{
		Category:    model.CategoryRefundRequest,
		DisplayName: "Refund request",
		Keywords:    []string{"refund", "money back", "return", "reimburse"},
	},
	{
		Category:    model.CategoryProductDefect,
		DisplayName: "Product defect",
		Keywords:    []string{"defect", "defective", "broken", "faulty", "not working", "stopped working"},
	},
	{
		Category:    model.CategoryAccountAccess,
		DisplayName: "Account access",
		Keywords:    []string{"password", "login", "log in", "sign in", "account", "locked", "reset", "access"},
	},
	{
		Category:    model.CategoryBillingInquiry,
		DisplayName: "Billing inquiry",
		Keywords:    []string{"invoice", "billing", "bill", "receipt", "statement"},
	},
	{
		Category:    model.CategoryCancellation,
		DisplayName: "Cancellation",
		Keywords:    []string{"cancel", "cancellation", "unsubscribe", "terminate"},
	},
	{
		Category:    model.CategoryOther,
		DisplayName: "Other",
		Keywords:    nil,
	},
}

// Categories 返回完整的类别目录。
func Categories() []CategoryInfo {
	return categoryTable
}

// CategoryKeywords 返回指定类别的分类关键词；未知类别返回 nil。
func CategoryKeywords(c model.IssueCategory) []string {
	for _, info := range categoryTable {
		if info.Category == c {
			return info.Keywords
		}
	}
	return nil
}

// DisplayName 返回类别的人类可读名称；未知类别返回其原始字符串。
func DisplayName(c model.IssueCategory) string {
	for _, info := range categoryTable {
		if info.Category == c {
			return info.DisplayName
		}
	}
	return string(c)
}
