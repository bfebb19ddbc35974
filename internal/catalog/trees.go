package catalog

import "support-flow-go/internal/model"

// questionTrees 是按类别索引的问题树注册表，在包加载时构建。
var questionTrees = buildQuestionTrees()

// buildQuestionTrees 构建全部九个类别的问题树。
// 答案到下一问题的边以归一化后的答案文本为键；没有出边的节点是叶子，
// 到达叶子（或答案未命中任何边）即进入决议匹配。
func buildQuestionTrees() map[model.IssueCategory]*model.QuestionTree {
	trees := make(map[model.IssueCategory]*model.QuestionTree)

	// 订单状态
	trees[model.CategoryOrderStatus] = &model.QuestionTree{
		Category: model.CategoryOrderStatus,
		RootID:   "os_topic",
		Questions: map[string]*model.Question{
			"os_topic": {
				ID:     "os_topic",
				Prompt: "What would you like to know about your order?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Current status",
					"Expected delivery date",
					"I did not receive my order",
				},
				NextQuestionMap: map[string]string{
					"Current status":             "os_order_number",
					"Expected delivery date":     "os_order_number",
					"I did not receive my order": "os_order_number",
				},
			},
			"os_order_number": {
				ID:     "os_order_number",
				Prompt: "Please enter your order number (it looks like ORD-12345).",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
					{
						Kind:    model.RuleCustom,
						Message: "ORD-00000 is a reserved test order number; please check your confirmation email.",
						Predicate: func(answer string) bool {
							return answer != "ORD-00000"
						},
					},
				},
			},
		},
	}

	// 配送问题
	trees[model.CategoryDeliveryProblem] = &model.QuestionTree{
		Category: model.CategoryDeliveryProblem,
		RootID:   "dp_issue",
		Questions: map[string]*model.Question{
			"dp_issue": {
				ID:     "dp_issue",
				Prompt: "What problem are you experiencing with your delivery?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Package is delayed",
					"Package arrived damaged",
					"Package was lost",
					"Wrong item delivered",
				},
				NextQuestionMap: map[string]string{
					"Package is delayed":      "dp_delay_duration",
					"Package arrived damaged": "dp_damage_photos",
					"Package was lost":        "dp_order_number",
					"Wrong item delivered":    "dp_order_number",
				},
			},
			"dp_delay_duration": {
				ID:     "dp_delay_duration",
				Prompt: "How long has the delivery been delayed?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"1-2 days",
					"3-5 days",
					"More than 5 days",
				},
			},
			"dp_damage_photos": {
				ID:     "dp_damage_photos",
				Prompt: "Do you have photos of the damaged package?",
				Type:   model.QuestionYesNo,
			},
			"dp_order_number": {
				ID:     "dp_order_number",
				Prompt: "Please enter the order number of the affected delivery.",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
				},
			},
		},
	}

	// 支付问题
	trees[model.CategoryPaymentIssue] = &model.QuestionTree{
		Category: model.CategoryPaymentIssue,
		RootID:   "pi_type",
		Questions: map[string]*model.Question{
			"pi_type": {
				ID:     "pi_type",
				Prompt: "What payment problem do you have?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Payment was declined",
					"Charged twice",
					"Charged wrong amount",
					"Payment stuck on pending",
				},
				NextQuestionMap: map[string]string{
					"Payment was declined": "pi_retry",
					"Charged twice":        "pi_order_number",
					"Charged wrong amount": "pi_order_number",
				},
			},
			"pi_retry": {
				ID:     "pi_retry",
				Prompt: "Have you already tried a different payment method?",
				Type:   model.QuestionYesNo,
			},
			"pi_order_number": {
				ID:     "pi_order_number",
				Prompt: "Please enter the order number of the affected payment.",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
				},
			},
		},
	}

	// 退款请求
	trees[model.CategoryRefundRequest] = &model.QuestionTree{
		Category: model.CategoryRefundRequest,
		RootID:   "rr_reason",
		Questions: map[string]*model.Question{
			"rr_reason": {
				ID:     "rr_reason",
				Prompt: "Why are you requesting a refund?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Item not as described",
					"Changed my mind",
					"Item arrived too late",
					"Defective item",
				},
				NextQuestionMap: map[string]string{
					"Item not as described": "rr_within_window",
					"Changed my mind":       "rr_within_window",
					"Item arrived too late": "rr_within_window",
					"Defective item":        "rr_within_window",
				},
			},
			"rr_within_window": {
				ID:     "rr_within_window",
				Prompt: "Was the order placed within the last 30 days?",
				Type:   model.QuestionYesNo,
				NextQuestionMap: map[string]string{
					"yes": "rr_order_number",
				},
			},
			"rr_order_number": {
				ID:     "rr_order_number",
				Prompt: "Please enter the order number you want refunded.",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
				},
			},
		},
	}

	// 产品缺陷
	trees[model.CategoryProductDefect] = &model.QuestionTree{
		Category: model.CategoryProductDefect,
		RootID:   "pd_state",
		Questions: map[string]*model.Question{
			"pd_state": {
				ID:     "pd_state",
				Prompt: "When did you first notice the defect?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"On arrival",
					"Within the first week",
					"After longer use",
				},
				NextQuestionMap: map[string]string{
					"On arrival":            "pd_troubleshoot",
					"Within the first week": "pd_troubleshoot",
					"After longer use":      "pd_troubleshoot",
				},
			},
			"pd_troubleshoot": {
				ID:     "pd_troubleshoot",
				Prompt: "Have you tried the troubleshooting steps in the product manual?",
				Type:   model.QuestionYesNo,
				NextQuestionMap: map[string]string{
					"yes": "pd_symptoms",
				},
			},
			"pd_symptoms": {
				ID:     "pd_symptoms",
				Prompt: "Which symptoms does the product show? You can list several.",
				Type:   model.QuestionMultipleChoice,
				Options: []string{
					"Does not power on",
					"Unusual noise",
					"Overheating",
					"Physical damage",
				},
			},
		},
	}

	// 账户访问
	trees[model.CategoryAccountAccess] = &model.QuestionTree{
		Category: model.CategoryAccountAccess,
		RootID:   "aa_issue",
		Questions: map[string]*model.Question{
			"aa_issue": {
				ID:     "aa_issue",
				Prompt: "What account problem are you having?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Forgot password",
					"Account locked",
					"Email not recognized",
					"Two-factor authentication issues",
				},
				NextQuestionMap: map[string]string{
					"Forgot password": "aa_reset_tried",
					"Account locked":  "aa_reset_tried",
				},
			},
			"aa_reset_tried": {
				ID:     "aa_reset_tried",
				Prompt: "Have you tried the password reset link on the login page?",
				Type:   model.QuestionYesNo,
			},
		},
	}

	// 账单咨询
	trees[model.CategoryBillingInquiry] = &model.QuestionTree{
		Category: model.CategoryBillingInquiry,
		RootID:   "bi_topic",
		Questions: map[string]*model.Question{
			"bi_topic": {
				ID:     "bi_topic",
				Prompt: "What is your billing question about?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Understanding my invoice",
					"Update billing details",
					"Request an invoice copy",
					"Unexpected charge",
				},
				NextQuestionMap: map[string]string{
					"Request an invoice copy": "bi_order_number",
					"Unexpected charge":       "bi_charge_date",
				},
			},
			"bi_order_number": {
				ID:     "bi_order_number",
				Prompt: "Please enter the order number the invoice belongs to.",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
				},
			},
			"bi_charge_date": {
				ID:     "bi_charge_date",
				Prompt: "On which date did the unexpected charge appear? (YYYY-MM-DD)",
				Type:   model.QuestionDate,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^\d{4}-\d{2}-\d{2}$`,
						Message: "Please enter the date as YYYY-MM-DD, for example 2025-01-31.",
					},
				},
			},
		},
	}

	// 取消
	trees[model.CategoryCancellation] = &model.QuestionTree{
		Category: model.CategoryCancellation,
		RootID:   "cn_target",
		Questions: map[string]*model.Question{
			"cn_target": {
				ID:     "cn_target",
				Prompt: "What would you like to cancel?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"An order",
					"My subscription",
					"My account",
				},
				NextQuestionMap: map[string]string{
					"An order":        "cn_order_number",
					"My subscription": "cn_sub_reason",
					"My account":      "cn_confirm",
				},
			},
			"cn_order_number": {
				ID:     "cn_order_number",
				Prompt: "Please enter the order number you want to cancel.",
				Type:   model.QuestionOrderID,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RulePattern,
						Value:   `^ORD-[0-9]{5}$`,
						Message: "Please enter a valid order number like ORD-12345.",
					},
				},
			},
			"cn_sub_reason": {
				ID:     "cn_sub_reason",
				Prompt: "Why are you cancelling your subscription?",
				Type:   model.QuestionSingleChoice,
				Options: []string{
					"Too expensive",
					"Not using it",
					"Switching provider",
					"Other reason",
				},
			},
			"cn_confirm": {
				ID:     "cn_confirm",
				Prompt: "Account deletion is permanent and removes your order history. Are you sure?",
				Type:   model.QuestionYesNo,
			},
		},
	}

	// 其他
	trees[model.CategoryOther] = &model.QuestionTree{
		Category: model.CategoryOther,
		RootID:   "ot_describe",
		Questions: map[string]*model.Question{
			"ot_describe": {
				ID:     "ot_describe",
				Prompt: "Please describe your issue in a few sentences.",
				Type:   model.QuestionFreeText,
				Rules: []model.ValidationRule{
					{
						Kind:    model.RuleMinLength,
						Length:  10,
						Message: "Please give us a little more detail (at least 10 characters).",
					},
				},
			},
		},
	}

	return trees
}
