package catalog

import "support-flow-go/internal/model"

// resolutionPaths 是按类别索引的决议路径表，在包加载时构建。
// 同一类别内按声明顺序匹配，最后一条必须是零条件兜底路径。
var resolutionPaths = buildResolutionPaths()

func buildResolutionPaths() map[model.IssueCategory][]model.ResolutionPath {
	paths := make(map[model.IssueCategory][]model.ResolutionPath)

	paths[model.CategoryOrderStatus] = []model.ResolutionPath{
		{
			ID:       "order_missing",
			Category: model.CategoryOrderStatus,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "os_topic", Expected: []string{"I did not receive my order"}, Operator: model.OperatorEquals},
			},
			Message:  "I'm sorry your order never arrived. A support agent will investigate right away.",
			Reason:   "Customer reports order not received",
			Priority: "high",
		},
		{
			ID:       "order_status_info",
			Category: model.CategoryOrderStatus,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "os_topic", Expected: []string{"Current status", "Expected delivery date"}, Operator: model.OperatorOneOf},
			},
			Message: "Here is how to check order {os_order_number} yourself.",
			Steps: []string{
				"Open 'My orders' in your account.",
				"Select order {os_order_number} to see its live status and tracking link.",
				"The expected delivery date is shown next to the carrier name.",
			},
		},
		{
			ID:       "order_status_fallback",
			Category: model.CategoryOrderStatus,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No order status path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryDeliveryProblem] = []model.ResolutionPath{
		{
			ID:       "delivery_delayed_minor",
			Category: model.CategoryDeliveryProblem,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "dp_issue", Expected: []string{"Package is delayed"}, Operator: model.OperatorEquals},
				{QuestionID: "dp_delay_duration", Expected: []string{"1-2 days", "3-5 days"}, Operator: model.OperatorOneOf},
			},
			Message: "Short delays of up to five days usually resolve themselves.",
			Steps: []string{
				"Check the tracking link for the latest carrier scan.",
				"Carriers update tracking once per day, usually in the evening.",
				"If nothing moves for 48 more hours, contact us again.",
			},
		},
		{
			ID:       "delivery_delayed_major",
			Category: model.CategoryDeliveryProblem,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "dp_issue", Expected: []string{"Package is delayed"}, Operator: model.OperatorEquals},
				{QuestionID: "dp_delay_duration", Expected: []string{"More than 5 days"}, Operator: model.OperatorEquals},
			},
			Message:       "A delay of more than five days needs a carrier investigation. An agent will take over.",
			Reason:        "Delivery delayed more than 5 days, carrier claim required",
			Priority:      "high",
			EstimatedTime: "4 hours",
			RequiredData:  []string{"order_number", "delivery_address"},
		},
		{
			ID:       "delivery_damaged",
			Category: model.CategoryDeliveryProblem,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "dp_issue", Expected: []string{"Package arrived damaged"}, Operator: model.OperatorEquals},
			},
			Message: "I've started a replacement for your damaged delivery.",
			Steps: []string{
				"A replacement order has been created at no charge.",
				"You will receive a prepaid return label by email.",
				"If you have photos, attach them to the return for a faster refund of shipping costs.",
			},
		},
		{
			ID:       "delivery_lost_or_wrong",
			Category: model.CategoryDeliveryProblem,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "dp_issue", Expected: []string{"Package was lost", "Wrong item delivered"}, Operator: model.OperatorOneOf},
			},
			Message:       "This needs a human look. An agent will contact you about the affected order.",
			Reason:        "Lost or wrong delivery requires manual verification",
			Priority:      "high",
			EstimatedTime: "8 hours",
		},
		{
			ID:       "delivery_fallback",
			Category: model.CategoryDeliveryProblem,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No delivery path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryPaymentIssue] = []model.ResolutionPath{
		{
			ID:       "payment_declined_self_service",
			Category: model.CategoryPaymentIssue,
			Kind:     model.ResolutionSelfService,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pi_type", Expected: []string{"Payment was declined"}, Operator: model.OperatorEquals},
				{QuestionID: "pi_retry", Expected: []string{"no"}, Operator: model.OperatorEquals},
			},
			Message: "Declined payments are usually fixable on your side.",
			Steps: []string{
				"Check that the card number, expiry date and CVC are correct.",
				"Make sure the billing address matches your bank records.",
				"Try a different payment method such as PayPal or another card.",
			},
		},
		{
			ID:       "payment_declined_escalate",
			Category: model.CategoryPaymentIssue,
			Kind:     model.ResolutionEscalateSpecialist,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pi_type", Expected: []string{"Payment was declined"}, Operator: model.OperatorEquals},
				{QuestionID: "pi_retry", Expected: []string{"yes"}, Operator: model.OperatorEquals},
			},
			Message:       "Since another payment method also failed, our payments team will investigate.",
			Reason:        "Repeated payment declines across methods",
			Priority:      "high",
			EstimatedTime: "12 hours",
		},
		{
			ID:       "payment_double_charge",
			Category: model.CategoryPaymentIssue,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pi_type", Expected: []string{"Charged twice"}, Operator: model.OperatorEquals},
			},
			Message: "I've queued a refund of the duplicate charge.",
			Steps: []string{
				"The duplicate charge will be refunded to the original payment method.",
				"Refunds typically appear within 3-5 business days.",
			},
		},
		{
			ID:       "payment_wrong_amount",
			Category: model.CategoryPaymentIssue,
			Kind:     model.ResolutionEscalateSpecialist,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pi_type", Expected: []string{"Charged wrong amount"}, Operator: model.OperatorEquals},
			},
			Message:       "Incorrect amounts need a manual check by our payments team.",
			Reason:        "Charged amount differs from order total",
			Priority:      "high",
			EstimatedTime: "12 hours",
		},
		{
			ID:       "payment_fallback",
			Category: model.CategoryPaymentIssue,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No payment path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryRefundRequest] = []model.ResolutionPath{
		{
			ID:       "refund_window_expired",
			Category: model.CategoryRefundRequest,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "rr_within_window", Expected: []string{"no"}, Operator: model.OperatorEquals},
			},
			Message: "Orders older than 30 days fall outside the standard refund window.",
			Steps: []string{
				"Our standard refund policy covers 30 days from the order date.",
				"Defective items are covered by warranty beyond that window.",
				"Reply with 'product defect' as your issue if the item is faulty.",
			},
		},
		{
			ID:       "refund_automatic",
			Category: model.CategoryRefundRequest,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "rr_reason", Expected: []string{"Changed my mind", "Item not as described"}, Operator: model.OperatorOneOf},
				{QuestionID: "rr_within_window", Expected: []string{"yes"}, Operator: model.OperatorEquals},
			},
			Message: "Your refund for order {rr_order_number} has been initiated.",
			Steps: []string{
				"You will receive a prepaid return label by email.",
				"The refund is released as soon as the carrier scans the return.",
				"Refunds typically appear within 3-5 business days after that.",
			},
		},
		{
			ID:       "refund_review",
			Category: model.CategoryRefundRequest,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "rr_reason", Expected: []string{"Item arrived too late", "Defective item"}, Operator: model.OperatorOneOf},
			},
			Message:       "This refund needs a quick manual review. An agent will confirm it shortly.",
			Reason:        "Late or defective item refunds require review",
			Priority:      "normal",
			EstimatedTime: "8 hours",
		},
		{
			ID:       "refund_fallback",
			Category: model.CategoryRefundRequest,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No refund path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryProductDefect] = []model.ResolutionPath{
		{
			ID:       "defect_try_troubleshooting",
			Category: model.CategoryProductDefect,
			Kind:     model.ResolutionSelfService,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pd_troubleshoot", Expected: []string{"no"}, Operator: model.OperatorEquals},
			},
			Message: "Many defects clear up after the basic troubleshooting steps.",
			Steps: []string{
				"Disconnect the product from power for 60 seconds.",
				"Follow the troubleshooting chapter of the product manual.",
				"Install the latest firmware if the product is connected.",
				"If the defect persists, start a new conversation and tell us you already troubleshooted.",
			},
		},
		{
			ID:       "defect_on_arrival",
			Category: model.CategoryProductDefect,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pd_state", Expected: []string{"On arrival"}, Operator: model.OperatorEquals},
				{QuestionID: "pd_troubleshoot", Expected: []string{"yes"}, Operator: model.OperatorEquals},
			},
			Message: "Dead-on-arrival products are replaced straight away.",
			Steps: []string{
				"A replacement order has been created at no charge.",
				"Return the defective unit with the prepaid label you receive by email.",
			},
		},
		{
			ID:       "defect_quality_team",
			Category: model.CategoryProductDefect,
			Kind:     model.ResolutionEscalateSpecialist,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "pd_state", Expected: []string{"Within the first week", "After longer use"}, Operator: model.OperatorOneOf},
			},
			Message:       "Our product quality team will assess the defect and arrange repair or replacement.",
			Reason:        "Defect after use requires warranty assessment",
			Priority:      "normal",
			EstimatedTime: "24 hours",
		},
		{
			ID:       "defect_fallback",
			Category: model.CategoryProductDefect,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No defect path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryAccountAccess] = []model.ResolutionPath{
		{
			ID:       "account_password_self_service",
			Category: model.CategoryAccountAccess,
			Kind:     model.ResolutionSelfService,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "aa_issue", Expected: []string{"Forgot password"}, Operator: model.OperatorEquals},
				{QuestionID: "aa_reset_tried", Expected: []string{"no"}, Operator: model.OperatorEquals},
			},
			Message: "You can reset your password yourself in under two minutes.",
			Steps: []string{
				"Open the login page and click 'Forgot password'.",
				"Enter the email address you registered with.",
				"Check your inbox and spam folder for the reset email.",
				"Follow the link within 30 minutes and choose a new password.",
			},
		},
		{
			ID:       "account_password_escalate",
			Category: model.CategoryAccountAccess,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "aa_issue", Expected: []string{"Forgot password"}, Operator: model.OperatorEquals},
				{QuestionID: "aa_reset_tried", Expected: []string{"yes"}, Operator: model.OperatorEquals},
			},
			Message:       "Since the reset link didn't work, an agent will restore your access manually.",
			Reason:        "Password reset link not working",
			Priority:      "high",
			EstimatedTime: "4 hours",
		},
		{
			ID:       "account_locked",
			Category: model.CategoryAccountAccess,
			Kind:     model.ResolutionEscalateSpecialist,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "aa_issue", Expected: []string{"Account locked"}, Operator: model.OperatorEquals},
			},
			Message:       "Locked accounts are handled by our security team for your protection.",
			Reason:        "Account lock requires identity verification",
			Priority:      "high",
			EstimatedTime: "6 hours",
			RequiredData:  []string{"registered_email", "last_order_number"},
		},
		{
			ID:       "account_fallback",
			Category: model.CategoryAccountAccess,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No account access path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryBillingInquiry] = []model.ResolutionPath{
		{
			ID:       "billing_invoice_copy",
			Category: model.CategoryBillingInquiry,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "bi_topic", Expected: []string{"Request an invoice copy"}, Operator: model.OperatorEquals},
			},
			Message: "A copy of the invoice for order {bi_order_number} is on its way to your inbox.",
			Steps: []string{
				"The invoice PDF is sent to your registered email address.",
				"It usually arrives within a few minutes.",
			},
		},
		{
			ID:       "billing_explain_invoice",
			Category: model.CategoryBillingInquiry,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "bi_topic", Expected: []string{"Understanding my invoice"}, Operator: model.OperatorEquals},
			},
			Message: "Here is how to read your invoice.",
			Steps: []string{
				"The top section lists each item with its pre-tax price.",
				"Shipping and payment surcharges appear as separate lines.",
				"VAT is shown per tax rate at the bottom of the invoice.",
			},
		},
		{
			ID:       "billing_update_details",
			Category: model.CategoryBillingInquiry,
			Kind:     model.ResolutionSelfService,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "bi_topic", Expected: []string{"Update billing details"}, Operator: model.OperatorEquals},
			},
			Message: "Billing details can be updated in your account settings.",
			Steps: []string{
				"Open 'Account settings' and select 'Billing'.",
				"Update your billing address or VAT number and save.",
				"Future invoices use the new details; past invoices stay unchanged.",
			},
		},
		{
			ID:       "billing_unexpected_charge",
			Category: model.CategoryBillingInquiry,
			Kind:     model.ResolutionEscalateSpecialist,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "bi_topic", Expected: []string{"Unexpected charge"}, Operator: model.OperatorEquals},
			},
			Message:       "Our billing team will trace the charge from {bi_charge_date} and get back to you.",
			Reason:        "Unexpected charge requires account audit",
			Priority:      "high",
			EstimatedTime: "12 hours",
		},
		{
			ID:       "billing_fallback",
			Category: model.CategoryBillingInquiry,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No billing path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryCancellation] = []model.ResolutionPath{
		{
			ID:       "cancel_order",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "cn_target", Expected: []string{"An order"}, Operator: model.OperatorEquals},
			},
			Message: "I've requested cancellation of order {cn_order_number}.",
			Steps: []string{
				"Orders that haven't shipped yet are cancelled immediately.",
				"If the order already shipped, refuse the delivery and it returns to us automatically.",
				"You'll get a confirmation email either way.",
			},
		},
		{
			ID:       "cancel_subscription_retention",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "cn_sub_reason", Expected: []string{"Too expensive", "Not using it"}, Operator: model.OperatorOneOf},
			},
			Message: "Before you go: you can pause your subscription instead of cancelling.",
			Steps: []string{
				"Pausing keeps your preferences and order history.",
				"Open 'Subscription' in your account and choose 'Pause' for 1-3 months.",
				"If you still want to cancel, the cancel button is on the same page.",
			},
		},
		{
			ID:       "cancel_subscription",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionAutomatedAction,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "cn_target", Expected: []string{"My subscription"}, Operator: model.OperatorEquals},
			},
			Message: "Your subscription has been scheduled for cancellation.",
			Steps: []string{
				"The subscription remains active until the end of the paid period.",
				"No further charges will be made.",
			},
		},
		{
			ID:       "cancel_account_confirmed",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionEscalateAgent,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "cn_confirm", Expected: []string{"yes"}, Operator: model.OperatorEquals},
			},
			Message:       "Account deletion is handled manually for data-protection reasons. An agent will confirm it with you.",
			Reason:        "Account deletion requires identity confirmation",
			Priority:      "normal",
			EstimatedTime: "24 hours",
		},
		{
			ID:       "cancel_account_declined",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionInformation,
			Conditions: []model.ResolutionCondition{
				{QuestionID: "cn_confirm", Expected: []string{"no"}, Operator: model.OperatorEquals},
			},
			Message: "No problem, your account stays exactly as it is.",
			Steps: []string{
				"Nothing has been changed or deleted.",
			},
		},
		{
			ID:       "cancel_fallback",
			Category: model.CategoryCancellation,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "I couldn't resolve this automatically, so I'm passing you to a support agent.",
			Reason:   "No cancellation path matched the collected answers",
			Priority: "normal",
		},
	}

	paths[model.CategoryOther] = []model.ResolutionPath{
		{
			ID:       "other_fallback",
			Category: model.CategoryOther,
			Kind:     model.ResolutionEscalateAgent,
			Message:  "Thanks for the details. A support agent will pick this up personally.",
			Reason:   "Issue could not be matched to a known category",
			Priority: "normal",
		},
	}

	return paths
}
