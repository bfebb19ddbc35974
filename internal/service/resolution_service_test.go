package service

import (
	"context"
	"strings"
	"testing"

	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
)

// --- fake ticket repository ---

type fakeTicketRepo struct {
	created []*model.Ticket
}

func (f *fakeTicketRepo) Create(ticket *model.Ticket) error {
	f.created = append(f.created, ticket)
	return nil
}

func (f *fakeTicketRepo) FindByNumber(ticketNumber string) (*model.Ticket, error) {
	for _, t := range f.created {
		if t.TicketNumber == ticketNumber {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketRepo) FindRecent(limit int) ([]model.Ticket, error) {
	return nil, nil
}

// --- tests ---

func TestBuildSelfServiceResolution(t *testing.T) {
	svc := NewResolutionService(nil, config.TicketConfig{Prefix: "TCK"}, "")
	session := &model.Session{ID: "s1", Category: model.CategoryAccountAccess, Answers: map[string]string{}}
	path := &model.ResolutionPath{
		ID:      "p1",
		Kind:    model.ResolutionSelfService,
		Message: "You can fix this yourself.",
		Steps:   []string{"Step one.", "Step two."},
	}

	res := svc.Build(context.Background(), session, path)
	if res.Kind != model.ResolutionSelfService {
		t.Fatalf("Kind = %q, want self_service", res.Kind)
	}
	if res.Escalation != nil || res.ReferenceNumber != "" {
		t.Fatalf("self service must not carry escalation or reference, got %+v", res)
	}
	if len(res.Steps) != 2 {
		t.Fatalf("Steps = %v, want 2 entries", res.Steps)
	}
}

func TestBuildInterpolatesAnswers(t *testing.T) {
	svc := NewResolutionService(nil, config.TicketConfig{Prefix: "TCK"}, "")
	session := &model.Session{
		ID:       "s2",
		Category: model.CategoryRefundRequest,
		Answers:  map[string]string{"rr_order_number": "ORD-54321"},
	}
	path := &model.ResolutionPath{
		ID:      "p2",
		Kind:    model.ResolutionAutomatedAction,
		Message: "Your refund for order {rr_order_number} has been initiated.",
		Steps:   []string{"Return order {rr_order_number} with the prepaid label."},
	}

	res := svc.Build(context.Background(), session, path)
	if want := "Your refund for order ORD-54321 has been initiated."; res.Message != want {
		t.Fatalf("Message = %q, want %q", res.Message, want)
	}
	if want := "Return order ORD-54321 with the prepaid label."; res.Steps[0] != want {
		t.Fatalf("Steps[0] = %q, want %q", res.Steps[0], want)
	}
	if res.ReferenceNumber == "" {
		t.Fatal("automated action must mint a reference number")
	}
	if !strings.HasPrefix(res.ReferenceNumber, "REF-") {
		t.Fatalf("ReferenceNumber = %q, want REF- prefix", res.ReferenceNumber)
	}
}

func TestBuildAgentEscalation(t *testing.T) {
	repo := &fakeTicketRepo{}
	svc := NewResolutionService(repo, config.TicketConfig{Prefix: "TCK"}, "")
	session := &model.Session{ID: "s3", Category: model.CategoryDeliveryProblem, Answers: map[string]string{}}
	path := &model.ResolutionPath{
		ID:            "p3",
		Kind:          model.ResolutionEscalateAgent,
		Message:       "An agent will take over.",
		Reason:        "carrier claim required",
		Priority:      "high",
		EstimatedTime: "4 hours",
	}

	res := svc.Build(context.Background(), session, path)
	if res.Escalation == nil {
		t.Fatal("escalation details missing")
	}
	if res.Escalation.Team != "Priority Support Team" {
		t.Fatalf("Team = %q, want Priority Support Team", res.Escalation.Team)
	}
	if res.Escalation.Priority != "high" {
		t.Fatalf("Priority = %q, want high", res.Escalation.Priority)
	}
	if res.Escalation.EstimatedResponse != "4 hours" {
		t.Fatalf("EstimatedResponse = %q, want 4 hours", res.Escalation.EstimatedResponse)
	}
	if !strings.HasPrefix(res.Escalation.TicketNumber, "TCK-") {
		t.Fatalf("TicketNumber = %q, want TCK- prefix", res.Escalation.TicketNumber)
	}

	if len(repo.created) != 1 {
		t.Fatalf("tickets created = %d, want 1", len(repo.created))
	}
	ticket := repo.created[0]
	if ticket.SessionID != "s3" || ticket.Reason != "carrier claim required" {
		t.Fatalf("persisted ticket = %+v", ticket)
	}
}

func TestBuildSpecialistEscalationTeams(t *testing.T) {
	tests := []struct {
		category model.IssueCategory
		wantTeam string
	}{
		{category: model.CategoryPaymentIssue, wantTeam: "Payments Team"},
		{category: model.CategoryBillingInquiry, wantTeam: "Billing Team"},
		{category: model.CategoryProductDefect, wantTeam: "Product Quality Team"},
		{category: model.CategoryAccountAccess, wantTeam: "Account Security Team"},
		{category: model.CategoryOther, wantTeam: "Specialist Support Team"},
	}

	svc := NewResolutionService(nil, config.TicketConfig{Prefix: "TCK"}, "")
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			session := &model.Session{ID: "s4", Category: tt.category, Answers: map[string]string{}}
			path := &model.ResolutionPath{ID: "p4", Kind: model.ResolutionEscalateSpecialist, Message: "m"}

			res := svc.Build(context.Background(), session, path)
			if res.Escalation == nil || res.Escalation.Team != tt.wantTeam {
				t.Fatalf("Escalation = %+v, want team %q", res.Escalation, tt.wantTeam)
			}
		})
	}
}

func TestBuildEscalationDefaults(t *testing.T) {
	svc := NewResolutionService(nil, config.TicketConfig{Prefix: "TCK"}, "")
	session := &model.Session{ID: "s5", Category: model.CategoryOther, Answers: map[string]string{}}
	path := &model.ResolutionPath{ID: "p5", Kind: model.ResolutionEscalateAgent, Message: "m"}

	res := svc.Build(context.Background(), session, path)
	if res.Escalation.Priority != "normal" {
		t.Fatalf("Priority = %q, want default normal", res.Escalation.Priority)
	}
	if res.Escalation.EstimatedResponse != "8 hours" {
		t.Fatalf("EstimatedResponse = %q, want default 8 hours", res.Escalation.EstimatedResponse)
	}
	if res.Escalation.Team != "Customer Support Team" {
		t.Fatalf("Team = %q, want Customer Support Team", res.Escalation.Team)
	}
}
