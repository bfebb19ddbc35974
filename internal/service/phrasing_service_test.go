package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		guidance string
		ctx      map[string]string
		want     string
	}{
		{
			name:     "placeholder replaced",
			guidance: "Your refund for order {order_number} has been initiated.",
			ctx:      map[string]string{"order_number": "ORD-12345"},
			want:     "Your refund for order ORD-12345 has been initiated.",
		},
		{
			name:     "missing key left as is",
			guidance: "Charge from {charge_date} is under review.",
			ctx:      map[string]string{"other": "x"},
			want:     "Charge from {charge_date} is under review.",
		},
		{
			name:     "nil context is a no-op",
			guidance: "plain text",
			want:     "plain text",
		},
		{
			name:     "multiple occurrences replaced",
			guidance: "{id} and again {id}",
			ctx:      map[string]string{"id": "A"},
			want:     "A and again A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderTemplate(tt.guidance, tt.ctx); got != tt.want {
				t.Fatalf("RenderTemplate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhraseDisabledReturnsLiteral(t *testing.T) {
	svc := NewPhrasingService(&mockLLMClient{response: "rephrased!"}, time.Second, false)

	got := svc.Phrase(context.Background(), "Hello {name}", map[string]string{"name": "world"}, ToneFriendly)
	if got != "Hello world" {
		t.Fatalf("Phrase = %q, want literal template result", got)
	}
}

func TestPhraseUsesLLMWhenEnabled(t *testing.T) {
	svc := NewPhrasingService(&mockLLMClient{response: "  Hi there, world!  "}, time.Second, true)

	got := svc.Phrase(context.Background(), "Hello {name}", map[string]string{"name": "world"}, ToneFriendly)
	if got != "Hi there, world!" {
		t.Fatalf("Phrase = %q, want trimmed LLM output", got)
	}
}

func TestPhraseFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		client *mockLLMClient
	}{
		{name: "llm error", client: &mockLLMClient{err: errors.New("unavailable")}},
		{name: "empty output", client: &mockLLMClient{response: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPhrasingService(tt.client, time.Second, true)
			got := svc.Phrase(context.Background(), "Hello {name}", map[string]string{"name": "world"}, ToneNeutral)
			if got != "Hello world" {
				t.Fatalf("Phrase = %q, want literal fallback", got)
			}
		})
	}
}
