package domain

import (
	"context"
	"testing"
)

func TestSearchUsage_Context(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	if UsageFromContext(ctx) != u {
		t.Fatal("UsageFromContext returned a different collector")
	}
	if u.Remaining != -1 {
		t.Errorf("Remaining = %d, want -1", u.Remaining)
	}

	u.AddProviderCall()
	u.AddProviderCall()
	u.SetRemaining(3)
	if u.ProviderCalls != 2 || u.Remaining != 3 {
		t.Errorf("usage = %+v, want 2 calls and 3 remaining", *u)
	}
}

func TestSearchUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatalf("UsageFromContext = %+v, want nil", u)
	}
	u.AddProviderCall()
	u.SetRemaining(1)
}

func TestUpstreamError(t *testing.T) {
	err := NewUpstreamError(503, "")
	ue, ok := err.(*UpstreamError)
	if !ok {
		t.Fatalf("NewUpstreamError returned %T", err)
	}
	if ue.Message() != "Upstream error (503)." {
		t.Errorf("Message() = %q", ue.Message())
	}
	if got := (&UpstreamError{Status: 400, Body: "bad token"}).Message(); got != "bad token" {
		t.Errorf("Message() = %q, want body", got)
	}
}
