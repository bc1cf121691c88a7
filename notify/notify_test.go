package notify

import (
	"context"
	"testing"
)

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}

	handle, err := s.Push(context.Background(), Event{Kind: "opened"})
	if err != nil {
		t.Fatalf("Push = %v", err)
	}
	// 空句柄：调用方不会往告警上回写 externalRef
	if handle != "" {
		t.Errorf("handle = %q, want empty", handle)
	}
	if err := s.Withdraw(context.Background(), Event{Kind: "resolved"}); err != nil {
		t.Errorf("Withdraw = %v", err)
	}
}
