package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.NotifyThrottle != 60*time.Second {
		t.Errorf("NotifyThrottle = %v, want 60s", cfg.NotifyThrottle)
	}
	if cfg.NotifyDisabled {
		t.Error("NotifyDisabled = true, want false")
	}
	if cfg.NotifyQueueKey != "stock:alert:events" {
		t.Errorf("NotifyQueueKey = %q", cfg.NotifyQueueKey)
	}
}

func TestLoadConfigBadThrottleFallsBack(t *testing.T) {
	t.Setenv("NOTIFY_THROTTLE_SECONDS", "sixty")

	cfg := LoadConfig()
	if cfg.NotifyThrottle != 60*time.Second {
		t.Errorf("NotifyThrottle = %v, want 60s fallback", cfg.NotifyThrottle)
	}
}

func TestLoadConfigNotifyDisabled(t *testing.T) {
	t.Setenv("NOTIFY_DISABLED", "true")

	cfg := LoadConfig()
	if !cfg.NotifyDisabled {
		t.Error("NotifyDisabled = false, want true")
	}

	t.Setenv("NOTIFY_DISABLED", "maybe")
	cfg = LoadConfig()
	if cfg.NotifyDisabled {
		t.Error("NotifyDisabled = true on malformed value, want false fallback")
	}
}

func TestLoadConfigApprovalTypes(t *testing.T) {
	t.Setenv("APPROVAL_REQUIRED_TYPES", "dispose, adjust ,")

	cfg := LoadConfig()
	want := []string{"dispose", "adjust"}
	if len(cfg.ApprovalRequiredTypes) != len(want) {
		t.Fatalf("ApprovalRequiredTypes = %v, want %v", cfg.ApprovalRequiredTypes, want)
	}
	for i := range want {
		if cfg.ApprovalRequiredTypes[i] != want[i] {
			t.Errorf("ApprovalRequiredTypes[%d] = %q, want %q", i, cfg.ApprovalRequiredTypes[i], want[i])
		}
	}
}
