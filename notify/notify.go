// notify/notify.go
package notify

import (
	"context"
	"time"
)

// Event 本地事务提交后推给外部消息/待办系统的告警事件
type Event struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"` // opened | updated | resolved
	AlertID          string    `json:"alertId"`
	ConsumableID     string    `json:"consumableId"`
	ConsumableName   string    `json:"consumableName"`
	Keeper           string    `json:"keeper"`
	Level            string    `json:"level"`
	Message          string    `json:"message"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reservedQuantity"`
	ExternalRef      string    `json:"externalRef,omitempty"`
	At               time.Time `json:"at"`
}

// Sink 两段式的第二段：推送失败只记日志，绝不回滚本地提交
type Sink interface {
	// Push 返回外部句柄（可为空），调用方负责把句柄回写到告警上
	Push(ctx context.Context, ev Event) (string, error)
	// Withdraw 撤回已推送的通知，尽力而为
	Withdraw(ctx context.Context, ev Event) error
}

// NopSink 未配置外部系统时的占位
type NopSink struct{}

func (NopSink) Push(ctx context.Context, ev Event) (string, error) { return "", nil }
func (NopSink) Withdraw(ctx context.Context, ev Event) error       { return nil }
