// models/alert.go
package models

import (
	"fmt"
	"time"
)

const AlertTable = "csl_alerts"

const (
	AlertLevelLowStock   = "low-stock"
	AlertLevelOutOfStock = "out-of-stock"

	AlertOpen     = "open"
	AlertResolved = "resolved"
)

// 同一耗材同时最多一条 open 告警（部分唯一索引兜底，见 db.Migrate）
type Alert struct {
	ID             string  `gorm:"type:uuid;primaryKey" json:"id"`
	ConsumableID   string  `gorm:"type:uuid;not null;index" json:"consumableId"`
	ConsumableName string  `gorm:"size:200" json:"consumableName"`
	Keeper         string  `gorm:"size:100" json:"keeper"`
	Level          string  `gorm:"size:20;not null" json:"level"`
	Status         string  `gorm:"size:20;not null;index" json:"status"`
	Message        string  `gorm:"size:500" json:"message"`

	// 最近一次同步时的计数器快照
	Quantity         int `json:"quantity"`
	ReservedQuantity int `json:"reservedQuantity"`

	// 外部通知句柄，推送成功后回写
	ExternalRef *string `gorm:"size:200" json:"externalRef,omitempty"`

	ResolvedAt *time.Time `gorm:"index" json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Alert) TableName() string { return AlertTable }

// AlertLevelFor 健康状态返回空串；reserved/archived 都不告警
func AlertLevelFor(status string) string {
	switch status {
	case StatusLowStock:
		return AlertLevelLowStock
	case StatusOutOfStock:
		return AlertLevelOutOfStock
	}
	return ""
}

func AlertMessage(name, level string, quantity, reserved int) string {
	return fmt.Sprintf("%s is %s: quantity=%d reserved=%d", name, level, quantity, reserved)
}
