// db/repo_alert.go
package db

import (
	"consumable_stock_ledger/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertEvent 结算事务提交后交给外部通知，推送失败不回滚本地状态
type AlertEvent struct {
	Kind  string       `json:"kind"` // opened | updated | resolved
	Alert models.Alert `json:"alert"`
}

const (
	EventOpened   = "opened"
	EventUpdated  = "updated"
	EventResolved = "resolved"
)

// syncAlert 在结算事务内执行：不健康则开/更新唯一 open 告警，恢复则了结
// 调用方已持有耗材行锁，告警的 upsert 因此与状态重算串行
func (r *Repo) syncAlert(tx *gorm.DB, c *models.Consumable) (*AlertEvent, error) {
	level := models.AlertLevelFor(c.Status)
	if level == "" {
		return r.resolveOpenAlert(tx, c.ID)
	}

	var a models.Alert
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("consumable_id = ? AND status = ?", c.ID, models.AlertOpen).
		First(&a).Error
	if err == gorm.ErrRecordNotFound {
		a = models.Alert{
			ID:               uuid.NewString(),
			ConsumableID:     c.ID,
			ConsumableName:   c.Name,
			Keeper:           c.Keeper,
			Level:            level,
			Status:           models.AlertOpen,
			Message:          models.AlertMessage(c.Name, level, c.Quantity, c.ReservedQuantity),
			Quantity:         c.Quantity,
			ReservedQuantity: c.ReservedQuantity,
		}
		if err := tx.Create(&a).Error; err != nil {
			return nil, err
		}
		return &AlertEvent{Kind: EventOpened, Alert: a}, nil
	}
	if err != nil {
		return nil, err
	}

	a.Level = level
	a.ConsumableName = c.Name
	a.Keeper = c.Keeper
	a.Message = models.AlertMessage(c.Name, level, c.Quantity, c.ReservedQuantity)
	a.Quantity = c.Quantity
	a.ReservedQuantity = c.ReservedQuantity
	if err := tx.Save(&a).Error; err != nil {
		return nil, err
	}
	return &AlertEvent{Kind: EventUpdated, Alert: a}, nil
}

func (r *Repo) resolveOpenAlert(tx *gorm.DB, consumableID string) (*AlertEvent, error) {
	var a models.Alert
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("consumable_id = ? AND status = ?", consumableID, models.AlertOpen).
		First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.Status = models.AlertResolved
	a.ResolvedAt = &now
	if err := tx.Save(&a).Error; err != nil {
		return nil, err
	}
	return &AlertEvent{Kind: EventResolved, Alert: a}, nil
}

// ResolveAlert 手工确认，幂等；条件未消除时下一次结算会开新告警
func (r *Repo) ResolveAlert(ctx context.Context, id string) (*models.Alert, *AlertEvent, error) {
	var a models.Alert
	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", id).Error; err != nil {
			return err
		}
		if a.Status == models.AlertResolved {
			return nil
		}
		now := time.Now().UTC()
		a.Status = models.AlertResolved
		a.ResolvedAt = &now
		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		ev = &AlertEvent{Kind: EventResolved, Alert: a}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &a, ev, nil
}

// BindAlertExternalRef 推送成功后回写外部句柄，尽力而为
func (r *Repo) BindAlertExternalRef(ctx context.Context, alertID, ref string) error {
	return r.DB.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ?", alertID).
		Update("external_ref", ref).Error
}

type AlertQuery struct {
	ConsumableID string
	Status       string
	Level        string
	Page         int
	Size         int
}

type PagedAlerts struct {
	Total int64          `json:"total"`
	Items []models.Alert `json:"items"`
}

func (r *Repo) ListAlerts(ctx context.Context, q AlertQuery) (*PagedAlerts, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Alert{})
	if q.ConsumableID != "" {
		tx = tx.Where("consumable_id = ?", q.ConsumableID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Level != "" {
		tx = tx.Where("level = ?", q.Level)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Alert
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedAlerts{Total: total, Items: items}, nil
}
