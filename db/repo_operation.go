// db/repo_operation.go
package db

import (
	"consumable_stock_ledger/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateOperationInput struct {
	ConsumableID  string
	Type          string
	QuantityDelta int
	ReservedDelta int
	Actor         string
	Description   string
	Metadata      models.JSONMap
	Status        string // "" | pending | done
}

// CreateOperation 校验通过后入账本；requireApproval 时强制 pending，
// 否则立即结算：锁耗材行 → 校验充足性 → 应用增量 → 重算状态 → 同步告警
func (r *Repo) CreateOperation(ctx context.Context, in CreateOperationInput, requireApproval bool) (*models.Operation, *AlertEvent, error) {
	if err := models.ValidateOperation(in.Type, in.QuantityDelta, in.ReservedDelta); err != nil {
		return nil, nil, err
	}

	status := in.Status
	switch status {
	case "":
		status = models.OpStatusDone
	case models.OpStatusPending, models.OpStatusDone:
	default:
		return nil, nil, fmt.Errorf("%w: operation may only be created as pending or done, got %q", models.ErrValidation, status)
	}
	if requireApproval {
		// 审批门槛：只能挂起，等外部审批触发结算
		status = models.OpStatusPending
	}

	op := &models.Operation{
		ID:            uuid.NewString(),
		ConsumableID:  in.ConsumableID,
		Type:          in.Type,
		QuantityDelta: in.QuantityDelta,
		ReservedDelta: in.ReservedDelta,
		Status:        status,
		Actor:         in.Actor,
		Description:   in.Description,
		Metadata:      in.Metadata,
	}

	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Consumable
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", in.ConsumableID).Error; err != nil {
			return err
		}

		if status == models.OpStatusDone {
			if err := c.Apply(op.Type, op.QuantityDelta, op.ReservedDelta); err != nil {
				return err
			}
			if err := tx.Save(&c).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(op).Error; err != nil {
			return err
		}
		if status == models.OpStatusDone {
			var err error
			ev, err = r.syncAlert(tx, &c)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return op, ev, nil
}

// SettleOperation pending → done，增量恰好应用一次
// 已 done 的再结算是无操作（幂等），cancelled 的拒绝
func (r *Repo) SettleOperation(ctx context.Context, id string) (*models.Operation, *AlertEvent, error) {
	var op models.Operation
	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&op, "id = ?", id).Error; err != nil {
			return err
		}
		if op.Status == models.OpStatusDone {
			return nil
		}
		if op.Status == models.OpStatusCancelled {
			return fmt.Errorf("%w: operation is cancelled", ErrStatusConflict)
		}

		var c models.Consumable
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", op.ConsumableID).Error; err != nil {
			return err
		}
		if err := c.Apply(op.Type, op.QuantityDelta, op.ReservedDelta); err != nil {
			return err
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}

		op.Status = models.OpStatusDone
		if err := tx.Save(&op).Error; err != nil {
			return err
		}

		var err error
		ev, err = r.syncAlert(tx, &c)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &op, ev, nil
}

// CancelOperation pending → cancelled，终态，从不应用增量
func (r *Repo) CancelOperation(ctx context.Context, id string) (*models.Operation, error) {
	var op models.Operation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&op, "id = ?", id).Error; err != nil {
			return err
		}
		if op.Status == models.OpStatusCancelled {
			return nil
		}
		if op.Status == models.OpStatusDone {
			return fmt.Errorf("%w: operation is already done", ErrStatusConflict)
		}
		op.Status = models.OpStatusCancelled
		return tx.Save(&op).Error
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *Repo) FindOperationByID(ctx context.Context, id string) (*models.Operation, error) {
	var op models.Operation
	if err := r.DB.WithContext(ctx).First(&op, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// 耗材可能已被删除，此时只返回流水本身
	var c models.Consumable
	err := r.DB.WithContext(ctx).First(&c, "id = ?", op.ConsumableID).Error
	switch {
	case err == nil:
		op.Consumable = &c
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	return &op, nil
}

// Audit query

type OperationQuery struct {
	Types        []string
	Statuses     []string
	Q            string // 关键词：description/actor
	ConsumableID string
	Keeper       string
	Actor        string
	From         *time.Time
	To           *time.Time
	Page         int
	Size         int
}

// OperationSummary 只统计 done 的增量；pending/cancelled 不会进净流量
type OperationSummary struct {
	Total            int64 `json:"total"`
	Pending          int64 `json:"pending"`
	Done             int64 `json:"done"`
	InboundQuantity  int64 `json:"inboundQuantity"`
	OutboundQuantity int64 `json:"outboundQuantity"`
	NetQuantity      int64 `json:"netQuantity"`
}

type PagedOperations struct {
	Total   int64              `json:"total"`
	Items   []models.Operation `json:"items"`
	Summary OperationSummary   `json:"summary"`
}

func (r *Repo) operationQuery(ctx context.Context, q OperationQuery) *gorm.DB {
	tx := r.DB.WithContext(ctx).Model(&models.Operation{})
	if len(q.Types) > 0 {
		tx = tx.Where(models.OperationTable+".type IN ?", q.Types)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where(models.OperationTable+".status IN ?", q.Statuses)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where(models.OperationTable+".description ILIKE ? OR "+models.OperationTable+".actor ILIKE ?", like, like)
	}
	if q.ConsumableID != "" {
		tx = tx.Where(models.OperationTable+".consumable_id = ?", q.ConsumableID)
	}
	if q.Actor != "" {
		tx = tx.Where(models.OperationTable+".actor = ?", q.Actor)
	}
	if q.Keeper != "" {
		tx = tx.
			Joins("JOIN "+models.ConsumableTable+" c ON c.id = "+models.OperationTable+".consumable_id").
			Where("c.keeper = ?", q.Keeper)
	}
	if q.From != nil {
		tx = tx.Where(models.OperationTable+".created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where(models.OperationTable+".created_at < ?", *q.To)
	}
	return tx
}

func (r *Repo) ListOperations(ctx context.Context, q OperationQuery) (*PagedOperations, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	var total int64
	if err := r.operationQuery(ctx, q).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Operation
	if err := r.operationQuery(ctx, q).
		Order(models.OperationTable + ".created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}

	var sum OperationSummary
	if err := r.operationQuery(ctx, q).
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN ` + models.OperationTable + `.status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN ` + models.OperationTable + `.status = 'done' THEN 1 ELSE 0 END), 0) AS done,
			COALESCE(SUM(CASE WHEN ` + models.OperationTable + `.status = 'done' AND ` + models.OperationTable + `.quantity_delta > 0 THEN ` + models.OperationTable + `.quantity_delta ELSE 0 END), 0) AS inbound_quantity,
			COALESCE(SUM(CASE WHEN ` + models.OperationTable + `.status = 'done' AND ` + models.OperationTable + `.quantity_delta < 0 THEN ` + models.OperationTable + `.quantity_delta ELSE 0 END), 0) AS outbound_quantity
		`).
		Scan(&sum).Error; err != nil {
		return nil, err
	}
	sum.NetQuantity = sum.InboundQuantity + sum.OutboundQuantity

	return &PagedOperations{Total: total, Items: items, Summary: sum}, nil
}
