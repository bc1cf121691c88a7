// models/operation.go
package models

import (
	"errors"
	"fmt"
	"time"
)

const OperationTable = "csl_operations"

const (
	OpPurchase = "purchase"
	OpInbound  = "inbound"
	OpOutbound = "outbound"
	OpReserve  = "reserve"
	OpRelease  = "release"
	OpAdjust   = "adjust"
	OpDispose  = "dispose"
)

const (
	OpStatusPending   = "pending"
	OpStatusDone      = "done"
	OpStatusCancelled = "cancelled"
)

// 库存不足一类的拒绝：出库/处置超可用量、释放超预留、不变量被打破
var ErrInsufficientStock = errors.New("insufficient stock")

// 输入校验失败，未入库即拒绝
var ErrValidation = errors.New("invalid input")

type Operation struct {
	ID            string  `gorm:"type:uuid;primaryKey" json:"id"`
	ConsumableID  string  `gorm:"type:uuid;not null;index" json:"consumableId"`
	Type          string  `gorm:"size:20;not null;index" json:"type"`
	QuantityDelta int     `gorm:"not null;default:0" json:"quantityDelta"`
	ReservedDelta int     `gorm:"not null;default:0" json:"reservedDelta"`
	Status        string  `gorm:"size:20;not null;index" json:"status"`
	Actor         string  `gorm:"size:100;not null;index" json:"actor"`
	Description   string  `gorm:"size:500" json:"description,omitempty"`
	Metadata      JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// 只做响应时的附带展示，不落库：consumable_id 上不建外键约束，
	// 删除耗材后流水仍保留作审计
	Consumable *Consumable `gorm:"-" json:"consumable,omitempty"`
}

func (Operation) TableName() string { return OperationTable }

// ValidateOperation 按类型校验增量符号，入库前执行，不触库
func ValidateOperation(opType string, quantityDelta, reservedDelta int) error {
	switch opType {
	case OpPurchase, OpInbound:
		if quantityDelta <= 0 {
			return fmt.Errorf("%w: %s requires quantityDelta > 0, got %d", ErrValidation, opType, quantityDelta)
		}
	case OpOutbound, OpDispose:
		if quantityDelta >= 0 {
			return fmt.Errorf("%w: %s requires quantityDelta < 0, got %d", ErrValidation, opType, quantityDelta)
		}
	case OpReserve:
		if reservedDelta <= 0 {
			return fmt.Errorf("%w: reserve requires reservedDelta > 0, got %d", ErrValidation, reservedDelta)
		}
	case OpRelease:
		if reservedDelta >= 0 {
			return fmt.Errorf("%w: release requires reservedDelta < 0, got %d", ErrValidation, reservedDelta)
		}
	case OpAdjust:
		if quantityDelta == 0 && reservedDelta == 0 {
			return fmt.Errorf("%w: adjust requires at least one non-zero delta", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown operation type %q", ErrValidation, opType)
	}
	return nil
}

// Apply 把已通过符号校验的增量落到计数器上并重算状态
// 失败时计数器保持原值，调用方据此放弃整个事务
func (c *Consumable) Apply(opType string, quantityDelta, reservedDelta int) error {
	switch opType {
	case OpOutbound, OpDispose:
		if avail := c.Available(); -quantityDelta > avail {
			return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, avail, -quantityDelta)
		}
	case OpRelease:
		if -reservedDelta > c.ReservedQuantity {
			return fmt.Errorf("%w: reserved %d, requested %d", ErrInsufficientStock, c.ReservedQuantity, -reservedDelta)
		}
	}

	q := c.Quantity + quantityDelta
	rv := c.ReservedQuantity + reservedDelta
	if q < 0 {
		return fmt.Errorf("%w: quantity would drop to %d", ErrInsufficientStock, q)
	}
	if rv < 0 {
		return fmt.Errorf("%w: reservedQuantity would drop to %d", ErrInsufficientStock, rv)
	}
	if rv > q {
		return fmt.Errorf("%w: reservedQuantity %d would exceed quantity %d", ErrInsufficientStock, rv, q)
	}

	c.Quantity = q
	c.ReservedQuantity = rv
	c.Recompute()
	return nil
}
