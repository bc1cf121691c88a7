// models/consumable.go
package models

import "time"

const ConsumableTable = "csl_consumables"

// 派生状态：除 archived 开关外不单独落库为事实来源，每次结算后重算
const (
	StatusInStock    = "in-stock"
	StatusLowStock   = "low-stock"
	StatusOutOfStock = "out-of-stock"
	StatusReserved   = "reserved"
	StatusArchived   = "archived"
)

type Consumable struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string  `gorm:"size:200;not null;index" json:"name"`
	CategoryCode string  `gorm:"size:100;not null;index" json:"categoryCode"`
	CompanyID    string  `gorm:"size:100;not null;index" json:"companyId"`
	Unit         string  `gorm:"size:50;not null" json:"unit"`
	Keeper       string  `gorm:"size:100;not null;index" json:"keeper"`
	Location     string  `gorm:"size:200;not null" json:"location"`
	Description  string  `gorm:"size:500" json:"description,omitempty"`
	Metadata     JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	Quantity         int    `gorm:"not null;default:0" json:"quantity"`
	ReservedQuantity int    `gorm:"not null;default:0" json:"reservedQuantity"`
	SafetyStock      int    `gorm:"not null;default:0" json:"safetyStock"`
	Archived         bool   `gorm:"not null;default:false" json:"archived"`
	Status           string `gorm:"size:20;not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Consumable) TableName() string { return ConsumableTable }

// DeriveStatus 是 (quantity, reserved, safetyStock, archived) 的纯函数
// 注意：reserved >= quantity 时视为全部承诺，不进入低库存告警
func DeriveStatus(quantity, reserved, safetyStock int, archived bool) string {
	switch {
	case archived:
		return StatusArchived
	case quantity <= 0:
		return StatusOutOfStock
	case reserved >= quantity:
		return StatusReserved
	case safetyStock > 0 && quantity <= safetyStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

func (c *Consumable) Recompute() {
	c.Status = DeriveStatus(c.Quantity, c.ReservedQuantity, c.SafetyStock, c.Archived)
}

// 可出库量 = quantity - reservedQuantity
func (c *Consumable) Available() int { return c.Quantity - c.ReservedQuantity }
