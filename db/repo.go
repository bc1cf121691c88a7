package db

import (
	"consumable_stock_ledger/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var (
	// 对 done/cancelled 的终态操作再做状态迁移
	ErrStatusConflict = errors.New("status conflict")
	// 建任务时筛选不到任何耗材
	ErrNoConsumablesMatched = errors.New("no consumables matched the filters")
)

// Consumables

type CreateConsumableInput struct {
	Name             string
	CategoryCode     string
	CompanyID        string
	Unit             string
	Keeper           string
	Location         string
	Description      string
	Metadata         models.JSONMap
	Quantity         int
	ReservedQuantity int
	SafetyStock      int
}

func (in CreateConsumableInput) validate() error {
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0, got %d", models.ErrValidation, in.Quantity)
	}
	if in.ReservedQuantity < 0 {
		return fmt.Errorf("%w: reservedQuantity must be >= 0, got %d", models.ErrValidation, in.ReservedQuantity)
	}
	if in.ReservedQuantity > in.Quantity {
		return fmt.Errorf("%w: reservedQuantity %d must not exceed quantity %d", models.ErrValidation, in.ReservedQuantity, in.Quantity)
	}
	if in.SafetyStock < 0 {
		return fmt.Errorf("%w: safetyStock must be >= 0, got %d", models.ErrValidation, in.SafetyStock)
	}
	return nil
}

// 创建即结算一次初始状态，初始就低于安全库存的也会立即产生告警
func (r *Repo) CreateConsumable(ctx context.Context, in CreateConsumableInput) (*models.Consumable, *AlertEvent, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	c := &models.Consumable{
		ID:               uuid.NewString(),
		Name:             in.Name,
		CategoryCode:     in.CategoryCode,
		CompanyID:        in.CompanyID,
		Unit:             in.Unit,
		Keeper:           in.Keeper,
		Location:         in.Location,
		Description:      in.Description,
		Metadata:         in.Metadata,
		Quantity:         in.Quantity,
		ReservedQuantity: in.ReservedQuantity,
		SafetyStock:      in.SafetyStock,
	}
	c.Recompute()

	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		var err error
		ev, err = r.syncAlert(tx, c)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return c, ev, nil
}

func (r *Repo) FindConsumableByID(ctx context.Context, id string) (*models.Consumable, error) {
	var c models.Consumable
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

type ConsumableQuery struct {
	Q            string // 模糊搜索：name/keeper/location
	CategoryCode string
	CompanyID    string
	Status       string
	Page         int
	Size         int
}

type PagedConsumables struct {
	Total int64               `json:"total"`
	Items []models.Consumable `json:"items"`
}

func (r *Repo) ListConsumables(ctx context.Context, q ConsumableQuery) (*PagedConsumables, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Consumable{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR keeper ILIKE ? OR location ILIKE ?", like, like, like)
	}
	if q.CategoryCode != "" {
		tx = tx.Where("category_code = ?", q.CategoryCode)
	}
	if q.CompanyID != "" {
		tx = tx.Where("company_id = ?", q.CompanyID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Consumable
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedConsumables{Total: total, Items: items}, nil
}

// UpdateConsumableInput 只覆盖头字段；计数器只能走操作账本
type UpdateConsumableInput struct {
	Name         *string
	CategoryCode *string
	CompanyID    *string
	Unit         *string
	Keeper       *string
	Location     *string
	Description  *string
	Metadata     models.JSONMap
	SafetyStock  *int
	Archived     *bool
}

func (r *Repo) UpdateConsumableHeader(ctx context.Context, id string, in UpdateConsumableInput) (*models.Consumable, *AlertEvent, error) {
	if in.SafetyStock != nil && *in.SafetyStock < 0 {
		return nil, nil, fmt.Errorf("%w: safetyStock must be >= 0, got %d", models.ErrValidation, *in.SafetyStock)
	}

	var c models.Consumable
	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", id).Error; err != nil {
			return err
		}

		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.CategoryCode != nil {
			c.CategoryCode = *in.CategoryCode
		}
		if in.CompanyID != nil {
			c.CompanyID = *in.CompanyID
		}
		if in.Unit != nil {
			c.Unit = *in.Unit
		}
		if in.Keeper != nil {
			c.Keeper = *in.Keeper
		}
		if in.Location != nil {
			c.Location = *in.Location
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.Metadata != nil {
			c.Metadata = in.Metadata
		}
		if in.SafetyStock != nil {
			c.SafetyStock = *in.SafetyStock
		}
		if in.Archived != nil {
			c.Archived = *in.Archived
		}

		// 安全库存或归档开关都会改变派生状态
		c.Recompute()
		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		var err error
		ev, err = r.syncAlert(tx, &c)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &c, ev, nil
}

// 删除耗材：先了结它的 open 告警，操作流水保留作审计
func (r *Repo) DeleteConsumable(ctx context.Context, id string) (*AlertEvent, error) {
	var ev *AlertEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Consumable
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		var err error
		ev, err = r.resolveOpenAlert(tx, c.ID)
		if err != nil {
			return err
		}
		return tx.Delete(&models.Consumable{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}
