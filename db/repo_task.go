// db/repo_task.go
package db

import (
	"consumable_stock_ledger/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTaskInput struct {
	Name          string
	Owner         string
	Description   string
	CategoryCodes []string
	Keeper        string
	Draft         bool
}

// CreateTask 把当前匹配筛选的非归档耗材冻结成条目快照
// 条目不是活引用：之后的结算不会改动 expected 值
func (r *Repo) CreateTask(ctx context.Context, in CreateTaskInput) (*models.InventoryTask, error) {
	status := models.TaskInProgress
	if in.Draft {
		status = models.TaskDraft
	}

	task := &models.InventoryTask{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Owner:         in.Owner,
		Description:   in.Description,
		Status:        status,
		CategoryCodes: in.CategoryCodes,
		Keeper:        in.Keeper,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Consumable{}).Where("archived = FALSE")
		if len(in.CategoryCodes) > 0 {
			q = q.Where("category_code IN ?", in.CategoryCodes)
		}
		if in.Keeper != "" {
			q = q.Where("keeper = ?", in.Keeper)
		}

		var cs []models.Consumable
		if err := q.Order("created_at ASC").Find(&cs).Error; err != nil {
			return err
		}
		if len(cs) == 0 {
			return ErrNoConsumablesMatched
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		entries := make([]models.InventoryEntry, len(cs))
		for i, c := range cs {
			entries[i] = models.InventoryEntry{
				ID:               uuid.NewString(),
				TaskID:           task.ID,
				ConsumableID:     c.ID,
				ConsumableName:   c.Name,
				Unit:             c.Unit,
				ExpectedQuantity: c.Quantity,
				ExpectedReserved: c.ReservedQuantity,
				Status:           models.EntryExpected,
			}
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}
		task.Entries = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *Repo) FindTaskByID(ctx context.Context, id string) (*models.InventoryTask, error) {
	var t models.InventoryTask
	if err := r.DB.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

type TaskQuery struct {
	Status string
	Page   int
	Size   int
}

type PagedTasks struct {
	Total int64                  `json:"total"`
	Items []models.InventoryTask `json:"items"`
}

func (r *Repo) ListTasks(ctx context.Context, q TaskQuery) (*PagedTasks, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.InventoryTask{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.InventoryTask
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedTasks{Total: total, Items: items}, nil
}

// EntryRecord actual 为 nil 表示清掉之前的计数；Note 为 nil 表示不动
type EntryRecord struct {
	EntryID        string
	ActualQuantity *int
	ActualReserved *int
	Note           *string
}

// RecordEntries 写实际计数并重算差异；全部 recorded 时任务自动完成
// 盘点是观察性的，从不回写耗材计数器
func (r *Repo) RecordEntries(ctx context.Context, taskID string, recs []EntryRecord) (*models.InventoryTask, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: entries must not be empty", models.ErrValidation)
	}

	var task models.InventoryTask
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		if task.Status != models.TaskInProgress {
			return fmt.Errorf("%w: task is %s, expected in-progress", ErrStatusConflict, task.Status)
		}

		for _, rec := range recs {
			var e models.InventoryEntry
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&e, "id = ? AND task_id = ?", rec.EntryID, taskID).Error; err != nil {
				return err
			}
			if rec.ActualQuantity != nil && *rec.ActualQuantity < 0 {
				return fmt.Errorf("%w: actualQuantity must be >= 0, got %d", models.ErrValidation, *rec.ActualQuantity)
			}
			if rec.ActualReserved != nil && *rec.ActualReserved < 0 {
				return fmt.Errorf("%w: actualReserved must be >= 0, got %d", models.ErrValidation, *rec.ActualReserved)
			}
			e.ActualQuantity = rec.ActualQuantity
			e.ActualReserved = rec.ActualReserved
			if rec.Note != nil {
				e.Note = *rec.Note
			}
			e.Recount()
			if err := tx.Save(&e).Error; err != nil {
				return err
			}
		}

		if err := tx.Order("created_at ASC").
			Find(&task.Entries, "task_id = ?", taskID).Error; err != nil {
			return err
		}

		// 唯一的自动状态迁移：全部 recorded → completed
		if models.AllRecorded(task.Entries) {
			task.Status = models.TaskCompleted
			return tx.Model(&models.InventoryTask{}).
				Where("id = ?", task.ID).
				Update("status", models.TaskCompleted).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// StartTask draft → in-progress，显式迁移
func (r *Repo) StartTask(ctx context.Context, id string) (*models.InventoryTask, error) {
	var t models.InventoryTask
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if t.Status == models.TaskInProgress {
			return nil
		}
		if t.Status != models.TaskDraft {
			return fmt.Errorf("%w: task is %s", ErrStatusConflict, t.Status)
		}
		t.Status = models.TaskInProgress
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteTask 人工收尾；completed 不会自动回退
func (r *Repo) CompleteTask(ctx context.Context, id string) (*models.InventoryTask, error) {
	var t models.InventoryTask
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if t.Status == models.TaskCompleted {
			return nil
		}
		t.Status = models.TaskCompleted
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
