// models/task.go
package models

import "time"

const (
	TaskTable  = "csl_inventory_tasks"
	EntryTable = "csl_inventory_entries"
)

const (
	TaskDraft      = "draft"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"

	EntryExpected = "expected"
	EntryRecorded = "recorded"
)

type InventoryTask struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Owner       string `gorm:"size:100" json:"owner,omitempty"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	Status      string `gorm:"size:20;not null;index" json:"status"`

	// 建任务时的筛选条件，仅作记录；条目本身是冻结快照
	CategoryCodes StringList `gorm:"type:jsonb" json:"categoryCodes,omitempty"`
	Keeper        string     `gorm:"size:100" json:"keeper,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Entries []InventoryEntry `gorm:"foreignKey:TaskID" json:"entries,omitempty"`
}

type InventoryEntry struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID         string `gorm:"type:uuid;not null;index" json:"taskId"`
	ConsumableID   string `gorm:"type:uuid;not null;index" json:"consumableId"`
	ConsumableName string `gorm:"size:200" json:"consumableName"`
	Unit           string `gorm:"size:50" json:"unit"`

	ExpectedQuantity int `gorm:"not null" json:"expectedQuantity"`
	ExpectedReserved int `gorm:"not null" json:"expectedReserved"`

	ActualQuantity *int `json:"actualQuantity"`
	ActualReserved *int `json:"actualReserved"`

	VarianceQuantity *int `json:"varianceQuantity"`
	VarianceReserved *int `json:"varianceReserved"`

	Note   string `gorm:"size:500" json:"note,omitempty"`
	Status string `gorm:"size:20;not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (InventoryTask) TableName() string  { return TaskTable }
func (InventoryEntry) TableName() string { return EntryTable }

// Recount 只在对应 actual 存在时算差异；两项都录了才算 recorded
func (e *InventoryEntry) Recount() {
	if e.ActualQuantity != nil {
		v := *e.ActualQuantity - e.ExpectedQuantity
		e.VarianceQuantity = &v
	} else {
		e.VarianceQuantity = nil
	}
	if e.ActualReserved != nil {
		v := *e.ActualReserved - e.ExpectedReserved
		e.VarianceReserved = &v
	} else {
		e.VarianceReserved = nil
	}
	if e.ActualQuantity != nil && e.ActualReserved != nil {
		e.Status = EntryRecorded
	} else {
		e.Status = EntryExpected
	}
}

func AllRecorded(entries []InventoryEntry) bool {
	for i := range entries {
		if entries[i].Status != EntryRecorded {
			return false
		}
	}
	return len(entries) > 0
}
