package models

import (
	"errors"
	"reflect"
	"testing"
)

// Consumable 字段只用于响应展示。一旦落库，迁移会在 consumable_id 上
// 生成外键，删除耗材时因保留的审计流水而失败
func TestOperationConsumableFieldNotPersisted(t *testing.T) {
	f, ok := reflect.TypeOf(Operation{}).FieldByName("Consumable")
	if !ok {
		t.Fatal("Operation has no Consumable field")
	}
	if tag := f.Tag.Get("gorm"); tag != "-" {
		t.Errorf("Consumable gorm tag = %q, want %q", tag, "-")
	}
}

func TestValidateOperation(t *testing.T) {
	cases := []struct {
		name     string
		opType   string
		qtyDelta int
		resDelta int
		wantErr  bool
	}{
		{"purchase positive", OpPurchase, 10, 0, false},
		{"purchase zero", OpPurchase, 0, 0, true},
		{"purchase negative", OpPurchase, -5, 0, true},
		{"inbound positive", OpInbound, 3, 0, false},
		{"outbound negative", OpOutbound, -4, 0, false},
		{"outbound positive", OpOutbound, 4, 0, true},
		{"dispose negative", OpDispose, -1, 0, false},
		{"dispose zero", OpDispose, 0, 0, true},
		{"reserve positive", OpReserve, 0, 5, false},
		{"reserve negative", OpReserve, 0, -5, true},
		{"release negative", OpRelease, 0, -2, false},
		{"release zero", OpRelease, 0, 0, true},
		{"adjust quantity only", OpAdjust, -3, 0, false},
		{"adjust reserved only", OpAdjust, 0, 2, false},
		{"adjust both zero", OpAdjust, 0, 0, true},
		{"unknown type", "repair", 1, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOperation(tc.opType, tc.qtyDelta, tc.resDelta)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ValidateOperation(%s, %d, %d) = nil, want error", tc.opType, tc.qtyDelta, tc.resDelta)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v is not ErrValidation", err)
				}
			} else if err != nil {
				t.Fatalf("ValidateOperation(%s, %d, %d) = %v, want nil", tc.opType, tc.qtyDelta, tc.resDelta, err)
			}
		})
	}
}

func TestApplyOutboundBelowSafetyStock(t *testing.T) {
	c := &Consumable{Quantity: 20, SafetyStock: 5, Status: StatusInStock}

	if err := c.Apply(OpOutbound, -16, 0); err != nil {
		t.Fatalf("Apply = %v", err)
	}
	if c.Quantity != 4 {
		t.Errorf("Quantity = %d, want 4", c.Quantity)
	}
	if c.Status != StatusLowStock {
		t.Errorf("Status = %q, want %q", c.Status, StatusLowStock)
	}
}

func TestApplyReserveToFull(t *testing.T) {
	c := &Consumable{Quantity: 4, SafetyStock: 5, Status: StatusLowStock}

	if err := c.Apply(OpReserve, 0, 4); err != nil {
		t.Fatalf("Apply = %v", err)
	}
	if c.ReservedQuantity != 4 {
		t.Errorf("ReservedQuantity = %d, want 4", c.ReservedQuantity)
	}
	if c.Status != StatusReserved {
		t.Errorf("Status = %q, want %q", c.Status, StatusReserved)
	}
}

func TestApplyOutboundExceedsAvailable(t *testing.T) {
	c := &Consumable{Quantity: 20, ReservedQuantity: 20, Status: StatusReserved}

	err := c.Apply(OpOutbound, -25, 0)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Apply = %v, want ErrInsufficientStock", err)
	}
	// 失败不得动计数器
	if c.Quantity != 20 || c.ReservedQuantity != 20 {
		t.Errorf("counters changed on failure: quantity=%d reserved=%d", c.Quantity, c.ReservedQuantity)
	}
	if c.Status != StatusReserved {
		t.Errorf("Status = %q, want %q", c.Status, StatusReserved)
	}
}

func TestApplyReleaseExceedsReserved(t *testing.T) {
	c := &Consumable{Quantity: 10, ReservedQuantity: 3}

	err := c.Apply(OpRelease, 0, -5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Apply = %v, want ErrInsufficientStock", err)
	}
	if c.ReservedQuantity != 3 {
		t.Errorf("ReservedQuantity = %d, want 3", c.ReservedQuantity)
	}
}

func TestApplyAdjustBreakingInvariant(t *testing.T) {
	c := &Consumable{Quantity: 10, ReservedQuantity: 8}

	// quantity 调到 5 会让 reserved(8) 超过 quantity
	if err := c.Apply(OpAdjust, -5, 0); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Apply = %v, want ErrInsufficientStock", err)
	}
	// 负值也拒绝
	if err := c.Apply(OpAdjust, -15, 0); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Apply = %v, want ErrInsufficientStock", err)
	}
	if err := c.Apply(OpAdjust, 0, -9); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Apply = %v, want ErrInsufficientStock", err)
	}
}

func TestApplyPurchaseRestocks(t *testing.T) {
	c := &Consumable{Quantity: 0, SafetyStock: 5, Status: StatusOutOfStock}

	if err := c.Apply(OpPurchase, 50, 0); err != nil {
		t.Fatalf("Apply = %v", err)
	}
	if c.Quantity != 50 {
		t.Errorf("Quantity = %d, want 50", c.Quantity)
	}
	if c.Status != StatusInStock {
		t.Errorf("Status = %q, want %q", c.Status, StatusInStock)
	}
}
