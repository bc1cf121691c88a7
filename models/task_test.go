package models

import "testing"

func intptr(v int) *int { return &v }

func TestRecountBothActuals(t *testing.T) {
	e := &InventoryEntry{
		ExpectedQuantity: 15,
		ExpectedReserved: 2,
		ActualQuantity:   intptr(12),
		ActualReserved:   intptr(2),
		Status:           EntryExpected,
	}
	e.Recount()

	if e.VarianceQuantity == nil || *e.VarianceQuantity != -3 {
		t.Errorf("VarianceQuantity = %v, want -3", e.VarianceQuantity)
	}
	if e.VarianceReserved == nil || *e.VarianceReserved != 0 {
		t.Errorf("VarianceReserved = %v, want 0", e.VarianceReserved)
	}
	if e.Status != EntryRecorded {
		t.Errorf("Status = %q, want %q", e.Status, EntryRecorded)
	}
}

func TestRecountPartialActuals(t *testing.T) {
	e := &InventoryEntry{
		ExpectedQuantity: 15,
		ExpectedReserved: 2,
		ActualQuantity:   intptr(15),
	}
	e.Recount()

	if e.VarianceQuantity == nil || *e.VarianceQuantity != 0 {
		t.Errorf("VarianceQuantity = %v, want 0", e.VarianceQuantity)
	}
	if e.VarianceReserved != nil {
		t.Errorf("VarianceReserved = %v, want nil", *e.VarianceReserved)
	}
	if e.Status != EntryExpected {
		t.Errorf("Status = %q, want %q", e.Status, EntryExpected)
	}
}

func TestRecountClearActual(t *testing.T) {
	e := &InventoryEntry{
		ExpectedQuantity: 10,
		ExpectedReserved: 0,
		ActualQuantity:   intptr(8),
		ActualReserved:   intptr(0),
	}
	e.Recount()
	if e.Status != EntryRecorded {
		t.Fatalf("Status = %q, want %q", e.Status, EntryRecorded)
	}

	// 清掉实盘值，条目退回待录状态
	e.ActualQuantity = nil
	e.Recount()
	if e.VarianceQuantity != nil {
		t.Errorf("VarianceQuantity = %v, want nil", *e.VarianceQuantity)
	}
	if e.Status != EntryExpected {
		t.Errorf("Status = %q, want %q", e.Status, EntryExpected)
	}
}

func TestAllRecorded(t *testing.T) {
	if AllRecorded(nil) {
		t.Error("AllRecorded(nil) = true, want false")
	}
	if AllRecorded([]InventoryEntry{}) {
		t.Error("AllRecorded(empty) = true, want false")
	}
	entries := []InventoryEntry{
		{Status: EntryRecorded},
		{Status: EntryExpected},
	}
	if AllRecorded(entries) {
		t.Error("AllRecorded with expected entry = true, want false")
	}
	entries[1].Status = EntryRecorded
	if !AllRecorded(entries) {
		t.Error("AllRecorded with all recorded = false, want true")
	}
}
