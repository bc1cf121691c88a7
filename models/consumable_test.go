package models

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name        string
		quantity    int
		reserved    int
		safetyStock int
		archived    bool
		want        string
	}{
		{"healthy", 20, 0, 5, false, StatusInStock},
		{"at safety stock", 5, 0, 5, false, StatusLowStock},
		{"below safety stock", 3, 1, 5, false, StatusLowStock},
		{"zero quantity", 0, 0, 5, false, StatusOutOfStock},
		{"negative quantity", -1, 0, 0, false, StatusOutOfStock},
		{"fully reserved", 4, 4, 0, false, StatusReserved},
		{"fully reserved beats low stock", 4, 4, 10, false, StatusReserved},
		{"archived beats everything", 0, 0, 5, true, StatusArchived},
		{"no safety stock configured", 1, 0, 0, false, StatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.quantity, tc.reserved, tc.safetyStock, tc.archived)
			if got != tc.want {
				t.Errorf("DeriveStatus(%d, %d, %d, %v) = %q, want %q",
					tc.quantity, tc.reserved, tc.safetyStock, tc.archived, got, tc.want)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	c := &Consumable{Quantity: 20, ReservedQuantity: 0, SafetyStock: 5}
	c.Recompute()
	if c.Status != StatusInStock {
		t.Fatalf("Status = %q, want %q", c.Status, StatusInStock)
	}

	c.Quantity = 4
	c.Recompute()
	if c.Status != StatusLowStock {
		t.Fatalf("Status = %q, want %q", c.Status, StatusLowStock)
	}

	c.Archived = true
	c.Recompute()
	if c.Status != StatusArchived {
		t.Fatalf("Status = %q, want %q", c.Status, StatusArchived)
	}
}

func TestAvailable(t *testing.T) {
	c := &Consumable{Quantity: 20, ReservedQuantity: 6}
	if got := c.Available(); got != 14 {
		t.Errorf("Available() = %d, want 14", got)
	}
}
