package models

import "testing"

func TestAlertLevelFor(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{StatusLowStock, AlertLevelLowStock},
		{StatusOutOfStock, AlertLevelOutOfStock},
		{StatusInStock, ""},
		{StatusReserved, ""},
		{StatusArchived, ""},
	}
	for _, tc := range cases {
		if got := AlertLevelFor(tc.status); got != tc.want {
			t.Errorf("AlertLevelFor(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestAlertMessage(t *testing.T) {
	got := AlertMessage("A4 Paper", AlertLevelLowStock, 4, 1)
	want := "A4 Paper is low-stock: quantity=4 reserved=1"
	if got != want {
		t.Errorf("AlertMessage = %q, want %q", got, want)
	}
}
