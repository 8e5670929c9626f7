package models

import "testing"

func TestStockStatus(t *testing.T) {
	tests := []struct {
		qty, min int
		want     StockStatus
	}{
		{0, 0, StockOutOfStock},
		{0, 5, StockOutOfStock},
		{5, 5, StockLow},
		{3, 5, StockLow},
		{6, 5, StockInStock},
		{1, 0, StockInStock},
	}
	for _, tt := range tests {
		item := InventoryItem{Quantity: tt.qty, MinThreshold: tt.min}
		if got := item.StockStatus(); got != tt.want {
			t.Errorf("quantity %d threshold %d: got %s, want %s", tt.qty, tt.min, got, tt.want)
		}
	}
}

func TestInventoryValue(t *testing.T) {
	item := InventoryItem{Quantity: 4, UnitPrice: 12.5}
	if v := item.Value(); v != 50 {
		t.Fatalf("expected 50, got %v", v)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleSuperAdmin.Valid() || !RoleAdmin.Valid() {
		t.Fatal("known roles must be valid")
	}
	if Role("OWNER").Valid() || Role("").Valid() {
		t.Fatal("unknown roles must be invalid")
	}
}

func TestVisitRecordUnion(t *testing.T) {
	records := []VisitRecord{
		&Visitor{VisitInfo: VisitInfo{Name: "v", Type: VisitTypeVisitor}},
		&Trial{VisitInfo: VisitInfo{Name: "t", Type: VisitTypeTrial}},
		&Member{VisitInfo: VisitInfo{Name: "m", Type: VisitTypeMember}},
	}
	for _, r := range records {
		var want VisitType
		switch r.(type) {
		case *Visitor:
			want = VisitTypeVisitor
		case *Trial:
			want = VisitTypeTrial
		case *Member:
			want = VisitTypeMember
		default:
			t.Fatalf("unexpected record %T", r)
		}
		if r.Visit().Type != want {
			t.Fatalf("%T carries tag %s", r, r.Visit().Type)
		}
	}
}

func TestDashboardMetricsClone(t *testing.T) {
	m := &DashboardMetrics{StockLevels: map[string]int{"a": 1}, MemberGrowth: []float64{1, 2}}
	c := m.Clone()
	c.StockLevels["a"] = 9
	c.MemberGrowth[0] = 9
	if m.StockLevels["a"] != 1 || m.MemberGrowth[0] != 1 {
		t.Fatal("clone shares state with the original")
	}
	var nilMetrics *DashboardMetrics
	if nilMetrics.Clone() != nil {
		t.Fatal("nil clone should be nil")
	}
}
