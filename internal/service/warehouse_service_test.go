package service

import (
	"testing"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/testutil"
)

func TestWarehouseCapacityRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWarehouseService(repository.NewWarehouseRepository(db))

	wh, err := svc.Create(WarehouseRequest{Code: "WH-A", Name: "Main Store", Capacity: 500})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if wh.RemainingCapacity != 500 {
		t.Errorf("remaining = %v, want 500", wh.RemainingCapacity)
	}

	if _, err := svc.Create(WarehouseRequest{Code: "WH-B", Name: "Bad", Capacity: -1}); err == nil {
		t.Error("negative capacity should be rejected")
	}

	// Shrinking below used capacity is refused.
	db.Model(wh).Update("used_capacity", 300)
	_, err = svc.Update(wh.ID, WarehouseRequest{Code: "WH-A", Name: "Main Store", Capacity: 200})
	var ve *ValidationError
	if !asErr(err, &ve) {
		t.Errorf("expected ValidationError for shrink below used, got %v", err)
	}

	// Growing is fine.
	updated, err := svc.Update(wh.ID, WarehouseRequest{Code: "WH-A", Name: "Main Store", Capacity: 800})
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if updated.RemainingCapacity != 500 {
		t.Errorf("remaining after grow = %v, want 500", updated.RemainingCapacity)
	}
}

func TestWarehouseDeleteRefusedWhileOccupied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWarehouseService(repository.NewWarehouseRepository(db))

	wh := testutil.SeedWarehouse(t, db, "WH-A", 100, 10)
	testutil.SeedItem(t, db, "BT-300", wh.ID, 10, 2)

	err := svc.Delete(wh.ID)
	var cf *ConflictError
	if !asErr(err, &cf) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	empty := testutil.SeedWarehouse(t, db, "WH-B", 100, 0)
	if err := svc.Delete(empty.ID); err != nil {
		t.Fatalf("deleting empty warehouse failed: %v", err)
	}
}
