package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/testutil"
)

func asErr(err error, target interface{}) bool {
	return errors.As(err, target)
}

func setupLedgerTest(t *testing.T) (*gorm.DB, *LedgerService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ledger := NewLedgerService(repos.Inventory, repos.Warehouse, nil, zap.NewNop())
	return db, ledger
}

func countTransactions(t *testing.T, db *gorm.DB, itemID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&entity.StockTransaction{}).Where("item_id = ?", itemID).Count(&n).Error; err != nil {
		t.Fatalf("counting transactions: %v", err)
	}
	return n
}

func reloadItem(t *testing.T, db *gorm.DB, id string) *entity.InventoryItem {
	t.Helper()
	var item entity.InventoryItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("reloading item: %v", err)
	}
	return &item
}

func reloadWarehouse(t *testing.T, db *gorm.DB, id string) *entity.Warehouse {
	t.Helper()
	var wh entity.Warehouse
	if err := db.First(&wh, "id = ?", id).Error; err != nil {
		t.Fatalf("reloading warehouse: %v", err)
	}
	return &wh
}

func TestReceiveThenIssue(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)
	item := testutil.SeedItem(t, db, "BT-001", wh.ID, 0, 10)

	res, err := ledger.Receive(ctx, ReceiveRequest{ItemID: item.ID, Quantity: 50}, "tester")
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if res.Item.CurrentStock != 50 {
		t.Errorf("stock after receive = %v, want 50", res.Item.CurrentStock)
	}
	if res.Item.Status != entity.ItemStatusInStock {
		t.Errorf("status after receive = %s, want in_stock", res.Item.Status)
	}
	if res.Warehouse.UsedCapacity != 50 {
		t.Errorf("used capacity = %v, want 50", res.Warehouse.UsedCapacity)
	}
	if len(res.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(res.Transactions))
	}
	rec := res.Transactions[0]
	if rec.TransactionType != entity.TxTypeReceive || rec.PreviousStock != 0 || rec.NewStock != 50 {
		t.Errorf("bad receive record: %+v", rec)
	}

	res, err = ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: 35}, "tester")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if res.Item.CurrentStock != 15 {
		t.Errorf("stock after issue = %v, want 15", res.Item.CurrentStock)
	}
	rec = res.Transactions[0]
	if rec.TransactionType != entity.TxTypeIssue || rec.PreviousStock != 50 || rec.NewStock != 15 || rec.Quantity != 35 {
		t.Errorf("bad issue record: %+v", rec)
	}

	if n := countTransactions(t, db, item.ID); n != 2 {
		t.Errorf("expected 2 ledger records, got %d", n)
	}
	if got := reloadWarehouse(t, db, wh.ID).UsedCapacity; got != 15 {
		t.Errorf("used capacity after issue = %v, want 15", got)
	}
}

func TestIssueExceedingStockChangesNothing(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 20)
	item := testutil.SeedItem(t, db, "BT-002", wh.ID, 20, 5)

	_, err := ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: 21}, "tester")
	var insufficient *InsufficientStockError
	if !asErr(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 20 || insufficient.Requested != 21 {
		t.Errorf("bad error payload: %+v", insufficient)
	}

	if got := reloadItem(t, db, item.ID).CurrentStock; got != 20 {
		t.Errorf("stock mutated on rejected issue: %v", got)
	}
	if got := reloadWarehouse(t, db, wh.ID).UsedCapacity; got != 20 {
		t.Errorf("capacity mutated on rejected issue: %v", got)
	}
	if n := countTransactions(t, db, item.ID); n != 0 {
		t.Errorf("rejected issue wrote %d ledger records", n)
	}
}

func TestReceiveOverCapacityRejected(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 100, 95)
	item := testutil.SeedItem(t, db, "BT-003", wh.ID, 95, 5)

	_, err := ledger.Receive(ctx, ReceiveRequest{ItemID: item.ID, Quantity: 10}, "tester")
	var capErr *CapacityExceededError
	if !asErr(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Remaining != 5 {
		t.Errorf("remaining = %v, want 5", capErr.Remaining)
	}
	if got := reloadItem(t, db, item.ID).CurrentStock; got != 95 {
		t.Errorf("stock mutated on rejected receive: %v", got)
	}
}

func TestAdjustIsAbsolute(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 40)
	item := testutil.SeedItem(t, db, "BT-004", wh.ID, 40, 10)

	// Count down: 40 -> 33
	res, err := ledger.Adjust(ctx, AdjustRequest{ItemID: item.ID, NewStockLevel: 33, Reason: "cycle count"}, "tester")
	if err != nil {
		t.Fatalf("adjust down failed: %v", err)
	}
	rec := res.Transactions[0]
	if rec.TransactionType != entity.TxTypeAdjustmentOut || rec.Quantity != 7 {
		t.Errorf("bad adjustment record: %+v", rec)
	}
	if res.Item.CurrentStock != 33 {
		t.Errorf("stock = %v, want 33", res.Item.CurrentStock)
	}

	// Count up: 33 -> 60
	res, err = ledger.Adjust(ctx, AdjustRequest{ItemID: item.ID, NewStockLevel: 60, Reason: "found pallet"}, "tester")
	if err != nil {
		t.Fatalf("adjust up failed: %v", err)
	}
	rec = res.Transactions[0]
	if rec.TransactionType != entity.TxTypeAdjustmentIn || rec.Quantity != 27 {
		t.Errorf("bad adjustment record: %+v", rec)
	}

	// No-op: target equals current balance, nothing recorded
	res, err = ledger.Adjust(ctx, AdjustRequest{ItemID: item.ID, NewStockLevel: 60, Reason: "recount"}, "tester")
	if err != nil {
		t.Fatalf("no-op adjust failed: %v", err)
	}
	if len(res.Transactions) != 0 {
		t.Errorf("no-op adjust wrote %d records", len(res.Transactions))
	}

	if got := reloadWarehouse(t, db, wh.ID).UsedCapacity; got != 60 {
		t.Errorf("used capacity = %v, want 60", got)
	}
}

func TestTransferBetweenWarehouses(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	whA := testutil.SeedWarehouse(t, db, "WH-A", 100, 80)
	whB := testutil.SeedWarehouse(t, db, "WH-B", 100, 10)
	src := testutil.SeedItem(t, db, "GT-001", whA.ID, 80, 10)

	res, err := ledger.Transfer(ctx, TransferRequest{
		ItemID:          src.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        15,
	}, "tester")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if res.Item.CurrentStock != 65 {
		t.Errorf("source stock = %v, want 65", res.Item.CurrentStock)
	}
	if res.DestItem == nil || res.DestItem.CurrentStock != 15 {
		t.Fatalf("destination row missing or wrong: %+v", res.DestItem)
	}
	if res.DestItem.SKU != src.SKU {
		t.Errorf("destination SKU = %s, want %s", res.DestItem.SKU, src.SKU)
	}
	if res.Warehouse.UsedCapacity != 65 || res.DestWarehouse.UsedCapacity != 25 {
		t.Errorf("capacity after transfer: from=%v to=%v, want 65/25",
			res.Warehouse.UsedCapacity, res.DestWarehouse.UsedCapacity)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("expected transfer_out + transfer_in pair, got %d records", len(res.Transactions))
	}
	if res.Transactions[0].TransactionType != entity.TxTypeTransferOut ||
		res.Transactions[1].TransactionType != entity.TxTypeTransferIn {
		t.Errorf("bad record pair: %s / %s",
			res.Transactions[0].TransactionType, res.Transactions[1].TransactionType)
	}

	// Total stock for the SKU is conserved.
	var total struct{ Sum float64 }
	db.Raw("SELECT COALESCE(SUM(current_stock), 0) AS sum FROM inventory_items WHERE sku = ?", src.SKU).Scan(&total)
	if total.Sum != 80 {
		t.Errorf("SKU total = %v, want 80", total.Sum)
	}

	// A second transfer reuses the destination row.
	res, err = ledger.Transfer(ctx, TransferRequest{
		ItemID:          src.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        5,
	}, "tester")
	if err != nil {
		t.Fatalf("second transfer failed: %v", err)
	}
	if res.DestItem.CurrentStock != 20 {
		t.Errorf("destination stock = %v, want 20", res.DestItem.CurrentStock)
	}
	var rows int64
	db.Model(&entity.InventoryItem{}).Where("sku = ?", src.SKU).Count(&rows)
	if rows != 2 {
		t.Errorf("expected 2 stock rows for SKU, got %d", rows)
	}
}

func TestTransferRejections(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	whA := testutil.SeedWarehouse(t, db, "WH-A", 100, 50)
	whB := testutil.SeedWarehouse(t, db, "WH-B", 100, 98)
	src := testutil.SeedItem(t, db, "GT-002", whA.ID, 50, 5)

	// Same source and destination.
	_, err := ledger.Transfer(ctx, TransferRequest{
		ItemID: src.ID, FromWarehouseID: whA.ID, ToWarehouseID: whA.ID, Quantity: 10,
	}, "tester")
	var ve *ValidationError
	if !asErr(err, &ve) {
		t.Errorf("expected ValidationError for same warehouse, got %v", err)
	}

	// Destination over capacity.
	_, err = ledger.Transfer(ctx, TransferRequest{
		ItemID: src.ID, FromWarehouseID: whA.ID, ToWarehouseID: whB.ID, Quantity: 10,
	}, "tester")
	var capErr *CapacityExceededError
	if !asErr(err, &capErr) {
		t.Errorf("expected CapacityExceededError, got %v", err)
	}

	// More than available.
	_, err = ledger.Transfer(ctx, TransferRequest{
		ItemID: src.ID, FromWarehouseID: whA.ID, ToWarehouseID: whB.ID, Quantity: 60,
	}, "tester")
	var insufficient *InsufficientStockError
	if !asErr(err, &insufficient) {
		t.Errorf("expected InsufficientStockError, got %v", err)
	}

	// Nothing changed and no records were written.
	if got := reloadItem(t, db, src.ID).CurrentStock; got != 50 {
		t.Errorf("source stock mutated: %v", got)
	}
	if n := countTransactions(t, db, src.ID); n != 0 {
		t.Errorf("rejected transfers wrote %d records", n)
	}
}

func TestIssueBelowThresholdThenOverdraw(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 50)
	item := testutil.SeedItem(t, db, "BT-005", wh.ID, 50, 20)

	res, err := ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: 35}, "tester")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if res.Item.CurrentStock != 15 || res.Item.Status != entity.ItemStatusLowStock {
		t.Errorf("after issue: stock=%v status=%s, want 15/low_stock",
			res.Item.CurrentStock, res.Item.Status)
	}
	rec := res.Transactions[0]
	if rec.PreviousStock != 50 || rec.NewStock != 15 {
		t.Errorf("record prev/new = %v/%v, want 50/15", rec.PreviousStock, rec.NewStock)
	}

	if _, err := ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: 20}, "tester"); err == nil {
		t.Fatal("expected overdraw to fail")
	}
	if got := reloadItem(t, db, item.ID).CurrentStock; got != 15 {
		t.Errorf("stock after failed issue = %v, want 15", got)
	}
}

func TestTransferCapacityBookkeeping(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	// Used capacity includes stock of other items; only 30 belongs to this SKU.
	whA := testutil.SeedWarehouse(t, db, "WH-A", 100, 80)
	whB := testutil.SeedWarehouse(t, db, "WH-B", 100, 10)
	item := testutil.SeedItem(t, db, "OT-001", whA.ID, 30, 5)

	res, err := ledger.Transfer(ctx, TransferRequest{
		ItemID:          item.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        15,
	}, "tester")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if res.Item.CurrentStock != 15 {
		t.Errorf("source stock = %v, want 15", res.Item.CurrentStock)
	}
	if res.Warehouse.UsedCapacity != 65 {
		t.Errorf("source used capacity = %v, want 65", res.Warehouse.UsedCapacity)
	}
	if res.DestItem.CurrentStock != 15 {
		t.Errorf("dest stock = %v, want 15", res.DestItem.CurrentStock)
	}
	if res.DestWarehouse.UsedCapacity != 25 {
		t.Errorf("dest used capacity = %v, want 25", res.DestWarehouse.UsedCapacity)
	}
}

func TestConcurrentIssuesNeverOverdraw(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 100)
	item := testutil.SeedItem(t, db, "BT-006", wh.ID, 100, 10)

	// 8 workers each want 30 from a balance of 100: at most 3 can win.
	const workers = 8
	const qty = 30.0
	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := 0.0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: qty}, "tester"); err == nil {
				mu.Lock()
				issued += qty
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if issued > 100 {
		t.Fatalf("issued %v from a balance of 100", issued)
	}
	got := reloadItem(t, db, item.ID)
	if got.CurrentStock < 0 {
		t.Errorf("stock went negative: %v", got.CurrentStock)
	}
	if got.CurrentStock != 100-issued {
		t.Errorf("final stock = %v, want %v", got.CurrentStock, 100-issued)
	}
	if n := countTransactions(t, db, item.ID); n != int64(issued/qty) {
		t.Errorf("ledger wrote %d records for %v successful issues", n, issued/qty)
	}
	if w := reloadWarehouse(t, db, wh.ID).UsedCapacity; w != 100-issued {
		t.Errorf("used capacity = %v, want %v", w, 100-issued)
	}
}

func TestTransferSourceCapacityNeverNegative(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	// Source bookkeeping undercounts the SKU; the debit floors at zero just
	// like every other capacity decrement.
	whA := testutil.SeedWarehouse(t, db, "WH-A", 100, 10)
	whB := testutil.SeedWarehouse(t, db, "WH-B", 100, 0)
	item := testutil.SeedItem(t, db, "OT-002", whA.ID, 30, 5)

	res, err := ledger.Transfer(ctx, TransferRequest{
		ItemID:          item.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        20,
	}, "tester")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if res.Warehouse.UsedCapacity != 0 {
		t.Errorf("source used capacity = %v, want 0", res.Warehouse.UsedCapacity)
	}
	if got := reloadWarehouse(t, db, whA.ID).UsedCapacity; got != 0 {
		t.Errorf("persisted source capacity = %v, want 0", got)
	}
	if res.DestWarehouse.UsedCapacity != 20 {
		t.Errorf("dest used capacity = %v, want 20", res.DestWarehouse.UsedCapacity)
	}
}

func TestStatusFollowsThresholds(t *testing.T) {
	db, ledger := setupLedgerTest(t)
	ctx := context.Background()

	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)
	item := testutil.SeedItem(t, db, "WT-001", wh.ID, 0, 10)

	if item.Status != entity.ItemStatusOutOfStock {
		t.Fatalf("seed status = %s, want out_of_stock", item.Status)
	}

	res, _ := ledger.Receive(ctx, ReceiveRequest{ItemID: item.ID, Quantity: 8}, "tester")
	if res.Item.Status != entity.ItemStatusLowStock {
		t.Errorf("status at 8/min10 = %s, want low_stock", res.Item.Status)
	}

	res, _ = ledger.Receive(ctx, ReceiveRequest{ItemID: item.ID, Quantity: 20}, "tester")
	if res.Item.Status != entity.ItemStatusInStock {
		t.Errorf("status at 28/min10 = %s, want in_stock", res.Item.Status)
	}

	res, _ = ledger.Issue(ctx, IssueRequest{ItemID: item.ID, Quantity: 28}, "tester")
	if res.Item.Status != entity.ItemStatusOutOfStock {
		t.Errorf("status at 0 = %s, want out_of_stock", res.Item.Status)
	}
}
