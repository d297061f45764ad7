package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/testutil"
)

func setupInventoryTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	ledger := service.NewLedgerService(repos.Inventory, repos.Warehouse, nil, zap.NewNop())
	invSvc := service.NewInventoryService(repos.Inventory, repos.Warehouse, ledger)
	h := NewInventoryHandler(invSvc, ledger)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/items", h.List)
	api.POST("/items", h.Create)
	api.GET("/items/:id", h.Get)
	api.PUT("/items/:id", h.Update)
	api.DELETE("/items/:id", h.Delete)
	api.POST("/stock/receive", h.Receive)
	api.POST("/stock/issue", h.Issue)
	api.POST("/stock/adjust", h.Adjust)
	api.POST("/stock/transfer", h.Transfer)
	api.GET("/stock-transactions", h.Transactions)
	api.GET("/reorder-list", h.ReorderList)

	return db, router
}

func TestItemCreateWithOpeningStock(t *testing.T) {
	db, router := setupInventoryTest(t)
	token := testutil.DefaultTestToken()
	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)

	w := testutil.DoRequest(router, "POST", "/api/v1/items", map[string]interface{}{
		"sku":           "BT-100",
		"name":          "Ceylon Black Tea BOP",
		"category":      "black_tea",
		"minimum_stock": 25,
		"maximum_stock": 500,
		"unit_cost":     "1200.50",
		"warehouse_id":  wh.ID,
		"opening_stock": 100,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["current_stock"].(float64) != 100 {
		t.Errorf("current_stock = %v, want 100", data["current_stock"])
	}
	if data["status"] != "in_stock" {
		t.Errorf("status = %v, want in_stock", data["status"])
	}

	// Opening balance shows up in the transaction history.
	w2 := testutil.DoRequest(router, "GET", "/api/v1/stock-transactions?item_id="+data["id"].(string), nil, token)
	resp2 := testutil.ParseResponse(w2)
	txs := resp2["data"].(map[string]interface{})["items"].([]interface{})
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].(map[string]interface{})["transaction_type"] != "initial_stock" {
		t.Errorf("transaction_type = %v, want initial_stock", txs[0].(map[string]interface{})["transaction_type"])
	}
}

func TestStockReceiveIssueFlow(t *testing.T) {
	db, router := setupInventoryTest(t)
	token := testutil.DefaultTestToken()
	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)
	item := testutil.SeedItem(t, db, "BT-101", wh.ID, 0, 10)

	w := testutil.DoRequest(router, "POST", "/api/v1/stock/receive", map[string]interface{}{
		"item_id":  item.ID,
		"quantity": 50,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Over-issue is a conflict and carries the ledger error code.
	w2 := testutil.DoRequest(router, "POST", "/api/v1/stock/issue", map[string]interface{}{
		"item_id":  item.ID,
		"quantity": 60,
	}, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w2.Code, w2.Body.String())
	}
	resp := testutil.ParseResponse(w2)
	if resp["code"].(float64) != 20001 {
		t.Errorf("code = %v, want 20001", resp["code"])
	}

	w3 := testutil.DoRequest(router, "POST", "/api/v1/stock/issue", map[string]interface{}{
		"item_id":  item.ID,
		"quantity": 35,
	}, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	data := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	itemData := data["item"].(map[string]interface{})
	if itemData["current_stock"].(float64) != 15 {
		t.Errorf("current_stock = %v, want 15", itemData["current_stock"])
	}
	whData := data["warehouse"].(map[string]interface{})
	if whData["used_capacity"].(float64) != 15 {
		t.Errorf("used_capacity = %v, want 15", whData["used_capacity"])
	}
}

func TestStockTransferEndpoint(t *testing.T) {
	db, router := setupInventoryTest(t)
	token := testutil.DefaultTestToken()
	whA := testutil.SeedWarehouse(t, db, "WH-A", 100, 80)
	whB := testutil.SeedWarehouse(t, db, "WH-B", 100, 10)
	item := testutil.SeedItem(t, db, "GT-100", whA.ID, 80, 10)

	w := testutil.DoRequest(router, "POST", "/api/v1/stock/transfer", map[string]interface{}{
		"item_id":           item.ID,
		"from_warehouse_id": whA.ID,
		"to_warehouse_id":   whB.ID,
		"quantity":          15,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["item"].(map[string]interface{})["current_stock"].(float64) != 65 {
		t.Errorf("source stock = %v, want 65", data["item"].(map[string]interface{})["current_stock"])
	}
	if data["dest_item"].(map[string]interface{})["current_stock"].(float64) != 15 {
		t.Errorf("dest stock = %v, want 15", data["dest_item"].(map[string]interface{})["current_stock"])
	}
	if len(data["transactions"].([]interface{})) != 2 {
		t.Errorf("expected 2 transaction records")
	}
}

func TestReorderListEndpoint(t *testing.T) {
	db, router := setupInventoryTest(t)
	token := testutil.DefaultTestToken()
	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 30)
	testutil.SeedItem(t, db, "LOW-1", wh.ID, 5, 10)
	testutil.SeedItem(t, db, "OUT-1", wh.ID, 0, 10)
	testutil.SeedItem(t, db, "OK-1", wh.ID, 25, 10)

	w := testutil.DoRequest(router, "GET", "/api/v1/reorder-list", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rows := testutil.ParseResponse(w)["data"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 reorder rows, got %d", len(rows))
	}
	for _, r := range rows {
		sku := r.(map[string]interface{})["item"].(map[string]interface{})["sku"].(string)
		if sku == "OK-1" {
			t.Errorf("healthy item leaked into reorder list")
		}
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	_, router := setupInventoryTest(t)
	w := testutil.DoRequest(router, "GET", "/api/v1/items", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestItemNotFound(t *testing.T) {
	_, router := setupInventoryTest(t)
	token := testutil.DefaultTestToken()
	w := testutil.DoRequest(router, "GET",
		fmt.Sprintf("/api/v1/items/%s", "00000000-0000-0000-0000-000000000000"), nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
