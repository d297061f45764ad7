package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/testutil"
)

func setupPurchaseTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	ledger := service.NewLedgerService(repos.Inventory, repos.Warehouse, nil, zap.NewNop())
	svc := service.NewPurchaseService(repos.Purchase, repos.Supplier, repos.Inventory, ledger)
	h := NewPurchaseHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/purchase-orders", h.List)
	api.POST("/purchase-orders", h.Create)
	api.GET("/purchase-orders/:id", h.Get)
	api.POST("/purchase-orders/:id/place", h.Place)
	api.POST("/purchase-orders/:id/cancel", h.Cancel)
	api.POST("/purchase-orders/:id/lines/:lineId/receive", h.ReceiveLine)

	return db, router
}

func seedSupplier(t *testing.T, db *gorm.DB) *entity.Supplier {
	t.Helper()
	sup := &entity.Supplier{
		SupplierCode: "SUP-TEST-001",
		Name:         "Nuwara Eliya Estates",
		Rating:       entity.SupplierRatingA,
		Status:       entity.SupplierStatusActive,
	}
	if err := db.Create(sup).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return sup
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	db, router := setupPurchaseTest(t)
	token := testutil.DefaultTestToken()
	sup := seedSupplier(t, db)
	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)
	item := testutil.SeedItem(t, db, "BT-200", wh.ID, 0, 10)

	// Create a draft with one line.
	w := testutil.DoRequest(router, "POST", "/api/v1/purchase-orders", map[string]interface{}{
		"supplier_id": sup.ID,
		"lines": []map[string]interface{}{
			{"item_id": item.ID, "quantity": 100, "unit_price": "1500.00"},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.POStatusDraft {
		t.Errorf("status = %v, want draft", data["status"])
	}
	if data["total_amount"] != "150000" {
		t.Errorf("total_amount = %v, want 150000", data["total_amount"])
	}
	poID := data["id"].(string)
	lineID := data["lines"].([]interface{})[0].(map[string]interface{})["id"].(string)

	// Receiving against a draft is refused.
	w2 := testutil.DoRequest(router, "POST",
		"/api/v1/purchase-orders/"+poID+"/lines/"+lineID+"/receive",
		map[string]interface{}{"quantity": 40}, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for draft receive, got %d: %s", w2.Code, w2.Body.String())
	}

	// Place, then partially receive.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/purchase-orders/"+poID+"/place", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200 for place, got %d: %s", w3.Code, w3.Body.String())
	}

	w4 := testutil.DoRequest(router, "POST",
		"/api/v1/purchase-orders/"+poID+"/lines/"+lineID+"/receive",
		map[string]interface{}{"quantity": 40}, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("Expected 200 for receive, got %d: %s", w4.Code, w4.Body.String())
	}
	recv := testutil.ParseResponse(w4)["data"].(map[string]interface{})
	po := recv["purchase_order"].(map[string]interface{})
	if po["status"] != entity.POStatusPartiallyReceived {
		t.Errorf("status = %v, want partially_received", po["status"])
	}
	movement := recv["movement"].(map[string]interface{})
	if movement["item"].(map[string]interface{})["current_stock"].(float64) != 40 {
		t.Errorf("stock after partial receive = %v, want 40",
			movement["item"].(map[string]interface{})["current_stock"])
	}

	// Receive the remainder; the PO closes.
	w5 := testutil.DoRequest(router, "POST",
		"/api/v1/purchase-orders/"+poID+"/lines/"+lineID+"/receive",
		map[string]interface{}{"quantity": 60}, token)
	if w5.Code != http.StatusOK {
		t.Fatalf("Expected 200 for final receive, got %d: %s", w5.Code, w5.Body.String())
	}
	po = testutil.ParseResponse(w5)["data"].(map[string]interface{})["purchase_order"].(map[string]interface{})
	if po["status"] != entity.POStatusReceived {
		t.Errorf("status = %v, want received", po["status"])
	}

	// Over-receiving a closed order is refused.
	w6 := testutil.DoRequest(router, "POST",
		"/api/v1/purchase-orders/"+poID+"/lines/"+lineID+"/receive",
		map[string]interface{}{"quantity": 1}, token)
	if w6.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for closed order, got %d: %s", w6.Code, w6.Body.String())
	}

	// Ledger history carries the PO reference.
	var rec entity.StockTransaction
	if err := db.Where("item_id = ? AND reference_type = ?", item.ID, "PO").First(&rec).Error; err != nil {
		t.Fatalf("no PO-referenced ledger record: %v", err)
	}
}

func TestPurchaseOrderCancel(t *testing.T) {
	db, router := setupPurchaseTest(t)
	token := testutil.DefaultTestToken()
	sup := seedSupplier(t, db)
	wh := testutil.SeedWarehouse(t, db, "WH-A", 1000, 0)
	item := testutil.SeedItem(t, db, "BT-201", wh.ID, 0, 10)

	w := testutil.DoRequest(router, "POST", "/api/v1/purchase-orders", map[string]interface{}{
		"supplier_id": sup.ID,
		"lines": []map[string]interface{}{
			{"item_id": item.ID, "quantity": 10, "unit_price": "900"},
		},
	}, token)
	poID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(router, "POST", "/api/v1/purchase-orders/"+poID+"/cancel", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for cancel, got %d: %s", w2.Code, w2.Body.String())
	}

	// Cancelling twice is a conflict.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/purchase-orders/"+poID+"/cancel", nil, token)
	if w3.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for double cancel, got %d", w3.Code)
	}
}
