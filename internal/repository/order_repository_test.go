package repository

import (
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo string, userID uint, status string, product *models.Product, qty int) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Status:          status,
		TotalAmount:     product.PriceAmount.Mul(qty),
		PaymentMethod:   "pix",
		DeliveryAddress: "Rua A, 100",
	}
	items := []models.OrderItem{{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.PriceAmount,
		Quantity:    qty,
		TotalPrice:  product.PriceAmount.Mul(qty),
	}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderTransitionStatusIsConditional(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	product := createTestProduct(t, db, "Chair", "250.00", 5)
	order := createTestOrder(t, repo, "SF-TRANSITION", 1, constants.OrderStatusPending, product, 2)

	affected, err := repo.TransitionStatus(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first transition want 1 row got %d", affected)
	}
	affected, err = repo.TransitionStatus(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stale transition must not apply, got %d", affected)
	}

	loaded, err := repo.GetByIDAndUser(order.ID, 1)
	if err != nil || loaded == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if loaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", loaded.Status)
	}
	if other, _ := repo.GetByIDAndUser(order.ID, 2); other != nil {
		t.Fatalf("order must not be visible to another user")
	}
}

func TestOrderListAdminKeywordMatchesCustomer(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	product := createTestProduct(t, db, "Sofa", "1999.90", 3)
	alice := &models.User{Name: "Alice Souza", Email: "alice@example.com", PasswordHash: "x"}
	bob := &models.User{Name: "Bob Lima", Email: "bob@example.com", PasswordHash: "x"}
	if err := db.Create(alice).Error; err != nil {
		t.Fatalf("create alice failed: %v", err)
	}
	if err := db.Create(bob).Error; err != nil {
		t.Fatalf("create bob failed: %v", err)
	}
	createTestOrder(t, repo, "SF-A-1", alice.ID, constants.OrderStatusPending, product, 1)
	createTestOrder(t, repo, "SF-B-1", bob.ID, constants.OrderStatusShipped, product, 1)

	rows, total, err := repo.ListAdmin(OrderListFilter{Keyword: "alice", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("keyword filter want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].User == nil || rows[0].User.Email != "alice@example.com" {
		t.Fatalf("customer should be preloaded")
	}
	if len(rows[0].Items) != 1 {
		t.Fatalf("items should be preloaded")
	}

	_, total, err = repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusShipped})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("status filter want 1 got %d", total)
	}

	refs, err := repo.CountItemsByProduct(product.ID)
	if err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if refs != 2 {
		t.Fatalf("product references want 2 got %d", refs)
	}
}
