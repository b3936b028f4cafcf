package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

func checkoutInput(userID uint) CheckoutInput {
	return CheckoutInput{UserID: userID, PaymentMethod: "pix", DeliveryAddress: "Rua das Flores, 10"}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := setupStore(t)
	buyer := f.user(t, "Ana", "ana@example.com")
	a := f.product(t, "Book", "10.00", 5)
	b := f.product(t, "Bookmark", "5.00", 8)
	if _, err := f.cart.AddOrIncrement(buyer.ID, a.ID, 2); err != nil {
		t.Fatalf("add book failed: %v", err)
	}
	if _, err := f.cart.AddOrIncrement(buyer.ID, b.ID, 2); err != nil {
		t.Fatalf("add bookmark failed: %v", err)
	}

	order, err := f.order.Checkout(checkoutInput(buyer.ID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if order.TotalAmount.String() != "30.00" {
		t.Fatalf("total want 30.00 got %s", order.TotalAmount.String())
	}
	if !strings.HasPrefix(order.OrderNo, constants.OrderNoPrefix) || len(order.OrderNo) != len(constants.OrderNoPrefix)+20 {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if !item.TotalPrice.Equal(item.UnitPrice.Mul(item.Quantity).Decimal) {
			t.Fatalf("line total mismatch: %+v", item)
		}
	}
	if got := f.stock(t, a.ID); got != 3 {
		t.Fatalf("book stock want 3 got %d", got)
	}
	if got := f.stock(t, b.ID); got != 6 {
		t.Fatalf("bookmark stock want 6 got %d", got)
	}
	if count, _ := f.carts.CountByUser(buyer.ID); count != 0 {
		t.Fatalf("cart should be empty after checkout, got %d lines", count)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setupStore(t)
	if _, err := f.order.Checkout(checkoutInput(1)); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("no order should be created, got %d", count)
	}
}

func TestCheckoutRequiresPaymentAndAddress(t *testing.T) {
	f := setupStore(t)
	if _, err := f.order.Checkout(CheckoutInput{UserID: 1, PaymentMethod: "  ", DeliveryAddress: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank payment want validation error got %v", err)
	}
	if _, err := f.order.Checkout(CheckoutInput{UserID: 1, PaymentMethod: "pix"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank address want validation error got %v", err)
	}
}

func TestCheckoutListsEveryShortLine(t *testing.T) {
	f := setupStore(t)
	a := f.product(t, "Keyboard", "100.00", 2)
	b := f.product(t, "Mouse", "50.00", 3)
	c := f.product(t, "Pad", "20.00", 10)
	for _, add := range []struct {
		id  uint
		qty int
	}{{a.ID, 2}, {b.ID, 3}, {c.ID, 1}} {
		if _, err := f.cart.AddOrIncrement(1, add.id, add.qty); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	if err := f.inventory.SetStock(a.ID, 1); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if err := f.inventory.SetStock(b.ID, 0); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}

	_, err := f.order.Checkout(checkoutInput(1))
	var shortage *InsufficientStockError
	if !errors.As(err, &shortage) {
		t.Fatalf("want InsufficientStockError got %v", err)
	}
	if len(shortage.Items) != 2 {
		t.Fatalf("shortage lines want 2 got %+v", shortage.Items)
	}
	if got := f.stock(t, c.ID); got != 10 {
		t.Fatalf("failed checkout must not touch stock, got %d", got)
	}
	if count, _ := f.carts.CountByUser(1); count != 3 {
		t.Fatalf("failed checkout must keep the cart, got %d", count)
	}
}

func TestConcurrentCheckoutSellsLastUnitOnce(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Limited Print", "500.00", 1)
	u1 := f.user(t, "One", "one@example.com")
	u2 := f.user(t, "Two", "two@example.com")
	for _, u := range []*models.User{u1, u2} {
		if _, err := f.cart.AddOrIncrement(u.ID, p.ID, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, u := range []*models.User{u1, u2} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = f.order.Checkout(checkoutInput(userID))
		}(i, u.ID)
	}
	wg.Wait()

	succeeded, short := 0, 0
	for _, err := range errs {
		var shortage *InsufficientStockError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &shortage):
			short++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	if succeeded != 1 || short != 1 {
		t.Fatalf("want one success and one shortage, got success=%d shortage=%d", succeeded, short)
	}
	if got := f.stock(t, p.ID); got != 0 {
		t.Fatalf("stock want 0 got %d", got)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Vase", "45.00", 5)
	if _, err := f.cart.AddOrIncrement(1, p.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := f.order.Checkout(checkoutInput(1))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := f.order.Cancel(2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign cancel want not found got %v", err)
	}
	cancelled, err := f.order.Cancel(1, order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CanceledAt == nil {
		t.Fatalf("order should be cancelled with timestamp, got %+v", cancelled)
	}
	if got := f.stock(t, p.ID); got != 5 {
		t.Fatalf("stock want 5 got %d", got)
	}
	if _, err := f.order.Cancel(1, order.ID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("second cancel want not cancellable got %v", err)
	}
	if got := f.stock(t, p.ID); got != 5 {
		t.Fatalf("second cancel must not release again, got %d", got)
	}
}

func TestCancelShippedOrderRefused(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Frame", "60.00", 2)
	if _, err := f.cart.AddOrIncrement(1, p.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := f.order.Checkout(checkoutInput(1))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.order.AdminSetStatus(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if _, err := f.order.Cancel(1, order.ID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("cancel shipped want not cancellable got %v", err)
	}
	if got := f.stock(t, p.ID); got != 1 {
		t.Fatalf("stock want 1 got %d", got)
	}
}

func TestAdminSetStatusAcrossCancelledBoundary(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Speaker", "250.00", 3)
	if _, err := f.cart.AddOrIncrement(1, p.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := f.order.Checkout(checkoutInput(1))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := f.order.AdminSetStatus(order.ID, "refunded"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status want validation error got %v", err)
	}

	updated, err := f.order.AdminSetStatus(order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", updated.Status)
	}
	if got := f.stock(t, p.ID); got != 3 {
		t.Fatalf("stock after admin cancel want 3 got %d", got)
	}

	updated, err = f.order.AdminSetStatus(order.ID, constants.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if updated.CanceledAt != nil {
		t.Fatalf("reopened order should clear cancelled timestamp")
	}
	if got := f.stock(t, p.ID); got != 1 {
		t.Fatalf("stock after reopen want 1 got %d", got)
	}

	if _, err := f.order.AdminSetStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel again failed: %v", err)
	}
	if err := f.inventory.SetStock(p.ID, 1); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	_, err = f.order.AdminSetStatus(order.ID, constants.OrderStatusPending)
	var shortage *InsufficientStockError
	if !errors.As(err, &shortage) {
		t.Fatalf("reopen without stock want InsufficientStockError got %v", err)
	}
	reloaded, _ := f.order.AdminGet(order.ID)
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("failed reopen must keep cancelled, got %s", reloaded.Status)
	}
	if got := f.stock(t, p.ID); got != 1 {
		t.Fatalf("failed reopen must not touch stock, got %d", got)
	}
}

func TestOrderQueries(t *testing.T) {
	f := setupStore(t)
	alice := f.user(t, "Alice", "alice@shop.test")
	bob := f.user(t, "Bob", "bob@shop.test")
	p := f.product(t, "Candle", "15.00", 20)
	for _, u := range []*models.User{alice, alice, bob} {
		if _, err := f.cart.AddOrIncrement(u.ID, p.ID, 2); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if _, err := f.order.Checkout(checkoutInput(u.ID)); err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
	}

	summaries, total, err := f.order.ListForUser(alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("list for user failed: %v", err)
	}
	if total != 2 || len(summaries) != 2 {
		t.Fatalf("alice orders want 2 got total=%d len=%d", total, len(summaries))
	}
	if summaries[0].ItemCount != 1 || summaries[0].TotalQuantity != 2 {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}

	if _, err := f.order.GetForUser(bob.ID, summaries[0].ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order want not found got %v", err)
	}

	views, total, err := f.order.AdminList(AdminOrderFilter{Keyword: "bob@"})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 1 || views[0].CustomerName != "Bob" {
		t.Fatalf("admin keyword search want bob's order, got total=%d views=%+v", total, views)
	}
	if _, _, err := f.order.AdminList(AdminOrderFilter{Status: "lost"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status filter want validation error got %v", err)
	}
}
