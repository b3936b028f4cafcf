package service

import (
	"errors"
	"testing"
)

func TestCartAddBeyondStockKeepsLine(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Notebook", "25.00", 10)

	item, err := f.cart.AddOrIncrement(1, p.ID, 5)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", item.Quantity)
	}

	_, err = f.cart.AddOrIncrement(1, p.ID, 6)
	stockErr, ok := asOutOfStock(err)
	if !ok {
		t.Fatalf("want OutOfStockError got %v", err)
	}
	if stockErr.Available != 10 {
		t.Fatalf("available want 10 got %d", stockErr.Available)
	}

	view, err := f.cart.ListForUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 5 {
		t.Fatalf("cart line should stay at 5, got %+v", view.Items)
	}
	if got := f.stock(t, p.ID); got != 10 {
		t.Fatalf("adding to cart must not reserve stock, got %d", got)
	}
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Pencil", "2.50", 10)

	if _, err := f.cart.AddOrIncrement(1, p.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	item, err := f.cart.AddOrIncrement(1, p.ID, 7)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if item.Quantity != 10 {
		t.Fatalf("quantity want 10 got %d", item.Quantity)
	}
	count, err := f.cart.Count(1)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("line count want 1 got %d", count)
	}
}

func TestCartAddValidation(t *testing.T) {
	f := setupStore(t)
	if _, err := f.cart.AddOrIncrement(1, 1, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero quantity want validation error got %v", err)
	}
	if _, err := f.cart.AddOrIncrement(1, 404, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want not found got %v", err)
	}
}

func TestCartListComputesTotals(t *testing.T) {
	f := setupStore(t)
	a := f.product(t, "Cup", "10.00", 5)
	b := f.product(t, "Plate", "7.50", 5)
	if _, err := f.cart.AddOrIncrement(2, a.ID, 2); err != nil {
		t.Fatalf("add cup failed: %v", err)
	}
	if _, err := f.cart.AddOrIncrement(2, b.ID, 2); err != nil {
		t.Fatalf("add plate failed: %v", err)
	}

	view, err := f.cart.ListForUser(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if view.Total.String() != "35.00" {
		t.Fatalf("total want 35.00 got %s", view.Total.String())
	}
	if view.ItemCount != 2 || view.TotalQuantity != 4 {
		t.Fatalf("unexpected counts: items=%d quantity=%d", view.ItemCount, view.TotalQuantity)
	}
}

func TestCartSetQuantityAndRemoveOwnership(t *testing.T) {
	f := setupStore(t)
	p := f.product(t, "Lamp", "80.00", 3)
	item, err := f.cart.AddOrIncrement(1, p.ID, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := f.cart.SetQuantity(2, item.ID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign line want not found got %v", err)
	}
	if err := f.cart.SetQuantity(1, item.ID, 4); err == nil {
		t.Fatalf("quantity above stock must fail")
	}
	if err := f.cart.SetQuantity(1, item.ID, 3); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if err := f.cart.Remove(2, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign remove want not found got %v", err)
	}
	if err := f.cart.SetQuantity(1, item.ID, 0); err != nil {
		t.Fatalf("set zero failed: %v", err)
	}
	if err := f.cart.Remove(1, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("line dropped to zero should be gone, got %v", err)
	}
}

func TestCartBatchUpdateReportsFailures(t *testing.T) {
	f := setupStore(t)
	a := f.product(t, "Chair", "150.00", 4)
	b := f.product(t, "Table", "600.00", 1)
	c := f.product(t, "Rug", "90.00", 9)
	lineA, _ := f.cart.AddOrIncrement(1, a.ID, 1)
	lineB, _ := f.cart.AddOrIncrement(1, b.ID, 1)
	lineC, _ := f.cart.AddOrIncrement(1, c.ID, 2)

	result, err := f.cart.BatchUpdate(1, []CartQuantityUpdate{
		{ItemID: lineA.ID, Quantity: 4},
		{ItemID: lineB.ID, Quantity: 3},
		{ItemID: lineC.ID, Quantity: 0},
		{ItemID: 9999, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("batch update failed: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != lineA.ID {
		t.Fatalf("updated want [%d] got %v", lineA.ID, result.Updated)
	}
	if len(result.Removed) != 1 || result.Removed[0] != lineC.ID {
		t.Fatalf("removed want [%d] got %v", lineC.ID, result.Removed)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("failed want 2 got %+v", result.Failed)
	}
	if result.Failed[0].Reason != CartUpdateReasonExceedsStock || result.Failed[0].ProductName != "Table" || result.Failed[0].Available != 1 {
		t.Fatalf("unexpected stock failure: %+v", result.Failed[0])
	}
	if result.Failed[1].Reason != CartUpdateReasonNotFound {
		t.Fatalf("unexpected missing failure: %+v", result.Failed[1])
	}

	view, _ := f.cart.ListForUser(1)
	if view.ItemCount != 2 {
		t.Fatalf("cart should keep chair and table, got %d lines", view.ItemCount)
	}
}
