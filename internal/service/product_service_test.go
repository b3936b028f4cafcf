package service

import (
	"errors"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingRemover struct {
	removed []string
	err     error
}

func (r *recordingRemover) RemoveFile(path string) error {
	r.removed = append(r.removed, path)
	return r.err
}

func newProductService(f *storeFixture, files FileRemover) *ProductService {
	return NewProductService(f.products, f.carts, f.orders, f.inventory, files, 8)
}

func intPtr(v int) *int { return &v }

func TestProductCreateValidation(t *testing.T) {
	f := setupStore(t)
	svc := newProductService(f, nil)

	cases := []ProductInput{
		{Name: " ", Price: decimal.NewFromInt(1)},
		{Name: "Free", Price: decimal.Zero},
		{Name: "Negative", Price: decimal.NewFromInt(1), Stock: intPtr(-1)},
	}
	for _, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("input %+v want validation error got %v", input, err)
		}
	}

	product, err := svc.Create(ProductInput{
		Name:   "Backpack",
		Price:  decimal.RequireFromString("129.9"),
		Stock:  intPtr(4),
		Images: []string{"/uploads/product/a.png", "/uploads/product/b.png", "/uploads/product/a.png"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.PriceAmount.String() != "129.90" || product.Stock != 4 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(product.Images) != 2 || product.PrimaryImage() != "/uploads/product/a.png" {
		t.Fatalf("unexpected images: %+v", product.Images)
	}
}

func TestProductUpdateReplacesImagesAndStock(t *testing.T) {
	f := setupStore(t)
	files := &recordingRemover{err: errors.New("disk busy")}
	svc := newProductService(f, files)
	product, err := svc.Create(ProductInput{
		Name:   "Jacket",
		Price:  decimal.NewFromInt(300),
		Stock:  intPtr(2),
		Images: []string{"/uploads/product/old.png", "/uploads/product/keep.png"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(product.ID, ProductInput{
		Name:     "Winter Jacket",
		Price:    decimal.NewFromInt(350),
		Stock:    intPtr(9),
		Category: "clothing",
		Images:   []string{"/uploads/product/keep.png", "/uploads/product/new.png"},
	})
	if err != nil {
		t.Fatalf("update should succeed even when file removal fails: %v", err)
	}
	if updated.Name != "Winter Jacket" || updated.Stock != 9 || updated.Category != "clothing" {
		t.Fatalf("unexpected updated product: %+v", updated)
	}
	if updated.PrimaryImage() != "/uploads/product/keep.png" {
		t.Fatalf("primary image want keep.png got %s", updated.PrimaryImage())
	}
	if len(files.removed) != 1 || files.removed[0] != "/uploads/product/old.png" {
		t.Fatalf("removed files want [old.png] got %v", files.removed)
	}

	if _, err := svc.Update(9999, ProductInput{Name: "x", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("update missing want not found got %v", err)
	}
}

func TestProductUpdateWithoutImagesKeepsExisting(t *testing.T) {
	f := setupStore(t)
	files := &recordingRemover{}
	svc := newProductService(f, files)
	product, err := svc.Create(ProductInput{
		Name:   "Lamp",
		Price:  decimal.NewFromInt(10),
		Stock:  intPtr(3),
		Images: []string{"/uploads/product/lamp.png"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(product.ID, ProductInput{Name: "Lamp v2", Price: decimal.NewFromInt(12)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Lamp v2" || updated.PriceAmount.String() != "12.00" {
		t.Fatalf("unexpected updated product: %+v", updated)
	}
	if len(updated.Images) != 1 || updated.PrimaryImage() != "/uploads/product/lamp.png" {
		t.Fatalf("images should be kept, got %+v", updated.Images)
	}
	if len(files.removed) != 0 {
		t.Fatalf("no file should be removed, got %v", files.removed)
	}
	if updated.Stock != 3 {
		t.Fatalf("stock want 3 got %d", updated.Stock)
	}

	// 显式传空列表时清空图片
	cleared, err := svc.Update(product.ID, ProductInput{Name: "Lamp v2", Price: decimal.NewFromInt(12), Images: []string{}})
	if err != nil {
		t.Fatalf("clear images failed: %v", err)
	}
	if len(cleared.Images) != 0 || len(files.removed) != 1 || files.removed[0] != "/uploads/product/lamp.png" {
		t.Fatalf("empty images should clear, got images=%+v removed=%v", cleared.Images, files.removed)
	}
}

func TestProductDeleteCascadesCart(t *testing.T) {
	f := setupStore(t)
	files := &recordingRemover{}
	svc := newProductService(f, files)
	product, err := svc.Create(ProductInput{
		Name:   "Globe",
		Price:  decimal.NewFromInt(70),
		Stock:  intPtr(5),
		Images: []string{"/uploads/product/globe.png"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.cart.AddOrIncrement(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := f.cart.AddOrIncrement(2, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var lines int64
	f.db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&lines)
	if lines != 0 {
		t.Fatalf("cart lines should be removed, got %d", lines)
	}
	var images int64
	f.db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&images)
	if images != 0 {
		t.Fatalf("image rows should be removed, got %d", images)
	}
	if len(files.removed) != 1 {
		t.Fatalf("image file should be removed, got %v", files.removed)
	}
	if _, err := svc.GetPublic(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("deleted product want not found got %v", err)
	}
}

func TestProductDeleteRefusedWhenOrdered(t *testing.T) {
	f := setupStore(t)
	svc := newProductService(f, nil)
	p := f.product(t, "Clock", "40.00", 3)
	if _, err := f.cart.AddOrIncrement(1, p.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := f.order.Checkout(checkoutInput(1)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	err := svc.Delete(p.ID)
	if !errors.Is(err, ErrProductInUse) || !errors.Is(err, ErrConflict) {
		t.Fatalf("ordered product delete want conflict got %v", err)
	}
	if _, err := svc.GetAdmin(p.ID); err != nil {
		t.Fatalf("product should survive refused delete: %v", err)
	}
}

func TestProductDeleteSeesOrderCommittedBeforeLock(t *testing.T) {
	f := setupStore(t)
	svc := newProductService(f, nil)
	p := f.product(t, "Vase", "25.00", 4)
	u := f.user(t, "Buyer", "vase@example.com")
	order := &models.Order{
		OrderNo:         "SO-VASE-1",
		UserID:          u.ID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.MustMoney("25.00"),
		PaymentMethod:   "pix",
		DeliveryAddress: "Rua A, 123",
	}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 在商品行加锁之后写入引用该商品的订单项，模拟并发结账先一步提交
	injected := false
	err := f.db.Callback().Query().After("gorm:query").Register("test:order_item_after_lock", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "products" {
			return
		}
		if _, locked := tx.Statement.Clauses["FOR"]; !locked {
			return
		}
		injected = true
		item := &models.OrderItem{
			OrderID:     order.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.PriceAmount,
			Quantity:    1,
			TotalPrice:  p.PriceAmount,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(item).Error; err != nil {
			t.Errorf("insert order item failed: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
	t.Cleanup(func() {
		_ = f.db.Callback().Query().Remove("test:order_item_after_lock")
	})

	if err := svc.Delete(p.ID); !errors.Is(err, ErrProductInUse) {
		t.Fatalf("delete want product in use got %v", err)
	}
	if !injected {
		t.Fatalf("delete should lock the product row")
	}
	if _, err := svc.GetAdmin(p.ID); err != nil {
		t.Fatalf("product should survive refused delete: %v", err)
	}
	if err := svc.Delete(9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("delete missing want not found got %v", err)
	}
}

func TestProductPublicListing(t *testing.T) {
	f := setupStore(t)
	svc := newProductService(f, nil)
	f.product(t, "Zebra Mug", "20.00", 1)
	f.product(t, "Apple Mug", "20.00", 2)
	f.product(t, "Sold Out Mug", "20.00", 0)

	products, total, err := svc.ListPublic("mug", "", 1, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || products[0].Name != "Apple Mug" {
		t.Fatalf("public list want 2 in-stock mugs sorted by name, got total=%d first=%v", total, products)
	}
	all, adminTotal, err := svc.ListAdmin("", "", 1, 0)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if adminTotal != 3 || len(all) != 3 {
		t.Fatalf("admin list should include sold out products, got %d", adminTotal)
	}
	latest, err := svc.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("latest want 2 got %d", len(latest))
	}
}
