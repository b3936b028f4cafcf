package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/storefront-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		PriceAmount: models.MustMoney(price),
		Stock:       stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func readStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var stock int
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Select("stock").Scan(&stock).Error; err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	return stock
}

func TestStockReserveReleaseRoundTrip(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Keyboard", "120.00", 10)

	stock, ok, err := repo.ReserveStock(product.ID, 4)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if !ok || stock != 6 {
		t.Fatalf("reserve want ok stock=6 got ok=%v stock=%d", ok, stock)
	}
	if stored := readStock(t, db, product.ID); stored != stock {
		t.Fatalf("returned stock %d should match stored stock %d", stock, stored)
	}

	stock, ok, err = repo.ReleaseStock(product.ID, 4)
	if err != nil || !ok {
		t.Fatalf("release stock failed: ok=%v err=%v", ok, err)
	}
	if stock != 10 {
		t.Fatalf("stock after round trip want 10 got %d", stock)
	}
	if _, ok, err := repo.ReleaseStock(9999, 1); err != nil || ok {
		t.Fatalf("release missing product want ok=false got ok=%v err=%v", ok, err)
	}
}

func TestStockReserveRejectsOverdraw(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Mouse", "40.00", 2)

	_, ok, err := repo.ReserveStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if ok {
		t.Fatalf("overdraw must not succeed")
	}
	stock := readStock(t, db, product.ID)
	if stock != 2 {
		t.Fatalf("stock must stay 2 got %d", stock)
	}

	if _, _, err := repo.ReserveStock(product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
}

func TestStockConcurrentReserveNeverNegative(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Monitor", "900.00", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.ReserveStock(product.ID, 1)
			if err != nil {
				t.Errorf("reserve failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("exactly 5 reservations should succeed, got %d", succeeded)
	}
	stock := readStock(t, db, product.ID)
	if stock != 0 {
		t.Fatalf("stock want 0 got %d", stock)
	}
}

func TestProductListFiltersAndCategories(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)

	p1 := createTestProduct(t, db, "Mechanical Keyboard", "300.00", 3)
	p2 := createTestProduct(t, db, "Wireless Mouse", "80.00", 0)
	p3 := createTestProduct(t, db, "Keycap Set", "60.00", 7)
	db.Model(p1).Update("category", "peripherals")
	db.Model(p2).Update("category", "peripherals")
	db.Model(p3).Update("category", "accessories")

	rows, total, err := repo.List(ProductListFilter{Keyword: "key", OnlyInStock: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("keyword search want 2 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Name != "Keycap Set" {
		t.Fatalf("list should be sorted by name, first=%s", rows[0].Name)
	}

	rows, total, err = repo.List(ProductListFilter{Category: "peripherals", OnlyInStock: true})
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if total != 1 || rows[0].ID != p1.ID {
		t.Fatalf("category filter must drop out-of-stock items, total=%d", total)
	}

	categories, err := repo.ListCategories()
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "accessories" {
		t.Fatalf("unexpected categories: %v", categories)
	}
}

func TestReplaceImagesReturnsRemovedPaths(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := &models.Product{
		Name:        "Headset",
		PriceAmount: models.MustMoney("150.00"),
		Stock:       1,
		Images: []models.ProductImage{
			{Path: "product/a.png", IsPrimary: true},
			{Path: "product/b.png"},
		},
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	removed, err := repo.ReplaceImages(product.ID, []models.ProductImage{
		{Path: "product/b.png", IsPrimary: true},
		{Path: "product/c.png", SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("replace images failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != "product/a.png" {
		t.Fatalf("removed want [product/a.png] got %v", removed)
	}

	loaded, err := repo.GetByID(product.ID)
	if err != nil || loaded == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if loaded.PrimaryImage() != "product/b.png" {
		t.Fatalf("primary image want product/b.png got %s", loaded.PrimaryImage())
	}

	paths, err := repo.Delete(product.ID)
	if err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("delete should return 2 image paths, got %v", paths)
	}
	if gone, _ := repo.GetByID(product.ID); gone != nil {
		t.Fatalf("product should be deleted")
	}
}

func TestLockByIDReportsExistence(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Desk", "500.00", 1)

	err := repo.Transaction(func(tx *gorm.DB) error {
		found, err := repo.WithTx(tx).LockByID(product.ID)
		if err != nil {
			return err
		}
		if !found {
			t.Fatalf("existing product should be found")
		}
		missing, err := repo.WithTx(tx).LockByID(9999)
		if err != nil {
			return err
		}
		if missing {
			t.Fatalf("missing product should not be found")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("lock transaction failed: %v", err)
	}
}
