//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/storefront-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("STOREFRONT_TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: STOREFRONT_TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := models.AllModels()
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := db.AutoMigrate(cleanupModels...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresConcurrentReserveUsesRowLock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "PG Keyboard", "100.00", 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				_, ok, err := repo.WithTx(tx).ReserveStock(product.ID, 1)
				if err != nil {
					return err
				}
				if ok {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
				return nil
			})
			if err != nil {
				t.Errorf("reserve tx failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 3 {
		t.Fatalf("exactly 3 reservations should succeed, got %d", succeeded)
	}
	if stock := readStock(t, db, product.ID); stock != 0 {
		t.Fatalf("stock want 0 got %d", stock)
	}
}

func TestPostgresKeywordSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "Gaming MOUSE", "80.00", 2)

	rows, total, err := repo.List(ProductListFilter{Keyword: "mouse", OnlyInStock: true})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("ILIKE search want 1 got total=%d len=%d", total, len(rows))
	}
}
