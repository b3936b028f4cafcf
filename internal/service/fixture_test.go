package service

import (
	"fmt"
	"testing"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type storeFixture struct {
	db        *gorm.DB
	products  *repository.GormProductRepository
	carts     *repository.GormCartRepository
	orders    *repository.GormOrderRepository
	users     *repository.GormUserRepository
	inventory *InventoryService
	cart      *CartService
	order     *OrderService
}

// setupStore 初始化内存数据库并替换全局 DB，测试结束后恢复
func setupStore(t *testing.T) *storeFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
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
		t.Fatalf("migrate failed: %v", err)
	}

	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})

	f := &storeFixture{
		db:       db,
		products: repository.NewProductRepository(db),
		carts:    repository.NewCartRepository(db),
		orders:   repository.NewOrderRepository(db),
		users:    repository.NewUserRepository(db),
	}
	f.inventory = NewInventoryService(f.products, nil, 5)
	f.cart = NewCartService(f.carts, f.products, 0)
	f.order = NewOrderService(f.orders, f.carts, f.inventory, nil, 10)
	return f
}

func (f *storeFixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, PriceAmount: models.MustMoney(price), Stock: stock}
	if err := f.db.Create(p).Error; err != nil {
		t.Fatalf("create product %s failed: %v", name, err)
	}
	return p
}

func (f *storeFixture) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, PasswordHash: "x"}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user %s failed: %v", email, err)
	}
	return u
}

func (f *storeFixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	product, err := f.products.GetByID(productID)
	if err != nil || product == nil {
		t.Fatalf("read stock of %d failed: product=%v err=%v", productID, product, err)
	}
	return product.Stock
}
