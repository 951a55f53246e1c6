package repo

import (
	"fmt"
	"testing"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для
// тестов репозитория. Имя базы уникально на тест, чтобы тесты не
// видели данные друг друга.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей приложения
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// newTestUser создаёт пользователя для тестов репозиториев.
func newTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: email, Password: "hash"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
