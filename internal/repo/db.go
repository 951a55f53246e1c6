package repo

import (
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает подключение к Postgres и прогоняет миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate создаёт/обновляет схемы всех моделей приложения.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Permission{},
		&model.Folder{},
		&model.File{},
		&model.ShareLink{},
		&model.AccessGrant{},
		&model.ActivityLog{},
		&model.Notification{},
	)
}
