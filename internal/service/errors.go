package service

import (
	"errors"

	"gorm.io/gorm"
)

// Сентинельные ошибки сервисного слоя. Хендлеры маппят их в HTTP-статусы,
// всё остальное уходит наружу как 500 с generic-сообщением.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound намеренно покрывает и «не существует», и «не ваш
	// объект» — чтобы не раскрывать факт существования чужих данных.
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")

	// Проверки допуска аплоада, в порядке применения.
	ErrUploadsDisabled = errors.New("uploads are disabled for your account")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")

	// Публичные ссылки.
	ErrGone             = errors.New("share link has expired")
	ErrPasswordRequired = errors.New("password required")
)

// notFound переводит gorm.ErrRecordNotFound в сервисный ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
