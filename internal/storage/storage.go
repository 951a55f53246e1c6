// Package storage прячет объектное хранилище файлов за узким
// интерфейсом: приложение знает только про ключи, байты и
// подписанные ссылки на скачивание.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound — объект с таким ключом отсутствует в хранилище.
var ErrNotFound = errors.New("storage: object not found")

// ObjectStore — контракт внешнего хранилища содержимого файлов.
type ObjectStore interface {
	// Put сохраняет body под ключом key, перезаписывая существующий объект.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete удаляет объект. Удаление отсутствующего ключа — не ошибка.
	Delete(ctx context.Context, key string) error

	// PresignGet возвращает подписанную ссылку на скачивание,
	// действительную в течение expires.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
