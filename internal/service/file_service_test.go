package service

import (
	"context"
	"strings"
	"testing"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFileService_UploadHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "up@test.io")

	data := []byte("hello world")
	f, err := env.files.Upload(ctx, u.ID, nil, "hello.txt", "text/plain", data)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.False(t, f.IsDeleted)

	// байты лежат в хранилище под ключом записи
	stored, ok := env.store.Get(f.StorageKey)
	assert.True(t, ok)
	assert.Equal(t, data, stored)

	// занятое место выросло ровно на размер файла
	p, err := env.perms.GetOrCreate(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(data)), p.StorageUsed)
}

func TestFileService_UploadRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// аплоад не включён администратором
	noUpload, err := env.users.Register(ctx, "disabled@test.io", "", "secret")
	assert.NoError(t, err)
	_, err = env.files.Upload(ctx, noUpload.ID, nil, "a.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)

	u := env.newUser(t, "rej@test.io")

	// пустое имя
	_, err = env.files.Upload(ctx, u.ID, nil, "  ", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrValidation)

	// файл больше per-file лимита
	_, err = env.files.Upload(ctx, u.ID, nil, "big.bin", "application/octet-stream",
		make([]byte, testMaxFileSize+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// квота: 10 файлов по 100 байт занимают всю тысячу
	for i := 0; i < 10; i++ {
		_, err = env.files.Upload(ctx, u.ID, nil, "part.bin", "application/octet-stream",
			make([]byte, testMaxFileSize))
		assert.NoError(t, err)
	}
	_, err = env.files.Upload(ctx, u.ID, nil, "overflow.bin", "application/octet-stream", []byte("x"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// отклонённые аплоады не оставляют блобов-сирот
	assert.Equal(t, 10, env.store.Len())
}

func TestFileService_StorageKeySanitized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "key@test.io")

	f, err := env.files.Upload(ctx, u.ID, nil, "от чёта/2026 (final).pdf", "application/pdf", []byte("pdf"))
	assert.NoError(t, err)

	// в ключе нет ничего за пределами [A-Za-z0-9._-] после префикса владельца
	assert.True(t, strings.HasPrefix(f.StorageKey, "u"))
	rest := f.StorageKey[strings.Index(f.StorageKey, "/")+1:]
	assert.NotContains(t, rest, "/")
	assert.NotContains(t, rest, " ")
	assert.NotContains(t, rest, "(")
}

func TestFileService_TrashLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "trash@test.io")

	f, err := env.files.Upload(ctx, u.ID, nil, "doc.txt", "text/plain", []byte("doc"))
	assert.NoError(t, err)

	// окончательное удаление активного файла запрещено
	assert.ErrorIs(t, env.files.PermanentlyDelete(ctx, f.ID, u.ID), ErrNotFound)

	assert.NoError(t, env.files.SoftDelete(ctx, f.ID, u.ID))

	// файл исчез из листинга, появился в корзине; квота не освобождена
	active, err := env.files.List(ctx, u.ID, nil, false)
	assert.NoError(t, err)
	assert.Empty(t, active)
	trashed, err := env.files.ListTrash(ctx, u.ID)
	assert.NoError(t, err)
	assert.Len(t, trashed, 1)
	p, _ := env.perms.GetOrCreate(ctx, u.ID)
	assert.Equal(t, int64(3), p.StorageUsed)

	// операции над файлом в корзине недоступны
	_, err = env.files.Rename(ctx, f.ID, u.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.files.SoftDelete(ctx, f.ID, u.ID), ErrNotFound)
	_, err = env.files.DownloadURL(ctx, f.ID, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// восстановление возвращает файл в листинг
	assert.NoError(t, env.files.Restore(ctx, f.ID, u.ID))
	active, err = env.files.List(ctx, u.ID, nil, false)
	assert.NoError(t, err)
	assert.Len(t, active, 1)

	// повторное восстановление — файл уже не в корзине
	assert.ErrorIs(t, env.files.Restore(ctx, f.ID, u.ID), ErrNotFound)
}

func TestFileService_PermanentlyDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "purge@test.io")

	f, err := env.files.Upload(ctx, u.ID, nil, "doc.txt", "text/plain", []byte("12345"))
	assert.NoError(t, err)
	assert.NoError(t, env.files.SoftDelete(ctx, f.ID, u.ID))
	assert.NoError(t, env.files.PermanentlyDelete(ctx, f.ID, u.ID))

	// блоб удалён, запись удалена, квота освобождена
	_, ok := env.store.Get(f.StorageKey)
	assert.False(t, ok)
	trashed, err := env.files.ListTrash(ctx, u.ID)
	assert.NoError(t, err)
	assert.Empty(t, trashed)
	p, _ := env.perms.GetOrCreate(ctx, u.ID)
	assert.Equal(t, int64(0), p.StorageUsed)
}

func TestFileService_EmptyTrash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "empty@test.io")

	var keep *model.File
	for i, name := range []string{"a.txt", "b.txt", "c.txt"} {
		f, err := env.files.Upload(ctx, u.ID, nil, name, "text/plain", []byte("123"))
		assert.NoError(t, err)
		if i == 0 {
			keep = f
			continue // a.txt остаётся активным
		}
		assert.NoError(t, env.files.SoftDelete(ctx, f.ID, u.ID))
	}

	deleted, err := env.files.EmptyTrash(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// активный файл не тронут, квота учитывает только его
	active, err := env.files.List(ctx, u.ID, nil, false)
	assert.NoError(t, err)
	if assert.Len(t, active, 1) {
		assert.Equal(t, keep.ID, active[0].ID)
	}
	assert.Equal(t, 1, env.store.Len())
	p, _ := env.perms.GetOrCreate(ctx, u.ID)
	assert.Equal(t, int64(3), p.StorageUsed)
}

func TestFileService_DownloadAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "dl-owner@test.io")
	stranger := env.newUser(t, "dl-stranger@test.io")

	f, err := env.files.Upload(ctx, owner.ID, nil, "doc.txt", "text/plain", []byte("doc"))
	assert.NoError(t, err)

	// владелец получает ссылку, посторонний — not found
	url, err := env.files.DownloadURL(ctx, f.ID, owner.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, url)
	_, err = env.files.DownloadURL(ctx, f.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// после выдачи права файл доступен
	_, err = env.shares.GrantInternalAccess(ctx, owner.ID, model.TargetFile, f.ID, stranger.Email, model.AccessView)
	assert.NoError(t, err)
	_, err = env.files.DownloadURL(ctx, f.ID, stranger.ID)
	assert.NoError(t, err)
}

func TestFileService_MoveBetweenFolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "fmove@test.io")

	folder, err := env.folders.Create(ctx, u.ID, "docs", nil)
	assert.NoError(t, err)
	f, err := env.files.Upload(ctx, u.ID, nil, "doc.txt", "text/plain", []byte("doc"))
	assert.NoError(t, err)

	assert.NoError(t, env.files.Move(ctx, f.ID, &folder.ID, u.ID))
	inFolder, err := env.files.List(ctx, u.ID, &folder.ID, false)
	assert.NoError(t, err)
	assert.Len(t, inFolder, 1)

	// обратно в корень
	assert.NoError(t, env.files.Move(ctx, f.ID, nil, u.ID))
	root, err := env.files.List(ctx, u.ID, nil, false)
	assert.NoError(t, err)
	assert.Len(t, root, 1)

	// чужая папка-назначение неотличима от несуществующей
	other := env.newUser(t, "fmove-other@test.io")
	foreign, err := env.folders.Create(ctx, other.ID, "theirs", nil)
	assert.NoError(t, err)
	assert.ErrorIs(t, env.files.Move(ctx, f.ID, &foreign.ID, u.ID), ErrNotFound)
}

func TestFileService_UploadIntoSharedFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "shf-owner@test.io")
	editor := env.newUser(t, "shf-editor@test.io")
	viewer := env.newUser(t, "shf-viewer@test.io")

	folder, err := env.folders.Create(ctx, owner.ID, "shared", nil)
	assert.NoError(t, err)
	_, err = env.shares.GrantInternalAccess(ctx, owner.ID, model.TargetFolder, folder.ID, editor.Email, model.AccessEdit)
	assert.NoError(t, err)
	_, err = env.shares.GrantInternalAccess(ctx, owner.ID, model.TargetFolder, folder.ID, viewer.Email, model.AccessView)
	assert.NoError(t, err)

	// edit-право позволяет писать в чужую папку, view — нет
	_, err = env.files.Upload(ctx, editor.ID, &folder.ID, "from-editor.txt", "text/plain", []byte("x"))
	assert.NoError(t, err)
	_, err = env.files.Upload(ctx, viewer.ID, &folder.ID, "from-viewer.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}
