package service

import (
	"context"
	"testing"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPermissionService_ValidateUpload(t *testing.T) {
	mb := int64(1024 * 1024)
	s := &PermissionService{}

	tests := []struct {
		name string
		perm model.Permission
		size int64
		want error
	}{
		{
			name: "uploads disabled wins over everything",
			perm: model.Permission{UploadEnabled: false, StorageLimit: 100 * mb, MaxFileSize: 50 * mb},
			size: 1,
			want: ErrUploadsDisabled,
		},
		{
			name: "file over per-file limit",
			perm: model.Permission{UploadEnabled: true, StorageLimit: 100 * mb, MaxFileSize: 50 * mb},
			size: 51 * mb,
			want: ErrFileTooLarge,
		},
		{
			// лимит 100 МБ, занято 90 МБ, файл 15 МБ: по размеру проходит,
			// по квоте — нет
			name: "quota exceeded",
			perm: model.Permission{UploadEnabled: true, StorageLimit: 100 * mb, StorageUsed: 90 * mb, MaxFileSize: 50 * mb},
			size: 15 * mb,
			want: ErrQuotaExceeded,
		},
		{
			name: "exact fit passes",
			perm: model.Permission{UploadEnabled: true, StorageLimit: 100 * mb, StorageUsed: 90 * mb, MaxFileSize: 50 * mb},
			size: 10 * mb,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ValidateUpload(&tt.perm, tt.size))
		})
	}
}

func TestPermissionService_GetOrCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Register(ctx, "defaults@test.io", "", "secret")
	assert.NoError(t, err)

	p, err := env.perms.GetOrCreate(ctx, u.ID)
	assert.NoError(t, err)

	// новый пользователь: обычная роль, аплоад выключен, дефолтные лимиты
	assert.Equal(t, model.RoleUser, p.Role)
	assert.False(t, p.UploadEnabled)
	assert.Equal(t, testStorageLimit, p.StorageLimit)
	assert.Equal(t, testMaxFileSize, p.MaxFileSize)
	assert.Equal(t, int64(0), p.StorageUsed)

	// повторный вызов возвращает ту же строку
	again, err := env.perms.GetOrCreate(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestPermissionService_SetRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "roles@test.io")

	assert.ErrorIs(t, env.perms.SetRole(ctx, u.ID, "superuser"), ErrValidation)

	assert.NoError(t, env.perms.SetRole(ctx, u.ID, model.RoleAdmin))
	isAdmin, err := env.perms.IsAdmin(ctx, u.ID)
	assert.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestPermissionService_SetLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "limits@test.io")

	assert.ErrorIs(t, env.perms.SetLimits(ctx, u.ID, -1, 0), ErrValidation)

	// нулевое значение поля означает «не менять»
	assert.NoError(t, env.perms.SetLimits(ctx, u.ID, 5000, 0))
	p, err := env.perms.GetOrCreate(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), p.StorageLimit)
	assert.Equal(t, testMaxFileSize, p.MaxFileSize)
}
