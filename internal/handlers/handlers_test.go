package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/config"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/mail"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/middleware"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// testServer — полный HTTP-стек поверх in-memory SQLite и in-memory
// объектного хранилища.
type testServer struct {
	router chi.Router
	cfg    *config.Config
	perms  *service.PermissionService
	store  *storage.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:h-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	sugar := zap.NewNop().Sugar()
	middleware.SetLogger(sugar)
	store := storage.NewMemoryStore()
	cfg := &config.Config{
		AuthSecret:            "test-secret",
		DefaultStorageLimitMB: 1,
		DefaultMaxFileSizeMB:  1,
	}

	userRepo := repo.NewUserRepository(db)
	permRepo := repo.NewPermissionRepository(db)
	folderRepo := repo.NewFolderRepository(db)
	fileRepo := repo.NewFileRepository(db)
	shareRepo := repo.NewShareRepository(db)
	activityRepo := repo.NewActivityRepository(db)
	notifRepo := repo.NewNotificationRepository(db)

	activity := service.NewActivityService(activityRepo, sugar)
	userService := service.NewUserService(userRepo)
	permService := service.NewPermissionService(permRepo, cfg.DefaultStorageLimit(), cfg.DefaultMaxFileSize())
	folderService := service.NewFolderService(folderRepo, fileRepo, activity)
	fileService := service.NewFileService(fileRepo, folderRepo, shareRepo, permService, store, activity, sugar)
	shareService := service.NewShareService(shareRepo, fileRepo, folderRepo, userRepo, notifRepo, mail.NopMailer{}, store, activity, sugar)
	notificationService := service.NewNotificationService(notifRepo)
	statsService := service.NewStatsService(fileRepo, folderRepo, shareRepo, permService)

	h := NewHandler(userService, permService, folderService, fileService, shareService,
		activity, notificationService, statsService, sugar, cfg)

	return &testServer{router: h.Router, cfg: cfg, perms: permService, store: store}
}

// do выполняет запрос к роутеру; cookie == nil — анонимный запрос.
func (ts *testServer) do(t *testing.T, method, path string, cookie *http.Cookie, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// register создаёт пользователя через API, включает ему аплоад и
// возвращает сессионную cookie.
func (ts *testServer) register(t *testing.T, email string) (*model.User, *http.Cookie) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/register", nil,
		map[string]string{"email": email, "password": "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: status %d, body %s", w.Code, w.Body.String())
	}

	var u model.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if err := ts.perms.SetUploadEnabled(context.Background(), u.ID, true); err != nil {
		t.Fatalf("failed to enable upload: %v", err)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			return &u, c
		}
	}
	t.Fatalf("register response has no auth cookie")
	return nil, nil
}

// uploadFile грузит файл multipart-запросом и возвращает его id.
func (ts *testServer) uploadFile(t *testing.T, cookie *http.Cookie, name string, data []byte) int64 {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool       `json:"success"`
		File    model.File `json:"file"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	return resp.File.ID
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	// без сессии — 401
	w := ts.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, cookie := ts.register(t, "auth@test.io")

	w = ts.do(t, http.MethodGet, "/api/auth/me", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User       model.User       `json:"user"`
		Permission model.Permission `json:"permission"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "auth@test.io", me.User.Email)
	assert.Equal(t, model.RoleUser, me.Permission.Role)

	// повторная регистрация того же email
	w = ts.do(t, http.MethodPost, "/api/auth/register", nil,
		map[string]string{"email": "auth@test.io", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// неверный пароль
	w = ts.do(t, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": "auth@test.io", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": "auth@test.io", "password": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadAndList(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "files@test.io")

	id := ts.uploadFile(t, cookie, "report.txt", []byte("quarterly numbers"))
	assert.NotZero(t, id)
	assert.Equal(t, 1, ts.store.Len())

	w := ts.do(t, http.MethodGet, "/api/files", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Files []model.File `json:"files"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.Len(t, resp.Files, 1) {
		assert.Equal(t, "report.txt", resp.Files[0].Name)
	}

	// подписанная ссылка на скачивание
	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/files/download/%d", id), cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// анонимный листинг — 401
	w = ts.do(t, http.MethodGet, "/api/files", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadDisabledForbidden(t *testing.T) {
	ts := newTestServer(t)
	u, cookie := ts.register(t, "noupload@test.io")
	assert.NoError(t, ts.perms.SetUploadEnabled(context.Background(), u.ID, false))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "x.txt")
	_, _ = fw.Write([]byte("x"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTrashFlow(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "trash@test.io")
	id := ts.uploadFile(t, cookie, "doomed.txt", []byte("bye"))

	// в корзину
	w := ts.do(t, http.MethodDelete, "/api/files", cookie, map[string]any{"fileId": id})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/trash", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var trash struct {
		Files []model.File `json:"files"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trash))
	assert.Len(t, trash.Files, 1)

	// восстановление
	w = ts.do(t, http.MethodPost, "/api/trash", cookie, map[string]any{"fileId": id})
	assert.Equal(t, http.StatusOK, w.Code)

	// снова в корзину и окончательно
	ts.do(t, http.MethodDelete, "/api/files", cookie, map[string]any{"fileId": id})
	w = ts.do(t, http.MethodDelete, "/api/trash", cookie, map[string]any{"emptyTrash": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, ts.store.Len())
}

func TestFolderEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "folders@test.io")

	w := ts.do(t, http.MethodPost, "/api/folders", cookie, map[string]any{"name": "docs"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var folder model.Folder
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &folder))

	// перенос папки в саму себя — 400
	w = ts.do(t, http.MethodPut, "/api/folders", cookie,
		map[string]any{"folderId": folder.ID, "parentId": folder.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/folders", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/folders", cookie, map[string]any{"folderId": folder.ID})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShareResolvePublic(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "share@test.io")
	id := ts.uploadFile(t, cookie, "shared.txt", []byte("shared"))

	// неизвестный токен — 404, сессия не нужна
	w := ts.do(t, http.MethodGet, "/api/share/nosuchtoken", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/share", cookie, map[string]any{
		"targetType": model.TargetFile, "targetId": id,
		"password": "pw", "allowDownload": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var link model.ShareLink
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))

	// под паролем: без пароля 401, с верным — 200
	w = ts.do(t, http.MethodGet, "/api/share/"+link.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.do(t, http.MethodGet, "/api/share/"+link.Token+"?password=pw", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// отзыв создателем
	w = ts.do(t, http.MethodDelete, "/api/share", cookie, map[string]any{"token": link.Token})
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodGet, "/api/share/"+link.Token+"?password=pw", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInternalShareFlow(t *testing.T) {
	ts := newTestServer(t)
	_, ownerCookie := ts.register(t, "iowner@test.io")
	grantee, granteeCookie := ts.register(t, "igrantee@test.io")
	id := ts.uploadFile(t, ownerCookie, "team.txt", []byte("team"))

	w := ts.do(t, http.MethodPost, "/api/share/internal", ownerCookie, map[string]any{
		"targetType": model.TargetFile, "targetId": id,
		"email": grantee.Email, "permission": model.AccessView,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// получатель видит объект и уведомление
	w = ts.do(t, http.MethodGet, "/api/shared", granteeCookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var shared struct {
		Items []service.SharedItem `json:"items"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	assert.Len(t, shared.Items, 1)

	w = ts.do(t, http.MethodGet, "/api/notifications/count", granteeCookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)

	// отзыв права
	w = ts.do(t, http.MethodDelete, "/api/share/internal", ownerCookie, map[string]any{
		"targetType": model.TargetFile, "targetId": id, "userId": grantee.ID,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "stats@test.io")
	ts.uploadFile(t, cookie, "a.txt", []byte("12345"))

	w := ts.do(t, http.MethodGet, "/api/stats", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var stats service.Stats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Files)
	assert.Equal(t, int64(5), stats.StorageUsed)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)
	user, userCookie := ts.register(t, "plain@test.io")
	admin, adminCookie := ts.register(t, "admin@test.io")
	assert.NoError(t, ts.perms.SetRole(context.Background(), admin.ID, model.RoleAdmin))

	// обычному пользователю — 403
	w := ts.do(t, http.MethodGet, "/api/admin/users", userCookie, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/admin/users", adminCookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// админ меняет квоту и роль
	w = ts.do(t, http.MethodPatch, "/api/admin/users", adminCookie, map[string]any{
		"userId": user.ID, "storageLimit": 2048, "role": model.RoleAdmin,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	p, err := ts.perms.GetOrCreate(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2048), p.StorageLimit)
	assert.Equal(t, model.RoleAdmin, p.Role)
}

func TestActivityLogged(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.register(t, "activity@test.io")
	ts.uploadFile(t, cookie, "tracked.txt", []byte("x"))

	w := ts.do(t, http.MethodGet, "/api/activity", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Activity []model.ActivityLog `json:"activity"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.NotEmpty(t, resp.Activity) {
		assert.Equal(t, "file.upload", resp.Activity[0].Action)
	}
}
