package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := config.AppConfig{
		UploadDir:         t.TempDir(),
		UploadURLPath:     "/static/uploads",
		SessionSecret:     "test-secret",
		IdentityJWTSecret: "identity-test-secret",
		AdminEmails:       []string{"boss@example.com"},
	}
	return NewAPI(gdb, cfg)
}

func jsonContext(t *testing.T, method, path string, payload interface{}, user *db.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(currentUserKey, user)
	}
	return c, w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func seedUser(t *testing.T, gdb *gorm.DB, name, role string) *db.User {
	t.Helper()
	user := db.User{Name: name, Email: name + "@example.com", Role: role}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedPost(t *testing.T, gdb *gorm.DB, authorID uint, status db.Status) *db.Post {
	t.Helper()
	post := db.Post{
		Title:   "测试文章",
		Slug:    fmt.Sprintf("handler-post-%d", time.Now().UnixNano()),
		Content: "# 测试文章\n内容",
		Status:  status,
		UserID:  authorID,
	}
	if status == db.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return decoded
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("expected status %d, got %d (%s)", expected, w.Code, w.Body.String())
	}
}
