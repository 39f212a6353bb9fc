package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, name, role string) db.User {
	t.Helper()
	user := db.User{Name: name, Email: name + "@example.com", Role: role}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func createTestPost(t *testing.T, gdb *gorm.DB, authorID uint, status db.Status) db.Post {
	t.Helper()
	post := db.Post{
		Title:   "测试文章",
		Slug:    fmt.Sprintf("test-post-%d", time.Now().UnixNano()),
		Content: "# 测试文章\n正文内容",
		Status:  status,
		UserID:  authorID,
	}
	if status == db.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
