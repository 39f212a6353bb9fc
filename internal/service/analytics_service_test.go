package service

import (
	"testing"
	"time"

	"github.com/inkwell/internal/db"
)

func TestEngagementRate(t *testing.T) {
	cases := []struct {
		likes    int64
		views    int64
		expected float64
	}{
		{0, 0, 0},
		{100, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
	}

	for _, tc := range cases {
		if got := engagementRate(tc.likes, tc.views); got != tc.expected {
			t.Fatalf("engagementRate(%d, %d) = %v, expected %v", tc.likes, tc.views, got, tc.expected)
		}
	}
}

func TestAnalyticsForUser(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAnalyticsService(gdb)

	author := createTestUser(t, gdb, "analytics-author", db.RoleUser)
	reader := createTestUser(t, gdb, "analytics-reader", db.RoleUser)

	january := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	february := time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC)

	postJan := db.Post{
		Title: "一月文章", Slug: "jan-post", Status: db.StatusPublished,
		UserID: author.ID, PublishedAt: &january,
	}
	postFeb := db.Post{
		Title: "二月文章", Slug: "feb-post", Status: db.StatusPublished,
		UserID: author.ID, PublishedAt: &february,
	}
	if err := gdb.Create(&postJan).Error; err != nil {
		t.Fatalf("create january post: %v", err)
	}
	if err := gdb.Create(&postFeb).Error; err != nil {
		t.Fatalf("create february post: %v", err)
	}

	reactions := []db.Reaction{
		{PostID: postJan.ID, UserID: reader.ID, Type: db.ReactionLike, CreatedAt: january},
		{PostID: postJan.ID, UserID: author.ID, Type: db.ReactionLike, CreatedAt: january},
		{PostID: postFeb.ID, UserID: reader.ID, Type: db.ReactionLike, CreatedAt: february},
		// love 不计入点赞统计
		{PostID: postFeb.ID, UserID: reader.ID, Type: db.ReactionLove, CreatedAt: february},
	}
	for i := range reactions {
		if err := gdb.Create(&reactions[i]).Error; err != nil {
			t.Fatalf("create reaction: %v", err)
		}
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.ForUser(author.ID, start, end)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if report.PublishedPosts != 2 {
		t.Fatalf("expected 2 published posts, got %d", report.PublishedPosts)
	}
	if report.Likes != 3 {
		t.Fatalf("expected 3 likes, got %d", report.Likes)
	}
	if report.Views != 0 {
		t.Fatalf("views must stay zero, got %d", report.Views)
	}
	if report.EngagementRate != 0 {
		t.Fatalf("engagement must be zero when views are zero, got %v", report.EngagementRate)
	}

	if len(report.Monthly) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %d", len(report.Monthly))
	}
	if report.Monthly[0].Month != "2025-01" || report.Monthly[0].Posts != 1 || report.Monthly[0].Likes != 2 {
		t.Fatalf("unexpected january bucket %+v", report.Monthly[0])
	}
	if report.Monthly[1].Month != "2025-02" || report.Monthly[1].Posts != 1 || report.Monthly[1].Likes != 1 {
		t.Fatalf("unexpected february bucket %+v", report.Monthly[1])
	}
}

func TestAnalyticsTopPosts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAnalyticsService(gdb)

	author := createTestUser(t, gdb, "top-author", db.RoleUser)
	reader := createTestUser(t, gdb, "top-reader", db.RoleUser)

	now := time.Now()
	category := db.Category{Name: "技术"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	popular := db.Post{Title: "热门", Slug: "top-popular", Status: db.StatusPublished, UserID: author.ID, PublishedAt: &now}
	quiet := db.Post{Title: "冷门", Slug: "top-quiet", Status: db.StatusPublished, UserID: author.ID, PublishedAt: &now}
	if err := gdb.Create(&popular).Error; err != nil {
		t.Fatalf("create popular: %v", err)
	}
	if err := gdb.Create(&quiet).Error; err != nil {
		t.Fatalf("create quiet: %v", err)
	}
	if err := gdb.Model(&popular).Association("Categories").Append(&category); err != nil {
		t.Fatalf("associate category: %v", err)
	}

	likes := []db.Reaction{
		{PostID: popular.ID, UserID: author.ID, Type: db.ReactionLike, CreatedAt: now},
		{PostID: popular.ID, UserID: reader.ID, Type: db.ReactionLike, CreatedAt: now},
		{PostID: quiet.ID, UserID: reader.ID, Type: db.ReactionLike, CreatedAt: now},
	}
	for i := range likes {
		if err := gdb.Create(&likes[i]).Error; err != nil {
			t.Fatalf("create like: %v", err)
		}
	}

	comment := db.Comment{PostID: popular.ID, UserID: reader.ID, Content: "不错", Status: db.CommentVisible}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	report, err := svc.ForUser(author.ID, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if len(report.TopPosts) != 2 {
		t.Fatalf("expected 2 top posts, got %d", len(report.TopPosts))
	}

	top := report.TopPosts[0]
	if top.PostID != popular.ID {
		t.Fatalf("expected post %d first, got %d", popular.ID, top.PostID)
	}
	if top.Likes != 2 {
		t.Fatalf("expected 2 likes, got %d", top.Likes)
	}
	if top.Comments != 1 {
		t.Fatalf("expected 1 comment, got %d", top.Comments)
	}
	if top.Category != "技术" {
		t.Fatalf("expected category 技术, got %q", top.Category)
	}
	if top.Views != 0 || top.EngagementRate != 0 {
		t.Fatalf("views/engagement must stay zero, got %d/%v", top.Views, top.EngagementRate)
	}

	if report.TopPosts[1].Category != "Uncategorized" {
		t.Fatalf("expected Uncategorized fallback, got %q", report.TopPosts[1].Category)
	}
}
