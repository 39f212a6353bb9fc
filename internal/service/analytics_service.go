package service

import (
	"math"
	"sort"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// AnalyticsService 负责作者维度的日期区间聚合统计。
type AnalyticsService struct {
	db *gorm.DB
}

// MonthlyBucket 汇总单个自然月的文章与点赞数，键格式为 YYYY-MM。
type MonthlyBucket struct {
	Month string `json:"month"`
	Posts int64  `json:"posts"`
	Likes int64  `json:"likes"`
}

// TopPost 描述点赞数排名中的一篇已发布文章。
type TopPost struct {
	PostID         uint    `json:"postId"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Category       string  `json:"category"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Views          int64   `json:"views"`
	EngagementRate float64 `json:"engagementRate"`
}

// AnalyticsReport 是一次分析查询的完整结果。
type AnalyticsReport struct {
	PublishedPosts int64           `json:"publishedPosts"`
	Likes          int64           `json:"likes"`
	Views          int64           `json:"views"`
	EngagementRate float64         `json:"engagementRate"`
	Monthly        []MonthlyBucket `json:"monthly"`
	TopPosts       []TopPost       `json:"topPosts"`
}

// NewAnalyticsService creates an AnalyticsService instance.
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// ForUser 统计作者在日期区间内的发布与互动数据。
// 浏览量尚未接入采集，始终为 0，互动率按约定在 views 为 0 时取 0。
func (s *AnalyticsService) ForUser(userID uint, start, end time.Time) (*AnalyticsReport, error) {
	report := &AnalyticsReport{
		Monthly:  []MonthlyBucket{},
		TopPosts: []TopPost{},
	}

	if err := s.db.Model(&db.Post{}).
		Where("user_id = ? AND status = ?", userID, db.StatusPublished).
		Where("published_at >= ? AND published_at <= ?", start, end).
		Count(&report.PublishedPosts).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Reaction{}).
		Joins("JOIN posts ON posts.id = reactions.post_id").
		Where("posts.user_id = ? AND reactions.type = ?", userID, db.ReactionLike).
		Where("reactions.created_at >= ? AND reactions.created_at <= ?", start, end).
		Count(&report.Likes).Error; err != nil {
		return nil, err
	}

	// 浏览量采集未实现，保持显式的零值占位
	report.Views = 0
	report.EngagementRate = engagementRate(report.Likes, report.Views)

	monthly, err := s.monthlyBuckets(userID, start, end)
	if err != nil {
		return nil, err
	}
	report.Monthly = monthly

	topPosts, err := s.topPosts(userID, 10)
	if err != nil {
		return nil, err
	}
	report.TopPosts = topPosts

	return report, nil
}

func (s *AnalyticsService) monthlyBuckets(userID uint, start, end time.Time) ([]MonthlyBucket, error) {
	type monthCount struct {
		Month string
		Count int64
	}

	var postRows []monthCount
	if err := s.db.Model(&db.Post{}).
		Select("strftime('%Y-%m', published_at) AS month, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", userID, db.StatusPublished).
		Where("published_at >= ? AND published_at <= ?", start, end).
		Group("month").
		Scan(&postRows).Error; err != nil {
		return nil, err
	}

	var likeRows []monthCount
	if err := s.db.Model(&db.Reaction{}).
		Select("strftime('%Y-%m', reactions.created_at) AS month, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = reactions.post_id").
		Where("posts.user_id = ? AND reactions.type = ?", userID, db.ReactionLike).
		Where("reactions.created_at >= ? AND reactions.created_at <= ?", start, end).
		Group("month").
		Scan(&likeRows).Error; err != nil {
		return nil, err
	}

	merged := make(map[string]*MonthlyBucket)
	for _, row := range postRows {
		merged[row.Month] = &MonthlyBucket{Month: row.Month, Posts: row.Count}
	}
	for _, row := range likeRows {
		bucket, ok := merged[row.Month]
		if !ok {
			bucket = &MonthlyBucket{Month: row.Month}
			merged[row.Month] = bucket
		}
		bucket.Likes = row.Count
	}

	// 按月份顺序输出
	months := make([]string, 0, len(merged))
	for month := range merged {
		months = append(months, month)
	}
	sort.Strings(months)

	buckets := make([]MonthlyBucket, 0, len(months))
	for _, month := range months {
		buckets = append(buckets, *merged[month])
	}
	return buckets, nil
}

func (s *AnalyticsService) topPosts(userID uint, limit int) ([]TopPost, error) {
	var rows []struct {
		PostID   uint
		Title    string
		Slug     string
		Category string
		Likes    int64
		Comments int64
	}

	likeCount := s.db.Model(&db.Reaction{}).
		Select("COUNT(*)").
		Where("reactions.post_id = posts.id AND reactions.type = ?", db.ReactionLike)
	commentCount := s.db.Model(&db.Comment{}).
		Select("COUNT(*)").
		Where("comments.post_id = posts.id AND comments.status = ?", db.CommentVisible)
	categoryName := s.db.Table("categories").
		Select("categories.name").
		Joins("JOIN post_categories ON post_categories.category_id = categories.id").
		Where("post_categories.post_id = posts.id").
		Limit(1)

	if err := s.db.Model(&db.Post{}).
		Select("posts.id AS post_id, posts.title, posts.slug, (?) AS likes, (?) AS comments, (?) AS category",
			likeCount, commentCount, categoryName).
		Where("posts.user_id = ? AND posts.status = ?", userID, db.StatusPublished).
		Order("likes desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]TopPost, 0, len(rows))
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "Uncategorized"
		}
		posts = append(posts, TopPost{
			PostID:         row.PostID,
			Title:          row.Title,
			Slug:           row.Slug,
			Category:       category,
			Likes:          row.Likes,
			Comments:       row.Comments,
			Views:          0,
			EngagementRate: engagementRate(row.Likes, 0),
		})
	}
	return posts, nil
}

// engagementRate 计算 likes/views*100，保留两位小数；views 为 0 时恒为 0。
func engagementRate(likes, views int64) float64 {
	if views <= 0 {
		return 0
	}
	rate := float64(likes) / float64(views) * 100
	return math.Round(rate*100) / 100
}
