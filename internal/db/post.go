package db

import (
	"time"

	"gorm.io/gorm"
)

// Status 是文章工作流状态的封闭枚举。
type Status string

// 工作流状态
const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusScheduled   Status = "scheduled"
	StatusPublished   Status = "published"
	StatusRejected    Status = "rejected"
	StatusArchived    Status = "archived"
)

// Valid 判断给定状态是否属于枚举。
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved,
		StatusScheduled, StatusPublished, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Post 定义了文章模型。状态流转的时间戳各自独立，
// 软删除由 gorm.Model 的 DeletedAt 承担。
type Post struct {
	gorm.Model
	Title           string `gorm:"size:200;not null"`
	Slug            string `gorm:"size:220;uniqueIndex"`
	Content         string `gorm:"type:text"`
	Excerpt         string `gorm:"size:500"`
	CoverMediaID    *uint
	CoverMedia      *MediaAsset
	SEOTitle        string `gorm:"size:200"`
	SEODescription  string `gorm:"size:300"`
	Status          Status `gorm:"size:20;not null;default:draft;index"`
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	PublishedAt     *time.Time
	ScheduledAt     *time.Time
	RejectionReason string `gorm:"size:500"`
	WordCount       int
	ReadingTime     int
	UserID          uint `gorm:"index"`
	User            User
	Categories      []Category     `gorm:"many2many:post_categories;"`
	Tags            []Tag          `gorm:"many2many:post_tags;"`
	Collaborators   []Collaborator `gorm:"constraint:OnDelete:CASCADE"`
	Revisions       []PostRevision `gorm:"constraint:OnDelete:CASCADE"`
}

// PostRevision 保存文章每次内容保存前的快照，供回溯查看。
type PostRevision struct {
	gorm.Model
	PostID   uint `gorm:"index"`
	EditorID uint
	Title    string `gorm:"size:200"`
	Content  string `gorm:"type:text"`
	Version  int
}

// TableName 指定自定义表名。
func (PostRevision) TableName() string {
	return "post_revisions"
}
