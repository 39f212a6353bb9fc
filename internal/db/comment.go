package db

import "gorm.io/gorm"

// 评论可见性状态
const (
	CommentVisible = "visible"
	CommentHidden  = "hidden"
	CommentFlagged = "flagged"
	CommentDeleted = "deleted"
)

// CommentMaxLength 限制评论正文长度。
const CommentMaxLength = 1000

// Comment 定义了评论模型。软删除通过 Status 翻转实现，正文保留。
type Comment struct {
	gorm.Model
	PostID  uint `gorm:"index"`
	UserID  uint `gorm:"index"`
	User    User
	Content string `gorm:"size:1000;not null"`
	Status  string `gorm:"size:20;not null;default:visible;index"`
}
