package db

import "time"

// 表态类型，七种固定枚举
const (
	ReactionLike       = "like"
	ReactionLove       = "love"
	ReactionClap       = "clap"
	ReactionInsightful = "insightful"
	ReactionLaugh      = "laugh"
	ReactionSad        = "sad"
	ReactionAngry      = "angry"
)

// ReactionTypes 按固定顺序列出全部表态类型。
var ReactionTypes = []string{
	ReactionLike, ReactionLove, ReactionClap,
	ReactionInsightful, ReactionLaugh, ReactionSad, ReactionAngry,
}

// ValidReactionType 判断类型是否属于枚举。
func ValidReactionType(t string) bool {
	for _, known := range ReactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Reaction 定义了表态记录，(post,user,type) 唯一，取消即硬删除。
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_post_user_type"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_post_user_type"`
	Type      string `gorm:"size:20;not null;uniqueIndex:idx_post_user_type"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (Reaction) TableName() string {
	return "reactions"
}
