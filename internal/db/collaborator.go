package db

import (
	"time"

	"gorm.io/gorm"
)

// 协作者角色
const (
	CollaboratorContributor = "contributor"
	CollaboratorReviewer    = "reviewer"
	CollaboratorCoAuthor    = "co_author"
)

// Collaborator 是文章与用户之间的协作关系，记录能力开关与邀请状态。
// AcceptedAt 为空表示邀请待接受。
type Collaborator struct {
	gorm.Model
	PostID     uint `gorm:"index;uniqueIndex:idx_post_collaborator"`
	UserID     uint `gorm:"index;uniqueIndex:idx_post_collaborator"`
	User       User
	Role       string `gorm:"size:20;not null;default:contributor"`
	CanEdit    bool
	CanSubmit  bool
	CanComment bool `gorm:"default:true"`
	InvitedAt  time.Time
	AcceptedAt *time.Time
}

// TableName 指定自定义表名。
func (Collaborator) TableName() string {
	return "collaborators"
}
