package service

import (
	"errors"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownReactionType = errors.New("unknown reaction type")
	ErrUserNotFound        = errors.New("user not found")
	ErrPostNotPublished    = errors.New("post is not published")
)

// ReactionService 负责表态的切换与计数。
type ReactionService struct {
	db *gorm.DB
}

// NewReactionService creates a ReactionService instance.
func NewReactionService(gdb *gorm.DB) *ReactionService {
	return &ReactionService{db: gdb}
}

// Toggle 切换一条 (post,user,type) 表态：不存在则插入，存在则删除。
// 插入使用唯一索引上的 ON CONFLICT DO NOTHING，避免先查后写的竞态；
// 冲突时转为删除，重复切换因此收敛为无表态。
func (s *ReactionService) Toggle(postID, userID uint, reactionType string) error {
	if !db.ValidReactionType(reactionType) {
		return ErrUnknownReactionType
	}

	var userCount int64
	if err := s.db.Model(&db.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		return ErrUserNotFound
	}

	var post db.Post
	if err := s.db.Select("id", "status").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Status != db.StatusPublished {
		return ErrPostNotPublished
	}

	reaction := db.Reaction{PostID: postID, UserID: userID, Type: reactionType}
	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}, {Name: "type"}},
		DoNothing: true,
	}).Create(&reaction)
	if insert.Error != nil {
		return insert.Error
	}

	if insert.RowsAffected == 1 {
		return nil
	}

	return s.db.
		Where("post_id = ? AND user_id = ? AND type = ?", postID, userID, reactionType).
		Delete(&db.Reaction{}).Error
}

// Counts 返回文章各表态类型的计数，未出现的类型不在结果中。
func (s *ReactionService) Counts(postID uint) (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	if err := s.db.Model(&db.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// UserTypes 返回某用户在文章上已设置的表态类型。
func (s *ReactionService) UserTypes(postID, userID uint) ([]string, error) {
	var types []string
	if err := s.db.Model(&db.Reaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("type asc").
		Pluck("type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
