package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentEmpty    = errors.New("comment content is required")
	ErrCommentTooLong  = errors.New("comment content exceeds the length limit")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("caller is not the comment author")
)

// CommentService 负责评论的创建、列出与软删除。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Add 在已发布文章下新增一条评论，当前设计无审核队列，直接可见。
func (s *CommentService) Add(postID, userID uint, content string) (*db.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}
	if len([]rune(trimmed)) > db.CommentMaxLength {
		return nil, ErrCommentTooLong
	}

	var post db.Post
	if err := s.db.Select("id", "status").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Status != db.StatusPublished {
		return nil, ErrPostNotPublished
	}

	comment := db.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: trimmed,
		Status:  db.CommentVisible,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 由作者将自己的评论软删除，状态翻转后不可恢复。
func (s *CommentService) Delete(commentID, callerID uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != callerID {
		return ErrNotCommentOwner
	}

	return s.db.Model(&comment).Update("status", db.CommentDeleted).Error
}

// Flag 由管理员将评论标记为待处理，进入后台工作流桶。
func (s *CommentService) Flag(commentID uint) error {
	result := s.db.Model(&db.Comment{}).
		Where("id = ? AND status = ?", commentID, db.CommentVisible).
		Update("status", db.CommentFlagged)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// List 返回文章下可见的评论，按时间倒序，附带作者展示字段。
func (s *CommentService) List(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("User").
		Where("post_id = ? AND status = ?", postID, db.CommentVisible).
		Order("created_at desc, id desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountForPost 统计文章下可见评论数。
func (s *CommentService) CountForPost(postID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).
		Where("post_id = ? AND status = ?", postID, db.CommentVisible).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
