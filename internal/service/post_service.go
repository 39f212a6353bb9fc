package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrTitleRequired     = errors.New("post title is required")
	ErrNotEditable       = errors.New("caller cannot edit this post")
	ErrCollaboratorKnown = errors.New("user is already a collaborator")
	ErrInviteNotFound    = errors.New("collaboration invite not found")
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// PostService wraps post authoring and listing operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title          string
	Content        string
	Excerpt        string
	SEOTitle       string
	SEODescription string
	CoverMediaID   *uint
	CategoryIDs    []uint
	TagIDs         []uint
	UserID         uint
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search     string
	Status     db.Status
	AuthorID   uint
	CategoryID uint
	TagNames   []string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PerPage    int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Get fetches a post by id with its associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("User").
		Preload("Categories").
		Preload("Tags").
		Preload("Collaborators.User").
		Preload("Revisions", func(q *gorm.DB) *gorm.DB { return q.Order("version desc") }).
		Preload("CoverMedia").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug 按 slug 获取已发布文章，供前台展示。
func (s *PostService) GetPublishedBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("User").
		Preload("Categories").
		Preload("Tags").
		Preload("CoverMedia").
		Where("slug = ? AND status = ?", slug, db.StatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a draft post and associates taxonomy in a transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	wordCount := countWords(input.Content)
	post := db.Post{
		Title:          title,
		Content:        input.Content,
		Excerpt:        deriveExcerpt(input.Excerpt, input.Content),
		SEOTitle:       strings.TrimSpace(input.SEOTitle),
		SEODescription: strings.TrimSpace(input.SEODescription),
		CoverMediaID:   input.CoverMediaID,
		Status:         db.StatusDraft,
		UserID:         input.UserID,
		WordCount:      wordCount,
		ReadingTime:    calculateReadingTime(wordCount),
	}

	return s.saveWithTaxonomy(&post, input.CategoryIDs, input.TagIDs, true)
}

// Update applies content updates to an existing post, keeping a revision of
// the previous content. Callers must be the owner, an accepted collaborator
// with edit capability, or an admin.
func (s *PostService) Update(id uint, editor *db.User, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if editor == nil || !s.canEdit(&existing, editor) {
		return nil, ErrNotEditable
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	revision := db.PostRevision{
		PostID:   existing.ID,
		EditorID: editor.ID,
		Title:    existing.Title,
		Content:  existing.Content,
	}

	wordCount := countWords(input.Content)
	existing.Title = title
	existing.Content = input.Content
	existing.Excerpt = deriveExcerpt(input.Excerpt, input.Content)
	existing.SEOTitle = strings.TrimSpace(input.SEOTitle)
	existing.SEODescription = strings.TrimSpace(input.SEODescription)
	existing.CoverMediaID = input.CoverMediaID
	existing.WordCount = wordCount
	existing.ReadingTime = calculateReadingTime(wordCount)

	var post *db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&db.PostRevision{}).
			Where("post_id = ?", existing.ID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		revision.Version = maxVersion + 1

		if err := tx.Create(&revision).Error; err != nil {
			return err
		}

		saved, err := savePostWithTaxonomy(tx, &existing, input.CategoryIDs, input.TagIDs, false)
		if err != nil {
			return err
		}
		post = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete 软删除一篇文章，关联的评论与表态保持不动。
func (s *PostService) Delete(id uint, caller *db.User) error {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if caller == nil || (existing.UserID != caller.ID && caller.Role != db.RoleAdmin) {
		return ErrNotEditable
	}

	return s.db.Delete(&db.Post{}, id).Error
}

// List provides paginated posts with aggregated counters based on filters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	modelQuery := s.applyFilters(s.db.Model(&db.Post{}), filter, true)
	if err := modelQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	orderBy := "posts.created_at desc"
	if filter.Status == db.StatusPublished {
		orderBy = "posts.published_at desc, posts.id desc"
	}

	var posts []db.Post
	dataQuery := s.db.Model(&db.Post{}).
		Preload("User").
		Preload("Categories").
		Preload("Tags").
		Preload("CoverMedia")
	dataQuery = s.applyFilters(dataQuery, filter, true)

	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""

	publishedCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)
	if err := publishedCounter.Where("posts.status = ?", db.StatusPublished).Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	draftCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)
	if err := draftCounter.Where("posts.status = ?", db.StatusDraft).Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = posts
	return result, nil
}

// Invite 为文章添加协作者邀请。
func (s *PostService) Invite(postID uint, inviter *db.User, userID uint, role string, canEdit, canSubmit, canComment bool) (*db.Collaborator, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if inviter == nil || (post.UserID != inviter.ID && inviter.Role != db.RoleAdmin) {
		return nil, ErrNotEditable
	}

	switch role {
	case db.CollaboratorContributor, db.CollaboratorReviewer, db.CollaboratorCoAuthor:
	default:
		role = db.CollaboratorContributor
	}

	var count int64
	if err := s.db.Model(&db.Collaborator{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCollaboratorKnown
	}

	collaborator := db.Collaborator{
		PostID:     postID,
		UserID:     userID,
		Role:       role,
		CanEdit:    canEdit,
		CanSubmit:  canSubmit,
		CanComment: canComment,
		InvitedAt:  time.Now(),
	}
	if err := s.db.Create(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// AcceptInvite 由被邀请人接受协作邀请。
func (s *PostService) AcceptInvite(inviteID, userID uint) error {
	var collaborator db.Collaborator
	if err := s.db.First(&collaborator, inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return err
	}

	if collaborator.UserID != userID {
		return ErrInviteNotFound
	}
	if collaborator.AcceptedAt != nil {
		return nil
	}

	now := time.Now()
	return s.db.Model(&collaborator).Update("accepted_at", now).Error
}

func (s *PostService) canEdit(post *db.Post, editor *db.User) bool {
	if post.UserID == editor.ID || editor.Role == db.RoleAdmin {
		return true
	}

	var count int64
	if err := s.db.Model(&db.Collaborator{}).
		Where("post_id = ? AND user_id = ? AND can_edit = ? AND accepted_at IS NOT NULL", post.ID, editor.ID, true).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func (s *PostService) saveWithTaxonomy(post *db.Post, categoryIDs, tagIDs []uint, newSlug bool) (*db.Post, error) {
	var saved *db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result, err := savePostWithTaxonomy(tx, post, categoryIDs, tagIDs, newSlug)
		if err != nil {
			return err
		}
		saved = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func savePostWithTaxonomy(tx *gorm.DB, post *db.Post, categoryIDs, tagIDs []uint, newSlug bool) (*db.Post, error) {
	if newSlug {
		slug, err := uniqueSlug(tx, post.Title)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	if err := tx.Save(post).Error; err != nil {
		return nil, err
	}

	var categories []db.Category
	if len(categoryIDs) > 0 {
		if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, err
		}
		if len(categories) != len(categoryIDs) {
			return nil, ErrCategoryNotFound
		}
	}
	if err := tx.Model(post).Association("Categories").Replace(categories); err != nil {
		return nil, err
	}

	var tags []db.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return nil, err
		}
		if len(tags) != len(tagIDs) {
			return nil, ErrTagNotFound
		}
	}
	if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
		return nil, err
	}

	if err := tx.Preload("Categories").Preload("Tags").First(post, post.ID).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ? OR posts.excerpt LIKE ?)", search, search, search)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.AuthorID != 0 {
		query = query.Where("posts.user_id = ?", filter.AuthorID)
	}

	if filter.CategoryID != 0 {
		subQuery := s.db.Table("post_categories").
			Select("post_categories.post_id").
			Where("post_categories.category_id = ?", filter.CategoryID)
		query = query.Where("posts.id IN (?)", subQuery)
	}

	if len(filter.TagNames) > 0 {
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("JOIN post_tags ON posts.id = post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", filter.TagNames).
			Distinct()
		query = query.Where("posts.id IN (?)", subQuery)
	}

	if filter.StartDate != nil {
		query = query.Where("posts.created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("posts.created_at <= ?", filter.EndDate)
	}

	return query
}

func deriveExcerpt(explicit, content string) string {
	trimmed := strings.TrimSpace(explicit)
	if trimmed != "" {
		return truncateRunes(trimmed, 500)
	}

	text := plainText(content)
	return truncateRunes(text, 200)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func uniqueSlug(tx *gorm.DB, title string) (string, error) {
	base := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Unscoped().Model(&db.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
