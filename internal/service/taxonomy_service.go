package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTaxonomyNameRequired = errors.New("taxonomy name is required")
	ErrTaxonomyExists       = errors.New("taxonomy name already exists")
	ErrTaxonomyNotFound     = errors.New("taxonomy entry not found")
)

var tagSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// TaxonomyService wraps category and tag operations.
type TaxonomyService struct {
	db *gorm.DB
}

// CategoryUsage 描述分类及其关联文章数。
type CategoryUsage struct {
	ID    uint
	Name  string
	Count int64
}

// TagUsage 描述标签及其关联文章数。
type TagUsage struct {
	ID    uint
	Name  string
	Slug  string
	Count int64
}

// NewTaxonomyService creates a TaxonomyService instance.
func NewTaxonomyService(gdb *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: gdb}
}

// ListCategories returns categories with usage counts, ordered by name.
func (s *TaxonomyService) ListCategories() ([]CategoryUsage, error) {
	var rows []CategoryUsage
	if err := s.db.Table("categories").
		Select("categories.id, categories.name, COUNT(post_categories.post_id) AS count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Where("categories.deleted_at IS NULL").
		Group("categories.id, categories.name").
		Order("categories.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListTags returns tags with usage counts, ordered by name.
func (s *TaxonomyService) ListTags() ([]TagUsage, error) {
	var rows []TagUsage
	if err := s.db.Table("tags").
		Select("tags.id, tags.name, tags.slug, COUNT(post_tags.post_id) AS count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.slug").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCategory 新建分类，名称忽略大小写去重。
func (s *TaxonomyService) CreateCategory(name string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTaxonomyNameRequired
	}

	exists, err := s.nameExists(&db.Category{}, trimmed, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTaxonomyExists
	}

	category := db.Category{Name: trimmed}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory 重命名分类。
func (s *TaxonomyService) UpdateCategory(id uint, name string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTaxonomyNameRequired
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}

	exists, err := s.nameExists(&db.Category{}, trimmed, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTaxonomyExists
	}

	category.Name = trimmed
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory 删除分类并清理与文章的关联。使用中的分类同样允许删除，
// 预删除告警由调用方界面负责。
func (s *TaxonomyService) DeleteCategory(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaxonomyNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&category).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// CreateTag 新建标签，slug 缺省时由名称派生。
func (s *TaxonomyService) CreateTag(name, slug string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTaxonomyNameRequired
	}

	exists, err := s.nameExists(&db.Tag{}, trimmed, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTaxonomyExists
	}

	tag := db.Tag{Name: trimmed, Slug: normalizeTagSlug(slug, trimmed)}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag 更新标签名称与 slug。
func (s *TaxonomyService) UpdateTag(id uint, name, slug string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTaxonomyNameRequired
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}

	exists, err := s.nameExists(&db.Tag{}, trimmed, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTaxonomyExists
	}

	tag.Name = trimmed
	tag.Slug = normalizeTagSlug(slug, trimmed)
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag 删除标签并清理与文章的关联。
func (s *TaxonomyService) DeleteTag(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaxonomyNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

func (s *TaxonomyService) nameExists(model interface{}, name string, excludeID uint) (bool, error) {
	query := s.db.Model(model).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeTagSlug(slug, name string) string {
	source := strings.TrimSpace(slug)
	if source == "" {
		source = name
	}
	normalized := tagSlugPattern.ReplaceAllString(strings.ToLower(source), "-")
	return strings.Trim(normalized, "-")
}
