package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact query not found")
	ErrContactInvalid  = errors.New("contact query is missing required fields")
)

// ContactService 负责访客支持工单的提交与后台处理。
type ContactService struct {
	db *gorm.DB
}

// ContactInput 是访客提交工单的字段。
type ContactInput struct {
	Name     string
	Email    string
	Subject  string
	Category string
	Message  string
}

// ContactFilter 描述后台工单列表的筛选条件。
type ContactFilter struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

// ContactListResult 聚合分页后的工单列表。
type ContactListResult struct {
	Queries    []db.ContactQuery
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// Submit 保存一条访客工单，初始状态为 pending。
func (s *ContactService) Submit(input ContactInput) (*db.ContactQuery, error) {
	query := db.ContactQuery{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Subject:  strings.TrimSpace(input.Subject),
		Category: strings.TrimSpace(input.Category),
		Message:  strings.TrimSpace(input.Message),
		Status:   db.ContactPending,
	}

	if query.Name == "" || query.Email == "" || query.Subject == "" || query.Message == "" {
		return nil, ErrContactInvalid
	}

	if err := s.db.Create(&query).Error; err != nil {
		return nil, err
	}
	return &query, nil
}

// List 返回分页后的工单，按提交时间倒序。
func (s *ContactService) List(filter ContactFilter) (*ContactListResult, error) {
	result := &ContactListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.ContactQuery{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ? OR subject LIKE ?)", search, search, search)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Queries).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// Resolve 更新工单状态与（可选的）回复内容。
func (s *ContactService) Resolve(id uint, status, reply string) (*db.ContactQuery, error) {
	switch status {
	case db.ContactPending, db.ContactAnswered, db.ContactClosed:
	default:
		return nil, ErrContactInvalid
	}

	var query db.ContactQuery
	if err := s.db.First(&query, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if trimmed := strings.TrimSpace(reply); trimmed != "" {
		updates["reply"] = trimmed
	}

	if err := s.db.Model(&query).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&query, id).Error; err != nil {
		return nil, err
	}
	return &query, nil
}

// Delete 物理删除一条工单。
func (s *ContactService) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&db.ContactQuery{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
