package service

import (
	"errors"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// ErrInvalidRole 表示角色取值不在枚举内。
var ErrInvalidRole = errors.New("invalid site role")

// UserService wraps admin-facing user management operations.
type UserService struct {
	db *gorm.DB
}

// UserFilter 描述后台用户列表的筛选与排序条件。
type UserFilter struct {
	Search  string
	Role    string
	SortBy  string
	Page    int
	PerPage int
}

// UserListResult 聚合分页后的用户列表。
type UserListResult struct {
	Users      []db.User
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// List 返回分页后的用户，支持搜索与角色过滤。
func (s *UserService) List(filter UserFilter) (*UserListResult, error) {
	result := &UserListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.User{})
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", search, search)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	orderBy := "created_at desc"
	switch filter.SortBy {
	case "name":
		orderBy = "name asc"
	case "oldest":
		orderBy = "created_at asc"
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&result.Users).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// SetRole 修改用户的站点角色。
func (s *UserService) SetRole(id uint, role string) (*db.User, error) {
	if role != db.RoleUser && role != db.RoleAdmin {
		return nil, ErrInvalidRole
	}

	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, err
	}

	user.Role = role
	return &user, nil
}
