package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// ErrIdentityMissing 表示外部身份记录缺少可用的标识。
var ErrIdentityMissing = errors.New("external identity id is required")

// ExternalIdentity 是身份提供方返回的用户记录。
type ExternalIdentity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
	Bio       string
}

// IdentityService 将外部身份记录同步为本地用户行。
// 管理员邮箱名单由配置注入，而非硬编码在同步逻辑里。
type IdentityService struct {
	db          *gorm.DB
	adminEmails []string
}

// NewIdentityService creates an IdentityService instance.
func NewIdentityService(gdb *gorm.DB, adminEmails []string) *IdentityService {
	return &IdentityService{db: gdb, adminEmails: adminEmails}
}

// Sync 按身份 ID 创建或更新本地用户。创建时根据邮箱名单决定站点角色；
// 更新只刷新可变的资料字段，角色一经分配不再改写。
func (s *IdentityService) Sync(identity ExternalIdentity) (*db.User, error) {
	identityID := strings.TrimSpace(identity.ID)
	if identityID == "" {
		return nil, ErrIdentityMissing
	}

	var user db.User
	err := s.db.Where("identity_id = ?", identityID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		role := db.RoleUser
		if s.isAdminEmail(identity.Email) {
			role = db.RoleAdmin
		}

		user = db.User{
			IdentityID: identityID,
			Name:       displayName(identity),
			Email:      strings.TrimSpace(identity.Email),
			AvatarURL:  strings.TrimSpace(identity.AvatarURL),
			Bio:        strings.TrimSpace(identity.Bio),
			Role:       role,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	updates := map[string]interface{}{
		"name":       displayName(identity),
		"email":      strings.TrimSpace(identity.Email),
		"avatar_url": strings.TrimSpace(identity.AvatarURL),
	}
	if bio := strings.TrimSpace(identity.Bio); bio != "" {
		updates["bio"] = bio
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&user, user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *IdentityService) isAdminEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	for _, allowed := range s.adminEmails {
		if strings.EqualFold(allowed, trimmed) {
			return true
		}
	}
	return false
}

func displayName(identity ExternalIdentity) string {
	first := strings.TrimSpace(identity.FirstName)
	last := strings.TrimSpace(identity.LastName)

	name := strings.TrimSpace(first + " " + last)
	if name != "" {
		return name
	}

	email := strings.TrimSpace(identity.Email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	if email != "" {
		return email
	}
	return "用户"
}
