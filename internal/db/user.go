package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 站点角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 定义了用户模型。IdentityID 对应外部身份提供方的记录，
// 本地密码仅用于未接入身份提供方时的超级管理员登录。
type User struct {
	gorm.Model
	IdentityID string `gorm:"size:64;index"`
	Name       string `gorm:"size:120;not null"`
	Email      string `gorm:"size:255;index"`
	AvatarURL  string `gorm:"size:512"`
	Bio        string `gorm:"type:text"`
	Role       string `gorm:"size:20;not null;default:user"`
	Password   string `gorm:"size:128"`
}

// EnsureRootUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员用户。
func EnsureRootUser(name, password string) error {
	trimmedName := strings.TrimSpace(name)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedName == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("name = ?", trimmedName).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Name:     trimmedName,
			Password: string(hashed),
			Role:     RoleAdmin,
		}).Error
	}

	return nil
}
