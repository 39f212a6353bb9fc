package db

import "gorm.io/gorm"

// 支持工单状态
const (
	ContactPending  = "pending"
	ContactAnswered = "answered"
	ContactClosed   = "closed"
)

// ContactQuery 保存访客提交的支持工单，独立于文章工作流。
type ContactQuery struct {
	gorm.Model
	Name     string `gorm:"size:120;not null"`
	Email    string `gorm:"size:255;not null"`
	Subject  string `gorm:"size:200;not null"`
	Category string `gorm:"size:50"`
	Message  string `gorm:"type:text;not null"`
	Status   string `gorm:"size:20;not null;default:pending;index"`
	Reply    string `gorm:"type:text"`
}

// TableName 指定自定义表名。
func (ContactQuery) TableName() string {
	return "contact_queries"
}
