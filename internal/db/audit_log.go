package db

import "time"

// AuditLog 是管理员针对文章的决策记录，只追加不修改。
type AuditLog struct {
	ID         uint `gorm:"primaryKey"`
	ActorID    uint `gorm:"index"`
	Actor      User
	TargetType string `gorm:"size:30;not null;index:idx_audit_target"`
	TargetID   uint   `gorm:"not null;index:idx_audit_target"`
	Action     string `gorm:"size:30;not null"`
	Status     string `gorm:"size:20"`
	Reason     string `gorm:"size:500"`
	Metadata   string `gorm:"type:text"`
	CreatedAt  time.Time
}

// TableName 指定自定义表名。
func (AuditLog) TableName() string {
	return "audit_logs"
}
