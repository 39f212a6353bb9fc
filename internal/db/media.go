package db

import "gorm.io/gorm"

// MediaAsset 记录上传的图片资源及其尺寸，供文章封面引用。
type MediaAsset struct {
	gorm.Model
	UserID      uint   `gorm:"index"`
	FileName    string `gorm:"size:255;not null"`
	URL         string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:100"`
	Width       int
	Height      int
	SizeBytes   int64
}

// TableName 指定自定义表名。
func (MediaAsset) TableName() string {
	return "media_assets"
}
