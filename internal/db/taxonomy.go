package db

import "gorm.io/gorm"

// Category 定义了分类模型
type Category struct {
	gorm.Model
	Name  string `gorm:"size:80;not null"`
	Posts []Post `gorm:"many2many:post_categories;"`
}

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name  string `gorm:"size:80;not null"`
	Slug  string `gorm:"size:100;index"`
	Posts []Post `gorm:"many2many:post_tags;"`
}
