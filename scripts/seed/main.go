package main

import (
	"fmt"
	"log"

	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器：空库时填充用户、分类标签与贯穿工作流的文章。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	admin, author := createTestUsers()
	categories, tags := createTestTaxonomy()
	createTestPosts(admin, author, categories, tags)

	fmt.Println("测试数据生成完成！")
	fmt.Println("管理员: admin (密码: admin123)")
	fmt.Println("作者: writer (密码: writer123)")
}

func createTestUsers() (*db.User, *db.User) {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		var admin, author db.User
		db.DB.Where("role = ?", db.RoleAdmin).First(&admin)
		db.DB.Where("role = ?", db.RoleUser).First(&author)
		return &admin, &author
	}

	hashedAdmin, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Name:     "admin",
		Email:    "admin@inkwell.local",
		Role:     db.RoleAdmin,
		Password: string(hashedAdmin),
	}
	db.DB.Create(&admin)

	hashedAuthor, _ := bcrypt.GenerateFromPassword([]byte("writer123"), bcrypt.DefaultCost)
	author := db.User{
		Name:     "writer",
		Email:    "writer@inkwell.local",
		Role:     db.RoleUser,
		Password: string(hashedAuthor),
	}
	db.DB.Create(&author)

	fmt.Println("✅ 测试用户创建完成")
	return &admin, &author
}

func createTestTaxonomy() ([]uint, []uint) {
	taxonomy := service.NewTaxonomyService(db.DB)

	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分类已存在，跳过创建")
		return nil, nil
	}

	var categoryIDs []uint
	for _, name := range []string{"技术", "生活", "思考"} {
		category, err := taxonomy.CreateCategory(name)
		if err != nil {
			log.Fatal("创建分类失败:", err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	var tagIDs []uint
	for _, name := range []string{"Go", "Web开发", "数据库", "教程"} {
		tag, err := taxonomy.CreateTag(name, "")
		if err != nil {
			log.Fatal("创建标签失败:", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	fmt.Println("✅ 分类与标签创建完成")
	return categoryIDs, tagIDs
}

func createTestPosts(admin, author *db.User, categoryIDs, tagIDs []uint) {
	var count int64
	db.DB.Model(&db.Post{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	posts := service.NewPostService(db.DB)
	workflow := service.NewWorkflowService(db.DB)

	titles := []string{
		"Go 并发模式实战",
		"用 GORM 管理博客数据",
		"写作工作流的设计取舍",
		"我的 2026 阅读清单",
		"从零搭建评论系统",
	}

	for i, title := range titles {
		input := service.PostInput{
			Title:   title,
			Content: fmt.Sprintf("# %s\n\n这是第 %d 篇测试文章的正文内容。", title, i+1),
			UserID:  author.ID,
		}
		if len(categoryIDs) > 0 {
			input.CategoryIDs = []uint{categoryIDs[i%len(categoryIDs)]}
		}
		if len(tagIDs) > 0 {
			input.TagIDs = []uint{tagIDs[i%len(tagIDs)]}
		}

		post, err := posts.Create(input)
		if err != nil {
			log.Fatal("创建文章失败:", err)
		}

		// 前三篇走完整工作流发布，其余保留为草稿
		if i >= 3 {
			continue
		}

		for _, action := range []service.Action{service.ActionSubmit, service.ActionApprove, service.ActionPublish} {
			actor := admin
			if action == service.ActionSubmit {
				actor = author
			}
			if _, err := workflow.Transition(service.TransitionInput{
				PostID: post.ID,
				Actor:  actor,
				Action: action,
			}); err != nil {
				log.Fatalf("文章 %q 执行 %s 失败: %v", title, action, err)
			}
		}
	}

	fmt.Println("✅ 测试文章创建完成")
}
