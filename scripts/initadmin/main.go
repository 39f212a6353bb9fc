package main

import (
	"fmt"
	"log"

	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
)

// 初始化超级管理员账号，仅在账号不存在时创建。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	name := cfg.SuperRootUserName
	password := cfg.SuperRootPassword
	if name == "" {
		name = "root"
	}
	if password == "" {
		password = "inkwell123"
	}

	if err := db.EnsureRootUser(name, password); err != nil {
		log.Fatal("创建超级管理员失败:", err)
	}

	fmt.Println("超级管理员就绪")
	fmt.Println("用户名:", name)
}
