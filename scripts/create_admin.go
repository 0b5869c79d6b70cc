// 创建管理员账号，用于首次部署时初始化
//
// 用法: go run scripts/create_admin.go -username admin -email admin@example.com -password 'Adm1n!Pass'

package main

import (
	"flag"
	"log"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/pkg/database"
	"workplace_training_backend/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	username := flag.String("username", "admin", "管理员用户名")
	email := flag.String("email", "admin@example.com", "管理员邮箱")
	password := flag.String("password", "", "管理员密码，需满足密码策略")
	firstName := flag.String("first-name", "Admin", "名")
	lastName := flag.String("last-name", "User", "姓")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 本次运行专用的口令，不依赖配置文件中的注册口令
	passphrase := uuid.NewString()
	cfg.Admin.RegistrationPassphrase = passphrase

	auth := service.NewAuthService(repository.NewUserRepository(db), service.NewMemoryTokenBlacklist(), cfg)
	user, err := auth.Register(service.RegisterInput{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		FirstName:       *firstName,
		LastName:        *lastName,
		AdminPassphrase: passphrase,
	})
	if err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}
	log.Printf("管理员已创建: %s (id=%d)", user.Username, user.ID)
}
