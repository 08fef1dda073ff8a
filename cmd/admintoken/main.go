package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/quickcart-next/internal/config"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/service"
)

// 签发目录维护接口使用的管理端令牌
func main() {
	var operator string
	var hours int
	flag.StringVar(&operator, "operator", "ops", "操作人标识（写入令牌 subject）")
	flag.IntVar(&hours, "hours", 0, "有效期（小时），0 使用 jwt.expire_hours")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if hours <= 0 {
		hours = cfg.JWT.ExpireHours
	}
	token, expiresAt, err := service.IssueAdminToken(cfg.JWT.SecretKey, operator, time.Duration(hours)*time.Hour)
	if err != nil {
		stdLog.Fatalf("签发令牌失败: %v", err)
	}
	logger.Infow("admin_token_issued", "operator", operator, "expires_at", expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
