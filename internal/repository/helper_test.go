package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planeador/backend/internal/model"
	"planeador/backend/pkg/database"
)

var dbSeq int64

// newTestDB 每个测试独立的内存 SQLite 库，外键开启
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("repo_test_%d", atomic.AddInt64(&dbSeq, 1))
	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(name), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *Repository, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "用户 " + email, Email: email}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func createSubject(t *testing.T, repo *Repository, userID uint, name string) *model.Subject {
	t.Helper()
	s := &model.Subject{Name: name, UserID: userID}
	if err := repo.Subject.Create(context.Background(), s); err != nil {
		t.Fatalf("创建科目失败: %v", err)
	}
	return s
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("计数失败: %v", err)
	}
	return n
}
