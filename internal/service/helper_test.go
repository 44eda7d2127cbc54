package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
	"planeador/backend/pkg/database"
	"planeador/backend/pkg/jwt"
)

var dbSeq int64

// newTestService 基于内存 SQLite 的完整 Service 聚合
func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	name := fmt.Sprintf("svc_test_%d", atomic.AddInt64(&dbSeq, 1))
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

	cfg := testConfig(t)
	repo := repository.NewRepository(db)
	svc := NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	return svc, repo
}

func seedUser(t *testing.T, repo *repository.Repository, email string) uint {
	t.Helper()
	u := &model.User{Name: email, Email: email}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u.ID
}

func seedSubject(t *testing.T, svc *Service, userID uint, name string) uint {
	t.Helper()
	s, err := svc.Subject.Create(context.Background(), userID, &dto.SubjectNameRequest{Name: name})
	if err != nil {
		t.Fatalf("创建科目失败: %v", err)
	}
	return s.ID
}
