package errors

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey 唯一约束冲突（可恢复，事务已回滚）
	ErrDuplicateKey = errors.New("记录已存在")
	// ErrStoreUnavailable 存储不可用（瞬时基础设施故障，可重试）
	ErrStoreUnavailable = errors.New("数据库暂不可用，请稍后重试")
)

const pgUniqueViolation = "23505"

// IsUniqueViolation 判断是否为唯一约束冲突
// 同时识别 GORM 翻译后的错误、PostgreSQL 23505 以及 SQLite 的约束错误文本
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsUnavailable 判断是否为连接层故障
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// Translate 将驱动层错误翻译为业务可识别的哨兵错误
// ErrRecordNotFound、context 取消以及已翻译过的错误原样返回
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case IsUniqueViolation(err):
		return errors.Join(ErrDuplicateKey, err)
	case IsUnavailable(err):
		return errors.Join(ErrStoreUnavailable, err)
	default:
		return err
	}
}
