package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/service"
	pkgerrors "planeador/backend/pkg/errors"
	"planeador/backend/pkg/jwt"
	"planeador/backend/pkg/response"
)

// 上下文键，由 middleware.JWTAuth 写入
const (
	ctxUserID = "user_id"
	ctxClaims = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}

// GetClaims 当前请求的 Access Token 声明，未认证时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// ParseIDParam 解析路径中的正整数 ID，失败时写入 400
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "ID 格式无效")
		return 0, false
	}
	return uint(id), true
}

// handleCommonError 各模块错误处理的兜底分支
//   - 权限 / 校验类哨兵错误
//   - 存储不可用返回 503
//   - 其余返回 500，错误记录到 c.Errors 由日志中间件输出
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "无权访问该科目")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式应为 YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		response.Conflict(c, 10006, "记录已存在")
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		_ = c.Error(err)
		response.ServiceUnavailable(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
