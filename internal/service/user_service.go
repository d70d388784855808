// Package service 实现了业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/repository"
	"notebooklm-go/pkg/hash"
	"notebooklm-go/pkg/token"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 业务错误，由 handler 映射到对应的 HTTP 状态码。
var (
	ErrUserExists         = errors.New("用户名已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidToken       = errors.New("无效的令牌")
	ErrNotFound           = errors.New("资源不存在")
	ErrForbidden          = errors.New("无权访问该资源")
)

// TokenPair 是一次登录颁发的令牌对。
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService 负责注册、登录与令牌管理。
type UserService struct {
	users      repository.UserRepository
	jwt        *token.JWTManager
	rdb        *redis.Client
	refreshTTL time.Duration
}

// NewUserService 创建用户服务。refreshExpireDays 同时决定 refresh token
// 的签发有效期（JWTManager）和它在 Redis 里的存活时间，两者不能漂移。
func NewUserService(users repository.UserRepository, jwt *token.JWTManager, rdb *redis.Client, refreshExpireDays int) *UserService {
	return &UserService{
		users:      users,
		jwt:        jwt,
		rdb:        rdb,
		refreshTTL: time.Duration(refreshExpireDays) * 24 * time.Hour,
	}
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("auth:refresh:%d", userID)
}

// Register 创建新用户，用户名冲突时返回 ErrUserExists。
func (s *UserService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: hashed,
		Email:    email,
		Role:     "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并颁发令牌对。refresh token 同时写入 Redis，
// 登出后即失效。
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !hash.CheckPassword(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	access, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, nil, err
	}

	if err := s.rdb.Set(ctx, refreshKey(user.ID), refresh, s.refreshTTL).Err(); err != nil {
		return nil, nil, err
	}
	return user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh 校验 refresh token 并颁发新的 access token。
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	stored, err := s.rdb.Get(ctx, refreshKey(claims.UserID)).Result()
	if err != nil || stored != refreshToken {
		return "", ErrInvalidToken
	}

	return s.jwt.GenerateToken(claims.UserID, claims.Username, claims.Role)
}

// Logout 使用户的 refresh token 失效。
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	return s.rdb.Del(ctx, refreshKey(userID)).Err()
}

// GetProfile 返回用户信息。
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers 分页列出用户（仅管理员接口使用）。
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.List(ctx, (page-1)*pageSize, pageSize)
}
