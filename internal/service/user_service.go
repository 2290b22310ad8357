// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
	"neuvera-go/pkg/hash"
	"neuvera-go/pkg/log"
	"neuvera-go/pkg/token"
)

// 管理员记录的固定字段。
const (
	AdminUserID    = "admin"
	adminFirstName = "Admin"
	adminLastName  = "User"
)

// AdminCredentials 是从配置读取的管理员凭据。PasswordHash 为 bcrypt 哈希。
type AdminCredentials struct {
	Username     string
	PasswordHash string
	Email        string
}

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.UserResponse, error)
	Signin(ctx context.Context, email, password string) (*model.AuthResponse, error)
	AdminLogin(ctx context.Context, identifier, secret string) (*model.AuthResponse, error)
	Signout(ctx context.Context, user *model.User, tokenString string) error
	// Resolve 将 bearer token 解析为当前用户，任何失败都返回 ErrUnauthorized。
	Resolve(ctx context.Context, tokenString string) (*model.User, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	blacklist  repository.TokenBlacklist
	jwtManager *token.JWTManager
	admin      AdminCredentials
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, blacklist repository.TokenBlacklist, jwtManager *token.JWTManager, admin AdminCredentials) UserService {
	return &userService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
		admin:      admin,
	}
}

// Signup 处理用户注册的业务逻辑。
func (s *userService) Signup(ctx context.Context, req model.SignupRequest) (*model.UserResponse, error) {
	// 0. 管理员邮箱保留给 AdminLogin，普通注册不能占用
	if s.isAdminEmail(req.Email) {
		return nil, ErrUserExists
	}

	// 1. 检查邮箱是否已存在
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 2. 对密码进行哈希处理
	hashedPassword, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userID := uuid.NewString()
	tok, err := s.jwtManager.GenerateToken(userID, req.Email, false)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		ID:        userID,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now().UTC(),
		Token:     tok,
	}

	// 3. 唯一索引兜底并发注册
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	log.Infow("user signed up", "userId", userID)
	resp := newUser.Public()
	return &resp, nil
}

// Signin 处理用户登录的业务逻辑。每次登录签发新 token 并覆盖旧 token。
func (s *userService) Signin(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	// 1. 查找用户
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 2. 验证密码
	if !hash.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成并保存新 token
	tok, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateToken(ctx, user.ID, tok); err != nil {
		return nil, fmt.Errorf("保存 token 失败: %w", err)
	}

	return &model.AuthResponse{Token: tok, User: user.Public()}, nil
}

// AdminLogin 使用配置中的管理员凭据登录。凭据未配置时总是失败。
func (s *userService) AdminLogin(ctx context.Context, identifier, secret string) (*model.AuthResponse, error) {
	if s.admin.Username == "" || s.admin.PasswordHash == "" {
		log.Warnf("[UserService] admin login attempted but admin credentials are not configured")
		return nil, ErrInvalidCredentials
	}
	if identifier != s.admin.Username || !hash.CheckPasswordHash(secret, s.admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.jwtManager.GenerateToken(AdminUserID, s.admin.Email, true)
	if err != nil {
		return nil, err
	}
	// Password 为空：管理员记录不能通过 Signin 登录，已存在的同邮箱记录的密码也会被清空
	admin := &model.User{
		ID:        AdminUserID,
		Email:     s.admin.Email,
		FirstName: adminFirstName,
		LastName:  adminLastName,
		IsAdmin:   true,
		CreatedAt: time.Now().UTC(),
		Token:     tok,
	}
	if err := s.userRepo.UpsertByEmail(ctx, admin); err != nil {
		return nil, fmt.Errorf("保存管理员会话失败: %w", err)
	}

	return &model.AuthResponse{Token: tok, User: admin.Public()}, nil
}

func (s *userService) isAdminEmail(email string) bool {
	reserved := strings.TrimSpace(s.admin.Email)
	return reserved != "" && strings.EqualFold(strings.TrimSpace(email), reserved)
}

// Signout 吊销当前 token：jti 进入黑名单直到过期，同时清空用户记录上的 token。
func (s *userService) Signout(ctx context.Context, user *model.User, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return ErrUnauthorized
	}
	if err := s.blacklist.Add(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return err
	}
	if err := s.userRepo.UpdateToken(ctx, user.ID, ""); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("清除 token 失败: %w", err)
	}
	return nil
}

func (s *userService) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		log.Error("[UserService] 查询 token 黑名单失败", err)
		return nil, ErrUnauthorized
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	// 只有用户记录上保存的当前 token 才有效，旧 token 在重新登录后失效
	user, err := s.userRepo.FindByToken(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("[UserService] 按 token 查询用户失败", err)
		}
		return nil, ErrUnauthorized
	}
	return user, nil
}
