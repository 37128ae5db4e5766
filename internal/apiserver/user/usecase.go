// Package user 用户域：注册、登录、资料查询
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/containerd/errdefs"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/shared/model"
	"todo-admin/internal/shared/storage"
)

// Store 用户存储接口（窄接口，由 mongostore 满足）
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UseCases 用户域用例集合
type UseCases struct {
	store  Store
	hasher *auth.Hasher
	cfg    auth.Config
}

// NewUseCases 创建用户用例
func NewUseCases(store Store, hasher *auth.Hasher, cfg auth.Config) *UseCases {
	return &UseCases{store: store, hasher: hasher, cfg: cfg}
}

// SignUpInput 注册入参
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole // 可选，空值默认普通用户
}

// SignUpOutput 注册结果：脱敏用户视图 + 令牌
type SignUpOutput struct {
	User  model.UserView
	Token string
}

// SignUp 注册用户
//
// 邮箱占用返回 conflict；先查后插的竞态由存储层唯一索引兜底，
// 唯一键冲突同样映射为 conflict。
func (u *UseCases) SignUp(ctx context.Context, in SignUpInput) (*SignUpOutput, error) {
	email := normalizeEmail(in.Email)

	existing, err := u.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", errdefs.ErrConflict)
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr := model.NewUser(generateID("usr"), in.Name, email, hash, in.Role)
	if err := u.store.CreateUser(ctx, usr); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use", errdefs.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := auth.GenerateToken(u.cfg, usr.ID, usr.Email, usr.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	log.Printf("[user] signed up: %s (%s)", usr.Email, usr.ID)
	return &SignUpOutput{User: usr.View(), Token: token}, nil
}

// LoginOutput 登录结果
type LoginOutput struct {
	User  *model.User
	Token string
}

// Login 登录
//
// 用户不存在与密码错误返回同一个泛化错误，防止账号枚举。
func (u *UseCases) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	usr, err := u.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if usr == nil {
		return nil, errInvalidCredentials()
	}

	if !u.hasher.Verify(password, usr.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	token, err := auth.GenerateToken(u.cfg, usr.ID, usr.Email, usr.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginOutput{User: usr, Token: token}, nil
}

// GetProfile 查询用户资料
func (u *UseCases) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	usr, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("%w: user not found", errdefs.ErrNotFound)
	}
	return usr, nil
}

// errInvalidCredentials 两条登录失败路径共用同一错误值构造
func errInvalidCredentials() error {
	return fmt.Errorf("%w: invalid credentials", errdefs.ErrUnauthenticated)
}

// normalizeEmail 邮箱规范化为小写
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
