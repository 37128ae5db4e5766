package user

import (
	"context"
	"fmt"
	"log"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/shared/model"
)

// EnsureAdminUser 确保管理员用户存在（启动时调用）
//
// 配置了 adminEmail 且数据库中不存在该用户时自动创建，重复调用幂等。
func EnsureAdminUser(ctx context.Context, store Store, hasher *auth.Hasher, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	email := normalizeEmail(adminEmail)
	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		log.Printf("[user] admin user already exists: %s (%s)", email, existing.ID)
		return nil
	}

	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.NewUser(generateID("usr"), "Admin", email, hash, model.UserRoleAdmin)
	if err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Printf("[user] admin user created: %s (%s)", email, admin.ID)
	return nil
}
