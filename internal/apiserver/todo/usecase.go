// Package todo 待办域：创建、更新、删除、列表
//
// 授权规则刻意不对称：更新仅限属主（管理员不能改别人的待办），
// 删除允许属主或管理员。这是最小权限设计，不要"修正"。
package todo

import (
	"context"
	"fmt"
	"log"

	"github.com/containerd/errdefs"

	"todo-admin/internal/shared/model"
	"todo-admin/internal/shared/storage"
)

// Store 待办存储接口（窄接口，由 mongostore 满足）
type Store interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)
	ListTodos(ctx context.Context) ([]*model.Todo, error)
	UpdateTodo(ctx context.Context, id string, fields storage.TodoFields) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id string) (bool, error)
}

// UseCases 待办域用例集合
type UseCases struct {
	store Store
}

// NewUseCases 创建待办用例
func NewUseCases(store Store) *UseCases {
	return &UseCases{store: store}
}

// CreateInput 创建入参
//
// OwnerID 来自认证会话而不是客户端请求体。
// 字段形状校验是传输层的职责，这里接受任意字符串。
type CreateInput struct {
	Title       string
	Description string
	OwnerID     string
}

// Create 创建待办，初始状态固定为 pending
func (u *UseCases) Create(ctx context.Context, in CreateInput) (*model.Todo, error) {
	td := model.NewTodo(generateID("todo"), in.Title, in.Description, in.OwnerID)
	if err := u.store.CreateTodo(ctx, td); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	log.Printf("[todo] created: %s (owner=%s)", td.ID, td.OwnerID)
	return td, nil
}

// UpdateInput 更新入参，nil 字段表示不修改
type UpdateInput struct {
	ID          string
	Title       *string
	Description *string
	Status      *model.TodoStatus
	OwnerID     string // 调用方身份
}

// Update 更新待办
//
// 仅属主可更新；权限检查在字段合并之前完成。
func (u *UseCases) Update(ctx context.Context, in UpdateInput) (*model.Todo, error) {
	existing, err := u.store.GetTodoByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("find todo: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: todo not found", errdefs.ErrNotFound)
	}

	if existing.OwnerID != in.OwnerID {
		return nil, fmt.Errorf("%w: you can only update your own todos", errdefs.ErrPermissionDenied)
	}

	merged := existing
	if in.Title != nil || in.Description != nil {
		title := merged.Title
		if in.Title != nil {
			title = *in.Title
		}
		merged = merged.WithContent(title, in.Description)
	}
	if in.Status != nil {
		merged = merged.WithStatus(*in.Status)
	}

	saved, err := u.store.UpdateTodo(ctx, in.ID, storage.TodoFields{
		Title:       &merged.Title,
		Description: &merged.Description,
		Status:      &merged.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: failed to update todo", errdefs.ErrNotFound)
	}

	return saved, nil
}

// Delete 删除待办
//
// 属主或管理员可删除。成功路径返回 true，失败路径返回错误而不是 false。
func (u *UseCases) Delete(ctx context.Context, id, callerID string, callerRole model.UserRole) (bool, error) {
	existing, err := u.store.GetTodoByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("find todo: %w", err)
	}
	if existing == nil {
		return false, fmt.Errorf("%w: todo not found", errdefs.ErrNotFound)
	}

	if existing.OwnerID != callerID && callerRole != model.UserRoleAdmin {
		return false, fmt.Errorf("%w: you can only delete your own todos", errdefs.ErrPermissionDenied)
	}

	deleted, err := u.store.DeleteTodo(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	if !deleted {
		return false, fmt.Errorf("%w: failed to delete todo", errdefs.ErrNotFound)
	}

	log.Printf("[todo] deleted: %s (by=%s role=%s)", id, callerID, callerRole)
	return true, nil
}

// List 列出待办
//
// 管理员看到全量，普通用户只看到自己的；顺序是存储层的插入序。
func (u *UseCases) List(ctx context.Context, callerID string, callerRole model.UserRole) ([]*model.Todo, error) {
	if callerRole == model.UserRoleAdmin {
		todos, err := u.store.ListTodos(ctx)
		if err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		return todos, nil
	}

	todos, err := u.store.ListTodosByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}
