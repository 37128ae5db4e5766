// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/
//   - 初始化时通过依赖注入传入实现
//
// 业务包（user/todo）各自声明更窄的接口，这里的组合接口
// 仅用于 main 持有完整存储句柄。
package storage

import (
	"context"

	"todo-admin/internal/shared/model"
)

// UserStore 用户持久化接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail 按邮箱查找，不存在时返回 (nil, nil)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByID 按 ID 查找，不存在时返回 (nil, nil)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UpdateUser 按 ID 更新部分字段，返回更新后的实体；不存在时返回 (nil, nil)
	UpdateUser(ctx context.Context, id string, fields UserFields) (*model.User, error)
	// DeleteUser 按 ID 删除，不存在时返回 false
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// TodoStore 待办持久化接口
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	// GetTodoByID 按 ID 查找，不存在时返回 (nil, nil)
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	// ListTodosByOwner 按属主列出，按创建时间升序（插入序）
	ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)
	// ListTodos 列出全部，按创建时间升序
	ListTodos(ctx context.Context) ([]*model.Todo, error)
	// UpdateTodo 按 ID 更新部分字段，返回更新后的实体；不存在时返回 (nil, nil)
	UpdateTodo(ctx context.Context, id string, fields TodoFields) (*model.Todo, error)
	// DeleteTodo 按 ID 删除，不存在时返回 false
	DeleteTodo(ctx context.Context, id string) (bool, error)
}

// UserFields 用户部分更新字段，nil 表示不更新
type UserFields struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *model.UserRole
}

// TodoFields 待办部分更新字段，nil 表示不更新
//
// OwnerID 不在其中：属主创建后不可变。
type TodoFields struct {
	Title       *string
	Description *string
	Status      *model.TodoStatus
}

// Store 完整存储接口
type Store interface {
	UserStore
	TodoStore
	Close() error
}
