package model

import "time"

// TodoStatus 待办状态
//
// 状态机为自由迁移：任意状态可以切换到任意状态，领域层不做限制。
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusDone       TodoStatus = "done"
)

// Valid 状态值是否合法
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusDone:
		return true
	}
	return false
}

// Todo 待办事项
//
// OwnerID 是对 User.ID 的弱引用，创建后不可变。
// 变更通过 WithContent/WithStatus 返回新值完成，实体本身不做原地修改。
type Todo struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Status      TodoStatus `json:"status" bson:"status"`
	OwnerID     string     `json:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// NewTodo 构造待办，初始状态固定为 pending
func NewTodo(id, title, description, ownerID string) *Todo {
	return &Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      TodoStatusPending,
		OwnerID:     ownerID,
	}
}

// WithContent 返回更新了标题/描述的副本
//
// description 为 nil 表示清空描述（与只改标题时描述被重置的语义一致）。
func (t *Todo) WithContent(title string, description *string) *Todo {
	c := *t
	c.Title = title
	if description != nil {
		c.Description = *description
	} else {
		c.Description = ""
	}
	return &c
}

// WithStatus 返回更新了状态的副本
func (t *Todo) WithStatus(status TodoStatus) *Todo {
	c := *t
	c.Status = status
	return &c
}
