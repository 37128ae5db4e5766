// Package model 核心数据模型测试
package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodo_Defaults(t *testing.T) {
	todo := NewTodo("todo-001", "Buy milk", "", "usr-001")

	assert.Equal(t, "todo-001", todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "", todo.Description)
	assert.Equal(t, TodoStatusPending, todo.Status)
	assert.Equal(t, "usr-001", todo.OwnerID)
}

// TestTodo_WithContent 变更内容返回新值，原实体不变
func TestTodo_WithContent(t *testing.T) {
	orig := NewTodo("todo-001", "Buy milk", "2 liters", "usr-001")

	desc := "soy milk"
	updated := orig.WithContent("Buy groceries", &desc)

	assert.Equal(t, "Buy groceries", updated.Title)
	assert.Equal(t, "soy milk", updated.Description)
	assert.Equal(t, orig.OwnerID, updated.OwnerID)
	assert.Equal(t, orig.Status, updated.Status)

	// 原实体不受影响
	assert.Equal(t, "Buy milk", orig.Title)
	assert.Equal(t, "2 liters", orig.Description)
}

// TestTodo_WithContent_NilDescription description 为 nil 时清空描述
func TestTodo_WithContent_NilDescription(t *testing.T) {
	orig := NewTodo("todo-001", "Buy milk", "2 liters", "usr-001")

	updated := orig.WithContent("Buy milk", nil)

	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "", updated.Description)
}

func TestTodo_WithStatus(t *testing.T) {
	orig := NewTodo("todo-001", "Buy milk", "", "usr-001")

	updated := orig.WithStatus(TodoStatusDone)

	assert.Equal(t, TodoStatusDone, updated.Status)
	assert.Equal(t, TodoStatusPending, orig.Status)

	// 任意状态可以回退
	reverted := updated.WithStatus(TodoStatusInProgress)
	assert.Equal(t, TodoStatusInProgress, reverted.Status)
}

func TestTodoStatus_Valid(t *testing.T) {
	assert.True(t, TodoStatusPending.Valid())
	assert.True(t, TodoStatusInProgress.Valid())
	assert.True(t, TodoStatusDone.Valid())
	assert.False(t, TodoStatus("archived").Valid())
	assert.False(t, TodoStatus("").Valid())
}

func TestTodo_JSON(t *testing.T) {
	todo := NewTodo("todo-001", "Buy milk", "2 liters", "usr-001")

	data, err := json.Marshal(todo)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "todo-001", decoded["id"])
	assert.Equal(t, "pending", decoded["status"])
	assert.Equal(t, "usr-001", decoded["owner_id"])
}
