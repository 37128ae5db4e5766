// Package todo 用例单元测试（Mock 隔离存储层）
package todo

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-admin/internal/shared/model"
	"todo-admin/internal/shared/storage"
)

// ============================================================================
// Mock 实现（实现 Store 接口）
// ============================================================================

type mockStore struct {
	todos map[string]*model.Todo
	seq   int // 插入序计数

	// 控制行为
	createErr error
	getErr    error
	updateNil bool // 更新时强制返回 (nil, nil)
	deleteNo  bool // 删除时强制返回 (false, nil)
}

func newMockStore() *mockStore {
	return &mockStore{todos: make(map[string]*model.Todo)}
}

func (m *mockStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	todo.CreatedAt = time.Unix(int64(m.seq), 0)
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockStore) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.todos[id], nil
}

func (m *mockStore) ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	var result []*model.Todo
	for _, td := range m.todos {
		if td.OwnerID == ownerID {
			result = append(result, td)
		}
	}
	sortByInsertion(result)
	return result, nil
}

func (m *mockStore) ListTodos(ctx context.Context) ([]*model.Todo, error) {
	var result []*model.Todo
	for _, td := range m.todos {
		result = append(result, td)
	}
	sortByInsertion(result)
	return result, nil
}

func (m *mockStore) UpdateTodo(ctx context.Context, id string, fields storage.TodoFields) (*model.Todo, error) {
	if m.updateNil {
		return nil, nil
	}
	td, ok := m.todos[id]
	if !ok {
		return nil, nil
	}
	if fields.Title != nil {
		td.Title = *fields.Title
	}
	if fields.Description != nil {
		td.Description = *fields.Description
	}
	if fields.Status != nil {
		td.Status = *fields.Status
	}
	td.UpdatedAt = time.Now()
	return td, nil
}

func (m *mockStore) DeleteTodo(ctx context.Context, id string) (bool, error) {
	if m.deleteNo {
		return false, nil
	}
	if _, ok := m.todos[id]; !ok {
		return false, nil
	}
	delete(m.todos, id)
	return true, nil
}

func sortByInsertion(todos []*model.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})
}

func strPtr(s string) *string { return &s }

func statusPtr(s model.TodoStatus) *model.TodoStatus { return &s }

// ============================================================================
// Create
// ============================================================================

func TestCreate_Basic(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)

	td, err := uc.Create(t.Context(), CreateInput{Title: "Buy milk", OwnerID: "usr-001"})
	require.NoError(t, err)

	assert.NotEmpty(t, td.ID)
	assert.Equal(t, "Buy milk", td.Title)
	assert.Equal(t, "", td.Description)
	assert.Equal(t, model.TodoStatusPending, td.Status)
	assert.Equal(t, "usr-001", td.OwnerID)
	assert.Contains(t, store.todos, td.ID)
}

// TestCreate_NoDomainValidation 形状校验是传输层职责，用例层接受空值
func TestCreate_NoDomainValidation(t *testing.T) {
	uc := NewUseCases(newMockStore())

	td, err := uc.Create(t.Context(), CreateInput{Title: "", OwnerID: ""})
	require.NoError(t, err)
	assert.Equal(t, "", td.Title)
	assert.Equal(t, "", td.OwnerID)
}

func TestCreate_StoreError(t *testing.T) {
	store := newMockStore()
	store.createErr = errors.New("connection reset")
	uc := NewUseCases(store)

	_, err := uc.Create(t.Context(), CreateInput{Title: "Buy milk", OwnerID: "usr-001"})
	require.Error(t, err)
}

// ============================================================================
// Update
// ============================================================================

func seedTodo(t *testing.T, store *mockStore, id, title, desc, owner string) *model.Todo {
	t.Helper()
	td := model.NewTodo(id, title, desc, owner)
	require.NoError(t, store.CreateTodo(t.Context(), td))
	return td
}

func TestUpdate_ContentAndStatus(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "2 liters", "usr-001")

	got, err := uc.Update(t.Context(), UpdateInput{
		ID:          "todo-001",
		Title:       strPtr("Buy groceries"),
		Description: strPtr("milk and bread"),
		Status:      statusPtr(model.TodoStatusInProgress),
		OwnerID:     "usr-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries", got.Title)
	assert.Equal(t, "milk and bread", got.Description)
	assert.Equal(t, model.TodoStatusInProgress, got.Status)
}

// TestUpdate_StatusOnly 只改状态时标题和描述保持原值
func TestUpdate_StatusOnly(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "2 liters", "usr-001")

	got, err := uc.Update(t.Context(), UpdateInput{
		ID:      "todo-001",
		Status:  statusPtr(model.TodoStatusDone),
		OwnerID: "usr-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 liters", got.Description)
	assert.Equal(t, model.TodoStatusDone, got.Status)
}

// TestUpdate_DescriptionOnly 只改描述时标题回落到原值
func TestUpdate_DescriptionOnly(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "2 liters", "usr-001")

	got, err := uc.Update(t.Context(), UpdateInput{
		ID:          "todo-001",
		Description: strPtr("soy milk"),
		OwnerID:     "usr-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "soy milk", got.Description)
}

// TestUpdate_TitleOnlyClearsDescription 只改标题时描述被清空（可置空语义）
func TestUpdate_TitleOnlyClearsDescription(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "2 liters", "usr-001")

	got, err := uc.Update(t.Context(), UpdateInput{
		ID:      "todo-001",
		Title:   strPtr("Buy oat milk"),
		OwnerID: "usr-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "", got.Description)
}

func TestUpdate_NotFound(t *testing.T) {
	uc := NewUseCases(newMockStore())

	_, err := uc.Update(t.Context(), UpdateInput{ID: "todo-missing", OwnerID: "usr-001"})
	require.Error(t, err)
	assert.True(t, errdefs.IsNotFound(err), "want not found, got %v", err)
}

// TestUpdate_NonOwnerForbidden 非属主更新被拒绝，即使所有字段都未设置
// （权限检查先于字段合并）
func TestUpdate_NonOwnerForbidden(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	_, err := uc.Update(t.Context(), UpdateInput{ID: "todo-001", OwnerID: "usr-002"})
	require.Error(t, err)
	assert.True(t, errdefs.IsPermissionDenied(err), "want permission denied, got %v", err)
}

// TestUpdate_AdminDoesNotBypass 管理员同样不能更新别人的待办
func TestUpdate_AdminDoesNotBypass(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	// Update 没有角色参数：属主检查对所有调用方一视同仁
	_, err := uc.Update(t.Context(), UpdateInput{
		ID:      "todo-001",
		Title:   strPtr("hijacked"),
		OwnerID: "usr-admin",
	})
	require.Error(t, err)
	assert.True(t, errdefs.IsPermissionDenied(err))
	assert.Equal(t, "Buy milk", store.todos["todo-001"].Title)
}

// TestUpdate_PersistReportsMissing 持久化未命中任何记录时返回 not found
func TestUpdate_PersistReportsMissing(t *testing.T) {
	store := newMockStore()
	store.updateNil = true
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	_, err := uc.Update(t.Context(), UpdateInput{
		ID:      "todo-001",
		Status:  statusPtr(model.TodoStatusDone),
		OwnerID: "usr-001",
	})
	require.Error(t, err)
	assert.True(t, errdefs.IsNotFound(err))
}

// ============================================================================
// Delete
// ============================================================================

func TestDelete_Owner(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	ok, err := uc.Delete(t.Context(), "todo-001", "usr-001", model.UserRoleUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, store.todos, "todo-001")
}

// TestDelete_AdminOverride 管理员可删除任何人的待办
func TestDelete_AdminOverride(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	ok, err := uc.Delete(t.Context(), "todo-001", "usr-admin", model.UserRoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	_, err := uc.Delete(t.Context(), "todo-001", "usr-002", model.UserRoleUser)
	require.Error(t, err)
	assert.True(t, errdefs.IsPermissionDenied(err), "want permission denied, got %v", err)
	assert.Contains(t, store.todos, "todo-001")
}

func TestDelete_NotFound(t *testing.T) {
	uc := NewUseCases(newMockStore())

	_, err := uc.Delete(t.Context(), "todo-missing", "usr-001", model.UserRoleUser)
	require.Error(t, err)
	assert.True(t, errdefs.IsNotFound(err))
}

// TestDelete_StoreReportsNothingDeleted 存储未删除任何记录时返回 not found 而不是 false
func TestDelete_StoreReportsNothingDeleted(t *testing.T) {
	store := newMockStore()
	store.deleteNo = true
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	ok, err := uc.Delete(t.Context(), "todo-001", "usr-001", model.UserRoleUser)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errdefs.IsNotFound(err))
}

// ============================================================================
// List
// ============================================================================

func TestList_UserSeesOnlyOwn(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "mine 1", "", "usr-001")
	seedTodo(t, store, "todo-002", "theirs", "", "usr-002")
	seedTodo(t, store, "todo-003", "mine 2", "", "usr-001")

	todos, err := uc.List(t.Context(), "usr-001", model.UserRoleUser)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "todo-001", todos[0].ID)
	assert.Equal(t, "todo-003", todos[1].ID)
}

func TestList_AdminSeesAll(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)
	seedTodo(t, store, "todo-001", "a", "", "usr-001")
	seedTodo(t, store, "todo-002", "b", "", "usr-002")

	todos, err := uc.List(t.Context(), "usr-admin", model.UserRoleAdmin)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

// ============================================================================
// 端到端场景（规范场景复现）
// ============================================================================

// TestScenario_FullLifecycle 创建 → 状态更新 → 非属主删除失败 → 管理员删除成功
func TestScenario_FullLifecycle(t *testing.T) {
	store := newMockStore()
	uc := NewUseCases(store)

	// U1 创建
	td, err := uc.Create(t.Context(), CreateInput{Title: "Buy milk", OwnerID: "usr-u1"})
	require.NoError(t, err)
	assert.Equal(t, model.TodoStatusPending, td.Status)
	assert.Equal(t, "usr-u1", td.OwnerID)
	assert.Equal(t, "", td.Description)

	// 状态改为 done，标题不变
	updated, err := uc.Update(t.Context(), UpdateInput{
		ID:      td.ID,
		Status:  statusPtr(model.TodoStatusDone),
		OwnerID: "usr-u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, model.TodoStatusDone, updated.Status)

	// U2（非管理员）删除被拒绝
	_, err = uc.Delete(t.Context(), td.ID, "usr-u2", model.UserRoleUser)
	assert.True(t, errdefs.IsPermissionDenied(err))

	// 管理员删除成功
	ok, err := uc.Delete(t.Context(), td.ID, "usr-admin", model.UserRoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	// 再查已不存在
	got, err := store.GetTodoByID(t.Context(), td.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
